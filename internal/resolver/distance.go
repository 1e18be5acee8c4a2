package resolver

import (
	"math"

	"github.com/iliyamo/flight-explorer/internal/model"
)

// EarthRadiusKm is the fixed radius used for every distance the service reports.
const EarthRadiusKm = 6378.0

// Haversine returns the great-circle distance in kilometres between two
// points given in degrees.  When floating-point error pushes the haversine
// term to 1 or above the central angle is taken as 0, so the result is
// never NaN.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const deg2rad = math.Pi / 180.0

	dLat := (lat2 - lat1) * deg2rad
	dLon := (lon2 - lon1) * deg2rad
	lat1r := lat1 * deg2rad
	lat2r := lat2 * deg2rad

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)
	a := sinDLat*sinDLat + math.Cos(lat1r)*math.Cos(lat2r)*sinDLon*sinDLon
	if a >= 1 {
		return 0
	}
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// AirportDistance returns the distance between two airports rounded to two
// decimals.  ok is false when either airport lacks coordinates.
func AirportDistance(from, to model.Airport) (km float64, ok bool) {
	if !from.HasCoordinates() || !to.HasCoordinates() {
		return 0, false
	}
	d := Haversine(*from.Latitude, *from.Longitude, *to.Latitude, *to.Longitude)
	return round2(d), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
