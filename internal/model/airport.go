package model

// Airport represents a row in the `airports` table.  Latitude and Longitude
// are nil when the source row has no coordinates; such airports are still
// listed but cannot be plotted or used for distance calculations.
type Airport struct {
	Name      string   `json:"name"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
	IATA      string   `json:"iata"`
	ICAO      string   `json:"icao"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Weather   *Weather `json:"weather,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (a Airport) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// Weather is today's forecast for an airport's coordinates.
type Weather struct {
	High float64 `json:"high"`
	Low  float64 `json:"low"`
	Unit string  `json:"unit"`
}
