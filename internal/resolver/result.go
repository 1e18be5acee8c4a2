package resolver

import (
	"encoding/json"

	"github.com/iliyamo/flight-explorer/internal/model"
)

// JSON field names of the result envelope.
const (
	fieldCountry     = "country"
	fieldRoutes      = "routes"
	fieldAirports    = "airports"
	fieldAirlines    = "airlines"
	fieldAirport     = "airport"
	fieldOrigin      = "origin"
	fieldDestination = "destination"
	fieldDistance    = "distance_km"
)

// Query is one resolve request.  Code2 is only read by two-code kinds.
type Query struct {
	Kind  Kind
	Code1 string
	Code2 string
}

// Result is the envelope handed to the presentation client.  Which fields are
// meaningful depends on Kind; MarshalJSON emits exactly those fields, with
// empty lists as [] rather than omitted.
type Result struct {
	Kind        Kind
	Country     *model.Country
	Routes      []model.Route
	Airports    []model.Airport
	Airlines    []model.Airline
	Airport     *model.Airport
	Origin      *model.Airport
	Destination *model.Airport
	DistanceKm  *float64
}

func newResult(k Kind) *Result {
	r := &Result{Kind: k}
	for _, f := range kinds[k].fields {
		switch f {
		case fieldRoutes:
			r.Routes = []model.Route{}
		case fieldAirports:
			r.Airports = []model.Airport{}
		case fieldAirlines:
			r.Airlines = []model.Airline{}
		}
	}
	return r
}

// AirlineCodes returns the IATA codes of r.Airlines in order.
func (r *Result) AirlineCodes() []string {
	out := make([]string, 0, len(r.Airlines))
	for _, a := range r.Airlines {
		out = append(out, a.IATA)
	}
	return out
}

func (r *Result) MarshalJSON() ([]byte, error) {
	m := map[string]any{"kind": r.Kind.String()}
	for _, f := range kinds[r.Kind].fields {
		switch f {
		case fieldCountry:
			m[f] = r.Country
		case fieldRoutes:
			m[f] = nonNil(r.Routes)
		case fieldAirports:
			m[f] = nonNil(r.Airports)
		case fieldAirlines:
			m[f] = nonNil(r.Airlines)
		case fieldAirport:
			m[f] = r.Airport
		case fieldOrigin:
			m[f] = r.Origin
		case fieldDestination:
			m[f] = r.Destination
		case fieldDistance:
			m[f] = r.DistanceKm
		}
	}
	return json.Marshal(m)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
