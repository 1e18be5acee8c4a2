package model

import "strings"

// Route is a directed, airline-operated service between two airports.  The
// `routes` table has no unique key: the same (airline, departure, arrival)
// triple may appear several times with different aircraft.
type Route struct {
	Airline   string `json:"airline"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	Planes    string `json:"planes"`
}

// RouteFilter carries the optional filters accepted by the route lookup.
// Only some combinations are meaningful; see RouteFilter.Shape.
type RouteFilter struct {
	Airline   string
	Aircraft  string
	Departure string
	Arrival   string
}

// RouteShape names a supported combination of RouteFilter fields.
type RouteShape int

const (
	ShapeUnsupported           RouteShape = iota
	ShapeAirline                          // airline
	ShapeAirlineAircraft                  // airline + aircraft substring
	ShapeCorridor                         // departure + arrival
	ShapeCorridorAirline                  // departure + arrival + airline
)

// SupportedRouteFilters is the human readable list of accepted combinations.
const SupportedRouteFilters = "'airline' OR 'airline'+'aircraft' OR 'departure'+'arrival' OR 'departure'+'arrival'+'airline'"

// Normalize trims every filter and upper-cases them.
func (f RouteFilter) Normalize() RouteFilter {
	return RouteFilter{
		Airline:   strings.ToUpper(strings.TrimSpace(f.Airline)),
		Aircraft:  strings.ToUpper(strings.TrimSpace(f.Aircraft)),
		Departure: strings.ToUpper(strings.TrimSpace(f.Departure)),
		Arrival:   strings.ToUpper(strings.TrimSpace(f.Arrival)),
	}
}

// Shape classifies which filters are present.  Any combination outside the
// four supported ones is ShapeUnsupported; partial matches are never tried.
func (f RouteFilter) Shape() RouteShape {
	airline, aircraft := f.Airline != "", f.Aircraft != ""
	dep, arr := f.Departure != "", f.Arrival != ""
	switch {
	case airline && !aircraft && !dep && !arr:
		return ShapeAirline
	case airline && aircraft && !dep && !arr:
		return ShapeAirlineAircraft
	case !airline && !aircraft && dep && arr:
		return ShapeCorridor
	case airline && !aircraft && dep && arr:
		return ShapeCorridorAirline
	}
	return ShapeUnsupported
}
