package repository

import (
	"database/sql"
	"strings"

	"github.com/iliyamo/flight-explorer/internal/model"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func str(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return strings.TrimSpace(ns.String)
}

func float(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

const airlineColumns = "name, iata, icao, callsign, country"

func scanAirline(s rowScanner) (model.Airline, error) {
	var name, iata, icao, callsign, country sql.NullString
	if err := s.Scan(&name, &iata, &icao, &callsign, &country); err != nil {
		return model.Airline{}, err
	}
	return model.Airline{
		Name:     str(name),
		IATA:     str(iata),
		ICAO:     str(icao),
		Callsign: str(callsign),
		Country:  str(country),
	}, nil
}

const airportColumns = "name, city, country, iata, icao, latitude, longitude"

func scanAirport(s rowScanner) (model.Airport, error) {
	var name, city, country, iata, icao sql.NullString
	var lat, lon sql.NullFloat64
	if err := s.Scan(&name, &city, &country, &iata, &icao, &lat, &lon); err != nil {
		return model.Airport{}, err
	}
	return model.Airport{
		Name:      str(name),
		City:      str(city),
		Country:   str(country),
		IATA:      str(iata),
		ICAO:      str(icao),
		Latitude:  float(lat),
		Longitude: float(lon),
	}, nil
}

const routeColumns = "airline, departure, arrival, planes"

func scanRoute(s rowScanner) (model.Route, error) {
	var airline, dep, arr, planes sql.NullString
	if err := s.Scan(&airline, &dep, &arr, &planes); err != nil {
		return model.Route{}, err
	}
	return model.Route{
		Airline:   str(airline),
		Departure: str(dep),
		Arrival:   str(arr),
		Planes:    str(planes),
	}, nil
}

// collect drains rows through scan, always closing rows.
func collect[T any](rows *sql.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
