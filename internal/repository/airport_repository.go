package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/flight-explorer/internal/database"
	"github.com/iliyamo/flight-explorer/internal/model"
)

// AirportRepo encapsulates all queries against the `airports` table.
type AirportRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewAirportRepo constructs an AirportRepo with the provided DB handle.
func NewAirportRepo(db *sql.DB, d database.Dialect) *AirportRepo {
	return &AirportRepo{db: db, dialect: d}
}

// ListWithIATA returns every airport that has an IATA code, with or without
// coordinates.
func (r *AirportRepo) ListWithIATA(ctx context.Context) ([]model.Airport, error) {
	const q = "SELECT " + airportColumns + " FROM airports WHERE iata IS NOT NULL AND iata != ''"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAirport)
}

// ListMappable returns airports that have an IATA code and both coordinates,
// i.e. everything that can be drawn on the map.
func (r *AirportRepo) ListMappable(ctx context.Context) ([]model.Airport, error) {
	const q = `SELECT ` + airportColumns + `
	           FROM airports
	           WHERE iata IS NOT NULL AND iata != ''
	             AND latitude IS NOT NULL AND longitude IS NOT NULL`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAirport)
}

// GetByIATA fetches an airport by IATA code or returns ErrNotFound.
func (r *AirportRepo) GetByIATA(ctx context.Context, iata string) (*model.Airport, error) {
	return r.getOne(ctx, "SELECT "+airportColumns+" FROM airports WHERE iata = ?", iata)
}

// GetByICAO fetches an airport by ICAO code or returns ErrNotFound.
func (r *AirportRepo) GetByICAO(ctx context.Context, icao string) (*model.Airport, error) {
	return r.getOne(ctx, "SELECT "+airportColumns+" FROM airports WHERE icao = ?", icao)
}

func (r *AirportRepo) getOne(ctx context.Context, q, arg string) (*model.Airport, error) {
	a, err := scanAirport(r.db.QueryRowContext(ctx, r.dialect.Rebind(q), arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListByCountryCode returns airports with an IATA code located in the country
// with the given code, joined by country name.
func (r *AirportRepo) ListByCountryCode(ctx context.Context, code string) ([]model.Airport, error) {
	const q = `SELECT a.name, a.city, a.country, a.iata, a.icao, a.latitude, a.longitude
	           FROM airports a
	           JOIN countries c ON a.country = c.name
	           WHERE c.code = ? AND a.iata IS NOT NULL AND a.iata != ''`
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(q), code)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAirport)
}
