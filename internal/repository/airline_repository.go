package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/flight-explorer/internal/database"
	"github.com/iliyamo/flight-explorer/internal/model"
)

// AirlineRepo encapsulates all queries against the `airlines` table.  Codes
// passed in are expected to be upper-cased by the caller.
type AirlineRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewAirlineRepo constructs an AirlineRepo with the provided DB handle.
func NewAirlineRepo(db *sql.DB, d database.Dialect) *AirlineRepo {
	return &AirlineRepo{db: db, dialect: d}
}

// ListWithIATA returns every airline that has a non-empty IATA code.  Rows
// without one are never part of bulk listings.
func (r *AirlineRepo) ListWithIATA(ctx context.Context) ([]model.Airline, error) {
	const q = "SELECT " + airlineColumns + " FROM airlines WHERE iata IS NOT NULL AND iata != ''"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAirline)
}

// GetByIATA fetches the first airline with the given IATA code.  It returns
// ErrNotFound if no row matches.
func (r *AirlineRepo) GetByIATA(ctx context.Context, iata string) (*model.Airline, error) {
	return r.getOne(ctx, "SELECT "+airlineColumns+" FROM airlines WHERE iata = ?", iata)
}

// GetByICAO fetches the first airline with the given ICAO code.
func (r *AirlineRepo) GetByICAO(ctx context.Context, icao string) (*model.Airline, error) {
	return r.getOne(ctx, "SELECT "+airlineColumns+" FROM airlines WHERE icao = ?", icao)
}

func (r *AirlineRepo) getOne(ctx context.Context, q, arg string) (*model.Airline, error) {
	a, err := scanAirline(r.db.QueryRowContext(ctx, r.dialect.Rebind(q), arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListByCountryCode returns airlines registered in the country with the given
// code.  The join is on the country *name*, which is how the reference data
// links the two tables.
func (r *AirlineRepo) ListByCountryCode(ctx context.Context, code string) ([]model.Airline, error) {
	const q = `SELECT a.name, a.iata, a.icao, a.callsign, a.country
	           FROM airlines a
	           JOIN countries c ON a.country = c.name
	           WHERE c.code = ?`
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(q), code)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAirline)
}
