package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/flight-explorer/internal/database"
	"github.com/iliyamo/flight-explorer/internal/model"
)

// RouteRepo encapsulates all queries against the `routes` table.
type RouteRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewRouteRepo constructs a RouteRepo with the provided DB handle.
func NewRouteRepo(db *sql.DB, d database.Dialect) *RouteRepo {
	return &RouteRepo{db: db, dialect: d}
}

const selectRoutes = "SELECT " + routeColumns + " FROM routes WHERE "

// Find runs the query matching the filter's shape.  Filters must already be
// normalized.  Unsupported shapes return ErrUnsupportedFilter without
// touching the database.
func (r *RouteRepo) Find(ctx context.Context, f model.RouteFilter) ([]model.Route, error) {
	switch f.Shape() {
	case model.ShapeAirline:
		return r.list(ctx, selectRoutes+"airline = ?", f.Airline)
	case model.ShapeAirlineAircraft:
		return r.list(ctx, selectRoutes+"airline = ? AND planes LIKE ?", f.Airline, "%"+f.Aircraft+"%")
	case model.ShapeCorridor:
		return r.list(ctx, selectRoutes+"departure = ? AND arrival = ?", f.Departure, f.Arrival)
	case model.ShapeCorridorAirline:
		return r.list(ctx, selectRoutes+"departure = ? AND arrival = ? AND airline = ?", f.Departure, f.Arrival, f.Airline)
	}
	return nil, ErrUnsupportedFilter
}

// ListByAirline returns all routes operated by the airline.
func (r *RouteRepo) ListByAirline(ctx context.Context, airline string) ([]model.Route, error) {
	return r.list(ctx, selectRoutes+"airline = ?", airline)
}

// ListFrom returns all routes departing from the airport.
func (r *RouteRepo) ListFrom(ctx context.Context, departure string) ([]model.Route, error) {
	return r.list(ctx, selectRoutes+"departure = ?", departure)
}

// ListTo returns all routes arriving at the airport.
func (r *RouteRepo) ListTo(ctx context.Context, arrival string) ([]model.Route, error) {
	return r.list(ctx, selectRoutes+"arrival = ?", arrival)
}

// ListCorridor returns all routes on the directed departure→arrival pair.
func (r *RouteRepo) ListCorridor(ctx context.Context, departure, arrival string) ([]model.Route, error) {
	return r.list(ctx, selectRoutes+"departure = ? AND arrival = ?", departure, arrival)
}

// AirlinesOnCorridor returns the distinct airline codes serving the directed
// departure→arrival pair.
func (r *RouteRepo) AirlinesOnCorridor(ctx context.Context, departure, arrival string) ([]string, error) {
	const q = "SELECT DISTINCT airline FROM routes WHERE departure = ? AND arrival = ?"
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(q), departure, arrival)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s rowScanner) (string, error) {
		var code sql.NullString
		if err := s.Scan(&code); err != nil {
			return "", err
		}
		return str(code), nil
	})
}

func (r *RouteRepo) list(ctx context.Context, q string, args ...any) ([]model.Route, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanRoute)
}
