package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/flight-explorer/internal/database"
	"github.com/iliyamo/flight-explorer/internal/model"
)

// Store bundles the table repositories behind the method set the resolver,
// the reference snapshot loader and the handlers consume.
type Store struct {
	Countries *CountryRepo
	Airlines  *AirlineRepo
	Airports  *AirportRepo
	Routes    *RouteRepo
}

// NewStore wires every repository to the same DB handle.
func NewStore(db *sql.DB, d database.Dialect) *Store {
	return &Store{
		Countries: NewCountryRepo(db, d),
		Airlines:  NewAirlineRepo(db, d),
		Airports:  NewAirportRepo(db, d),
		Routes:    NewRouteRepo(db, d),
	}
}

// ListCountries returns every country ordered by name.
func (s *Store) ListCountries(ctx context.Context) ([]model.Country, error) {
	return s.Countries.ListAll(ctx)
}

// ListAirlinesWithIATA returns airlines usable by IATA-based lookups.
func (s *Store) ListAirlinesWithIATA(ctx context.Context) ([]model.Airline, error) {
	return s.Airlines.ListWithIATA(ctx)
}

// ListAirportsWithIATA returns airports usable by IATA-based lookups.
func (s *Store) ListAirportsWithIATA(ctx context.Context) ([]model.Airport, error) {
	return s.Airports.ListWithIATA(ctx)
}

func (s *Store) AirlinesByCountry(ctx context.Context, countryCode string) ([]model.Airline, error) {
	return s.Airlines.ListByCountryCode(ctx, countryCode)
}

func (s *Store) AirportsByCountry(ctx context.Context, countryCode string) ([]model.Airport, error) {
	return s.Airports.ListByCountryCode(ctx, countryCode)
}

// AirportByIATA returns nil, nil when no airport has the code.
func (s *Store) AirportByIATA(ctx context.Context, iata string) (*model.Airport, error) {
	return nilIfNotFound(s.Airports.GetByIATA(ctx, iata))
}

// AirportByICAO returns nil, nil when no airport has the code.
func (s *Store) AirportByICAO(ctx context.Context, icao string) (*model.Airport, error) {
	return nilIfNotFound(s.Airports.GetByICAO(ctx, icao))
}

// AirlineByIATA returns nil, nil when no airline has the code.
func (s *Store) AirlineByIATA(ctx context.Context, iata string) (*model.Airline, error) {
	return nilIfNotFound(s.Airlines.GetByIATA(ctx, iata))
}

// AirlineByICAO returns nil, nil when no airline has the code.
func (s *Store) AirlineByICAO(ctx context.Context, icao string) (*model.Airline, error) {
	return nilIfNotFound(s.Airlines.GetByICAO(ctx, icao))
}

func (s *Store) MappableAirports(ctx context.Context) ([]model.Airport, error) {
	return s.Airports.ListMappable(ctx)
}

func (s *Store) FindRoutes(ctx context.Context, f model.RouteFilter) ([]model.Route, error) {
	return s.Routes.Find(ctx, f)
}

func (s *Store) RoutesByAirline(ctx context.Context, airline string) ([]model.Route, error) {
	return s.Routes.ListByAirline(ctx, airline)
}

func (s *Store) RoutesFrom(ctx context.Context, departure string) ([]model.Route, error) {
	return s.Routes.ListFrom(ctx, departure)
}

func (s *Store) RoutesTo(ctx context.Context, arrival string) ([]model.Route, error) {
	return s.Routes.ListTo(ctx, arrival)
}

func (s *Store) RoutesBetween(ctx context.Context, departure, arrival string) ([]model.Route, error) {
	return s.Routes.ListCorridor(ctx, departure, arrival)
}

func (s *Store) AirlinesOnCorridor(ctx context.Context, departure, arrival string) ([]string, error) {
	return s.Routes.AirlinesOnCorridor(ctx, departure, arrival)
}

func nilIfNotFound[T any](v *T, err error) (*T, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return v, err
}
