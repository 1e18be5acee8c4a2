// Package resolver turns a query kind and one or two reference codes into the
// canonical row store lookups, validates the codes against the reference
// snapshot first, and post-processes the rows (deduplication, airline
// enrichment, great-circle distance) into a Result envelope.
//
// The resolver keeps no state between calls.  Reads that a single query
// needs are issued concurrently; the first failure cancels the rest and the
// call fails with ErrUpstreamUnavailable.
package resolver

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/flight-explorer/internal/model"
	"github.com/iliyamo/flight-explorer/internal/refdata"
)

// RowStore is the read side of the relational store.  Codes are passed
// upper-cased.  AirportByIATA returns nil, nil when no row matches.
type RowStore interface {
	AirlinesByCountry(ctx context.Context, countryCode string) ([]model.Airline, error)
	AirportsByCountry(ctx context.Context, countryCode string) ([]model.Airport, error)
	AirportByIATA(ctx context.Context, iata string) (*model.Airport, error)
	FindRoutes(ctx context.Context, f model.RouteFilter) ([]model.Route, error)
	RoutesByAirline(ctx context.Context, airline string) ([]model.Route, error)
	RoutesFrom(ctx context.Context, departure string) ([]model.Route, error)
	RoutesTo(ctx context.Context, arrival string) ([]model.Route, error)
	RoutesBetween(ctx context.Context, departure, arrival string) ([]model.Route, error)
	AirlinesOnCorridor(ctx context.Context, departure, arrival string) ([]string, error)
}

// WeatherProvider returns today's forecast for a coordinate.
type WeatherProvider interface {
	Forecast(ctx context.Context, lat, lon float64) (*model.Weather, error)
}

// SnapshotSource hands out the reference snapshot to validate against.
// *refdata.Holder satisfies it.
type SnapshotSource interface {
	Current() *refdata.Snapshot
}

// Resolver answers Query values.  It is safe for concurrent use.
type Resolver struct {
	store     RowStore
	snapshots SnapshotSource
	weather   WeatherProvider
}

// Option configures optional collaborators.
type Option func(*Resolver)

// WithWeather enables weather enrichment of airportDetails results.
func WithWeather(w WeatherProvider) Option {
	return func(r *Resolver) { r.weather = w }
}

// New builds a Resolver over store, validating codes against snapshots.
func New(store RowStore, snapshots SnapshotSource, opts ...Option) *Resolver {
	r := &Resolver{store: store, snapshots: snapshots}
	for _, o := range opts {
		o(r)
	}
	return r
}

type handlerFunc func(r *Resolver, ctx context.Context, snap *refdata.Snapshot, code1, code2 string) (*Result, error)

var handlers = map[Kind]handlerFunc{
	KindByCountry:      (*Resolver).byCountry,
	KindByAirline:      (*Resolver).byAirline,
	KindAirportDetails: (*Resolver).airportDetails,
	KindRoutesFrom:     (*Resolver).routesFrom,
	KindRoutesTo:       (*Resolver).routesTo,
	KindAirlinesToFrom: (*Resolver).airlinesToFrom,
	KindBetween:        (*Resolver).between,
	KindDistance:       (*Resolver).distance,
}

// Resolve validates q and runs the lookup for its kind.
func (r *Resolver) Resolve(ctx context.Context, q Query) (*Result, error) {
	h, ok := handlers[q.Kind]
	if !ok {
		return nil, invalid("unsupported query kind; expected one of %v", KindNames())
	}
	snap, err := r.snapshot()
	if err != nil {
		return nil, err
	}
	code1, code2, err := validate(snap, q)
	if err != nil {
		return nil, err
	}
	return h(r, ctx, snap, code1, code2)
}

// Snapshot returns the reference snapshot the resolver validates against.
func (r *Resolver) Snapshot() (*refdata.Snapshot, error) {
	return r.snapshot()
}

func (r *Resolver) snapshot() (*refdata.Snapshot, error) {
	snap := r.snapshots.Current()
	if snap == nil {
		return nil, upstream("reference data", refdata.ErrNotLoaded)
	}
	return snap, nil
}

// validate normalizes the codes and checks them against the snapshot before
// any row store call.
func validate(snap *refdata.Snapshot, q Query) (string, string, error) {
	info := kinds[q.Kind]
	code1 := refdata.Normalize(q.Code1)
	if code1 == "" {
		return "", "", invalid("%s requires a code", info.name)
	}
	var code2 string
	if info.twoCodes {
		code2 = refdata.Normalize(q.Code2)
		if code2 == "" {
			return "", "", invalid("%s requires a second airport code", info.name)
		}
		if code1 == code2 {
			return "", "", invalid("departure and arrival airports cannot be the same")
		}
	}

	switch info.table {
	case countryCode:
		if _, ok := snap.Country(code1); !ok {
			return "", "", unknown(TableCountries, code1)
		}
	case airlineCode:
		if _, ok := snap.Airline(code1); !ok {
			return "", "", unknown(TableAirlines, code1)
		}
	case airportCode:
		if _, ok := snap.Airport(code1); !ok {
			return "", "", unknown(TableAirports, code1)
		}
		if info.twoCodes {
			if _, ok := snap.Airport(code2); !ok {
				return "", "", unknown(TableAirports, code2)
			}
		}
	}
	return code1, code2, nil
}

func (r *Resolver) byCountry(ctx context.Context, snap *refdata.Snapshot, code, _ string) (*Result, error) {
	res := newResult(KindByCountry)
	country, _ := snap.Country(code)
	res.Country = &country

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		airlines, err := r.store.AirlinesByCountry(gctx, code)
		if err != nil {
			return upstream("airlines by country", err)
		}
		res.Airlines = airlines
		return nil
	})
	g.Go(func() error {
		airports, err := r.store.AirportsByCountry(gctx, code)
		if err != nil {
			return upstream("airports by country", err)
		}
		res.Airports = airports
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Resolver) byAirline(ctx context.Context, snap *refdata.Snapshot, code, _ string) (*Result, error) {
	routes, err := r.store.RoutesByAirline(ctx, code)
	if err != nil {
		return nil, upstream("routes by airline", err)
	}
	res := newResult(KindByAirline)
	res.Routes = routes
	codes := make([]string, 0, 2*len(routes))
	for _, rt := range routes {
		codes = append(codes, rt.Departure, rt.Arrival)
	}
	res.Airports = airportsFor(snap, distinct(codes))
	return res, nil
}

func (r *Resolver) airportDetails(ctx context.Context, _ *refdata.Snapshot, code, _ string) (*Result, error) {
	ap, err := r.store.AirportByIATA(ctx, code)
	if err != nil {
		return nil, upstream("airport by iata", err)
	}
	if ap == nil {
		return nil, unknown(TableAirports, code)
	}
	if r.weather != nil && ap.HasCoordinates() {
		w, err := r.weather.Forecast(ctx, *ap.Latitude, *ap.Longitude)
		if err != nil {
			log.Printf("resolver: weather for %s unavailable: %v", code, err)
		} else {
			ap.Weather = w
		}
	}
	res := newResult(KindAirportDetails)
	res.Airport = ap
	return res, nil
}

func (r *Resolver) routesFrom(ctx context.Context, snap *refdata.Snapshot, code, _ string) (*Result, error) {
	routes, err := r.store.RoutesFrom(ctx, code)
	if err != nil {
		return nil, upstream("routes from", err)
	}
	res := newResult(KindRoutesFrom)
	res.Routes = routes
	res.Origin = snapshotAirport(snap, code)
	arrivals := make([]string, 0, len(routes))
	for _, rt := range routes {
		arrivals = append(arrivals, rt.Arrival)
	}
	res.Airports = airportsFor(snap, distinct(arrivals))
	return res, nil
}

func (r *Resolver) routesTo(ctx context.Context, snap *refdata.Snapshot, code, _ string) (*Result, error) {
	routes, err := r.store.RoutesTo(ctx, code)
	if err != nil {
		return nil, upstream("routes to", err)
	}
	res := newResult(KindRoutesTo)
	res.Routes = routes
	res.Destination = snapshotAirport(snap, code)
	departures := make([]string, 0, len(routes))
	for _, rt := range routes {
		departures = append(departures, rt.Departure)
	}
	res.Airports = airportsFor(snap, distinct(departures))
	return res, nil
}

func (r *Resolver) airlinesToFrom(ctx context.Context, snap *refdata.Snapshot, code, _ string) (*Result, error) {
	var from, to []model.Route
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if from, err = r.store.RoutesFrom(gctx, code); err != nil {
			return upstream("routes from", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if to, err = r.store.RoutesTo(gctx, code); err != nil {
			return upstream("routes to", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(from)+len(to))
	for _, rt := range from {
		codes = append(codes, rt.Airline)
	}
	for _, rt := range to {
		codes = append(codes, rt.Airline)
	}
	res := newResult(KindAirlinesToFrom)
	res.Airport = snapshotAirport(snap, code)
	res.Airlines = airlinesFor(snap, distinct(codes))
	return res, nil
}

func (r *Resolver) between(ctx context.Context, snap *refdata.Snapshot, dep, arr string) (*Result, error) {
	routes, err := r.store.RoutesBetween(ctx, dep, arr)
	if err != nil {
		return nil, upstream("routes between", err)
	}
	codes := make([]string, 0, len(routes))
	for _, rt := range routes {
		codes = append(codes, rt.Airline)
	}
	res := newResult(KindBetween)
	res.Routes = routes
	res.Origin = snapshotAirport(snap, dep)
	res.Destination = snapshotAirport(snap, arr)
	res.Airlines = airlinesFor(snap, distinct(codes))
	return res, nil
}

func (r *Resolver) distance(ctx context.Context, snap *refdata.Snapshot, dep, arr string) (*Result, error) {
	var (
		from, to *model.Airport
		codes    []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if from, err = r.store.AirportByIATA(gctx, dep); err != nil {
			return upstream("departure airport", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if to, err = r.store.AirportByIATA(gctx, arr); err != nil {
			return upstream("arrival airport", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if codes, err = r.store.AirlinesOnCorridor(gctx, dep, arr); err != nil {
			return upstream("airlines on corridor", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if from == nil {
		return nil, unknown(TableAirports, dep)
	}
	if to == nil {
		return nil, unknown(TableAirports, arr)
	}
	km, ok := AirportDistance(*from, *to)
	if !ok {
		missing := dep
		if from.HasCoordinates() {
			missing = arr
		}
		return nil, incomplete("airport %s has no stored coordinates; distance unavailable", missing)
	}

	res := newResult(KindDistance)
	res.Origin = from
	res.Destination = to
	res.DistanceKm = &km
	res.Airlines = airlinesFor(snap, distinct(codes))
	return res, nil
}

// Routes runs a filtered route lookup.  Only the four combinations of
// model.RouteFilter.Shape are accepted; anything else is rejected before the
// store is called.
func (r *Resolver) Routes(ctx context.Context, f model.RouteFilter) ([]model.Route, error) {
	f = f.Normalize()
	if f.Shape() == model.ShapeUnsupported {
		return nil, invalid("invalid combination. Provide: %s", model.SupportedRouteFilters)
	}
	snap, err := r.snapshot()
	if err != nil {
		return nil, err
	}
	if f.Airline != "" {
		if _, ok := snap.Airline(f.Airline); !ok {
			return nil, unknown(TableAirlines, f.Airline)
		}
	}
	for _, code := range []string{f.Departure, f.Arrival} {
		if code == "" {
			continue
		}
		if _, ok := snap.Airport(code); !ok {
			return nil, unknown(TableAirports, code)
		}
	}
	routes, err := r.store.FindRoutes(ctx, f)
	if err != nil {
		return nil, upstream("find routes", err)
	}
	return routes, nil
}
