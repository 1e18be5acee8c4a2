package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-explorer/internal/model"
	"github.com/iliyamo/flight-explorer/internal/refdata"
)

// fakeStore is an in-memory RowStore over a fixed table set.  It records
// every call so tests can assert that validation failures never reach it.
type fakeStore struct {
	mu       sync.Mutex
	airlines []model.Airline
	airports []model.Airport
	routes   []model.Route
	calls    []string
	failOn   map[string]error
}

func (f *fakeStore) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	return f.failOn[op]
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var countryNames = map[string]string{"US": "United States", "GB": "United Kingdom", "IS": "Iceland"}

func (f *fakeStore) AirlinesByCountry(_ context.Context, code string) ([]model.Airline, error) {
	if err := f.record("AirlinesByCountry"); err != nil {
		return nil, err
	}
	out := []model.Airline{}
	for _, a := range f.airlines {
		if a.Country == countryNames[code] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) AirportsByCountry(_ context.Context, code string) ([]model.Airport, error) {
	if err := f.record("AirportsByCountry"); err != nil {
		return nil, err
	}
	out := []model.Airport{}
	for _, a := range f.airports {
		if a.Country == countryNames[code] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) AirportByIATA(_ context.Context, iata string) (*model.Airport, error) {
	if err := f.record("AirportByIATA"); err != nil {
		return nil, err
	}
	for _, a := range f.airports {
		if a.IATA == iata {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) routesWhere(op string, keep func(model.Route) bool) ([]model.Route, error) {
	if err := f.record(op); err != nil {
		return nil, err
	}
	out := []model.Route{}
	for _, r := range f.routes {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) FindRoutes(_ context.Context, flt model.RouteFilter) ([]model.Route, error) {
	return f.routesWhere("FindRoutes", func(r model.Route) bool {
		return (flt.Airline == "" || r.Airline == flt.Airline) &&
			(flt.Departure == "" || r.Departure == flt.Departure) &&
			(flt.Arrival == "" || r.Arrival == flt.Arrival)
	})
}

func (f *fakeStore) RoutesByAirline(_ context.Context, airline string) ([]model.Route, error) {
	return f.routesWhere("RoutesByAirline", func(r model.Route) bool { return r.Airline == airline })
}

func (f *fakeStore) RoutesFrom(_ context.Context, dep string) ([]model.Route, error) {
	return f.routesWhere("RoutesFrom", func(r model.Route) bool { return r.Departure == dep })
}

func (f *fakeStore) RoutesTo(_ context.Context, arr string) ([]model.Route, error) {
	return f.routesWhere("RoutesTo", func(r model.Route) bool { return r.Arrival == arr })
}

func (f *fakeStore) RoutesBetween(_ context.Context, dep, arr string) ([]model.Route, error) {
	return f.routesWhere("RoutesBetween", func(r model.Route) bool { return r.Departure == dep && r.Arrival == arr })
}

func (f *fakeStore) AirlinesOnCorridor(_ context.Context, dep, arr string) ([]string, error) {
	routes, err := f.routesWhere("AirlinesOnCorridor", func(r model.Route) bool { return r.Departure == dep && r.Arrival == arr })
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(routes))
	for _, r := range routes {
		codes = append(codes, r.Airline)
	}
	return codes, nil
}

type fakeWeather struct {
	w   *model.Weather
	err error
}

func (f fakeWeather) Forecast(context.Context, float64, float64) (*model.Weather, error) {
	return f.w, f.err
}

func fixture() (*fakeStore, *refdata.Holder) {
	store := &fakeStore{
		airlines: []model.Airline{
			{Name: "American Airlines", IATA: "AA", Country: "United States"},
			{Name: "British Airways", IATA: "BA", Country: "United Kingdom"},
			{Name: "Icelandair", IATA: "FI", Country: "Iceland"},
			{Name: "Quiet Air", IATA: "QA", Country: "Iceland"},
		},
		airports: []model.Airport{
			{Name: "John F Kennedy International Airport", Country: "United States", IATA: "JFK", Latitude: ptr(40.6413), Longitude: ptr(-73.7781)},
			{Name: "Los Angeles International Airport", Country: "United States", IATA: "LAX", Latitude: ptr(33.9416), Longitude: ptr(-118.4085)},
			{Name: "London Heathrow Airport", Country: "United Kingdom", IATA: "LHR", Latitude: ptr(51.4700), Longitude: ptr(-0.4543)},
			{Name: "Keflavik International Airport", Country: "Iceland", IATA: "KEF", Latitude: ptr(63.985), Longitude: ptr(-22.6056)},
			{Name: "Nowhere Field", Country: "United States", IATA: "NWH"},
		},
		routes: []model.Route{
			{Airline: "AA", Departure: "JFK", Arrival: "LHR", Planes: "777"},
			{Airline: "BA", Departure: "JFK", Arrival: "LHR", Planes: "744"},
			{Airline: "AA", Departure: "JFK", Arrival: "LHR", Planes: "738"},
			{Airline: "AA", Departure: "JFK", Arrival: "LAX", Planes: "321"},
			{Airline: "BA", Departure: "LHR", Arrival: "JFK", Planes: "744"},
			{Airline: "FI", Departure: "KEF", Arrival: "JFK", Planes: "757"},
			{Airline: "XX", Departure: "JFK", Arrival: "ZZZ", Planes: "320"},
			{Airline: "AA", Departure: "JFK", Arrival: "NWH", Planes: "E75"},
		},
	}
	countries := []model.Country{{Name: "United States", Code: "US"}, {Name: "United Kingdom", Code: "GB"}, {Name: "Iceland", Code: "IS"}}
	snap := refdata.NewSnapshot(countries, store.airlines, store.airports)
	return store, refdata.Static(snap)
}

func newTestResolver(opts ...Option) (*Resolver, *fakeStore) {
	store, holder := fixture()
	return New(store, holder, opts...), store
}

func iataOf(airports []model.Airport) []string {
	out := make([]string, 0, len(airports))
	for _, a := range airports {
		out = append(out, a.IATA)
	}
	return out
}

func TestValidationFailsBeforeStore(t *testing.T) {
	cases := []struct {
		name  string
		q     Query
		want  error
		table string
	}{
		{"missing code", Query{Kind: KindRoutesFrom}, ErrInvalidInput, ""},
		{"blank code", Query{Kind: KindByAirline, Code1: "  "}, ErrInvalidInput, ""},
		{"missing second code", Query{Kind: KindBetween, Code1: "JFK"}, ErrInvalidInput, ""},
		{"equal codes", Query{Kind: KindBetween, Code1: "JFK", Code2: "JFK"}, ErrInvalidInput, ""},
		{"equal codes ignoring case", Query{Kind: KindDistance, Code1: "jfk", Code2: "JFK"}, ErrInvalidInput, ""},
		{"unknown second airport", Query{Kind: KindBetween, Code1: "JFK", Code2: "ZZZ"}, ErrUnknownCode, TableAirports},
		{"unknown first airport", Query{Kind: KindDistance, Code1: "ZZZ", Code2: "JFK"}, ErrUnknownCode, TableAirports},
		{"unknown country", Query{Kind: KindByCountry, Code1: "XX"}, ErrUnknownCode, TableCountries},
		{"unknown airline", Query{Kind: KindByAirline, Code1: "XX"}, ErrUnknownCode, TableAirlines},
		{"unknown airport", Query{Kind: KindAirportDetails, Code1: "ZZZ"}, ErrUnknownCode, TableAirports},
		{"unknown kind", Query{Kind: Kind(99), Code1: "JFK"}, ErrInvalidInput, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, store := newTestResolver()
			_, err := r.Resolve(context.Background(), tc.q)
			require.ErrorIs(t, err, tc.want)
			if tc.table != "" {
				var uce *UnknownCodeError
				require.ErrorAs(t, err, &uce)
				assert.Equal(t, tc.table, uce.Table)
			}
			assert.Zero(t, store.callCount(), "no row store call on invalid input")
		})
	}
}

func TestUnknownCodeErrorNamesCode(t *testing.T) {
	r, _ := newTestResolver()
	_, err := r.Resolve(context.Background(), Query{Kind: KindBetween, Code1: "jfk", Code2: "zzz"})
	var uce *UnknownCodeError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, "ZZZ", uce.Code)
	assert.Contains(t, err.Error(), "ZZZ")
}

func TestByCountry(t *testing.T) {
	r, store := newTestResolver()
	res, err := r.Resolve(context.Background(), Query{Kind: KindByCountry, Code1: "us"})
	require.NoError(t, err)
	require.NotNil(t, res.Country)
	assert.Equal(t, "United States", res.Country.Name)
	require.Len(t, res.Airlines, 1)
	assert.Equal(t, "AA", res.Airlines[0].IATA)
	assert.ElementsMatch(t, []string{"JFK", "LAX", "NWH"}, iataOf(res.Airports))
	assert.ElementsMatch(t, []string{"AirlinesByCountry", "AirportsByCountry"}, store.calls)
}

func TestByAirline(t *testing.T) {
	r, _ := newTestResolver()
	res, err := r.Resolve(context.Background(), Query{Kind: KindByAirline, Code1: "aa"})
	require.NoError(t, err)
	assert.Len(t, res.Routes, 4)
	assert.ElementsMatch(t, []string{"JFK", "LHR", "LAX", "NWH"}, iataOf(res.Airports))
}

func TestByAirlineWithoutRoutes(t *testing.T) {
	r, _ := newTestResolver()
	res, err := r.Resolve(context.Background(), Query{Kind: KindByAirline, Code1: "QA"})
	require.NoError(t, err)
	assert.NotNil(t, res.Routes)
	assert.Empty(t, res.Routes)
	assert.NotNil(t, res.Airports)
	assert.Empty(t, res.Airports)
}

func TestAirportDetailsWithWeather(t *testing.T) {
	w := &model.Weather{High: 21.5, Low: 12.1, Unit: "C"}
	r, _ := newTestResolver(WithWeather(fakeWeather{w: w}))
	res, err := r.Resolve(context.Background(), Query{Kind: KindAirportDetails, Code1: "lhr"})
	require.NoError(t, err)
	require.NotNil(t, res.Airport)
	assert.Equal(t, "London Heathrow Airport", res.Airport.Name)
	assert.Equal(t, w, res.Airport.Weather)
}

func TestAirportDetailsWeatherFailureIsNotFatal(t *testing.T) {
	r, _ := newTestResolver(WithWeather(fakeWeather{err: errors.New("timeout")}))
	res, err := r.Resolve(context.Background(), Query{Kind: KindAirportDetails, Code1: "LHR"})
	require.NoError(t, err)
	require.NotNil(t, res.Airport)
	assert.Nil(t, res.Airport.Weather)
}

func TestAirportDetailsSkipsWeatherWithoutCoordinates(t *testing.T) {
	r, _ := newTestResolver(WithWeather(fakeWeather{w: &model.Weather{High: 1}}))
	res, err := r.Resolve(context.Background(), Query{Kind: KindAirportDetails, Code1: "NWH"})
	require.NoError(t, err)
	assert.Nil(t, res.Airport.Weather)
}

func TestAirportDetailsStaleSnapshot(t *testing.T) {
	r, store := newTestResolver()
	store.airports = store.airports[:1] // LHR vanished from the table after the snapshot was taken
	_, err := r.Resolve(context.Background(), Query{Kind: KindAirportDetails, Code1: "LHR"})
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestRoutesFromAndTo(t *testing.T) {
	r, _ := newTestResolver()
	ctx := context.Background()

	from, err := r.Resolve(ctx, Query{Kind: KindRoutesFrom, Code1: "JFK"})
	require.NoError(t, err)
	assert.Len(t, from.Routes, 6)
	require.NotNil(t, from.Origin)
	assert.Equal(t, "JFK", from.Origin.IATA)
	// ZZZ is referenced by a route but unknown to the reference data.
	assert.ElementsMatch(t, []string{"LHR", "LAX", "NWH"}, iataOf(from.Airports))

	to, err := r.Resolve(ctx, Query{Kind: KindRoutesTo, Code1: "JFK"})
	require.NoError(t, err)
	assert.Len(t, to.Routes, 2)
	require.NotNil(t, to.Destination)
	assert.ElementsMatch(t, []string{"LHR", "KEF"}, iataOf(to.Airports))

	for _, rt := range from.Routes {
		assert.Equal(t, "JFK", rt.Departure)
	}
	for _, rt := range to.Routes {
		assert.Equal(t, "JFK", rt.Arrival)
		assert.NotContains(t, from.Routes, rt)
	}
}

func TestAirlinesToFrom(t *testing.T) {
	r, store := newTestResolver()
	res, err := r.Resolve(context.Background(), Query{Kind: KindAirlinesToFrom, Code1: "JFK"})
	require.NoError(t, err)
	require.NotNil(t, res.Airport)
	assert.Equal(t, "JFK", res.Airport.IATA)
	assert.ElementsMatch(t, []string{"AA", "BA", "FI", "XX"}, res.AirlineCodes())
	for _, a := range res.Airlines {
		if a.IATA == "XX" {
			assert.Empty(t, a.Name, "unknown airlines carry only their code")
		} else {
			assert.NotEmpty(t, a.Name)
		}
	}
	assert.Nil(t, res.Routes)
	assert.ElementsMatch(t, []string{"RoutesFrom", "RoutesTo"}, store.calls)
}

func TestBetweenDeduplicatesAirlines(t *testing.T) {
	r, _ := newTestResolver()
	res, err := r.Resolve(context.Background(), Query{Kind: KindBetween, Code1: "jfk", Code2: "lhr"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AA", "BA"}, res.AirlineCodes())
	assert.Len(t, res.Routes, 3)
	assert.Equal(t, "JFK", res.Origin.IATA)
	assert.Equal(t, "LHR", res.Destination.IATA)
}

func TestBetweenIsDirected(t *testing.T) {
	r, _ := newTestResolver()
	res, err := r.Resolve(context.Background(), Query{Kind: KindBetween, Code1: "LAX", Code2: "JFK"})
	require.NoError(t, err)
	assert.Empty(t, res.Routes)
	assert.Empty(t, res.Airlines)
}

func TestDistance(t *testing.T) {
	r, _ := newTestResolver()
	res, err := r.Resolve(context.Background(), Query{Kind: KindDistance, Code1: "JFK", Code2: "LHR"})
	require.NoError(t, err)
	require.NotNil(t, res.DistanceKm)
	assert.InDelta(t, 5540, *res.DistanceKm, 15)
	assert.ElementsMatch(t, []string{"AA", "BA"}, res.AirlineCodes())
	assert.Equal(t, "JFK", res.Origin.IATA)
	assert.Equal(t, "LHR", res.Destination.IATA)

	back, err := r.Resolve(context.Background(), Query{Kind: KindDistance, Code1: "LHR", Code2: "JFK"})
	require.NoError(t, err)
	assert.Equal(t, *res.DistanceKm, *back.DistanceKm)
	assert.ElementsMatch(t, []string{"BA"}, back.AirlineCodes())
}

func TestDistanceMissingCoordinates(t *testing.T) {
	r, _ := newTestResolver()
	res, err := r.Resolve(context.Background(), Query{Kind: KindDistance, Code1: "JFK", Code2: "NWH"})
	require.ErrorIs(t, err, ErrIncompleteData)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "NWH")
	assert.NotErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestUpstreamFailures(t *testing.T) {
	boom := errors.New("connection refused")
	cases := []struct {
		name   string
		failOn string
		q      Query
	}{
		{"by country airlines", "AirlinesByCountry", Query{Kind: KindByCountry, Code1: "US"}},
		{"by country airports", "AirportsByCountry", Query{Kind: KindByCountry, Code1: "US"}},
		{"by airline", "RoutesByAirline", Query{Kind: KindByAirline, Code1: "AA"}},
		{"airport details", "AirportByIATA", Query{Kind: KindAirportDetails, Code1: "JFK"}},
		{"routes from", "RoutesFrom", Query{Kind: KindRoutesFrom, Code1: "JFK"}},
		{"routes to", "RoutesTo", Query{Kind: KindRoutesTo, Code1: "JFK"}},
		{"to from one side", "RoutesTo", Query{Kind: KindAirlinesToFrom, Code1: "JFK"}},
		{"between", "RoutesBetween", Query{Kind: KindBetween, Code1: "JFK", Code2: "LHR"}},
		{"distance airport", "AirportByIATA", Query{Kind: KindDistance, Code1: "JFK", Code2: "LHR"}},
		{"distance airlines", "AirlinesOnCorridor", Query{Kind: KindDistance, Code1: "JFK", Code2: "LHR"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, store := newTestResolver()
			store.failOn = map[string]error{tc.failOn: boom}
			res, err := r.Resolve(context.Background(), tc.q)
			require.ErrorIs(t, err, ErrUpstreamUnavailable)
			assert.ErrorIs(t, err, boom)
			assert.Nil(t, res, "no partial results")
		})
	}
}

func TestNoSnapshotIsUpstreamUnavailable(t *testing.T) {
	store, _ := fixture()
	r := New(store, refdata.NewHolder(nil))
	_, err := r.Resolve(context.Background(), Query{Kind: KindRoutesFrom, Code1: "JFK"})
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, refdata.ErrNotLoaded)
}

func TestRoutesFilter(t *testing.T) {
	r, store := newTestResolver()
	ctx := context.Background()

	got, err := r.Routes(ctx, model.RouteFilter{Departure: "jfk", Arrival: "lhr", Airline: "ba"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = r.Routes(ctx, model.RouteFilter{Departure: "JFK"})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "'departure'+'arrival'")

	_, err = r.Routes(ctx, model.RouteFilter{Airline: "AA", Aircraft: "738", Departure: "JFK", Arrival: "LHR"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = r.Routes(ctx, model.RouteFilter{Airline: "XX"})
	require.ErrorIs(t, err, ErrUnknownCode)

	_, err = r.Routes(ctx, model.RouteFilter{Departure: "JFK", Arrival: "ZZZ"})
	require.ErrorIs(t, err, ErrUnknownCode)

	assert.Equal(t, 1, store.callCount())
}

func TestResultJSONFieldsFollowKind(t *testing.T) {
	r, _ := newTestResolver()
	ctx := context.Background()

	cases := []struct {
		q    Query
		keys []string
	}{
		{Query{Kind: KindByCountry, Code1: "IS"}, []string{"kind", "country", "airlines", "airports"}},
		{Query{Kind: KindByAirline, Code1: "QA"}, []string{"kind", "routes", "airports"}},
		{Query{Kind: KindAirportDetails, Code1: "JFK"}, []string{"kind", "airport"}},
		{Query{Kind: KindRoutesFrom, Code1: "LAX"}, []string{"kind", "routes", "origin", "airports"}},
		{Query{Kind: KindRoutesTo, Code1: "LAX"}, []string{"kind", "routes", "destination", "airports"}},
		{Query{Kind: KindAirlinesToFrom, Code1: "LAX"}, []string{"kind", "airport", "airlines"}},
		{Query{Kind: KindBetween, Code1: "LAX", Code2: "JFK"}, []string{"kind", "routes", "origin", "destination", "airlines"}},
		{Query{Kind: KindDistance, Code1: "LAX", Code2: "JFK"}, []string{"kind", "origin", "destination", "distance_km", "airlines"}},
	}
	for _, tc := range cases {
		t.Run(tc.q.Kind.String(), func(t *testing.T) {
			res, err := r.Resolve(ctx, tc.q)
			require.NoError(t, err)
			raw, err := json.Marshal(res)
			require.NoError(t, err)

			var m map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(raw, &m))
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			assert.ElementsMatch(t, tc.keys, keys)
			for _, k := range []string{"routes", "airports", "airlines"} {
				if v, ok := m[k]; ok {
					assert.NotEqual(t, "null", string(v), "%s must be a list", k)
				}
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"byCountry", "country", "BYAIRLINE", "airline", "airportDetails", "from", "to", "toFrom", "between", "Distance"} {
		_, ok := ParseKind(s)
		assert.True(t, ok, s)
	}
	k, ok := ParseKind("toFrom")
	require.True(t, ok)
	assert.Equal(t, KindAirlinesToFrom, k)
	_, ok = ParseKind("nearby")
	assert.False(t, ok)
	assert.Len(t, KindNames(), 8)
	assert.True(t, KindDistance.TwoCodes())
	assert.False(t, KindRoutesTo.TwoCodes())
}

func TestConcurrentResolves(t *testing.T) {
	r, _ := newTestResolver()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q := Query{Kind: KindDistance, Code1: "JFK", Code2: "LHR"}
			if i%2 == 1 {
				q = Query{Kind: KindByCountry, Code1: "US"}
			}
			_, err := r.Resolve(context.Background(), q)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}
