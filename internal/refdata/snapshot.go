// Package refdata holds the in-process copy of the reference tables
// (countries, airlines by IATA, airports by IATA) that the resolver uses to
// validate codes without a database round-trip.
//
// A Snapshot is immutable once built.  A Holder owns the current snapshot
// and swaps in a new one on Refresh; readers never observe a partial load.
package refdata

import (
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/flight-explorer/internal/model"
)

// Snapshot is an immutable, code-indexed copy of the reference tables.
type Snapshot struct {
	countries     []model.Country
	countryByCode map[string]model.Country
	airlines      []model.Airline
	airlineByIATA map[string]model.Airline
	airports      []model.Airport
	airportByIATA map[string]model.Airport
	loadedAt      time.Time
}

// NewSnapshot indexes the given rows.  Airlines and airports without an IATA
// code are dropped; when several rows share a code the first one wins.
func NewSnapshot(countries []model.Country, airlines []model.Airline, airports []model.Airport) *Snapshot {
	s := &Snapshot{
		countries:     make([]model.Country, 0, len(countries)),
		airlines:      make([]model.Airline, 0, len(airlines)),
		airports:      make([]model.Airport, 0, len(airports)),
		countryByCode: make(map[string]model.Country, len(countries)),
		airlineByIATA: make(map[string]model.Airline, len(airlines)),
		airportByIATA: make(map[string]model.Airport, len(airports)),
		loadedAt:      time.Now().UTC(),
	}
	for _, c := range countries {
		k := Normalize(c.Code)
		if k == "" {
			continue
		}
		if _, dup := s.countryByCode[k]; !dup {
			s.countryByCode[k] = c
			s.countries = append(s.countries, c)
		}
	}
	for _, a := range airlines {
		k := Normalize(a.IATA)
		if k == "" {
			continue
		}
		if _, dup := s.airlineByIATA[k]; !dup {
			s.airlineByIATA[k] = a
			s.airlines = append(s.airlines, a)
		}
	}
	for _, a := range airports {
		k := Normalize(a.IATA)
		if k == "" {
			continue
		}
		if _, dup := s.airportByIATA[k]; !dup {
			s.airportByIATA[k] = a
			s.airports = append(s.airports, a)
		}
	}
	sort.SliceStable(s.countries, func(i, j int) bool { return s.countries[i].Name < s.countries[j].Name })
	return s
}

// Normalize is the canonical form of every code used as a key: trimmed and
// upper-cased.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Country looks a country up by its two-letter code.
func (s *Snapshot) Country(code string) (model.Country, bool) {
	c, ok := s.countryByCode[Normalize(code)]
	return c, ok
}

// Airline looks an airline up by IATA code.
func (s *Snapshot) Airline(iata string) (model.Airline, bool) {
	a, ok := s.airlineByIATA[Normalize(iata)]
	return a, ok
}

// Airport looks an airport up by IATA code.
func (s *Snapshot) Airport(iata string) (model.Airport, bool) {
	a, ok := s.airportByIATA[Normalize(iata)]
	return a, ok
}

// Countries returns all countries ordered by name.
func (s *Snapshot) Countries() []model.Country { return s.countries }

// Airlines returns all airlines that have an IATA code.
func (s *Snapshot) Airlines() []model.Airline { return s.airlines }

// Airports returns all airports that have an IATA code, with or without
// coordinates.
func (s *Snapshot) Airports() []model.Airport { return s.airports }

// LoadedAt is when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Stats summarises the snapshot size for logs and the health endpoint.
type Stats struct {
	Countries int       `json:"countries"`
	Airlines  int       `json:"airlines"`
	Airports  int       `json:"airports"`
	LoadedAt  time.Time `json:"loaded_at"`
}

func (s *Snapshot) Stats() Stats {
	return Stats{
		Countries: len(s.countries),
		Airlines:  len(s.airlines),
		Airports:  len(s.airports),
		LoadedAt:  s.loadedAt,
	}
}
