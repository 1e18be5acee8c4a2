package refdata

import (
	"sort"
	"strings"
)

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Suggestion sources.
const (
	SourceCountries = "countries"
	SourceAirlines  = "airlines"
	SourceAirports  = "airports"
)

// Suggest returns up to limit candidates from source whose code starts with
// the query or whose name contains it, codes matches first.
func (s *Snapshot) Suggest(source, query string, limit int) []Suggestion {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return []Suggestion{}
	}

	var byCode, byName []Suggestion
	add := func(code, name, label string) {
		switch {
		case strings.HasPrefix(Normalize(code), q):
			byCode = append(byCode, Suggestion{Code: Normalize(code), Label: label})
		case strings.Contains(strings.ToUpper(name), q):
			byName = append(byName, Suggestion{Code: Normalize(code), Label: label})
		}
	}

	switch source {
	case SourceCountries:
		for _, c := range s.countries {
			add(c.Code, c.Name, c.Name+" ("+Normalize(c.Code)+")")
		}
	case SourceAirlines:
		for _, a := range s.airlines {
			add(a.IATA, a.Name, a.Name+" ("+Normalize(a.IATA)+")")
		}
	case SourceAirports:
		for _, a := range s.airports {
			label := a.Name + " (" + Normalize(a.IATA) + ")"
			if a.City != "" {
				label += " - " + a.City
			}
			add(a.IATA, a.Name+" "+a.City, label)
		}
	}

	sort.Slice(byCode, func(i, j int) bool { return byCode[i].Code < byCode[j].Code })
	sort.Slice(byName, func(i, j int) bool { return byName[i].Label < byName[j].Label })
	out := append(byCode, byName...)
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []Suggestion{}
	}
	return out
}
