package resolver

import "strings"

// Kind is the closed set of lookups the resolver answers.
type Kind int

const (
	KindByCountry Kind = iota + 1
	KindByAirline
	KindAirportDetails
	KindRoutesFrom
	KindRoutesTo
	KindAirlinesToFrom
	KindBetween
	KindDistance
)

// codeTable says what the first code of a kind refers to.
type codeTable int

const (
	countryCode codeTable = iota
	airlineCode
	airportCode
)

// kindInfo describes one kind: its wire name, aliases accepted from clients,
// what its codes are, and which result fields it fills.
type kindInfo struct {
	name     string
	aliases  []string
	table    codeTable
	twoCodes bool
	fields   []string
}

var kinds = map[Kind]kindInfo{
	KindByCountry: {
		name: "byCountry", aliases: []string{"country"},
		table:  countryCode,
		fields: []string{fieldCountry, fieldAirlines, fieldAirports},
	},
	KindByAirline: {
		name: "byAirline", aliases: []string{"airline"},
		table:  airlineCode,
		fields: []string{fieldRoutes, fieldAirports},
	},
	KindAirportDetails: {
		name: "airportDetails", aliases: []string{"airport"},
		table:  airportCode,
		fields: []string{fieldAirport},
	},
	KindRoutesFrom: {
		name: "routesFrom", aliases: []string{"from"},
		table:  airportCode,
		fields: []string{fieldRoutes, fieldOrigin, fieldAirports},
	},
	KindRoutesTo: {
		name: "routesTo", aliases: []string{"to"},
		table:  airportCode,
		fields: []string{fieldRoutes, fieldDestination, fieldAirports},
	},
	KindAirlinesToFrom: {
		name: "airlinesToFrom", aliases: []string{"toFrom"},
		table:  airportCode,
		fields: []string{fieldAirport, fieldAirlines},
	},
	KindBetween: {
		name: "between",
		table: airportCode, twoCodes: true,
		fields: []string{fieldRoutes, fieldOrigin, fieldDestination, fieldAirlines},
	},
	KindDistance: {
		name: "distance",
		table: airportCode, twoCodes: true,
		fields: []string{fieldOrigin, fieldDestination, fieldDistance, fieldAirlines},
	},
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return "unknown"
}

// TwoCodes reports whether the kind takes a second airport code.
func (k Kind) TwoCodes() bool { return kinds[k].twoCodes }

// ParseKind accepts the canonical names and the short aliases used by the
// browser client, case-insensitively.
func ParseKind(s string) (Kind, bool) {
	s = strings.TrimSpace(s)
	for k, info := range kinds {
		if strings.EqualFold(s, info.name) {
			return k, true
		}
		for _, a := range info.aliases {
			if strings.EqualFold(s, a) {
				return k, true
			}
		}
	}
	return 0, false
}

// KindNames lists the canonical kind names in declaration order.
func KindNames() []string {
	out := make([]string, 0, len(kinds))
	for k := KindByCountry; k <= KindDistance; k++ {
		out = append(out, kinds[k].name)
	}
	return out
}
