package resolver

import (
	"github.com/iliyamo/flight-explorer/internal/model"
	"github.com/iliyamo/flight-explorer/internal/refdata"
)

// distinct normalizes codes and drops empties and repeats, keeping the first
// occurrence.
func distinct(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = refdata.Normalize(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// airportsFor resolves codes against the snapshot.  Codes it does not know
// are skipped; the routes that reference them are still returned.
func airportsFor(snap *refdata.Snapshot, codes []string) []model.Airport {
	out := make([]model.Airport, 0, len(codes))
	for _, c := range codes {
		if a, ok := snap.Airport(c); ok {
			out = append(out, a)
		}
	}
	return out
}

// airlinesFor enriches codes with the airline record from the snapshot.  An
// unknown code yields a record carrying the code alone.
func airlinesFor(snap *refdata.Snapshot, codes []string) []model.Airline {
	out := make([]model.Airline, 0, len(codes))
	for _, c := range codes {
		if a, ok := snap.Airline(c); ok {
			out = append(out, a)
			continue
		}
		out = append(out, model.Airline{IATA: c})
	}
	return out
}

func snapshotAirport(snap *refdata.Snapshot, code string) *model.Airport {
	a, ok := snap.Airport(code)
	if !ok {
		return nil
	}
	return &a
}
