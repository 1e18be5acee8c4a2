package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-explorer/internal/model"
	"github.com/iliyamo/flight-explorer/internal/refdata"
	"github.com/iliyamo/flight-explorer/internal/resolver"
)

// LookupStore covers the direct row store reads that bypass the resolver.
// Single-row lookups return nil, nil when nothing matches.
type LookupStore interface {
	AirlineByIATA(ctx context.Context, iata string) (*model.Airline, error)
	AirlineByICAO(ctx context.Context, icao string) (*model.Airline, error)
	AirportByICAO(ctx context.Context, icao string) (*model.Airport, error)
	MappableAirports(ctx context.Context) ([]model.Airport, error)
}

// ReferenceHandler serves the country, airline and airport endpoints.
type ReferenceHandler struct {
	Store    LookupStore
	Resolver *resolver.Resolver
}

// Countries lists every country ordered by name.
func (h *ReferenceHandler) Countries(c echo.Context) error {
	snap, err := h.Resolver.Snapshot()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snap.Countries())
}

// AllAirlines lists airlines that have an IATA code.
func (h *ReferenceHandler) AllAirlines(c echo.Context) error {
	snap, err := h.Resolver.Snapshot()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snap.Airlines())
}

// AllAirports lists airports that can be drawn on the map: IATA code and
// both coordinates present.
func (h *ReferenceHandler) AllAirports(c echo.Context) error {
	airports, err := h.Store.MappableAirports(c.Request().Context())
	if err != nil {
		return upstream(c, err)
	}
	return c.JSON(http.StatusOK, airports)
}

// Airlines looks airlines up by ?iata, ?icao or ?country_code, first match
// wins in that order.
func (h *ReferenceHandler) Airlines(c echo.Context) error {
	ctx := c.Request().Context()
	iata, icao, country := codeParam(c, "iata"), codeParam(c, "icao"), codeParam(c, "country_code")
	switch {
	case iata != "":
		a, err := h.Store.AirlineByIATA(ctx, iata)
		return single(c, a, err, resolver.TableAirlines, iata)
	case icao != "":
		a, err := h.Store.AirlineByICAO(ctx, icao)
		return single(c, a, err, resolver.TableAirlines, icao)
	case country != "":
		res, err := h.Resolver.Resolve(ctx, resolver.Query{Kind: resolver.KindByCountry, Code1: country})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, res.Airlines)
	}
	return badRequest(c, "Provide 'iata', 'icao', or 'country_code'")
}

// Airports looks airports up by ?iata (with today's weather), ?icao or
// ?country_code.
func (h *ReferenceHandler) Airports(c echo.Context) error {
	ctx := c.Request().Context()
	iata, icao, country := codeParam(c, "iata"), codeParam(c, "icao"), codeParam(c, "country_code")
	switch {
	case iata != "":
		res, err := h.Resolver.Resolve(ctx, resolver.Query{Kind: resolver.KindAirportDetails, Code1: iata})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, res.Airport)
	case icao != "":
		a, err := h.Store.AirportByICAO(ctx, icao)
		return single(c, a, err, resolver.TableAirports, icao)
	case country != "":
		res, err := h.Resolver.Resolve(ctx, resolver.Query{Kind: resolver.KindByCountry, Code1: country})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, res.Airports)
	}
	return badRequest(c, "Provide 'iata', 'icao', or 'country_code'")
}

// Suggest serves ?kind=countries|airlines|airports&q=..&limit=.. for the
// client's search boxes.
func (h *ReferenceHandler) Suggest(c echo.Context) error {
	source := strings.ToLower(strings.TrimSpace(c.QueryParam("kind")))
	switch source {
	case refdata.SourceCountries, refdata.SourceAirlines, refdata.SourceAirports:
	default:
		return badRequest(c, "kind must be one of countries, airlines, airports")
	}
	limit := 10
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 100 {
			return badRequest(c, "limit must be between 1 and 100")
		}
		limit = n
	}
	snap, err := h.Resolver.Snapshot()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snap.Suggest(source, c.QueryParam("q"), limit))
}

func single[T any](c echo.Context, v *T, err error, table, code string) error {
	if err != nil {
		return upstream(c, err)
	}
	if v == nil {
		return writeError(c, &resolver.UnknownCodeError{Table: table, Code: code})
	}
	return c.JSON(http.StatusOK, v)
}

func codeParam(c echo.Context, name string) string {
	return refdata.Normalize(c.QueryParam(name))
}
