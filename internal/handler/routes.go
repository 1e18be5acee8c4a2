package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-explorer/internal/model"
	"github.com/iliyamo/flight-explorer/internal/resolver"
)

// RouteHandler serves the route and distance endpoints.
type RouteHandler struct {
	Resolver *resolver.Resolver
}

// Routes filters routes by ?airline, ?aircraft, ?departure and ?arrival.
func (h *RouteHandler) Routes(c echo.Context) error {
	f := model.RouteFilter{
		Airline:   c.QueryParam("airline"),
		Aircraft:  c.QueryParam("aircraft"),
		Departure: c.QueryParam("departure"),
		Arrival:   c.QueryParam("arrival"),
	}
	routes, err := h.Resolver.Routes(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, routes)
}

// From lists routes departing ?departure.
func (h *RouteHandler) From(c echo.Context) error {
	code := c.QueryParam("departure")
	if codeParam(c, "departure") == "" {
		return badRequest(c, "Missing departure IATA code")
	}
	res, err := h.Resolver.Resolve(c.Request().Context(), resolver.Query{Kind: resolver.KindRoutesFrom, Code1: code})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res.Routes)
}

// To lists routes arriving at ?arrival.
func (h *RouteHandler) To(c echo.Context) error {
	code := c.QueryParam("arrival")
	if codeParam(c, "arrival") == "" {
		return badRequest(c, "Missing arrival IATA code")
	}
	res, err := h.Resolver.Resolve(c.Request().Context(), resolver.Query{Kind: resolver.KindRoutesTo, Code1: code})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res.Routes)
}

// Endpoint is one end of a distance response.
type Endpoint struct {
	IATA      string   `json:"iata"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// DistanceResponse is the body of GET /v1/routes/distance.
type DistanceResponse struct {
	From       Endpoint `json:"from"`
	To         Endpoint `json:"to"`
	DistanceKm float64  `json:"distance_km"`
	Airlines   []string `json:"airlines"`
}

// Distance returns the great-circle distance between ?from and ?to and the
// airlines flying that direction.
func (h *RouteHandler) Distance(c echo.Context) error {
	if codeParam(c, "from") == "" || codeParam(c, "to") == "" {
		return badRequest(c, "Provide 'from' and 'to' IATA codes")
	}
	res, err := h.Resolver.Resolve(c.Request().Context(), resolver.Query{
		Kind:  resolver.KindDistance,
		Code1: c.QueryParam("from"),
		Code2: c.QueryParam("to"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, DistanceResponse{
		From:       endpoint(res.Origin),
		To:         endpoint(res.Destination),
		DistanceKm: *res.DistanceKm,
		Airlines:   res.AirlineCodes(),
	})
}

func endpoint(a *model.Airport) Endpoint {
	return Endpoint{IATA: a.IATA, Name: a.Name, Latitude: a.Latitude, Longitude: a.Longitude}
}

// Resolve answers GET /v1/resolve/:kind?code=..&code2=.. with the full
// result envelope.
func (h *RouteHandler) Resolve(c echo.Context) error {
	kind, ok := resolver.ParseKind(c.Param("kind"))
	if !ok {
		return badRequest(c, "unknown kind; expected one of "+strings.Join(resolver.KindNames(), ", "))
	}
	res, err := h.Resolver.Resolve(c.Request().Context(), resolver.Query{
		Kind:  kind,
		Code1: c.QueryParam("code"),
		Code2: c.QueryParam("code2"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
