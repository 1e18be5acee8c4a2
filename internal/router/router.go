// Package router registers the HTTP routes.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-explorer/internal/handler"
	"github.com/iliyamo/flight-explorer/internal/middleware"
	"github.com/iliyamo/flight-explorer/internal/refdata"
)

// RegisterRoutes registers the banner and the probes.  They bypass the
// cache and rate limiter.
func RegisterRoutes(e *echo.Echo, snapshots *refdata.Holder) {
	e.GET("/", handler.Banner)
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(snapshots))
}

// RegisterPublic registers the read API under /v1.  mw (rate limit, response
// cache) wraps every route in the group.
func RegisterPublic(e *echo.Echo, ref *handler.ReferenceHandler, rt *handler.RouteHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)

	g.GET("/countries", ref.Countries)
	g.GET("/airlines", ref.Airlines)
	g.GET("/airlines/all", ref.AllAirlines)
	g.GET("/airports", ref.Airports)
	g.GET("/airports/all", ref.AllAirports)
	g.GET("/suggest", ref.Suggest)

	g.GET("/routes", rt.Routes)
	g.GET("/routes/from", rt.From)
	g.GET("/routes/to", rt.To)
	g.GET("/routes/distance", rt.Distance)
	g.GET("/resolve/:kind", rt.Resolve)
}

// RegisterAdmin registers operator endpoints behind JWT auth and the ADMIN
// role.  Callers skip it when no JWT secret is configured.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin", middleware.JWTAuth(jwtSecret), middleware.RequireRole(middleware.RoleAdmin))
	g.POST("/refdata/refresh", a.RefreshRefData)
}
