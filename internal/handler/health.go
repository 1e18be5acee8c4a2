package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-explorer/internal/refdata"
)

// Banner answers GET / so a browser pointed at the API sees it is up.
func Banner(c echo.Context) error {
	return c.String(http.StatusOK, "Flight Explorer API running")
}

// Health is the liveness probe for load balancers.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Ready reports 200 with snapshot stats once reference data is loaded and
// 503 before that.
func Ready(h *refdata.Holder) echo.HandlerFunc {
	return func(c echo.Context) error {
		snap := h.Current()
		if snap == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": codeUpstream, "message": refdata.ErrNotLoaded.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready", "refdata": snap.Stats()})
	}
}
