package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-explorer/internal/middleware"
	"github.com/iliyamo/flight-explorer/internal/service"
)

// AdminHandler serves operator endpoints.  Routes are mounted behind
// middleware.JWTAuth and middleware.RequireRole(middleware.RoleAdmin).
type AdminHandler struct {
	Refresher *service.Refresher
}

type refreshRequest struct {
	Reason string `json:"reason"`
}

// RefreshRefData reloads the reference snapshot on this instance and
// broadcasts the refresh to the others.  The body is optional.
func (h *AdminHandler) RefreshRefData(c echo.Context) error {
	var req refreshRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid JSON body")
		}
	}
	res, err := h.Refresher.Refresh(c.Request().Context(), middleware.Subject(c), strings.TrimSpace(req.Reason))
	if err != nil {
		return upstream(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
