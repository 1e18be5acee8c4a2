// Package handler exposes the HTTP API.  Handlers parse query strings, call
// the resolver or the row store, and translate resolver errors into status
// codes.
package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-explorer/internal/resolver"
)

// Error codes returned in the "error" field.
const (
	codeInvalidInput     = "invalid_input"
	codeUnknownCode      = "unknown_code"
	codeIncompleteData   = "incomplete_data"
	codeUpstream         = "upstream_unavailable"
	codeInternal         = "internal_error"
	msgUpstreamTemporary = "the flight database is temporarily unavailable"
)

// statusFor maps an error from the resolver taxonomy to a status and code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, resolver.ErrInvalidInput):
		return http.StatusBadRequest, codeInvalidInput
	case errors.Is(err, resolver.ErrUnknownCode):
		return http.StatusNotFound, codeUnknownCode
	case errors.Is(err, resolver.ErrIncompleteData):
		return http.StatusUnprocessableEntity, codeIncompleteData
	case errors.Is(err, resolver.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, codeUpstream
	}
	return http.StatusInternalServerError, codeInternal
}

// writeError renders err as {"error": code, "message": text}.  Upstream and
// internal failures are logged and their cause is not echoed to the client.
func writeError(c echo.Context, err error) error {
	status, code := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusServiceUnavailable:
		log.Printf("handler: %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		msg = msgUpstreamTemporary
	case http.StatusInternalServerError:
		log.Printf("handler: %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		msg = "internal error"
	default:
		msg = publicMessage(msg)
	}
	return c.JSON(status, echo.Map{"error": code, "message": msg})
}

// publicMessage strips the taxonomy prefix added by the resolver.
func publicMessage(msg string) string {
	for _, sentinel := range []error{resolver.ErrInvalidInput, resolver.ErrIncompleteData} {
		if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
			return rest
		}
	}
	return msg
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": codeInvalidInput, "message": msg})
}

func upstream(c echo.Context, err error) error {
	return writeError(c, errors.Join(resolver.ErrUpstreamUnavailable, err))
}
