package resolver

import (
	"errors"
	"fmt"
)

// Error taxonomy.  Every error returned by Resolve wraps exactly one of these.
var (
	// ErrInvalidInput: malformed or unsupported request.  Not retryable.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownCode: well-formed code that is not in the reference data.
	ErrUnknownCode = errors.New("unknown code")
	// ErrIncompleteData: the entities exist but lack fields the computation needs.
	ErrIncompleteData = errors.New("incomplete data")
	// ErrUpstreamUnavailable: the row store failed.  Safe to retry.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Reference tables named by UnknownCodeError.
const (
	TableCountries = "countries"
	TableAirlines  = "airlines"
	TableAirports  = "airports"
)

// UnknownCodeError identifies which code was not found and in which table.
type UnknownCodeError struct {
	Table string
	Code  string
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("unknown code: %q not found in %s", e.Code, e.Table)
}

func (e *UnknownCodeError) Unwrap() error { return ErrUnknownCode }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func unknown(table, code string) error {
	return &UnknownCodeError{Table: table, Code: code}
}

func incomplete(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIncompleteData, fmt.Sprintf(format, args...))
}

func upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstreamUnavailable, op, err)
}
