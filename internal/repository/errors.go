// Package repository contains data access logic separated from HTTP handlers
// and from the resolver.  Every repository reads one reference table; none of
// them write.
//
// Sentinel errors defined here let higher layers tell "no such row" apart from
// an unreachable or failing database.
package repository

import "errors"

// ErrNotFound is returned by single-row lookups when no row matches.
var ErrNotFound = errors.New("not found")

// ErrUnsupportedFilter is returned by RouteRepo.Find for filter combinations
// that have no matching query.
var ErrUnsupportedFilter = errors.New("unsupported route filter combination")
