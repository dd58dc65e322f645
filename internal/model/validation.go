// Package model defines the seat-booking domain values: a Movie with its
// per-seat availability map and a Booking referencing one seat of one movie.
// Both types are validate-on-construct: a value either fully satisfies its
// shape or is never produced.  The package performs no I/O and holds no
// shared state; persistence, referential integrity and concurrency are the
// responsibility of the layers that call into it.
package model

import "fmt"

// ValidationError reports a single field of an input that is missing, empty
// or of the wrong type.  It is returned synchronously by the constructors in
// this package and carries enough information for a caller to produce a
// user-visible response naming the field and the reason it was rejected.
//
// Fields:
//
//	Field  – the offending input field (e.g. "seat_map", "movie_id").
//	Reason – human-readable description of the failure.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.  Callers distinguish validation
// failures from other errors with errors.As.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// invalid builds a *ValidationError with a formatted reason.
func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
