// Package dealserr defines the engine's error taxonomy: BadRequest,
// CapacityExceeded and TableFull are surfaced to callers; Expired never
// is (hydration degrades to an empty payload instead).
//
// Grounded on the sentinel-plus-wrapper idiom in
// Adithya-Monish-Kumar-K-Distributed-Search-Analytics-Platform/pkg/errors,
// reduced to what this package actually needs — stdlib errors/fmt only,
// no HTTP status mapping, since transport is out of this engine's scope.
package dealserr

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRequest marks a malformed query: invalid dates, wrong-length
	// IATA codes, unknown weekday tokens, inverted ranges, or a required
	// filter missing for the chosen aggregator.
	ErrBadRequest = errors.New("bad request")

	// ErrMissingDestinations is a specific BadRequest: CheapestByDate
	// requires an enabled destination filter.
	ErrMissingDestinations = fmt.Errorf("%w: destinations list must be specified", ErrBadRequest)

	// ErrMissingDepartureRange is a specific BadRequest: CheapestByDate
	// requires an enabled departure-date range.
	ErrMissingDepartureRange = fmt.Errorf("%w: departure date range must be specified", ErrBadRequest)

	// ErrCapacityExceeded marks an aggregator bound violation, e.g.
	// destinations * date_duration > 1098 for CheapestByDate.
	ErrCapacityExceeded = errors.New("too many result cells requested")

	// ErrTooManyCells is the specific CapacityExceeded raised by
	// CheapestByDate when destinations * date_duration > 1098.
	ErrTooManyCells = fmt.Errorf("%w: destinations * date_duration > 1098", ErrCapacityExceeded)

	// ErrTableFull marks an append that failed because every page was
	// live and eviction was disallowed by configuration.
	ErrTableFull = errors.New("table is full")
)

// QueryError wraps one of the sentinels above with the name of the
// filter or parameter that triggered it, so callers can report something
// more actionable than "bad request".
type QueryError struct {
	Sentinel error
	Field    string
	Detail   string
}

func (e *QueryError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Sentinel, e.Field)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Sentinel, e.Field, e.Detail)
}

func (e *QueryError) Unwrap() error {
	return e.Sentinel
}

// BadRequest builds a QueryError wrapping ErrBadRequest.
func BadRequest(field, detail string) *QueryError {
	return &QueryError{Sentinel: ErrBadRequest, Field: field, Detail: detail}
}

// CapacityExceeded builds a QueryError wrapping ErrCapacityExceeded.
func CapacityExceeded(field, detail string) *QueryError {
	return &QueryError{Sentinel: ErrCapacityExceeded, Field: field, Detail: detail}
}
