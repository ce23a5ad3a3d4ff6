package core

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable marks a remote read that did not succeed
	// (non-success status, network failure, timeout).
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrSourceMalformed marks a response that could not be parsed into a grid.
	ErrSourceMalformed = errors.New("source malformed")

	// ErrMemberNotFound is returned when no roster member has the given ID.
	ErrMemberNotFound = errors.New("member not found")

	// ErrRefreshInProgress is returned for field-level edits attempted while
	// an aggregation pass is building a new roster.
	ErrRefreshInProgress = errors.New("refresh in progress")
)

// FetchError is a per-source failure. It is logged and the source skipped;
// it never aborts the pass.
type FetchError struct {
	Source string
	Kind   FailureKind
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch source %q (%s): %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// newFetchError classifies err by the sentinel it wraps. Anything that is not
// explicitly malformed counts as unavailable.
func newFetchError(source string, err error) *FetchError {
	kind := FailureUnavailable
	if errors.Is(err, ErrSourceMalformed) {
		kind = FailureMalformed
	}
	return &FetchError{Source: source, Kind: kind, Err: err}
}

// CatalogError means the source list could not be resolved. It routes the
// whole pass to the fallback roster.
type CatalogError struct {
	Err error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("resolve catalog: %v", e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }

// ExportError is fatal to a single export call. Row is 1-based over the data
// rows (the header is row 0).
type ExportError struct {
	Row   int
	Field string
	Err   error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export row %d field %s: %v", e.Row, e.Field, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
