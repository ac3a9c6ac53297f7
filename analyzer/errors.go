package analyzer

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ParseError means the expression text is not a valid real expression in
// the analysis variable. It aborts the whole analysis.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid function %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RangeError means the inspection interval is unusable.
type RangeError struct {
	Min, Max float64
	Reason   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid interval [%g, %g]: %s", e.Min, e.Max, e.Reason)
}

// FacetError records why one part of the report could not be computed. It
// never aborts the analysis.
type FacetError struct {
	Facet string
	Err   error
}

func (e *FacetError) Error() string { return e.Facet + ": " + e.Err.Error() }
func (e *FacetError) Unwrap() error { return e.Err }

func (e *FacetError) MarshalJSON() ([]byte, error) { return json.Marshal(e.Error()) }

var errPanic = errors.New("evaluator panic")

// guard runs one symbolic call. Errors and panics become a FacetError for
// the named facet.
func guard[T any](facet string, fn func() (T, error)) (res T, ferr *FacetError) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			res = zero
			ferr = &FacetError{Facet: facet, Err: fmt.Errorf("%w: %v", errPanic, r)}
		}
	}()
	v, err := fn()
	if err != nil {
		return v, &FacetError{Facet: facet, Err: err}
	}
	return v, nil
}
