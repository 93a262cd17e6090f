package rates

import (
	"errors"
	"fmt"
)

// ErrNoRatesAvailable is returned when a fetch failed and nothing is cached for the base.
var ErrNoRatesAvailable = errors.New("no rates available")

// FetchError reports a failed upstream fetch: transport error, non-success status,
// or a malformed or error-flagged body.
type FetchError struct {
	Source string
	Base   string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("fetch rates for %s: %v", e.Base, e.Err)
	}
	return fmt.Sprintf("fetch rates for %s from %s: %v", e.Base, e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// UnknownCurrencyError reports a currency code missing from the active rate table.
type UnknownCurrencyError struct {
	Code string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency %q", e.Code)
}
