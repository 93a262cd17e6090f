// Package session models the converter form as an immutable state value driven by
// actions, and renders the figures shown to the user from it.
package session

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"currencyconverter/internal/rates"
)

const (
	DefaultFrom   = "EUR"
	DefaultTo     = "COP"
	DefaultAmount = "1"

	// Placeholder shown for the unit rate when it cannot be computed.
	Placeholder = "..."

	errConvert = "Error converting currency"
	errFetch   = "Failed to fetch exchange rates"
)

var amountPattern = regexp.MustCompile(`^\d*\.?\d*$`)

// State is the converter form. Values are never mutated; Update returns a new one.
type State struct {
	Amount   string
	From     string
	To       string
	Snapshot *rates.Snapshot
	Err      string
	Loading  bool
}

// New returns the initial state, waiting for its first snapshot.
func New(from, to string) State {
	if from == "" {
		from = DefaultFrom
	}
	if to == "" {
		to = DefaultTo
	}
	return State{Amount: DefaultAmount, From: from, To: to, Loading: true}
}

// Action is an input to Update.
type Action interface {
	apply(State) State
}

type SetAmount struct{ Value string }
type SetFrom struct{ Code string }
type SetTo struct{ Code string }
type Swap struct{}
type RatesLoaded struct{ Snapshot *rates.Snapshot }
type RatesFailed struct{ Err error }

// Update applies a to s and returns the resulting state.
func Update(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

// ValidAmount reports whether s is acceptable amount input: digits with at most one
// decimal point, possibly empty.
func ValidAmount(s string) bool {
	return amountPattern.MatchString(s)
}

// Amounts that are not a plain unsigned decimal are dropped, leaving the previous
// value in place.
func (a SetAmount) apply(s State) State {
	if !ValidAmount(a.Value) {
		return s
	}
	s.Amount = a.Value
	return s
}

func (a SetFrom) apply(s State) State {
	if code, err := rates.NormalizeCode(a.Code); err == nil {
		s.From = code
	}
	return s
}

func (a SetTo) apply(s State) State {
	if code, err := rates.NormalizeCode(a.Code); err == nil {
		s.To = code
	}
	return s
}

func (Swap) apply(s State) State {
	s.From, s.To = s.To, s.From
	return s
}

func (a RatesLoaded) apply(s State) State {
	if a.Snapshot == nil {
		return s
	}
	s.Snapshot = a.Snapshot
	s.Err = ""
	s.Loading = false
	return s
}

// A failed load keeps whatever snapshot was already shown.
func (a RatesFailed) apply(s State) State {
	s.Err = errFetch
	s.Loading = false
	return s
}

// View is the rendered form.
type View struct {
	Amount      string `json:"amount"`
	From        string `json:"from"`
	To          string `json:"to"`
	Converted   string `json:"converted"`
	Rate        string `json:"rate"`
	RateDate    string `json:"rate_date,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
	Loading     bool   `json:"loading"`
	Error       string `json:"error,omitempty"`
}

// Render computes the converted amount (2 decimals) and the unit rate (4 decimals)
// from the state's snapshot. An empty or unparsable amount converts as 0. A result
// too large to represent is reported as a conversion error.
func Render(s State) View {
	v := View{
		Amount:  s.Amount,
		From:    s.From,
		To:      s.To,
		Rate:    Placeholder,
		Loading: s.Loading,
		Error:   s.Err,
	}
	if s.Snapshot == nil {
		return v
	}

	v.RateDate = s.Snapshot.Date
	v.LastUpdated = s.Snapshot.FetchedAt().Format(time.RFC3339)

	converted, err := s.Snapshot.Convert(parseAmount(s.Amount), s.From, s.To)
	if err != nil || !finite(converted) {
		v.Error = errConvert
		return v
	}
	v.Converted = decimal.NewFromFloat(converted).StringFixed(2)

	if rate, err := s.Snapshot.PairwiseRate(s.From, s.To); err == nil && rate > 0 && finite(rate) {
		v.Rate = decimal.NewFromFloat(rate).StringFixed(4)
	}
	return v
}

// ConversionFailed reports whether v carries the error Render sets when the amount
// could not be converted.
func (v View) ConversionFailed() bool {
	return v.Error == errConvert
}

// parseAmount treats amounts beyond float64 range as infinite so that Render can
// reject them instead of converting 0.
func parseAmount(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return f
}

// decimal.NewFromFloat panics on NaN and infinities.
func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
