package rates

import (
	"errors"
	"strings"
)

// ErrInvalidCurrencyCode indicates a code that is not three ASCII letters.
var ErrInvalidCurrencyCode = errors.New("invalid currency code format")

// Currency is a selectable currency with its display name.
type Currency struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CommonCurrencies is the list offered to the currency selectors, in display order.
var CommonCurrencies = []Currency{
	{Code: "EUR", Name: "Euro"},
	{Code: "COP", Name: "Colombian Peso"},
	{Code: "USD", Name: "US Dollar"},
	{Code: "GBP", Name: "British Pound"},
	{Code: "JPY", Name: "Japanese Yen"},
	{Code: "CAD", Name: "Canadian Dollar"},
	{Code: "AUD", Name: "Australian Dollar"},
	{Code: "CHF", Name: "Swiss Franc"},
	{Code: "CNY", Name: "Chinese Yuan"},
	{Code: "MXN", Name: "Mexican Peso"},
}

// IsValidCurrencyCode checks whether a string is a 3-letter currency code (any case).
func IsValidCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	code = strings.ToUpper(code)
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// NormalizeCode trims and upper-cases code, rejecting malformed input.
func NormalizeCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if !IsValidCurrencyCode(code) {
		return "", ErrInvalidCurrencyCode
	}
	return strings.ToUpper(code), nil
}

// CurrencyName returns the display name for code, or the code itself if unlisted.
func CurrencyName(code string) string {
	for _, c := range CommonCurrencies {
		if c.Code == code {
			return c.Name
		}
	}
	return code
}
