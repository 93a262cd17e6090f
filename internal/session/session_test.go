package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"currencyconverter/internal/rates"
)

func loaded(t *testing.T) State {
	t.Helper()
	snap := rates.NewSnapshot("EUR", "2025-06-02", rates.Table{"USD": 1.1, "COP": 4000}, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))
	return Update(New("", ""), RatesLoaded{Snapshot: snap})
}

func TestNew_Defaults(t *testing.T) {
	s := New("", "")
	assert.Equal(t, "EUR", s.From)
	assert.Equal(t, "COP", s.To)
	assert.Equal(t, "1", s.Amount)
	assert.True(t, s.Loading)

	v := Render(s)
	assert.Equal(t, Placeholder, v.Rate)
	assert.Empty(t, v.Converted)
}

func TestSetAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10", "10"},
		{"10.5", "10.5"},
		{"", ""},
		{".", "."},
		{"3.", "3."},
		{"abc", "1"},
		{"-5", "1"},
		{"1.2.3", "1"},
		{"1e3", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := Update(New("", ""), SetAmount{Value: tt.input})
			assert.Equal(t, tt.want, s.Amount)
		})
	}
}

func TestUpdate_DoesNotMutateInput(t *testing.T) {
	before := New("USD", "GBP")
	after := Update(before, Swap{})

	assert.Equal(t, "USD", before.From)
	assert.Equal(t, "GBP", after.From)
	assert.Equal(t, "USD", after.To)
}

func TestSetCurrency(t *testing.T) {
	s := Update(New("", ""), SetFrom{Code: "usd"})
	s = Update(s, SetTo{Code: "gbp"})
	assert.Equal(t, "USD", s.From)
	assert.Equal(t, "GBP", s.To)

	s = Update(s, SetTo{Code: "pounds"})
	assert.Equal(t, "GBP", s.To, "invalid codes are ignored")
}

func TestRender(t *testing.T) {
	s := Update(loaded(t), SetAmount{Value: "10"})

	v := Render(s)
	assert.Equal(t, "40000.00", v.Converted)
	assert.Equal(t, "4000.0000", v.Rate)
	assert.Equal(t, "2025-06-02", v.RateDate)
	assert.Equal(t, "2025-06-02T09:00:00Z", v.LastUpdated)
	assert.False(t, v.Loading)
	assert.Empty(t, v.Error)

	s = Update(Update(s, SetFrom{Code: "USD"}), SetTo{Code: "EUR"})
	v = Render(s)
	assert.Equal(t, "9.09", v.Converted)
	assert.Equal(t, "0.9091", v.Rate)

	s = Update(s, Swap{})
	v = Render(s)
	assert.Equal(t, "11.00", v.Converted)
	assert.Equal(t, "1.1000", v.Rate)
}

func TestRender_EmptyAmountIsZero(t *testing.T) {
	for _, amount := range []string{"", "."} {
		v := Render(Update(loaded(t), SetAmount{Value: amount}))
		assert.Equal(t, "0.00", v.Converted)
		assert.Equal(t, "4000.0000", v.Rate)
	}
}

func TestRender_UnknownCurrency(t *testing.T) {
	s := Update(loaded(t), SetTo{Code: "JPY"})

	v := Render(s)
	assert.Equal(t, "Error converting currency", v.Error)
	assert.Equal(t, Placeholder, v.Rate)
	assert.Empty(t, v.Converted)
}

func TestRender_AmountTooLarge(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{"product overflows", "1" + strings.Repeat("0", 306)},
		{"amount overflows", "1" + strings.Repeat("0", 400)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Update(loaded(t), SetAmount{Value: tt.amount})
			assert.True(t, ValidAmount(tt.amount))

			var v View
			assert.NotPanics(t, func() { v = Render(s) })
			assert.True(t, v.ConversionFailed())
			assert.Equal(t, "Error converting currency", v.Error)
			assert.Empty(t, v.Converted)
		})
	}

	assert.False(t, Render(loaded(t)).ConversionFailed())
}

func TestRender_UnrepresentableRate(t *testing.T) {
	snap := rates.NewSnapshot("EUR", "2025-06-02", rates.Table{"USD": 1.1, "XAU": 5e-324}, time.Now())
	s := Update(New("XAU", "USD"), RatesLoaded{Snapshot: snap})
	s = Update(s, SetAmount{Value: "0"})

	var v View
	assert.NotPanics(t, func() { v = Render(s) })
	assert.Equal(t, Placeholder, v.Rate)
}

func TestRatesFailed_KeepsPreviousSnapshot(t *testing.T) {
	s := Update(loaded(t), RatesFailed{Err: errors.New("offline")})

	assert.NotNil(t, s.Snapshot)
	v := Render(s)
	assert.Equal(t, "Failed to fetch exchange rates", v.Error)
	assert.Equal(t, "4000.00", v.Converted)

	s = Update(s, RatesLoaded{Snapshot: s.Snapshot})
	assert.Empty(t, s.Err)
}
