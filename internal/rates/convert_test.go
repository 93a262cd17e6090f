package rates

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eurTable = Table{"USD": 1.1, "COP": 4000, "EUR": 1}

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		from   string
		to     string
		want   float64
	}{
		{"direct", 10, "EUR", "USD", 11.0},
		{"inverse", 10, "USD", "EUR", 9.090909090909},
		{"cross", 10, "USD", "COP", 36363.636363636},
		{"cross reversed", 40000, "COP", "USD", 11.0},
		{"identity", 42.5, "USD", "USD", 42.5},
		{"zero amount", 0, "USD", "COP", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Convert(tc.amount, tc.from, tc.to, eurTable, "EUR")
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-6)
		})
	}
}

func TestConvert_IdentityIgnoresTable(t *testing.T) {
	got, err := Convert(123.45, "JPY", "JPY", Table{}, "EUR")
	require.NoError(t, err)
	assert.Equal(t, 123.45, got)

	got, err = Convert(7, "JPY", "JPY", nil, "EUR")
	require.NoError(t, err)
	assert.Equal(t, 7.0, got)
}

func TestConvert_BaseNeedNotBeInTable(t *testing.T) {
	table := Table{"USD": 1.1}

	got, err := Convert(10, "EUR", "USD", table, "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 11.0, got, 1e-9)

	got, err = Convert(11, "USD", "EUR", table, "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 1e-9)
}

func TestConvert_UnknownCurrency(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		missing  string
	}{
		{"direct missing target", "EUR", "GBP", "GBP"},
		{"inverse missing source", "GBP", "EUR", "GBP"},
		{"cross missing source", "GBP", "USD", "GBP"},
		{"cross missing target", "USD", "GBP", "GBP"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Convert(1, tc.from, tc.to, eurTable, "EUR")
			var unknown *UnknownCurrencyError
			require.True(t, errors.As(err, &unknown), "got %v", err)
			assert.Equal(t, tc.missing, unknown.Code)
		})
	}
}

func TestConvert_NonPositiveRateIsUnknown(t *testing.T) {
	_, err := Convert(1, "USD", "EUR", Table{"USD": 0}, "EUR")
	var unknown *UnknownCurrencyError
	assert.True(t, errors.As(err, &unknown))
}

func TestConvert_RoundTrip(t *testing.T) {
	table := Table{"USD": 1.0843, "COP": 4312.77, "JPY": 162.31, "GBP": 0.8541, "EUR": 1}
	codes := []string{"EUR", "USD", "COP", "JPY", "GBP"}

	for _, a := range codes {
		for _, b := range codes {
			there, err := Convert(1, a, b, table, "EUR")
			require.NoError(t, err)
			back, err := Convert(there, b, a, table, "EUR")
			require.NoError(t, err)
			assert.InDelta(t, 1.0, back, 1e-9, "%s -> %s -> %s", a, b, a)
		}
	}
}

func TestPairwiseRate(t *testing.T) {
	r, err := PairwiseRate("USD", "COP", eurTable, "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 3636.3636, r, 1e-4)

	r, err = PairwiseRate("EUR", "EUR", nil, "EUR")
	require.NoError(t, err)
	assert.Equal(t, 1.0, r)
}

func TestSnapshot_Freshness(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	fresh := NewSnapshot("EUR", "2025-06-01", eurTable, now.Add(-23*time.Hour))
	edge := NewSnapshot("EUR", "2025-06-01", eurTable, now.Add(-StalenessThreshold))
	stale := NewSnapshot("EUR", "2025-05-31", eurTable, now.Add(-25*time.Hour))

	assert.True(t, fresh.IsFresh(now))
	assert.True(t, edge.IsFresh(now))
	assert.False(t, stale.IsFresh(now))
}

func TestSnapshot_FetchedBefore(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 500_400_000, time.UTC)

	assert.True(t, NewSnapshot("EUR", "2025-06-01", eurTable, start.Add(-time.Hour)).FetchedBefore(start))
	assert.True(t, NewSnapshot("EUR", "2025-06-01", eurTable, start.Add(-time.Millisecond)).FetchedBefore(start))
	// Same millisecond as start, a little later.
	assert.False(t, NewSnapshot("EUR", "2025-06-01", eurTable, start.Add(300*time.Microsecond)).FetchedBefore(start))
	assert.False(t, NewSnapshot("EUR", "2025-06-01", eurTable, start.Add(time.Second)).FetchedBefore(start))
}

func TestNewSnapshot_CopiesTable(t *testing.T) {
	src := Table{"USD": 1.1}
	snap := NewSnapshot("EUR", "2025-06-01", src, time.Now())
	src["USD"] = 2

	assert.Equal(t, 1.1, snap.Rates["USD"])
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"USD", "USD", false},
		{"usd", "USD", false},
		{" eur ", "EUR", false},
		{"US", "", true},
		{"USDA", "", true},
		{"US1", "", true},
		{"US$", "", true},
		{"", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NormalizeCode(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCurrencyCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
