package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"currencyconverter/internal/rates"
)

type stubProvider struct {
	snap *rates.Snapshot
	err  error
}

func (p stubProvider) Latest(context.Context, string) (*rates.Snapshot, error) {
	return p.snap, p.err
}

func TestCollector_LookupOutcomes(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	c := NewCollector()
	c.now = func() time.Time { return now }

	snap := rates.NewSnapshot("EUR", "2025-06-02", rates.Table{"USD": 1.1}, now.Add(-90*time.Second))

	c.CacheHit("EUR", snap)
	c.CacheHit("EUR", snap)
	c.Fetched("EUR", snap)
	c.FetchFailed("EUR", errors.New("offline"), snap)
	c.FetchFailed("USD", errors.New("offline"), nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.lookups.WithLabelValues(OutcomeCacheHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lookups.WithLabelValues(OutcomeFetched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lookups.WithLabelValues(OutcomeFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lookups.WithLabelValues(OutcomeUnavailable)))
	assert.Equal(t, 90.0, testutil.ToFloat64(c.snapshotAge.WithLabelValues("EUR")))
}

func TestCollector_WrapProvider(t *testing.T) {
	c := NewCollector()
	want := rates.NewSnapshot("EUR", "2025-06-02", rates.Table{"USD": 1.1}, time.Now())

	got, err := c.WrapProvider("frankfurter", stubProvider{snap: want}).Latest(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Same(t, want, got)

	_, err = c.WrapProvider("exchangerate_api", stubProvider{err: errors.New("boom")}).Latest(context.Background(), "EUR")
	assert.EqualError(t, err, "boom")

	assert.Equal(t, 2, testutil.CollectAndCount(c.fetchDuration, "converter_upstream_fetch_seconds"))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.Fetched("EUR", nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.True(t, strings.Contains(string(body), `converter_rate_lookups_total{outcome="fetched"} 1`))
}
