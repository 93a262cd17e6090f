// Package metrics exposes Prometheus instrumentation for rate lookups.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"currencyconverter/internal/provider"
	"currencyconverter/internal/rates"
)

const (
	OutcomeCacheHit    = "cache_hit"
	OutcomeFetched     = "fetched"
	OutcomeFallback    = "fallback"
	OutcomeUnavailable = "unavailable"
)

// Collector records lookup outcomes reported by the rate service and the latency
// of upstream calls. Each Collector owns its registry.
type Collector struct {
	registry *prometheus.Registry

	lookups       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	snapshotAge   *prometheus.GaugeVec

	now func() time.Time
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "converter_rate_lookups_total",
				Help: "Rate lookups by outcome",
			},
			[]string{"outcome"},
		),
		fetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "converter_upstream_fetch_seconds",
				Help:    "Duration of upstream rate fetches",
				Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
			},
			[]string{"source"},
		),
		snapshotAge: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "converter_snapshot_age_seconds",
				Help: "Age of the last snapshot served per base",
			},
			[]string{"base"},
		),
		now: time.Now,
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) CacheHit(base string, snap *rates.Snapshot) {
	c.lookups.WithLabelValues(OutcomeCacheHit).Inc()
	c.observeAge(base, snap)
}

func (c *Collector) Fetched(base string, snap *rates.Snapshot) {
	c.lookups.WithLabelValues(OutcomeFetched).Inc()
	c.observeAge(base, snap)
}

func (c *Collector) FetchFailed(base string, _ error, fallback *rates.Snapshot) {
	if fallback == nil {
		c.lookups.WithLabelValues(OutcomeUnavailable).Inc()
		return
	}
	c.lookups.WithLabelValues(OutcomeFallback).Inc()
	c.observeAge(base, fallback)
}

func (c *Collector) observeAge(base string, snap *rates.Snapshot) {
	if snap == nil {
		return
	}
	c.snapshotAge.WithLabelValues(base).Set(snap.Age(c.now()).Seconds())
}

// WrapProvider times every Latest call of p under the given source label.
func (c *Collector) WrapProvider(source string, p provider.RatesProvider) provider.RatesProvider {
	return &timedProvider{
		next:     p,
		observer: c.fetchDuration.WithLabelValues(source),
	}
}

type timedProvider struct {
	next     provider.RatesProvider
	observer prometheus.Observer
}

func (p *timedProvider) Latest(ctx context.Context, base string) (*rates.Snapshot, error) {
	timer := prometheus.NewTimer(p.observer)
	defer timer.ObserveDuration()
	return p.next.Latest(ctx, base)
}
