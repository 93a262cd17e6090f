// Package service implements the rate freshness and offline fallback policy.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"currencyconverter/internal/provider"
	"currencyconverter/internal/rates"
	"currencyconverter/internal/store"
)

// fallbackReadTimeout bounds the store read made after a failed fetch. The read is
// detached from the caller's context, which may be the very thing that expired.
const fallbackReadTimeout = 2 * time.Second

// RateServiceInterface is the entry point for "give me current rates for base X".
type RateServiceInterface interface {
	GetRates(ctx context.Context, base string) (*rates.Snapshot, error)
	FetchRates(ctx context.Context, base string) (*rates.Snapshot, error)
}

// RateService serves stored snapshots while fresh and refetches them otherwise,
// falling back to the stored snapshot whenever the upstream is unavailable.
type RateService struct {
	store     store.RateStore
	provider  provider.RatesProvider
	log       *zap.SugaredLogger
	observers []Observer
	now       func() time.Time
}

var _ RateServiceInterface = (*RateService)(nil)

// NewRateService creates a new RateService.
func NewRateService(st store.RateStore, prov provider.RatesProvider, logger *zap.SugaredLogger, observers ...Observer) *RateService {
	return &RateService{
		store:     st,
		provider:  prov,
		log:       logger,
		observers: observers,
		now:       time.Now,
	}
}

// GetRates returns the stored snapshot for base when it is at most 24 hours old,
// and otherwise behaves like FetchRates. A failing store read counts as a miss.
func (s *RateService) GetRates(ctx context.Context, base string) (*rates.Snapshot, error) {
	base, err := rates.NormalizeCode(base)
	if err != nil {
		return nil, err
	}

	snap, err := s.store.Get(ctx, base)
	switch {
	case err != nil:
		s.log.Warnw("Rate store read failed, fetching instead", "base", base, "error", err)
	case snap != nil && snap.IsFresh(s.now()):
		s.notifyCacheHit(base, snap)
		return snap, nil
	case snap != nil:
		s.log.Infow("Stored rates are stale", "base", base, "age", snap.Age(s.now()).Round(time.Second).String())
	}

	return s.fetchRates(ctx, base)
}

// FetchRates fetches fresh rates for base and stores them. If the fetch fails the
// stored snapshot is returned instead, however old; with nothing stored the error
// wraps rates.ErrNoRatesAvailable.
func (s *RateService) FetchRates(ctx context.Context, base string) (*rates.Snapshot, error) {
	base, err := rates.NormalizeCode(base)
	if err != nil {
		return nil, err
	}
	return s.fetchRates(ctx, base)
}

func (s *RateService) fetchRates(ctx context.Context, base string) (*rates.Snapshot, error) {
	snap, err := s.provider.Latest(ctx, base)
	if err == nil && snap == nil {
		err = &rates.FetchError{Base: base, Err: fmt.Errorf("provider returned no snapshot")}
	}
	if err == nil {
		s.persist(ctx, snap)
		s.log.Infow("Fetched rates", "base", base, "date", snap.Date, "currencies", len(snap.Rates))
		s.notifyFetched(base, snap)
		return snap, nil
	}

	s.log.Warnw("Rate fetch failed, trying stored snapshot", "base", base, "error", err)

	cached := s.readFallback(ctx, base)
	s.notifyFetchFailed(base, err, cached)
	if cached != nil {
		s.log.Infow("Serving stored rates", "base", base, "date", cached.Date, "fetched_at", cached.FetchedAt())
		return cached, nil
	}

	return nil, fmt.Errorf("%w for %s: %w", rates.ErrNoRatesAvailable, base, err)
}

// persist writes snap to the store. A failed write is logged only: the snapshot is
// still valid for the current caller.
func (s *RateService) persist(ctx context.Context, snap *rates.Snapshot) {
	if err := s.store.Put(ctx, snap); err != nil {
		s.log.Errorw("Failed to persist rates", "base", snap.Base, "error", err)
	}
}

func (s *RateService) readFallback(ctx context.Context, base string) *rates.Snapshot {
	readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fallbackReadTimeout)
	defer cancel()

	cached, err := s.store.Get(readCtx, base)
	if err != nil {
		s.log.Errorw("Rate store read failed during fallback", "base", base, "error", err)
		return nil
	}
	return cached
}
