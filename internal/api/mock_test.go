package api

import (
	"context"

	"currencyconverter/internal/rates"
	"currencyconverter/internal/status"
)

// mockRateService implements service.RateServiceInterface for testing.
type mockRateService struct {
	getRatesFunc   func(ctx context.Context, base string) (*rates.Snapshot, error)
	fetchRatesFunc func(ctx context.Context, base string) (*rates.Snapshot, error)
}

func (m *mockRateService) GetRates(ctx context.Context, base string) (*rates.Snapshot, error) {
	return m.getRatesFunc(ctx, base)
}

func (m *mockRateService) FetchRates(ctx context.Context, base string) (*rates.Snapshot, error) {
	return m.fetchRatesFunc(ctx, base)
}

type mockEnqueuer struct {
	enqueueFunc func(ctx context.Context, base string) (string, error)
}

func (m *mockEnqueuer) EnqueueRefresh(ctx context.Context, base string) (string, error) {
	return m.enqueueFunc(ctx, base)
}

type staticStatus status.Status

func (s staticStatus) Status() status.Status { return status.Status(s) }
