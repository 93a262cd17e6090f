package provider

import (
	"context"

	"github.com/stretchr/testify/mock"

	"currencyconverter/internal/rates"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Latest(ctx context.Context, base string) (*rates.Snapshot, error) {
	args := m.Called(ctx, base)
	snap, _ := args.Get(0).(*rates.Snapshot)
	return snap, args.Error(1)
}
