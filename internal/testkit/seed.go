package testkit

import (
	"context"
	"fmt"
	"time"

	"currencyconverter/internal/rates"
	"currencyconverter/internal/store"
)

// SeedDate is the rate date stamped on seeded snapshots.
const SeedDate = "2025-06-01"

// SeedSnapshot stores a snapshot for base that was fetched age ago and returns it.
// A nil table seeds USD and COP quotes.
func SeedSnapshot(ctx context.Context, st store.RateStore, base string, age time.Duration, table rates.Table) (*rates.Snapshot, error) {
	if table == nil {
		table = rates.Table{"USD": 1.1, "COP": 4000}
	}
	snap := rates.NewSnapshot(base, SeedDate, table, time.Now().Add(-age))
	if err := st.Put(ctx, snap); err != nil {
		return nil, fmt.Errorf("seed %s snapshot: %w", base, err)
	}
	return snap, nil
}
