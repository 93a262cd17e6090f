// Package store persists one rate snapshot per base currency.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"currencyconverter/internal/rates"
)

// RateStore is a single-slot-per-key cache of snapshots keyed by base currency.
// Get returns (nil, nil) when nothing was ever stored for base.
type RateStore interface {
	Get(ctx context.Context, base string) (*rates.Snapshot, error)
	Put(ctx context.Context, snap *rates.Snapshot) error
}

const keyPrefix = "rates:"

func snapshotKey(base string) string {
	return keyPrefix + base
}

func encodeSnapshot(snap *rates.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot %s: %w", snap.Base, err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (*rates.Snapshot, error) {
	var snap rates.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
