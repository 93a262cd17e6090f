package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"

	"currencyconverter/internal/rates"
)

var _ RateStore = (*BadgerStore)(nil)

// OpenBadger opens the on-disk snapshot database at dir, or an in-memory one when dir is empty.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create badger directory %s: %w", dir, err)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	return db, nil
}

// BadgerStore keeps snapshots in an embedded BadgerDB, usable with no network at all.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore creates a new BadgerStore.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Get loads the snapshot stored for base.
func (s *BadgerStore) Get(_ context.Context, base string) (*rates.Snapshot, error) {
	var snap *rates.Snapshot

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey(base)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, err := decodeSnapshot(val)
			if err != nil {
				return err
			}
			snap = decoded
			return nil
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", base, err)
	}
	return snap, nil
}

// Put overwrites the snapshot stored for snap.Base.
func (s *BadgerStore) Put(_ context.Context, snap *rates.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKey(snap.Base)), data)
	})
	if err != nil {
		return fmt.Errorf("store snapshot %s: %w", snap.Base, err)
	}
	return nil
}
