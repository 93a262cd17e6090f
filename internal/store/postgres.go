package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"currencyconverter/internal/config"
	"currencyconverter/internal/rates"
)

// applicationName tags the service's sessions in pg_stat_activity unless the DSN
// sets application_name itself.
const applicationName = "currency-converter"

// NewPostgresDB opens a pgx-backed pool for the rate store and waits for the server
// to answer a ping.
func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}
	if _, ok := connCfg.RuntimeParams["application_name"]; !ok {
		connCfg.RuntimeParams["application_name"] = applicationName
	}

	db := stdlib.OpenDB(*connCfg)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeSec) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s/%s: %w", connCfg.Host, connCfg.Database, err)
	}
	return db, nil
}

var _ RateStore = (*PostgresStore)(nil)

// PostgresStore keeps one row per base currency in rate_snapshots.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get loads the snapshot stored for base, returning (nil, nil) when there is no row.
func (s *PostgresStore) Get(ctx context.Context, base string) (*rates.Snapshot, error) {
	query := `SELECT base, rate_date, rates::text, fetched_at_ms
              FROM rate_snapshots
              WHERE base=$1`

	var (
		snap     rates.Snapshot
		rawRates string
	)
	err := s.db.QueryRowContext(ctx, query, base).Scan(&snap.Base, &snap.Date, &rawRates, &snap.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot %s: %w", base, err)
	}

	if err := json.Unmarshal([]byte(rawRates), &snap.Rates); err != nil {
		return nil, fmt.Errorf("decode rates of %s: %w", base, err)
	}
	return &snap, nil
}

// Put upserts the row for snap.Base. Concurrent writers race; the last one to commit wins.
func (s *PostgresStore) Put(ctx context.Context, snap *rates.Snapshot) error {
	rawRates, err := json.Marshal(snap.Rates)
	if err != nil {
		return fmt.Errorf("encode rates of %s: %w", snap.Base, err)
	}

	query := `INSERT INTO rate_snapshots (base, rate_date, rates, fetched_at_ms, updated_at)
              VALUES ($1, $2, $3::jsonb, $4, NOW())
              ON CONFLICT (base) DO UPDATE
              SET rate_date=EXCLUDED.rate_date,
                  rates=EXCLUDED.rates,
                  fetched_at_ms=EXCLUDED.fetched_at_ms,
                  updated_at=NOW()`

	if _, err := s.db.ExecContext(ctx, query, snap.Base, snap.Date, string(rawRates), snap.Timestamp); err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", snap.Base, err)
	}
	return nil
}
