package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"currencyconverter/internal/rates"
)

var _ RateStore = (*RedisStore)(nil)

// RedisStore keeps snapshots as JSON strings without expiry; replacement is the only eviction.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a new RedisStore.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func redisKey(base string) string {
	return snapshotKey("{" + base + "}")
}

// Get loads the snapshot stored for base.
func (s *RedisStore) Get(ctx context.Context, base string) (*rates.Snapshot, error) {
	data, err := s.rdb.Get(ctx, redisKey(base)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", base, err)
	}
	return decodeSnapshot(data)
}

// Put overwrites the snapshot stored for snap.Base.
func (s *RedisStore) Put(ctx context.Context, snap *rates.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, redisKey(snap.Base), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", snap.Base, err)
	}
	return nil
}
