package testkit

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisModule is the Redis instance shared by the Redis rate store and the refresh
// queue. It is either a testcontainer or an external server named by TEST_REDIS_ADDR.
type RedisModule struct {
	container testcontainers.Container
	addr      string
}

// StartRedis starts a Redis container, unless cfg.RedisAddr points at one already.
func StartRedis(ctx context.Context, cfg *Config) (*RedisModule, error) {
	if cfg.RedisAddr != "" {
		return &RedisModule{addr: cfg.RedisAddr}, nil
	}

	ctr, err := tcredis.Run(ctx, cfg.RedisImage)
	if err != nil {
		return nil, fmt.Errorf("start redis container: %w", err)
	}

	addr, err := hostPort(ctx, ctr)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, err
	}
	return &RedisModule{container: ctr, addr: addr}, nil
}

// hostPort returns the container's address in the host:port form go-redis and
// asynq take, rather than the redis:// URL the module reports.
func hostPort(ctx context.Context, ctr *tcredis.RedisContainer) (string, error) {
	connStr, err := ctr.ConnectionString(ctx)
	if err != nil {
		return "", fmt.Errorf("get redis connection string: %w", err)
	}
	u, err := url.Parse(connStr)
	if err != nil {
		return "", fmt.Errorf("parse redis connection string %q: %w", connStr, err)
	}
	return u.Host, nil
}

// Addr returns the host:port of the instance.
func (r *RedisModule) Addr() string { return r.addr }

// NewClient returns a go-redis client for the instance. The caller closes it.
func (r *RedisModule) NewClient() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: r.addr})
}

// AsynqOpt returns the connection option for asynq clients, inspectors and servers.
func (r *RedisModule) AsynqOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: r.addr}
}

// Terminate stops the container. External instances are left running.
func (r *RedisModule) Terminate(ctx context.Context) error {
	if r.container == nil {
		return nil
	}
	return r.container.Terminate(ctx)
}
