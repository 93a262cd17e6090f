// Package testkit starts the Postgres and Redis dependencies of the rate stores
// and the refresh queue for integration tests, using testcontainers.
package testkit

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config selects the containers to start, or the external instances to use instead.
type Config struct {
	PGImage    string
	RedisImage string

	// PGDSN skips the Postgres container. It must name a disposable database, since
	// tests truncate rate_snapshots.
	PGDSN string
	// RedisAddr skips the Redis container. Tests flush its current database.
	RedisAddr string

	StartupTimeout time.Duration
	KeepContainers bool
}

// LoadConfig reads the TEST_* and KEEP_CONTAINERS environment variables.
func LoadConfig() Config {
	return Config{
		PGImage:        env("TEST_PG_IMAGE", "postgres:18.1-alpine", parseString),
		RedisImage:     env("TEST_REDIS_IMAGE", "redis:8.4.0-alpine", parseString),
		PGDSN:          os.Getenv("TEST_PG_DSN"),
		RedisAddr:      os.Getenv("TEST_REDIS_ADDR"),
		StartupTimeout: env("TEST_STARTUP_TIMEOUT", 90*time.Second, parseTimeout),
		KeepContainers: env("KEEP_CONTAINERS", false, strconv.ParseBool),
	}
}

// env parses the variable key, falling back to def when it is unset or malformed.
func env[T any](key string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "testkit: ignoring %s=%q (%v), using %v\n", key, raw, err, def)
		return def
	}
	return v
}

func parseString(s string) (string, error) { return s, nil }

// parseTimeout accepts a Go duration or a plain number of seconds.
func parseTimeout(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("expected a duration or seconds")
	}
	return time.Duration(secs) * time.Second, nil
}
