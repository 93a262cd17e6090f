package testkit

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
)

// Suite manages the lifecycle of the containers an integration package needs.
type Suite struct {
	mu        sync.Mutex
	cfg       Config
	wantPG    bool
	wantRedis bool
	pg        *PostgresModule
	redis     *RedisModule
	ready     bool
}

// Option selects a dependency the suite starts.
type Option func(*Suite)

// WithPostgres makes the suite start Postgres.
func WithPostgres() Option { return func(s *Suite) { s.wantPG = true } }

// WithRedis makes the suite start Redis.
func WithRedis() Option { return func(s *Suite) { s.wantRedis = true } }

// NewSuite returns a suite that starts only the selected dependencies.
func NewSuite(opts ...Option) *Suite {
	s := &Suite{cfg: LoadConfig()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	globalSuite *Suite
	globalOnce  sync.Once
)

// Global returns the singleton Suite with every dependency enabled.
func Global() *Suite {
	globalOnce.Do(func() {
		globalSuite = NewSuite(WithPostgres(), WithRedis())
	})
	return globalSuite
}

// Setup starts the selected containers (or uses external overrides).
// Returns an error if called twice without Shutdown in between.
func (s *Suite) Setup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return fmt.Errorf("suite already set up; call Shutdown first")
	}

	if s.wantPG {
		pg, err := StartPostgres(ctx, &s.cfg)
		if err != nil {
			return fmt.Errorf("setup postgres: %w", err)
		}
		s.pg = pg
	}

	if s.wantRedis {
		rdb, err := StartRedis(ctx, &s.cfg)
		if err != nil {
			s.terminate(ctx)
			return fmt.Errorf("setup redis: %w", err)
		}
		s.redis = rdb
	}

	s.ready = true
	return nil
}

// terminate stops whatever was started, honouring KEEP_CONTAINERS. Callers hold mu.
func (s *Suite) terminate(ctx context.Context) {
	if s.cfg.KeepContainers {
		fmt.Println("KEEP_CONTAINERS=true, skipping container cleanup")
		if s.pg != nil {
			fmt.Println("  Postgres DSN:", s.pg.DSN())
		}
		if s.redis != nil {
			fmt.Println("  Redis Addr:", s.redis.Addr())
		}
		return
	}

	if s.redis != nil {
		if err := s.redis.Terminate(ctx); err != nil {
			fmt.Println("warning: failed to terminate redis container:", err)
		}
	}
	if s.pg != nil {
		if err := s.pg.Terminate(ctx); err != nil {
			fmt.Println("warning: failed to terminate postgres container:", err)
		}
	}
}

// Shutdown terminates all containers unless KEEP_CONTAINERS is set.
func (s *Suite) Shutdown(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return
	}
	s.terminate(ctx)
	s.ready = false
}

// Postgres returns the running Postgres module, or nil when it was not requested.
func (s *Suite) Postgres() *PostgresModule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pg
}

// Redis returns the running Redis module, or nil when it was not requested.
func (s *Suite) Redis() *RedisModule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redis
}

// Run sets up the suite, calls optional afterSetup callbacks (e.g. for running
// migrations), executes tests, then shuts down. Intended for use in TestMain.
func (s *Suite) Run(m *testing.M, afterSetup ...func() error) {
	ctx := context.Background()

	if err := s.Setup(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "integration test setup failed: %v\n", err)
		os.Exit(1)
	}

	for _, fn := range afterSetup {
		if err := fn(); err != nil {
			fmt.Fprintf(os.Stderr, "afterSetup callback failed: %v\n", err)
			s.Shutdown(ctx)
			os.Exit(1)
		}
	}

	code := m.Run()

	s.Shutdown(ctx)
	os.Exit(code)
}

// Run is a package-level convenience that delegates to Global().Run.
func Run(m *testing.M, afterSetup ...func() error) {
	Global().Run(m, afterSetup...)
}
