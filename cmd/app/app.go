// Package main is the entry point for the currency converter service.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"currencyconverter/internal/api"
	"currencyconverter/internal/config"
	"currencyconverter/internal/metrics"
	"currencyconverter/internal/provider"
	"currencyconverter/internal/service"
	"currencyconverter/internal/status"
	"currencyconverter/internal/store"
	"currencyconverter/internal/worker"
)

// App holds all application dependencies and manages their lifecycle.
type App struct {
	cfg    *config.Config
	logger *zap.SugaredLogger

	// Exactly one of these backs the rate store, depending on store.driver.
	badgerDB *badger.DB
	rdbStore *redis.Client
	db       *sql.DB

	rateStore   store.RateStore
	readyChecks []api.ReadyCheck

	rdbAsynq       *redis.Client
	asynqClient    *asynq.Client
	asynqServer    *asynq.Server
	asynqMux       *asynq.ServeMux
	asynqScheduler *asynq.Scheduler
	asynqmon       *asynqmon.HTTPHandler
	enqueuer       *worker.AsynqEnqueuer

	collector  *metrics.Collector
	tracker    *status.Tracker
	httpServer *http.Server
}

// NewApp initializes all dependencies and returns a ready-to-run App.
func NewApp(cfg *config.Config, logger *zap.SugaredLogger) (*App, error) {
	app := &App{
		cfg:       cfg,
		logger:    logger,
		collector: metrics.NewCollector(),
		tracker:   status.NewTracker(logger),
	}

	if err := app.initStorage(); err != nil {
		_ = app.close()
		return nil, err
	}

	if err := app.initWorker(); err != nil {
		_ = app.close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.close()
		return nil, err
	}

	return app, nil
}

// close releases the store and Redis connections
func (app *App) close() error {
	var errs []error
	if app.asynqmon != nil {
		if err := app.asynqmon.Close(); err != nil {
			errs = append(errs, fmt.Errorf("asynqmon close: %w", err))
		}
	}
	if app.asynqClient != nil {
		if err := app.asynqClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("asynq client close: %w", err))
		}
	}
	if app.rdbAsynq != nil {
		if err := app.rdbAsynq.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis asynq close: %w", err))
		}
	}
	if app.rdbStore != nil {
		if err := app.rdbStore.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis store close: %w", err))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("db close: %w", err))
		}
	}
	if app.badgerDB != nil {
		if err := app.badgerDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("badger close: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (app *App) initStorage() error {
	switch app.cfg.Store.Driver {
	case config.StoreBadger:
		db, err := store.OpenBadger(app.cfg.Store.BadgerDir)
		if err != nil {
			return fmt.Errorf("open Badger at %s: %w", app.cfg.Store.BadgerDir, err)
		}
		app.badgerDB = db
		app.rateStore = store.NewBadgerStore(db)
		app.readyChecks = append(app.readyChecks, api.ReadyCheck{
			Name: "Store",
			Ping: func(context.Context) error {
				if db.IsClosed() {
					return errors.New("badger is closed")
				}
				return nil
			},
		})
		app.logger.Infow("Opened Badger rate store", "dir", app.cfg.Store.BadgerDir)

	case config.StoreRedis:
		app.rdbStore = redis.NewClient(&redis.Options{Addr: app.cfg.Redis.StoreAddr})
		if err := app.rdbStore.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("connect to Redis (store, %s): %w", app.cfg.Redis.StoreAddr, err)
		}
		app.rateStore = store.NewRedisStore(app.rdbStore)
		app.readyChecks = append(app.readyChecks, api.ReadyCheck{
			Name: "Store",
			Ping: func(ctx context.Context) error { return app.rdbStore.Ping(ctx).Err() },
		})
		app.logger.Infow("Connected to Redis rate store", "addr", app.cfg.Redis.StoreAddr)

	case config.StorePostgres:
		db, err := store.NewPostgresDB(&app.cfg.Database)
		if err != nil {
			return fmt.Errorf("connect to Postgres: %w", err)
		}
		app.db = db
		if err := store.RunMigrations(app.db, app.logger); err != nil {
			return fmt.Errorf("run DB migrations: %w", err)
		}
		app.rateStore = store.NewPostgresStore(db)
		app.readyChecks = append(app.readyChecks, api.ReadyCheck{Name: "DB", Ping: db.PingContext})
		app.logger.Infow("Connected to Postgres rate store", "host", app.cfg.Database.Host)

	default:
		return fmt.Errorf("unsupported store driver %q", app.cfg.Store.Driver)
	}
	return nil
}

// initWorker sets up the asynq client, server and scheduler. It is a no-op when the
// worker is disabled.
func (app *App) initWorker() error {
	if !app.cfg.Worker.Enabled {
		app.logger.Infow("Background refresh worker disabled")
		return nil
	}

	wc := app.cfg.Worker
	redisOpt := asynq.RedisClientOpt{Addr: app.cfg.Redis.AsynqAddr}
	timeout := time.Duration(wc.TimeoutSec) * time.Second

	app.rdbAsynq = redis.NewClient(&redis.Options{Addr: app.cfg.Redis.AsynqAddr})
	app.readyChecks = append(app.readyChecks, api.ReadyCheck{
		Name: "Asynq Redis",
		Ping: func(ctx context.Context) error { return app.rdbAsynq.Ping(ctx).Err() },
	})

	app.asynqClient = asynq.NewClient(redisOpt)
	app.enqueuer = worker.NewAsynqEnqueuer(app.asynqClient, wc.MaxRetry, timeout)
	app.asynqServer = asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:              wc.Concurrency,
			DelayedTaskCheckInterval: time.Duration(wc.CheckIntervalSec) * time.Second,
			TaskCheckInterval:        time.Duration(wc.CheckIntervalSec) * time.Second,
		},
	)

	app.asynqScheduler = asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: time.UTC})
	if err := worker.RegisterWarmups(app.asynqScheduler, wc.RefreshCron, wc.WarmBases, wc.MaxRetry, timeout); err != nil {
		return err
	}

	if app.cfg.Server.ServeAsynqmon {
		app.asynqmon = asynqmon.New(asynqmon.Options{
			RootPath:     "/monitoring",
			RedisConnOpt: redisOpt,
		})
	}

	app.logger.Infow("Asynq configured", "addr", app.cfg.Redis.AsynqAddr,
		"refresh_cron", wc.RefreshCron, "warm_bases", wc.WarmBases)
	return nil
}

func (app *App) initServices() error {
	rateProvider, err := newRateProvider(app.cfg, app.collector)
	if err != nil {
		return err
	}

	rateService := service.NewRateService(app.rateStore, rateProvider, app.logger, app.tracker, app.collector)

	if app.cfg.Worker.Enabled {
		app.asynqMux = asynq.NewServeMux()
		app.asynqMux.HandleFunc(worker.TaskTypeRefreshRates, worker.NewRefreshHandler(rateService, app.logger))
	}

	if config.WatchConfig(func(path string) {
		app.logger.Infow("Config file changed on disk", "path", path)
		app.tracker.NotifyUpdateAvailable()
	}) {
		app.logger.Infow("Watching config file for updates")
	}

	app.initHTTP(rateService)
	return nil
}

// newRateProvider builds the upstream chain in providers.order, each source timed
// by the metrics collector.
func newRateProvider(cfg *config.Config, collector *metrics.Collector) (provider.RatesProvider, error) {
	pc := cfg.Providers
	var providers []provider.RatesProvider

	for _, name := range pc.Order {
		var p provider.RatesProvider
		switch name {
		case config.ProviderExchangeRateAPI:
			p = provider.NewExchangeRateAPIProvider(pc.ExchangeRateAPI.BaseURL, pc.ExchangeRateAPI.APIKey, pc.ExchangeRateAPI.Timeout)
		case config.ProviderExchangeRateHost:
			p = provider.NewExchangeRateHostProvider(pc.ExchangeRateHost.BaseURL, pc.ExchangeRateHost.APIKey, pc.ExchangeRateHost.Timeout)
		case config.ProviderFrankfurter:
			p = provider.NewFrankfurterProvider(pc.Frankfurter.BaseURL, pc.Frankfurter.Timeout)
		default:
			return nil, fmt.Errorf("unknown rate provider %q", name)
		}
		providers = append(providers, collector.WrapProvider(name, p))
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no exchange rate providers are configured: set providers.order")
	}

	if len(providers) == 1 {
		return providers[0], nil
	}

	return provider.NewExchangeProviderFacade(providers...), nil
}

// Run starts the HTTP server and, when enabled, the Asynq worker and scheduler,
// blocking until the context is canceled.
func (app *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if app.asynqServer != nil {
		g.Go(func() error {
			app.logger.Infow("Starting Asynq worker server")
			if err := app.asynqServer.Start(app.asynqMux); err != nil {
				return fmt.Errorf("asynq worker failed to start: %w", err)
			}
			if err := app.asynqScheduler.Start(); err != nil {
				return fmt.Errorf("asynq scheduler failed to start: %w", err)
			}

			<-ctx.Done()
			return nil
		})
	}

	g.Go(func() error {
		app.logger.Infow("HTTP server listening", "port", app.cfg.Server.Port)
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown: triggered by context cancellation (signal or component failure).
	g.Go(func() error {
		<-ctx.Done()
		return app.shutdown()
	})

	return g.Wait()
}

// shutdown performs ordered teardown: HTTP server -> scheduler -> Asynq worker -> connections.
// This ensures in-flight refreshes finish before the store closes.
func (app *App) shutdown() error {
	app.logger.Infow("Shutting down server...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 1. Stop accepting new HTTP requests, drain in-flight
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Errorw("HTTP server shutdown error", "error", err)
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	// 2. Stop scheduling, then drain in-flight Asynq tasks
	if app.asynqScheduler != nil {
		app.asynqScheduler.Shutdown()
	}
	if app.asynqServer != nil {
		app.asynqServer.Shutdown()
	}

	// 3. Close connections (asynq client, Redis, database, Badger)
	if err := app.close(); err != nil {
		app.logger.Errorw("Connection cleanup errors", "error", err)
		errs = append(errs, err)
	}

	app.logger.Infow("Shutdown complete")
	return errors.Join(errs...)
}
