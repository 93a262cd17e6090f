// Package config provides application configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"currencyconverter/internal/rates"
)

// Store drivers.
const (
	StoreBadger   = "badger"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Provider names accepted in providers.order.
const (
	ProviderExchangeRateAPI  = "exchangerate_api"
	ProviderExchangeRateHost = "exchangerate_host"
	ProviderFrankfurter      = "frankfurter"
)

// Config holds the complete application configuration.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Providers ProvidersConfig
	Worker    WorkerConfig
	Converter ConverterConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          int  `mapstructure:"port"`
	ServeSwagger  bool `mapstructure:"serve_swagger"`
	ServeAsynqmon bool `mapstructure:"serve_asynqmon"`
	ServeMetrics  bool `mapstructure:"serve_metrics"`
}

// StoreConfig selects where rate snapshots are persisted.
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	BadgerDir string `mapstructure:"badger_dir"`
}

// DatabaseConfig holds PostgreSQL connection settings, used by the postgres store driver.
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	Name               string `mapstructure:"name"`
	SSLMode            string `mapstructure:"sslmode"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSec int    `mapstructure:"conn_max_lifetime_sec"`
	DSN                string
}

// RedisConfig holds connection settings for both Redis roles.
type RedisConfig struct {
	StoreAddr string `mapstructure:"store_addr"` // snapshot store, required by the redis store driver.
	AsynqAddr string `mapstructure:"asynq_addr"` // refresh task queue, required when the worker is enabled.
}

// ProvidersConfig lists the upstream sources in the order they are tried.
type ProvidersConfig struct {
	Order            []string               `mapstructure:"order"`
	ExchangeRateAPI  ExchangeRateAPIConfig  `mapstructure:"exchangerate_api"`
	ExchangeRateHost ExchangeRateHostConfig `mapstructure:"exchangerate_host"`
	Frankfurter      FrankfurterConfig      `mapstructure:"frankfurter"`
}

// ExchangeRateAPIConfig holds settings for the ExchangeRate-API provider.
type ExchangeRateAPIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout_sec"`
}

// ExchangeRateHostConfig holds settings for the exchangerate.host provider.
type ExchangeRateHostConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout_sec"`
}

// FrankfurterConfig holds settings for the frankfurter provider.
type FrankfurterConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout_sec"`
}

// WorkerConfig holds background refresh worker and task queue settings.
type WorkerConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	Concurrency      int      `mapstructure:"concurrency"`
	MaxRetry         int      `mapstructure:"max_retry"`
	TimeoutSec       int      `mapstructure:"timeout_sec"`
	CheckIntervalSec int      `mapstructure:"check_interval_sec"`
	RefreshCron      string   `mapstructure:"refresh_cron"`
	WarmBases        []string `mapstructure:"warm_bases"`
}

// ConverterConfig holds the converter defaults.
type ConverterConfig struct {
	Base string `mapstructure:"base"`
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

var loaded *viper.Viper

// LoadConfig reads configuration from config files, environment variables, and defaults.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file found or error loading it: %v\n", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config search paths
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./internal/config")

	v.SetEnvPrefix("CONVERTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if no config file, we have defaults and env
		fmt.Printf("Config file not found: %v\n", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	loaded = v
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.serve_swagger", true)
	v.SetDefault("server.serve_asynqmon", false)
	v.SetDefault("server.serve_metrics", true)
	v.SetDefault("store.driver", StoreBadger)
	v.SetDefault("store.badger_dir", "./data")
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "ratesdb")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_sec", 300)
	v.SetDefault("redis.store_addr", "redis_store:6379")
	v.SetDefault("redis.asynq_addr", "redis_asynq:6380")
	v.SetDefault("providers.order", []string{ProviderExchangeRateAPI, ProviderFrankfurter})
	v.SetDefault("providers.exchangerate_api.base_url", "")
	v.SetDefault("providers.exchangerate_api.api_key", "")
	v.SetDefault("providers.exchangerate_api.timeout_sec", 5)
	v.SetDefault("providers.exchangerate_host.base_url", "https://api.exchangerate.host")
	v.SetDefault("providers.exchangerate_host.api_key", "")
	v.SetDefault("providers.exchangerate_host.timeout_sec", 5)
	v.SetDefault("providers.frankfurter.base_url", "https://api.frankfurter.dev/v1")
	v.SetDefault("providers.frankfurter.timeout_sec", 5)
	v.SetDefault("worker.enabled", false)
	v.SetDefault("worker.concurrency", 1)
	v.SetDefault("worker.max_retry", 3)
	v.SetDefault("worker.timeout_sec", 30)
	v.SetDefault("worker.check_interval_sec", 5)
	v.SetDefault("worker.refresh_cron", "@every 6h")
	v.SetDefault("worker.warm_bases", []string{"EUR"})
	v.SetDefault("converter.base", "EUR")
	v.SetDefault("converter.from", "EUR")
	v.SetDefault("converter.to", "COP")
}

// WatchConfig calls onChange whenever the loaded config file changes on disk.
// It reports false when no config file was read and nothing is watched.
func WatchConfig(onChange func(path string)) bool {
	if loaded == nil || loaded.ConfigFileUsed() == "" {
		return false
	}
	loaded.OnConfigChange(func(e fsnotify.Event) {
		onChange(e.Name)
	})
	loaded.WatchConfig()
	return true
}

func (c *Config) normalize() {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	c.Converter.Base = strings.ToUpper(strings.TrimSpace(c.Converter.Base))
	c.Converter.From = strings.ToUpper(strings.TrimSpace(c.Converter.From))
	c.Converter.To = strings.ToUpper(strings.TrimSpace(c.Converter.To))
	for i, b := range c.Worker.WarmBases {
		c.Worker.WarmBases[i] = strings.ToUpper(strings.TrimSpace(b))
	}
	for i, p := range c.Providers.Order {
		c.Providers.Order[i] = strings.ToLower(strings.TrimSpace(p))
	}

	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetimeSec <= 0 {
		c.Database.ConnMaxLifetimeSec = 300
	}

	c.Database.DSN = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User, c.Database.Password,
		c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.SSLMode)
}

// Validate checks that all required configuration fields are set and valid.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be positive, got %d", c.Server.Port))
	}

	switch c.Store.Driver {
	case StoreBadger:
		if c.Store.BadgerDir == "" {
			errs = append(errs, fmt.Errorf("store.badger_dir is required for the badger store"))
		}
	case StoreRedis:
		if c.Redis.StoreAddr == "" {
			errs = append(errs, fmt.Errorf("redis.store_addr is required for the redis store (set CONVERTER_REDIS_STORE_ADDR)"))
		}
	case StorePostgres:
		if c.Database.Host == "" {
			errs = append(errs, fmt.Errorf("database.host is required"))
		}
		if c.Database.Port <= 0 {
			errs = append(errs, fmt.Errorf("database.port must be positive, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required"))
		}
		if c.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be one of %s, %s, %s; got %q",
			StoreBadger, StoreRedis, StorePostgres, c.Store.Driver))
	}

	if len(c.Providers.Order) == 0 {
		errs = append(errs, fmt.Errorf("providers.order must name at least one provider"))
	}
	for _, name := range c.Providers.Order {
		switch name {
		case ProviderExchangeRateAPI, ProviderFrankfurter:
		case ProviderExchangeRateHost:
			if c.Providers.ExchangeRateHost.BaseURL == "" {
				errs = append(errs, fmt.Errorf("providers.exchangerate_host.base_url is required"))
			}
		default:
			errs = append(errs, fmt.Errorf("providers.order: unknown provider %q", name))
		}
	}

	for _, code := range []string{c.Converter.Base, c.Converter.From, c.Converter.To} {
		if !rates.IsValidCurrencyCode(code) {
			errs = append(errs, fmt.Errorf("converter currency %q is not a 3-letter code", code))
		}
	}

	if c.Worker.Enabled {
		errs = append(errs, c.Worker.validate(c.Redis.AsynqAddr)...)
	}

	return errors.Join(errs...)
}

func (w *WorkerConfig) validate(asynqAddr string) []error {
	var errs []error
	if asynqAddr == "" {
		errs = append(errs, fmt.Errorf("redis.asynq_addr is required when the worker is enabled (set CONVERTER_REDIS_ASYNQ_ADDR)"))
	}
	if w.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("worker.concurrency must be positive, got %d", w.Concurrency))
	}
	if w.MaxRetry < 0 {
		errs = append(errs, fmt.Errorf("worker.max_retry must be non-negative, got %d", w.MaxRetry))
	}
	if w.TimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("worker.timeout_sec must be positive, got %d", w.TimeoutSec))
	}
	if w.CheckIntervalSec <= 0 {
		errs = append(errs, fmt.Errorf("worker.check_interval_sec must be positive, got %d", w.CheckIntervalSec))
	}
	if w.RefreshCron == "" {
		errs = append(errs, fmt.Errorf("worker.refresh_cron is required when the worker is enabled"))
	}
	for _, b := range w.WarmBases {
		if !rates.IsValidCurrencyCode(b) {
			errs = append(errs, fmt.Errorf("worker.warm_bases: %q is not a 3-letter code", b))
		}
	}
	return errs
}
