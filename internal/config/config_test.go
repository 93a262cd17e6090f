package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := Config{
		Server:    ServerConfig{Port: 8080},
		Store:     StoreConfig{Driver: StoreBadger, BadgerDir: "./data"},
		Providers: ProvidersConfig{Order: []string{ProviderExchangeRateAPI, ProviderFrankfurter}},
		Converter: ConverterConfig{Base: "EUR", From: "EUR", To: "COP"},
		Worker: WorkerConfig{
			Concurrency:      1,
			MaxRetry:         3,
			TimeoutSec:       30,
			CheckIntervalSec: 5,
			RefreshCron:      "@every 6h",
			WarmBases:        []string{"EUR"},
		},
		Redis: RedisConfig{AsynqAddr: "localhost:6380"},
	}
	return cfg
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, StoreBadger, cfg.Store.Driver)
	assert.Equal(t, []string{ProviderExchangeRateAPI, ProviderFrankfurter}, cfg.Providers.Order)
	assert.Equal(t, "EUR", cfg.Converter.Base)
	assert.Equal(t, "COP", cfg.Converter.To)
	assert.False(t, cfg.Worker.Enabled)
	assert.Contains(t, cfg.Database.DSN, "sslmode=disable")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CONVERTER_SERVER_PORT", "9090")
	t.Setenv("CONVERTER_STORE_DRIVER", "Redis")
	t.Setenv("CONVERTER_CONVERTER_BASE", "usd")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, StoreRedis, cfg.Store.Driver)
	assert.Equal(t, "USD", cfg.Converter.Base)
}

func TestLoadConfig_InvalidDriver(t *testing.T) {
	t.Setenv("CONVERTER_STORE_DRIVER", "sqlite")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"badger without dir", func(c *Config) { c.Store.BadgerDir = "" }, "store.badger_dir"},
		{"redis without addr", func(c *Config) { c.Store.Driver = StoreRedis }, "redis.store_addr"},
		{"postgres without host", func(c *Config) {
			c.Store.Driver = StorePostgres
			c.Database = DatabaseConfig{Port: 5432, User: "u", Name: "n"}
		}, "database.host"},
		{"no providers", func(c *Config) { c.Providers.Order = nil }, "providers.order"},
		{"unknown provider", func(c *Config) { c.Providers.Order = []string{"yahoo"} }, "unknown provider"},
		{"bad converter code", func(c *Config) { c.Converter.To = "CO" }, "converter currency"},
		{"worker without cron", func(c *Config) {
			c.Worker.Enabled = true
			c.Worker.RefreshCron = ""
		}, "worker.refresh_cron"},
		{"worker bad warm base", func(c *Config) {
			c.Worker.Enabled = true
			c.Worker.WarmBases = []string{"EURO"}
		}, "worker.warm_bases"},
		{"disabled worker is not validated", func(c *Config) { c.Worker.Concurrency = 0 }, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestWatchConfig_NoFile(t *testing.T) {
	_, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, WatchConfig(func(string) {}))
}
