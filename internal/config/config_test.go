package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tms/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.AppPort)
	assert.Equal(t, "my-secret-key", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, "auto", cfg.SeedSource)
	assert.Equal(t, time.Second, cfg.SeedRetryBackoff)
	assert.Equal(t, "none", cfg.EventsDriver)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	v := newViper()
	v.Set("APP_PORT", "8080")
	v.Set("STORE_DRIVER", "SQLite")
	v.Set("SEED_SOURCE", "local")
	v.Set("TOKEN_TTL", "2h")

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Regexp(t, `^file:[0-9a-f-]{36}\?mode=memory&cache=shared$`, cfg.DatabaseDSN)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)

	other, err := config.Load(v)
	require.NoError(t, err)
	assert.NotEqual(t, cfg.DatabaseDSN, other.DatabaseDSN, "each load gets its own in-memory database")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]interface{}{
		"unknown store":      {"STORE_DRIVER": "mongo"},
		"postgres needs dsn": {"STORE_DRIVER": "postgres"},
		"unknown seed":       {"SEED_SOURCE": "s3"},
		"unknown events":     {"EVENTS_DRIVER": "nats"},
		"empty secret":       {"JWT_SECRET": ""},
		"bad products url":   {"PRODUCTS_URL": "not a url"},
	}
	for name, overrides := range tests {
		t.Run(name, func(t *testing.T) {
			v := newViper()
			for k, val := range overrides {
				v.Set(k, val)
			}
			_, err := config.Load(v)
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TMS_TEST_DOTENV=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TMS_TEST_DOTENV") })

	require.NoError(t, config.LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("TMS_TEST_DOTENV"))
}
