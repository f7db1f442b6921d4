package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3, cfg.MaxConflictRetries)
	assert.Equal(t, time.Duration(0), cfg.CancellationWindow)
	assert.Equal(t, "UTC", cfg.SessionLocation.String())
	assert.Equal(t, 4, cfg.ReconcileWorkers)
	assert.Equal(t, int32(0), cfg.CurrencyPrecision)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiryDuration)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/crm-test.db")
	t.Setenv("MAX_CONFLICT_RETRIES", "5")
	t.Setenv("CANCELLATION_WINDOW", "2h")
	t.Setenv("SESSION_TIMEZONE", "Europe/Moscow")
	t.Setenv("RECONCILE_WORKERS", "0")
	t.Setenv("CURRENCY_PRECISION", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/crm-test.db", cfg.SQLitePath)
	assert.Equal(t, 5, cfg.MaxConflictRetries)
	assert.Equal(t, 2*time.Hour, cfg.CancellationWindow)
	assert.Equal(t, "Europe/Moscow", cfg.SessionLocation.String())
	assert.Equal(t, 1, cfg.ReconcileWorkers, "non-positive worker count falls back to 1")
	assert.Equal(t, int32(2), cfg.CurrencyPrecision)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown driver", key: "STORE_DRIVER", val: "mongo"},
		{name: "bad window", key: "CANCELLATION_WINDOW", val: "soon"},
		{name: "negative window", key: "CANCELLATION_WINDOW", val: "-1h"},
		{name: "bad timezone", key: "SESSION_TIMEZONE", val: "Mars/Olympus"},
		{name: "precision too large", key: "CURRENCY_PRECISION", val: "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORE_DRIVER", "memory")
			t.Setenv(tt.key, tt.val)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
