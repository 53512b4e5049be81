package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/bastion.db", cfg.DBPath)
	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ProductionInterval)
	assert.Equal(t, 5*time.Second, cfg.TickTimeout)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 1.0, cfg.WorldMultiplier)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("API_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PRODUCTION_TICK_INTERVAL", "2s")
	t.Setenv("WORLD_MULTIPLIER", "2.5")
	t.Setenv("TICK_WORKERS", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 9090, cfg.APIPort)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.ProductionInterval)
	assert.Equal(t, 2.5, cfg.WorldMultiplier)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("API_PORT", "not-a-number")
	t.Setenv("PRODUCTION_TICK_INTERVAL", "sideways")
	t.Setenv("WORLD_MULTIPLIER", "very")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, 10*time.Second, cfg.ProductionInterval)
	assert.Equal(t, 1.0, cfg.WorldMultiplier)
}

func TestLoadRejectsBadWorkerCounts(t *testing.T) {
	t.Setenv("TICK_WORKERS", "0")
	_, err := Load()
	assert.Error(t, err)
}
