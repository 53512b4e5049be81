// Package config loads engine configuration from the environment, with an
// optional .env file for local runs. Tick cadences are deployment
// configuration, never hardcoded engine constants.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full daemon configuration.
type Config struct {
	DBPath   string
	APIPort  int
	LogLevel slog.Level

	// Simulation cadences.
	ProductionInterval time.Duration // per-settlement production tick
	DisasterInterval   time.Duration // disaster phase processing (coarser)
	PopulationInterval time.Duration // population growth tick (coarsest)
	TickTimeout        time.Duration // deadline for one settlement's tick body
	Workers            int           // tick worker pool size

	// World tuning.
	WorldMultiplier  float64 // global production multiplier
	PopulationGrowth float64 // fraction of free capacity gained per growth tick

	// World generation (cmd/worldgen).
	WorldSeed   int64
	WorldRadius int

	// API rate limiting (requests/second and burst per client IP).
	RateLimit float64
	RateBurst int
}

// Load reads configuration, loading a .env file first when present.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:             envStr("DB_PATH", "data/bastion.db"),
		APIPort:            envInt("API_PORT", 8080),
		LogLevel:           parseLogLevel(envStr("LOG_LEVEL", "info")),
		ProductionInterval: envDur("PRODUCTION_TICK_INTERVAL", 10*time.Second),
		DisasterInterval:   envDur("DISASTER_TICK_INTERVAL", 30*time.Second),
		PopulationInterval: envDur("POPULATION_TICK_INTERVAL", 5*time.Minute),
		TickTimeout:        envDur("TICK_TIMEOUT", 5*time.Second),
		Workers:            envInt("TICK_WORKERS", 4),
		WorldMultiplier:    envFloat("WORLD_MULTIPLIER", 1.0),
		PopulationGrowth:   envFloat("POPULATION_GROWTH_RATE", 0.02),
		WorldSeed:          int64(envInt("WORLD_SEED", 0)),
		WorldRadius:        envInt("WORLD_RADIUS", 22),
		RateLimit:          envFloat("API_RATE_LIMIT", 10),
		RateBurst:          envInt("API_RATE_BURST", 20),
	}

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("TICK_WORKERS must be >= 1, got %d", cfg.Workers)
	}
	if cfg.ProductionInterval <= 0 {
		return nil, fmt.Errorf("PRODUCTION_TICK_INTERVAL must be positive")
	}
	if cfg.TickTimeout <= 0 {
		return nil, fmt.Errorf("TICK_TIMEOUT must be positive")
	}
	return cfg, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid float in environment, using default", "key", key, "value", v)
		return def
	}
	return f
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return def
	}
	return d
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
