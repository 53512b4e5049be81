// Command worldgen generates a world map and stores its tiles so
// settlements founded later can derive their biome from position.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mkarlsen/bastion/internal/catalog"
	"github.com/mkarlsen/bastion/internal/config"
	"github.com/mkarlsen/bastion/internal/store"
	"github.com/mkarlsen/bastion/internal/world"
)

func main() {
	worldID := flag.String("world", "default", "world identifier to generate tiles for")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	gen := world.DefaultGenConfig()
	gen.Seed = cfg.WorldSeed
	gen.Radius = cfg.WorldRadius

	slog.Info("generating world", "world", *worldID, "seed", gen.Seed, "radius", gen.Radius)
	m := world.Generate(gen)

	habitable := 0
	for biome, count := range m.BiomeCounts() {
		if world.Habitable(biome) {
			habitable += count
		}
		slog.Info("biome", "name", biome, "tiles", count)
	}
	slog.Info("world generated", "tiles", len(m.Tiles), "habitable", habitable)

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Error("failed to create data directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}
	st, err := store.Open(cfg.DBPath, catalog.Default())
	if err != nil {
		slog.Error("failed to open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.SaveWorldTiles(context.Background(), *worldID, m.Tiles); err != nil {
		slog.Error("failed to save world tiles", "error", err)
		os.Exit(1)
	}
	slog.Info("world tiles saved", "world", *worldID, "path", cfg.DBPath)
}
