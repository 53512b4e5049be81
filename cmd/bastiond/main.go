// Command bastiond runs the settlement engine daemon: the tick scheduler
// and the HTTP operations API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mkarlsen/bastion/internal/api"
	"github.com/mkarlsen/bastion/internal/catalog"
	"github.com/mkarlsen/bastion/internal/config"
	"github.com/mkarlsen/bastion/internal/engine"
	"github.com/mkarlsen/bastion/internal/entropy"
	"github.com/mkarlsen/bastion/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Error("failed to create data directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}

	cat := catalog.Default()
	st, err := store.Open(cfg.DBPath, cat)
	if err != nil {
		slog.Error("failed to open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("store opened", "path", cfg.DBPath)

	eng := engine.New(cfg, cat, st, entropy.Crypto{})
	srv := api.NewServer(cfg, eng)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("bastiond starting",
		"workers", cfg.Workers,
		"production_interval", cfg.ProductionInterval,
		"disaster_interval", cfg.DisasterInterval,
		"api_port", cfg.APIPort)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return eng.Run(ctx) })
	g.Go(func() error { return srv.Start(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("daemon exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("bastiond stopped")
}
