package engine

import (
	"context"
	"hash/fnv"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Run starts the tick loops and blocks until the context is cancelled.
// Production ticks run on a worker pool sharded by settlement ID; disaster
// and population processing run on their own, coarser cadences.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("simulation engine started",
		"workers", e.cfg.Workers,
		"production_interval", e.cfg.ProductionInterval,
		"disaster_interval", e.cfg.DisasterInterval,
		"population_interval", e.cfg.PopulationInterval,
	)

	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < e.cfg.Workers; i++ {
		worker := i
		g.Go(func() error {
			return e.runLoop(ctx, e.cfg.ProductionInterval, func(ctx context.Context) {
				e.tickShard(ctx, worker)
			})
		})
	}

	g.Go(func() error {
		return e.runLoop(ctx, e.cfg.DisasterInterval, e.processDisasters)
	})
	g.Go(func() error {
		return e.runLoop(ctx, e.cfg.PopulationInterval, e.growPopulations)
	})

	err := g.Wait()
	slog.Info("simulation engine stopped")
	if err == context.Canceled {
		return nil
	}
	return err
}

// runLoop fires fn on a fixed cadence until the context ends.
func (e *Engine) runLoop(ctx context.Context, interval time.Duration, fn func(context.Context)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fn(ctx)
		}
	}
}

// tickShard runs one production tick for every settlement assigned to this
// worker. A settlement whose tick fails is logged and skipped; it is picked
// up again on the next cadence, never retried mid-cycle.
func (e *Engine) tickShard(ctx context.Context, worker int) {
	ids, err := e.st.ListSettlementIDs(ctx)
	if err != nil {
		slog.Error("list settlements failed, skipping cycle", "worker", worker, "error", err)
		return
	}
	for _, id := range ids {
		if shard(id, e.cfg.Workers) != worker {
			continue
		}
		if err := e.TickSettlement(ctx, id); err != nil {
			slog.Warn("settlement tick failed, will retry next cadence",
				"settlement", id, "error", err)
		}
	}
}

// processDisasters advances every unresolved disaster across all
// settlements.
func (e *Engine) processDisasters(ctx context.Context) {
	ids, err := e.st.ListSettlementIDs(ctx)
	if err != nil {
		slog.Error("list settlements failed, skipping disaster cycle", "error", err)
		return
	}
	for _, id := range ids {
		if err := e.ProcessSettlementDisasters(ctx, id); err != nil {
			slog.Warn("disaster processing failed, will retry next cadence",
				"settlement", id, "error", err)
		}
	}
}

// growPopulations runs the population growth tick for all settlements.
func (e *Engine) growPopulations(ctx context.Context) {
	ids, err := e.st.ListSettlementIDs(ctx)
	if err != nil {
		slog.Error("list settlements failed, skipping growth cycle", "error", err)
		return
	}
	for _, id := range ids {
		if err := e.GrowPopulation(ctx, id); err != nil {
			slog.Warn("population growth failed, will retry next cadence",
				"settlement", id, "error", err)
		}
	}
}

// shard assigns a settlement to a worker by hashing its ID.
func shard(settlementID string, workers int) int {
	h := fnv.New32a()
	h.Write([]byte(settlementID))
	return int(h.Sum32() % uint32(workers))
}
