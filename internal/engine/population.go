package engine

import (
	"context"
	"log/slog"

	"github.com/mkarlsen/bastion/internal/store"
)

// GrowPopulation advances one settlement's population toward its housing
// capacity. Growth is proportional to free capacity, so settlements near
// their cap grow slowly and full ones not at all. Population never shrinks
// here; only disasters reduce it.
func (e *Engine) GrowPopulation(ctx context.Context, settlementID string) error {
	unlock := e.locks.Lock(settlementID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.TickTimeout)
	defer cancel()

	return e.st.InTx(ctx, func(tx *store.Tx) error {
		pop, err := tx.Population(ctx, settlementID)
		if err != nil {
			return err
		}
		free := pop.Capacity - pop.Current
		if free <= 0 {
			return nil
		}
		growth := int64(float64(free) * e.cfg.PopulationGrowth)
		if growth < 1 {
			growth = 1
		}
		pop.Current += growth
		if pop.Current > pop.Capacity {
			pop.Current = pop.Capacity
		}
		if err := tx.SavePopulation(ctx, pop); err != nil {
			return err
		}
		slog.Debug("population grew",
			"settlement", settlementID,
			"current", pop.Current,
			"capacity", pop.Capacity)
		return nil
	})
}
