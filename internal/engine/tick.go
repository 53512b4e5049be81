package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/mkarlsen/bastion/internal/catalog"
	"github.com/mkarlsen/bastion/internal/disaster"
	"github.com/mkarlsen/bastion/internal/modifier"
	"github.com/mkarlsen/bastion/internal/resource"
	"github.com/mkarlsen/bastion/internal/settlement"
	"github.com/mkarlsen/bastion/internal/store"
)

// TickSettlement runs one production tick for a settlement: credit
// accumulated production (scaled by active disaster penalties), then
// re-aggregate modifiers if the structure set changed since the last tick.
// The whole body runs under the settlement lock and a deadline; a timeout
// rolls back and the settlement is retried next cadence.
func (e *Engine) TickSettlement(ctx context.Context, settlementID string) error {
	unlock := e.locks.Lock(settlementID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.TickTimeout)
	defer cancel()

	now := e.now()

	err := e.st.InTx(ctx, func(tx *store.Tx) error {
		_, err := e.creditProduction(ctx, tx, settlementID, now, nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("production tick %s: %w", settlementID, err)
	}

	if e.clearDirty(settlementID) {
		if err := e.recalculateLocked(ctx, settlementID); err != nil {
			// Re-aggregation retries next tick; production already committed.
			e.markDirty(settlementID)
			return fmt.Errorf("re-aggregate %s: %w", settlementID, err)
		}
	}
	return nil
}

// CreditProduction credits production for a fixed elapsed window across all
// of a settlement's extractors, ignoring stored harvest timestamps. This is
// the external tick-loop operation; the internal scheduler path derives
// elapsed per structure instead.
func (e *Engine) CreditProduction(ctx context.Context, settlementID string, elapsed time.Duration) (resource.Delta, error) {
	unlock := e.locks.Lock(settlementID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.TickTimeout)
	defer cancel()

	now := e.now()
	var delta resource.Delta
	err := e.st.InTx(ctx, func(tx *store.Tx) error {
		var err error
		delta, err = e.creditProduction(ctx, tx, settlementID, now, &elapsed)
		return err
	})
	if err != nil {
		return resource.Delta{}, fmt.Errorf("credit production %s: %w", settlementID, err)
	}
	return delta, nil
}

// creditProduction performs the credit inside an open transaction. With a
// nil override, elapsed time comes from each structure's harvest timestamp;
// a structure with no prior timestamp is stamped and produces nothing this
// round. Harvest timestamps only advance when at least one whole unit is
// credited, so sub-unit accrual from short ticks is never discarded.
func (e *Engine) creditProduction(ctx context.Context, tx *store.Tx, settlementID string, now time.Time, override *time.Duration) (resource.Delta, error) {
	delta := resource.Delta{SettlementID: settlementID, Credited: make(map[resource.Type]int64)}

	sett, err := tx.Settlement(ctx, settlementID)
	if err != nil {
		return delta, err
	}
	structs, err := tx.StructuresWithTypes(ctx, settlementID)
	if err != nil {
		return delta, err
	}
	led, err := tx.Ledger(ctx, settlementID)
	if err != nil {
		return delta, err
	}
	events, err := tx.UnresolvedDisastersFor(ctx, settlementID)
	if err != nil {
		return delta, err
	}

	// Penalties follow the phase each disaster is actually in right now,
	// even if the status row has not been advanced yet this cycle.
	for _, ev := range events {
		ev.Status = ev.StatusAt(now)
	}
	pen := disaster.ProductionPenalties(e.cat, events, now)

	changed := false
	for i := range structs {
		st := &structs[i]
		if !st.Functional() || st.Type == nil || st.Type.Extracts == "" {
			continue
		}

		var elapsed time.Duration
		if override != nil {
			elapsed = *override
		} else {
			if st.LastHarvestAt.IsZero() {
				if err := tx.UpdateStructureHarvest(ctx, st.ID, now); err != nil {
					return delta, err
				}
				continue
			}
			elapsed = now.Sub(st.LastHarvestAt)
		}

		res := st.Type.Extracts
		rate := e.prod.Rate(res, st.TypeKey, sett.Biome, st.Level, e.cfg.WorldMultiplier)
		rate *= pen.Multiplier(res)
		amount := e.prod.Accumulated(rate, elapsed.Hours())
		if amount <= 0 {
			continue
		}

		credited := led.Credit(res, amount)
		delta.Credited[res] += credited
		delta.ElapsedHours = elapsed.Hours()
		if err := tx.UpdateStructureHarvest(ctx, st.ID, now); err != nil {
			return delta, err
		}
		changed = true
	}

	if changed {
		if err := tx.SaveLedger(ctx, led); err != nil {
			return delta, err
		}
	}
	return delta, nil
}

// recalculateLocked rebuilds modifiers and derived capacities. Caller holds
// the settlement lock.
func (e *Engine) recalculateLocked(ctx context.Context, settlementID string) error {
	return e.st.InTx(ctx, func(tx *store.Tx) error {
		mods, err := modifier.NewAggregator(e.cat, tx).Recalculate(ctx, settlementID)
		if err != nil {
			return err
		}
		return e.refreshDerived(ctx, tx, settlementID, mods)
	})
}

// refreshDerived updates the ledger capacity and population capacity from
// freshly aggregated modifier totals.
func (e *Engine) refreshDerived(ctx context.Context, tx *store.Tx, settlementID string, mods []settlement.Modifier) error {
	storageBonus := modifier.Total(mods, catalog.ModStorageCapacity)
	if err := tx.SetLedgerCapacity(ctx, settlementID, baseStorageCapacity+int64(storageBonus)); err != nil {
		return err
	}

	pop, err := tx.Population(ctx, settlementID)
	if err != nil {
		return err
	}
	housing := modifier.Total(mods, catalog.ModHousingCapacity)
	pop.Capacity = basePopulationCapacity + int64(housing)
	// Overcrowding after a capacity drop resolves through growth stalling,
	// not instant deaths.
	return tx.SavePopulation(ctx, pop)
}
