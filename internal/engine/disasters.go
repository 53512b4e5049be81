package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkarlsen/bastion/internal/disaster"
	"github.com/mkarlsen/bastion/internal/store"
)

// ProcessSettlementDisasters advances every unresolved disaster targeting
// the settlement through the phases its timestamps have crossed. Each
// transition's side effects run exactly once: damage application commits
// atomically with the status advancement, so a crash between them cannot
// double-apply.
func (e *Engine) ProcessSettlementDisasters(ctx context.Context, settlementID string) error {
	unlock := e.locks.Lock(settlementID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.TickTimeout)
	defer cancel()

	events, err := e.st.UnresolvedDisastersFor(ctx, settlementID)
	if err != nil {
		return fmt.Errorf("load disasters for %s: %w", settlementID, err)
	}

	for _, ev := range events {
		if err := e.advanceDisaster(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// advanceDisaster walks the event forward one phase at a time until its
// status matches what its timestamps dictate. Damage applies on the
// transition into IMPACT, guarded by the LastProcessed watermark.
func (e *Engine) advanceDisaster(ctx context.Context, ev *disaster.Event) error {
	desired := ev.StatusAt(e.now())
	for ev.Status.Order() < desired.Order() {
		next := ev.Status.Next()

		if next == disaster.StatusImpact && ev.LastProcessed.Order() < next.Order() {
			res, err := e.applyImpact(ctx, ev, next)
			if err != nil {
				return err
			}
			if res.Casualties > 0 || res.StructuresDamaged > 0 || res.StructuresDestroyed > 0 {
				// Health changes alter modifier contributions.
				e.markDirty(ev.SettlementID)
			}
		} else {
			if err := e.st.UpdateDisasterProgress(ctx, ev.ID, next, next); err != nil {
				return fmt.Errorf("advance disaster %s to %s: %w", ev.ID, next, err)
			}
		}

		ev.Status = next
		ev.LastProcessed = next
		slog.Info("disaster phase advanced", "disaster", ev.ID, "kind", ev.Kind,
			"settlement", ev.SettlementID, "status", next)
	}
	return nil
}

// applyImpact commits damage and the IMPACT status advancement in one
// transaction. A damage failure degrades to a zero-impact result: the
// phase is still marked processed (separately) so the disaster does not
// wedge the tick loop, and the failure is logged.
func (e *Engine) applyImpact(ctx context.Context, ev *disaster.Event, next disaster.Status) (disaster.Result, error) {
	var res disaster.Result
	err := e.st.InTx(ctx, func(tx *store.Tx) error {
		var err error
		res, err = e.dmg.ApplyTx(ctx, tx, ev)
		if err != nil {
			return err
		}
		return tx.UpdateDisasterProgress(ctx, ev.ID, next, next)
	})
	if err != nil {
		slog.Error("disaster damage failed, recording zero impact",
			"disaster", ev.ID, "settlement", ev.SettlementID, "error", err)
		if markErr := e.st.UpdateDisasterProgress(ctx, ev.ID, next, next); markErr != nil {
			return disaster.Result{}, fmt.Errorf("mark disaster %s processed: %w", ev.ID, markErr)
		}
		return disaster.Result{DisasterID: ev.ID, SettlementID: ev.SettlementID}, nil
	}
	return res, nil
}

// ApplyDisasterDamage runs the damage sequence for one disaster on demand,
// regardless of the scheduler's cadence. Used by the external operation
// surface for a disaster whose phase transition was decided elsewhere.
func (e *Engine) ApplyDisasterDamage(ctx context.Context, disasterID string) (disaster.Result, error) {
	ev, err := e.st.Disaster(ctx, disasterID)
	if err != nil {
		return disaster.Result{}, err
	}

	unlock := e.locks.Lock(ev.SettlementID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.TickTimeout)
	defer cancel()

	res := e.dmg.Apply(ctx, ev)
	if res.Casualties > 0 || res.StructuresDamaged > 0 || res.StructuresDestroyed > 0 {
		e.markDirty(ev.SettlementID)
	}
	return res, nil
}

// ScheduleDisaster validates and stores a new disaster event.
func (e *Engine) ScheduleDisaster(ctx context.Context, ev *disaster.Event) error {
	if _, ok := e.cat.Disaster(ev.Kind); !ok {
		return fmt.Errorf("disaster kind %q: %w", ev.Kind, store.ErrNotFound)
	}
	if ev.Severity < 0 || ev.Severity > 100 {
		return fmt.Errorf("severity %.1f out of range: %w", ev.Severity, store.ErrInvalidState)
	}
	if !(ev.WarningAt.After(ev.ScheduledAt) || ev.WarningAt.Equal(ev.ScheduledAt)) ||
		ev.ImpactAt.Before(ev.WarningAt) ||
		ev.AftermathAt.Before(ev.ImpactAt) ||
		ev.ResolveAt.Before(ev.AftermathAt) {
		return fmt.Errorf("disaster phase timestamps out of order: %w", store.ErrInvalidState)
	}
	ok, err := e.st.SettlementExists(ctx, ev.SettlementID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("settlement %s: %w", ev.SettlementID, store.ErrNotFound)
	}
	return e.st.CreateDisaster(ctx, ev)
}
