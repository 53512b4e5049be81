package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mkarlsen/bastion/internal/modifier"
	"github.com/mkarlsen/bastion/internal/resource"
	"github.com/mkarlsen/bastion/internal/settlement"
	"github.com/mkarlsen/bastion/internal/store"
	"github.com/mkarlsen/bastion/internal/structure"
)

// InsufficientResourceError is a domain outcome, not an engine failure: the
// build or upgrade was rejected and nothing changed. Missing lists the
// exact per-resource deficits so callers can show them.
type InsufficientResourceError struct {
	Missing map[resource.Type]int64
}

func (e *InsufficientResourceError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for t, n := range e.Missing {
		parts = append(parts, fmt.Sprintf("%s short %d", t, n))
	}
	sort.Strings(parts)
	return "insufficient resources: " + strings.Join(parts, ", ")
}

// BuildResult is the outcome of a structure create/upgrade/demolish,
// including the synchronously re-aggregated modifiers.
type BuildResult struct {
	Structure *structure.Instance     `json:"structure,omitempty"`
	Modifiers []settlement.Modifier   `json:"modifiers"`
	Refund    map[resource.Type]int64 `json:"refund,omitempty"`
}

// BuildStructure creates a level-1 structure, debiting its cost. The
// settlement's modifiers are re-aggregated in the same transaction, so the
// caller sees consistent state the moment this returns.
func (e *Engine) BuildStructure(ctx context.Context, settlementID, typeKey string, slot int) (*BuildResult, error) {
	st, ok := e.cat.Structure(typeKey)
	if !ok {
		return nil, fmt.Errorf("structure type %q: %w", typeKey, store.ErrNotFound)
	}

	unlock := e.locks.Lock(settlementID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.TickTimeout)
	defer cancel()

	out := &BuildResult{}
	err := e.st.InTx(ctx, func(tx *store.Tx) error {
		ok, err := tx.SettlementExists(ctx, settlementID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("settlement %s: %w", settlementID, store.ErrNotFound)
		}

		led, err := tx.Ledger(ctx, settlementID)
		if err != nil {
			return err
		}
		cost := structure.CostForLevel(st, 1)
		if missing := led.Deficits(cost); len(missing) > 0 {
			return &InsufficientResourceError{Missing: missing}
		}
		led.Spend(cost)
		if err := tx.SaveLedger(ctx, led); err != nil {
			return err
		}

		inst := &structure.Instance{
			ID:           uuid.NewString(),
			SettlementID: settlementID,
			TypeKey:      typeKey,
			Level:        1,
			Health:       100,
			Slot:         slot,
		}
		if err := tx.CreateStructure(ctx, inst); err != nil {
			return err
		}
		out.Structure = inst

		out.Modifiers, err = e.aggregateTx(ctx, tx, settlementID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpgradeStructure raises a structure one level, debiting the next level's
// cost. Destroyed structures cannot be upgraded; levels never decrease.
func (e *Engine) UpgradeStructure(ctx context.Context, settlementID, structureID string) (*BuildResult, error) {
	unlock := e.locks.Lock(settlementID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.TickTimeout)
	defer cancel()

	out := &BuildResult{}
	err := e.st.InTx(ctx, func(tx *store.Tx) error {
		inst, err := tx.Structure(ctx, structureID)
		if err != nil {
			return err
		}
		if inst.SettlementID != settlementID {
			return fmt.Errorf("structure %s: %w", structureID, store.ErrNotFound)
		}
		st, ok := e.cat.Structure(inst.TypeKey)
		if !ok {
			return fmt.Errorf("structure type %q: %w", inst.TypeKey, store.ErrNotFound)
		}
		if inst.Destroyed() {
			return fmt.Errorf("structure %s is destroyed: %w", structureID, store.ErrInvalidState)
		}
		if inst.Level >= st.MaxLevel {
			return fmt.Errorf("structure %s at max level %d: %w", structureID, st.MaxLevel, store.ErrInvalidState)
		}

		led, err := tx.Ledger(ctx, settlementID)
		if err != nil {
			return err
		}
		cost := structure.CostForLevel(st, inst.Level+1)
		if missing := led.Deficits(cost); len(missing) > 0 {
			return &InsufficientResourceError{Missing: missing}
		}
		led.Spend(cost)
		if err := tx.SaveLedger(ctx, led); err != nil {
			return err
		}
		if err := tx.UpdateStructureLevel(ctx, structureID, inst.Level+1); err != nil {
			return err
		}
		inst.Level++
		out.Structure = inst

		out.Modifiers, err = e.aggregateTx(ctx, tx, settlementID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DemolishStructure removes a structure and refunds part of its cumulative
// build cost. Destroyed structures can be demolished but refund nothing.
func (e *Engine) DemolishStructure(ctx context.Context, settlementID, structureID string) (*BuildResult, error) {
	unlock := e.locks.Lock(settlementID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.TickTimeout)
	defer cancel()

	out := &BuildResult{}
	err := e.st.InTx(ctx, func(tx *store.Tx) error {
		inst, err := tx.Structure(ctx, structureID)
		if err != nil {
			return err
		}
		if inst.SettlementID != settlementID {
			return fmt.Errorf("structure %s: %w", structureID, store.ErrNotFound)
		}
		if err := tx.DeleteStructure(ctx, structureID); err != nil {
			return err
		}

		if st, ok := e.cat.Structure(inst.TypeKey); ok {
			refund := structure.RefundForDemolish(st, inst)
			if len(refund) > 0 {
				led, err := tx.Ledger(ctx, settlementID)
				if err != nil {
					return err
				}
				for t, n := range refund {
					led.Credit(t, n)
				}
				if err := tx.SaveLedger(ctx, led); err != nil {
					return err
				}
				out.Refund = refund
			}
		}

		out.Modifiers, err = e.aggregateTx(ctx, tx, settlementID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// aggregateTx re-aggregates modifiers and refreshes derived capacities
// inside the caller's transaction.
func (e *Engine) aggregateTx(ctx context.Context, tx *store.Tx, settlementID string) ([]settlement.Modifier, error) {
	mods, err := modifier.NewAggregator(e.cat, tx).Recalculate(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if err := e.refreshDerived(ctx, tx, settlementID, mods); err != nil {
		return nil, err
	}
	return mods, nil
}

// RecalculateModifiers is the on-demand re-aggregation operation. Unknown
// settlements yield store.ErrNotFound (surfaced as a 404); a settlement
// with no structures yields an empty list.
func (e *Engine) RecalculateModifiers(ctx context.Context, settlementID string) ([]settlement.Modifier, error) {
	unlock := e.locks.Lock(settlementID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.TickTimeout)
	defer cancel()

	var mods []settlement.Modifier
	err := e.st.InTx(ctx, func(tx *store.Tx) error {
		var err error
		mods, err = e.aggregateTx(ctx, tx, settlementID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mods, nil
}

// Modifiers returns the stored modifier rows without recomputing. Empty
// list for a settlement with no structures.
func (e *Engine) Modifiers(ctx context.Context, settlementID string) ([]settlement.Modifier, error) {
	ok, err := e.st.SettlementExists(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, store.ErrNotFound)
	}
	return e.st.Modifiers(ctx, settlementID)
}
