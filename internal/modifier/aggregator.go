// Package modifier recomputes settlement-wide modifier totals from the live
// structure set. Totals are always rebuilt whole and replaced atomically;
// there is no incremental bookkeeping to drift out of sync.
package modifier

import (
	"context"
	"fmt"
	"sort"

	"github.com/mkarlsen/bastion/internal/catalog"
	"github.com/mkarlsen/bastion/internal/settlement"
	"github.com/mkarlsen/bastion/internal/store"
	"github.com/mkarlsen/bastion/internal/structure"
)

// Store is the persistence surface the aggregator needs.
type Store interface {
	SettlementExists(ctx context.Context, settlementID string) (bool, error)
	StructuresWithTypes(ctx context.Context, settlementID string) ([]structure.WithType, error)
	ReplaceModifiers(ctx context.Context, settlementID string, mods []settlement.Modifier) error
}

// Aggregator rebuilds a settlement's modifier rows.
type Aggregator struct {
	cat   *catalog.Catalog
	store Store
}

// NewAggregator creates an aggregator bound to a catalog and store.
func NewAggregator(cat *catalog.Catalog, st Store) *Aggregator {
	return &Aggregator{cat: cat, store: st}
}

// Recalculate recomputes every modifier for the settlement from its live
// structures and replaces the stored rows in one transaction. Idempotent:
// with no structure changes between calls, two calls yield identical
// results. Returns store.ErrNotFound for an unknown settlement; an existing
// settlement with no structures yields an empty list.
func (a *Aggregator) Recalculate(ctx context.Context, settlementID string) ([]settlement.Modifier, error) {
	ok, err := a.store.SettlementExists(ctx, settlementID)
	if err != nil {
		return nil, fmt.Errorf("check settlement %s: %w", settlementID, err)
	}
	if !ok {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, store.ErrNotFound)
	}

	structs, err := a.store.StructuresWithTypes(ctx, settlementID)
	if err != nil {
		return nil, fmt.Errorf("load structures for %s: %w", settlementID, err)
	}

	mods := Compute(settlementID, structs)

	if err := a.store.ReplaceModifiers(ctx, settlementID, mods); err != nil {
		return nil, fmt.Errorf("replace modifiers for %s: %w", settlementID, err)
	}
	return mods, nil
}

// Compute derives the modifier set from a structure list without touching
// storage. Destroyed structures (health 0) contribute to nothing. Output is
// sorted by modifier type, contributors by structure ID, so repeated runs
// over the same input are byte-identical.
func Compute(settlementID string, structs []structure.WithType) []settlement.Modifier {
	byType := make(map[catalog.ModifierType]*settlement.Modifier)

	for _, s := range structs {
		if !s.Functional() || s.Type == nil {
			continue
		}
		for _, grant := range s.Type.Modifiers {
			m, ok := byType[grant.Type]
			if !ok {
				m = &settlement.Modifier{
					SettlementID: settlementID,
					Type:         grant.Type,
				}
				byType[grant.Type] = m
			}
			value := grant.Value(s.Level)
			m.TotalValue += value
			m.SourceCount++
			m.Contributors = append(m.Contributors, settlement.Contribution{
				StructureID:   s.ID,
				StructureName: s.Type.Name,
				Level:         s.Level,
				Value:         value,
			})
		}
	}

	mods := make([]settlement.Modifier, 0, len(byType))
	for _, m := range byType {
		sort.Slice(m.Contributors, func(i, j int) bool {
			return m.Contributors[i].StructureID < m.Contributors[j].StructureID
		})
		mods = append(mods, *m)
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i].Type < mods[j].Type })
	return mods
}

// Total returns the total value for one modifier type from an aggregated
// list, 0 when the type is absent.
func Total(mods []settlement.Modifier, t catalog.ModifierType) float64 {
	for _, m := range mods {
		if m.Type == t {
			return m.TotalValue
		}
	}
	return 0
}
