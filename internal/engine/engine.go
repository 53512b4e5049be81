// Package engine drives the recurring settlement simulation: production
// crediting, modifier re-aggregation, disaster phase processing, and
// population growth, sharded across a worker pool with per-settlement
// mutual exclusion.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/mkarlsen/bastion/internal/catalog"
	"github.com/mkarlsen/bastion/internal/config"
	"github.com/mkarlsen/bastion/internal/disaster"
	"github.com/mkarlsen/bastion/internal/entropy"
	"github.com/mkarlsen/bastion/internal/production"
	"github.com/mkarlsen/bastion/internal/store"
)

// Baseline capacities before any structure modifiers apply.
const (
	baseStorageCapacity    = 1000
	basePopulationCapacity = 10
)

// Engine wires the calculators to the store and runs the tick loops.
type Engine struct {
	cfg  *config.Config
	cat  *catalog.Catalog
	st   *store.Store
	prod *production.Calculator
	dmg  *disaster.DamageCalculator

	locks *lockTable

	// Settlements whose structure set changed since their last tick
	// (disaster damage, external edits); their modifiers are re-aggregated
	// on the next production tick.
	dirtyMu sync.Mutex
	dirty   map[string]bool

	// now is replaceable in tests.
	now func() time.Time
}

// New creates an engine. The random source feeds disaster damage variance;
// pass a seeded source for reproducible runs.
func New(cfg *config.Config, cat *catalog.Catalog, st *store.Store, src entropy.Source) *Engine {
	e := &Engine{
		cfg:   cfg,
		cat:   cat,
		st:    st,
		prod:  production.NewCalculator(cat),
		locks: newLockTable(),
		dirty: make(map[string]bool),
		now:   func() time.Time { return time.Now().UTC() },
	}
	e.dmg = disaster.NewDamageCalculator(cat, damageStore{st}, src)
	return e
}

// damageStore adapts the store's transaction API to the disaster package.
type damageStore struct {
	st *store.Store
}

func (d damageStore) InTx(ctx context.Context, fn func(tx disaster.TxStore) error) error {
	return d.st.InTx(ctx, func(tx *store.Tx) error { return fn(tx) })
}

// markDirty flags a settlement for modifier re-aggregation on its next tick.
func (e *Engine) markDirty(settlementID string) {
	e.dirtyMu.Lock()
	e.dirty[settlementID] = true
	e.dirtyMu.Unlock()
}

// clearDirty consumes a settlement's dirty flag.
func (e *Engine) clearDirty(settlementID string) bool {
	e.dirtyMu.Lock()
	defer e.dirtyMu.Unlock()
	if e.dirty[settlementID] {
		delete(e.dirty, settlementID)
		return true
	}
	return false
}
