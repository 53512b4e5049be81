package disaster

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/mkarlsen/bastion/internal/catalog"
	"github.com/mkarlsen/bastion/internal/entropy"
	"github.com/mkarlsen/bastion/internal/resource"
	"github.com/mkarlsen/bastion/internal/settlement"
	"github.com/mkarlsen/bastion/internal/structure"
)

// varianceSpread is the half-width of the uniform damage variance: net
// damage is scaled by a factor in [1-varianceSpread, 1+varianceSpread].
const varianceSpread = 0.2

// hospitalMinHealth is the health a hospital needs to still save lives.
const hospitalMinHealth = 20.0

// TxStore is the persistence surface the damage sequence runs against,
// already inside a transaction.
type TxStore interface {
	Settlement(ctx context.Context, id string) (*settlement.Settlement, error)
	Population(ctx context.Context, settlementID string) (*settlement.Population, error)
	SavePopulation(ctx context.Context, pop *settlement.Population) error
	StructuresWithTypes(ctx context.Context, settlementID string) ([]structure.WithType, error)
	UpdateStructureHealth(ctx context.Context, structureID string, health float64) error
	Ledger(ctx context.Context, settlementID string) (*resource.Ledger, error)
	SaveLedger(ctx context.Context, led *resource.Ledger) error
}

// Store opens transactions for the damage sequence.
type Store interface {
	InTx(ctx context.Context, fn func(tx TxStore) error) error
}

// AffectedStructure records one structure's outcome from a disaster.
type AffectedStructure struct {
	StructureID string  `json:"structure_id"`
	TypeKey     string  `json:"type_key"`
	Name        string  `json:"name"`
	OldHealth   float64 `json:"old_health"`
	NewHealth   float64 `json:"new_health"`
	Destroyed   bool    `json:"destroyed"`
}

// Result summarizes the damage a disaster dealt to one settlement.
type Result struct {
	DisasterID          string                  `json:"disaster_id"`
	SettlementID        string                  `json:"settlement_id"`
	Preparedness        float64                 `json:"preparedness"`
	NetDamage           float64                 `json:"net_damage"`
	Casualties          int64                   `json:"casualties"`
	StructuresDamaged   int                     `json:"structures_damaged"`
	StructuresDestroyed int                     `json:"structures_destroyed"`
	ResourcesLost       map[resource.Type]int64 `json:"resources_lost"`
	AffectedStructures  []AffectedStructure     `json:"affected_structures"`
}

// DamageCalculator runs the full disaster damage sequence: preparedness →
// net damage → per-structure health loss → casualties → resource loss, all
// inside one transaction per settlement.
type DamageCalculator struct {
	cat    *catalog.Catalog
	scorer *Scorer
	rand   entropy.Source
	store  Store
}

// NewDamageCalculator creates a damage calculator. The random source is
// injected so tests can seed it.
func NewDamageCalculator(cat *catalog.Catalog, store Store, src entropy.Source) *DamageCalculator {
	return &DamageCalculator{
		cat:    cat,
		scorer: NewScorer(cat),
		rand:   src,
		store:  store,
	}
}

// Apply runs the damage sequence for one disaster against its settlement.
// A failure anywhere rolls the transaction back, logs, and yields a
// zero-impact result: one settlement's disaster processing must never halt
// the world tick for the others.
func (d *DamageCalculator) Apply(ctx context.Context, ev *Event) Result {
	var res Result
	err := d.store.InTx(ctx, func(tx TxStore) error {
		var err error
		res, err = d.ApplyTx(ctx, tx, ev)
		return err
	})
	if err != nil {
		slog.Error("disaster damage failed, skipping",
			"disaster", ev.ID,
			"settlement", ev.SettlementID,
			"kind", ev.Kind,
			"error", err,
		)
		return Result{
			DisasterID:    ev.ID,
			SettlementID:  ev.SettlementID,
			ResourcesLost: map[resource.Type]int64{},
		}
	}
	return res
}

// ApplyTx runs the damage sequence inside an existing transaction, so the
// caller can commit it atomically with the disaster's phase advancement.
func (d *DamageCalculator) ApplyTx(ctx context.Context, tx TxStore, ev *Event) (Result, error) {
	res := Result{
		DisasterID:    ev.ID,
		SettlementID:  ev.SettlementID,
		ResourcesLost: map[resource.Type]int64{},
	}

	sett, err := tx.Settlement(ctx, ev.SettlementID)
	if err != nil {
		return res, fmt.Errorf("load settlement: %w", err)
	}
	pop, err := tx.Population(ctx, ev.SettlementID)
	if err != nil {
		return res, fmt.Errorf("load population: %w", err)
	}
	structs, err := tx.StructuresWithTypes(ctx, ev.SettlementID)
	if err != nil {
		return res, fmt.Errorf("load structures: %w", err)
	}

	// 1. Preparedness.
	res.Preparedness = d.scorer.Score(sett, pop, structs, ev.Kind)

	// 2. Net damage with uniform variance in [-20%, +20%].
	variance := (d.rand.Float()*2 - 1) * varianceSpread
	net := (ev.Severity - res.Preparedness) * (1 + variance)
	if net < 0 {
		net = 0
	}
	if net > 100 {
		net = 100
	}
	res.NetDamage = net

	// 3. Per-structure health reduction.
	type storageHit struct {
		fracLost float64
	}
	var storageHits []storageHit
	for i := range structs {
		st := &structs[i]
		if st.Destroyed() || st.Type == nil {
			continue // already rubble, nothing left to damage
		}
		dmg := net * (1 - st.Type.Resistance(ev.Kind))
		if dmg <= 0 {
			continue
		}
		oldHealth := st.Health
		newHealth := oldHealth - dmg
		if newHealth < 0 {
			newHealth = 0
		}
		if newHealth == oldHealth {
			continue
		}
		if err := tx.UpdateStructureHealth(ctx, st.ID, newHealth); err != nil {
			return res, fmt.Errorf("update structure %s: %w", st.ID, err)
		}
		st.Health = newHealth

		destroyed := newHealth == 0
		if destroyed {
			res.StructuresDestroyed++
		} else {
			res.StructuresDamaged++
		}
		res.AffectedStructures = append(res.AffectedStructures, AffectedStructure{
			StructureID: st.ID,
			TypeKey:     st.TypeKey,
			Name:        st.Type.Name,
			OldHealth:   oldHealth,
			NewHealth:   newHealth,
			Destroyed:   destroyed,
		})
		if st.Type.Category == catalog.CategoryStorage {
			storageHits = append(storageHits, storageHit{fracLost: (oldHealth - newHealth) / 100})
		}
	}

	// 4. Casualties among the unsheltered.
	casualtyMult := 1.0
	if profile, ok := d.cat.Disaster(ev.Kind); ok {
		casualtyMult = profile.CasualtyMultiplier
	}
	unsheltered := pop.Current - ShelterCapacity(structs)
	if unsheltered < 0 {
		unsheltered = 0
	}
	base := float64(unsheltered) * (net / 100) * casualtyMult
	saveRate := hospitalSaveRate(structs)
	casualties := int64(math.Floor(base * (1 - saveRate)))
	if casualties > pop.Current {
		casualties = pop.Current
	}
	if casualties > 0 {
		pop.Current -= casualties
		if err := tx.SavePopulation(ctx, pop); err != nil {
			return res, fmt.Errorf("save population: %w", err)
		}
	}
	res.Casualties = casualties

	// 5. Resource loss from damaged storage.
	if len(storageHits) > 0 {
		led, err := tx.Ledger(ctx, ev.SettlementID)
		if err != nil {
			return res, fmt.Errorf("load ledger: %w", err)
		}
		avgFrac := 0.0
		for _, h := range storageHits {
			avgFrac += h.fracLost
		}
		avgFrac /= float64(len(storageHits))

		changed := false
		for _, t := range resource.All {
			stored := led.Amount(t)
			if stored == 0 {
				continue
			}
			loss := int64(math.Floor(float64(stored) * avgFrac))
			if loss <= 0 {
				continue
			}
			led.Debit(t, loss)
			res.ResourcesLost[t] = loss
			changed = true
		}
		if changed {
			if err := tx.SaveLedger(ctx, led); err != nil {
				return res, fmt.Errorf("save ledger: %w", err)
			}
		}
	}

	slog.Info("disaster damage applied",
		"disaster", ev.ID,
		"settlement", ev.SettlementID,
		"kind", ev.Kind,
		"severity", ev.Severity,
		"preparedness", fmt.Sprintf("%.1f", res.Preparedness),
		"net_damage", fmt.Sprintf("%.1f", res.NetDamage),
		"casualties", res.Casualties,
		"damaged", res.StructuresDamaged,
		"destroyed", res.StructuresDestroyed,
	)
	return res, nil
}

// hospitalSaveRate returns the casualty save rate from the best functional
// hospital: 0.5 at level 1, +0.05 per level, capped at 0.75. A hospital at
// or below 20 health is too damaged to help.
func hospitalSaveRate(structs []structure.WithType) float64 {
	rate := 0.0
	for _, st := range structs {
		if st.TypeKey != catalog.KeyHospital || st.Health <= hospitalMinHealth {
			continue
		}
		r := 0.5 + float64(st.Level-1)*0.05
		if r > 0.75 {
			r = 0.75
		}
		if r > rate {
			rate = r
		}
	}
	return rate
}
