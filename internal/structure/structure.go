// Package structure defines structure instances and their level-dependent
// build economics.
package structure

import (
	"math"
	"time"

	"github.com/mkarlsen/bastion/internal/catalog"
	"github.com/mkarlsen/bastion/internal/resource"
)

// Instance is one built structure in a settlement.
//
// Health runs 0–100. A structure at health 0 is non-functional: it is
// excluded from production and contributes nothing to modifiers, but it
// keeps its slot until explicitly demolished. Disasters only ever reduce
// health, never level.
type Instance struct {
	ID           string    `json:"id" db:"id"`
	SettlementID string    `json:"settlement_id" db:"settlement_id"`
	TypeKey      string    `json:"type_key" db:"type_key"`
	Level        int       `json:"level" db:"level"`
	Health       float64   `json:"health" db:"health"`
	Slot         int       `json:"slot" db:"slot"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// LastHarvestAt is zero until the first production credit.
	LastHarvestAt time.Time `json:"last_harvest_at" db:"last_harvest_at"`
}

// Functional reports whether the structure still operates.
func (i *Instance) Functional() bool {
	return i.Health > 0
}

// Destroyed reports whether health has been reduced to zero.
func (i *Instance) Destroyed() bool {
	return i.Health <= 0
}

// WithType joins an instance with its master-data record. The store
// produces this value so calculators never re-derive the join themselves.
type WithType struct {
	Instance
	Type *catalog.StructureType
}

// CostForLevel returns the resource cost to build (level 1) or upgrade to
// the given level: base cost × growth^(level-1), rounded up per resource.
func CostForLevel(st *catalog.StructureType, level int) map[resource.Type]int64 {
	if level < 1 {
		level = 1
	}
	mult := math.Pow(st.CostGrowth, float64(level-1))
	cost := make(map[resource.Type]int64, len(st.BaseCost))
	for t, base := range st.BaseCost {
		cost[t] = int64(math.Ceil(float64(base) * mult))
	}
	return cost
}

// DemolishRefundRate is the fraction of cumulative build cost returned on
// demolish.
const DemolishRefundRate = 0.5

// RefundForDemolish returns the resources refunded when a structure at the
// given level is demolished: half the cumulative cost of every level built,
// floored per resource. Destroyed structures refund nothing.
func RefundForDemolish(st *catalog.StructureType, inst *Instance) map[resource.Type]int64 {
	refund := make(map[resource.Type]int64, len(st.BaseCost))
	if inst.Destroyed() {
		return refund
	}
	for lvl := 1; lvl <= inst.Level; lvl++ {
		for t, n := range CostForLevel(st, lvl) {
			refund[t] += n
		}
	}
	for t, n := range refund {
		refund[t] = int64(math.Floor(float64(n) * DemolishRefundRate))
	}
	return refund
}
