// Package settlement defines the settlement aggregate and its derived
// modifier rows.
package settlement

import (
	"time"

	"github.com/mkarlsen/bastion/internal/catalog"
)

// Settlement is a player-owned population center.
type Settlement struct {
	ID       string `json:"id" db:"id"`
	PlayerID string `json:"player_id" db:"player_id"`
	WorldID  string `json:"world_id" db:"world_id"`
	Name     string `json:"name" db:"name"`

	// Biome the settlement sits in; feeds production efficiency.
	Biome string `json:"biome" db:"biome"`

	// Resilience (0–100) feeds disaster preparedness.
	Resilience float64 `json:"resilience" db:"resilience"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Population tracks a settlement's inhabitants. Capacity derives from
// housing modifiers and is refreshed whenever modifiers are re-aggregated.
type Population struct {
	SettlementID string `json:"settlement_id" db:"settlement_id"`
	Current      int64  `json:"current" db:"current"`
	Capacity     int64  `json:"capacity" db:"capacity"`
}

// Modifier is one settlement-wide bonus total, fully recomputed from the
// live structure set on every aggregation. Derived data, never patched
// incrementally.
type Modifier struct {
	SettlementID string               `json:"settlement_id"`
	Type         catalog.ModifierType `json:"type"`
	TotalValue   float64              `json:"total_value"`
	SourceCount  int                  `json:"source_count"`
	Contributors []Contribution       `json:"contributing_structures"`
}

// Contribution records one structure's share of a modifier total.
type Contribution struct {
	StructureID   string  `json:"structure_id"`
	StructureName string  `json:"structure_name"`
	Level         int     `json:"level"`
	Value         float64 `json:"value"`
}
