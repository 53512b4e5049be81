// Package disaster implements the disaster lifecycle, preparedness scoring,
// damage application, and the continuous production penalties active
// disasters impose.
package disaster

import (
	"time"

	"github.com/mkarlsen/bastion/internal/catalog"
)

// Status is a phase in the disaster lifecycle. The machine only moves
// forward: SCHEDULED → WARNING → IMPACT → AFTERMATH → RESOLVED.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusWarning   Status = "WARNING"
	StatusImpact    Status = "IMPACT"
	StatusAftermath Status = "AFTERMATH"
	StatusResolved  Status = "RESOLVED"
)

// order maps statuses to their position in the lifecycle.
var order = map[Status]int{
	StatusScheduled: 0,
	StatusWarning:   1,
	StatusImpact:    2,
	StatusAftermath: 3,
	StatusResolved:  4,
}

// Order returns the status's position in the lifecycle, -1 when unknown.
func (s Status) Order() int {
	if n, ok := order[s]; ok {
		return n
	}
	return -1
}

// Next returns the following status; RESOLVED is terminal.
func (s Status) Next() Status {
	switch s {
	case StatusScheduled:
		return StatusWarning
	case StatusWarning:
		return StatusImpact
	case StatusImpact:
		return StatusAftermath
	default:
		return StatusResolved
	}
}

// Event is one scheduled disaster aimed at a settlement.
//
// LastProcessed records the most advanced status whose transition side
// effects (damage application) have already run, so a phase is never
// processed twice no matter how many ticks observe it.
type Event struct {
	ID           string               `json:"id" db:"id"`
	WorldID      string               `json:"world_id" db:"world_id"`
	SettlementID string               `json:"settlement_id" db:"settlement_id"`
	Kind         catalog.DisasterKind `json:"kind" db:"kind"`
	Severity     float64              `json:"severity" db:"severity"` // 0–100
	BiomeFilter  string               `json:"biome_filter" db:"biome_filter"`

	Status        Status `json:"status" db:"status"`
	LastProcessed Status `json:"last_processed" db:"last_processed"`

	ScheduledAt time.Time `json:"scheduled_at" db:"scheduled_at"`
	WarningAt   time.Time `json:"warning_at" db:"warning_at"`
	ImpactAt    time.Time `json:"impact_at" db:"impact_at"`
	AftermathAt time.Time `json:"aftermath_at" db:"aftermath_at"`
	ResolveAt   time.Time `json:"resolve_at" db:"resolve_at"`
}

// StatusAt returns the phase the event should be in at the given time,
// based on its phase timestamps.
func (e *Event) StatusAt(now time.Time) Status {
	switch {
	case now.Before(e.WarningAt):
		return StatusScheduled
	case now.Before(e.ImpactAt):
		return StatusWarning
	case now.Before(e.AftermathAt):
		return StatusImpact
	case now.Before(e.ResolveAt):
		return StatusAftermath
	default:
		return StatusResolved
	}
}

// Active reports whether the event currently penalizes production.
func (e *Event) Active() bool {
	return e.Status == StatusImpact || e.Status == StatusAftermath
}

// AftermathIntensity returns the linearly decaying intensity during the
// aftermath window: 1.0 at aftermath start, 0.0 at resolve time. Outside
// the window it is 0.
func (e *Event) AftermathIntensity(now time.Time) float64 {
	if !now.After(e.AftermathAt) || !now.Before(e.ResolveAt) {
		if now.Equal(e.AftermathAt) {
			return 1.0
		}
		return 0
	}
	window := e.ResolveAt.Sub(e.AftermathAt)
	if window <= 0 {
		return 0
	}
	frac := float64(now.Sub(e.AftermathAt)) / float64(window)
	return 1.0 - frac
}
