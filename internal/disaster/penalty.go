package disaster

import (
	"time"

	"github.com/mkarlsen/bastion/internal/catalog"
	"github.com/mkarlsen/bastion/internal/resource"
)

// Penalties is the combined production impact of the currently active
// disasters. PerResource multipliers are applied to production rates
// (1.0 = unaffected). TotalPenaltyFraction is an aggregate for reporting:
// 1 − mean multiplier across the five core resources.
type Penalties struct {
	PerResource          map[resource.Type]float64 `json:"per_resource"`
	TotalPenaltyFraction float64                   `json:"total_penalty_fraction"`
}

// Multiplier returns the production multiplier for a resource (1.0 when
// unaffected).
func (p Penalties) Multiplier(t resource.Type) float64 {
	if m, ok := p.PerResource[t]; ok {
		return m
	}
	return 1.0
}

// ProductionPenalties folds the active disasters into per-resource
// production multipliers.
//
// An IMPACT-phase disaster applies its full configured penalty. During
// AFTERMATH the penalty decays linearly to nothing at resolve time:
// effective = 1 − (1−penalty) × intensity. Simultaneous disasters combine
// multiplicatively per resource, never additively.
func ProductionPenalties(cat *catalog.Catalog, events []*Event, now time.Time) Penalties {
	p := Penalties{PerResource: make(map[resource.Type]float64, len(resource.All))}
	for _, t := range resource.All {
		p.PerResource[t] = 1.0
	}

	for _, ev := range events {
		if !ev.Active() {
			continue
		}
		profile, ok := cat.Disaster(ev.Kind)
		if !ok {
			continue
		}
		intensity := 1.0
		if ev.Status == StatusAftermath {
			intensity = ev.AftermathIntensity(now)
			if intensity <= 0 {
				continue
			}
		}
		for t, penalty := range profile.ProductionPenalty {
			effective := 1 - (1-penalty)*intensity
			p.PerResource[t] *= effective
		}
	}

	sum := 0.0
	for _, t := range resource.Core {
		sum += p.PerResource[t]
	}
	p.TotalPenaltyFraction = 1 - sum/float64(len(resource.Core))
	return p
}
