package disaster

import (
	"github.com/mkarlsen/bastion/internal/catalog"
	"github.com/mkarlsen/bastion/internal/settlement"
	"github.com/mkarlsen/bastion/internal/structure"
)

// Component caps for the preparedness score. The five terms sum to at most
// 100; the total is clamped there regardless.
const (
	shelterMax    = 30.0
	warningEach   = 5.0
	warningMax    = 15.0
	resistanceMax = 30.0
	fortressBonus = 30.0
	resilienceMax = 20.0
)

// Scorer derives a settlement's 0–100 readiness against a disaster kind.
type Scorer struct {
	cat *catalog.Catalog
}

// NewScorer creates a preparedness scorer.
func NewScorer(cat *catalog.Catalog) *Scorer {
	return &Scorer{cat: cat}
}

// Score computes defensive readiness from shelter coverage, warning
// structures, structural resistances, fortress presence, and the
// settlement's resilience stat. Destroyed structures count toward nothing.
//
// Negative resistances (structure types that make the settlement MORE
// vulnerable to this kind) subtract from the resistance term; the final
// score still floors at 0.
func (s *Scorer) Score(sett *settlement.Settlement, pop *settlement.Population, structs []structure.WithType, kind catalog.DisasterKind) float64 {
	score := 0.0

	// Shelter coverage: fraction of the population with a shelter place.
	if pop != nil && pop.Current > 0 {
		coverage := float64(ShelterCapacity(structs)) / float64(pop.Current) * 100
		if coverage > 100 {
			coverage = 100
		}
		score += coverage / 100 * shelterMax
	}

	// Warning systems (+5 per kind present, not per instance) and fortress.
	seenTypes := make(map[string]*catalog.StructureType)
	for _, st := range structs {
		if !st.Functional() || st.Type == nil {
			continue
		}
		seenTypes[st.TypeKey] = st.Type
	}
	warning := 0.0
	for _, key := range []string{catalog.KeyWatchtower, catalog.KeyMeteorologyCenter, catalog.KeySeismologyCenter} {
		if _, ok := seenTypes[key]; ok {
			warning += warningEach
		}
	}
	if warning > warningMax {
		warning = warningMax
	}
	score += warning
	if _, ok := seenTypes[catalog.KeyFortress]; ok {
		score += fortressBonus
	}

	// Structural resistance: one signed contribution per owned type.
	res := 0.0
	for _, st := range seenTypes {
		res += st.Resistance(kind) * resistanceMax
	}
	if res > resistanceMax {
		res = resistanceMax
	}
	score += res

	// Resilience stat.
	if sett != nil {
		score += sett.Resilience / 100 * resilienceMax
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ShelterCapacity sums shelter places across functional structures.
func ShelterCapacity(structs []structure.WithType) int64 {
	var total int64
	for _, st := range structs {
		if !st.Functional() || st.Type == nil {
			continue
		}
		total += st.Type.ShelterCapacity(st.Level)
	}
	return total
}
