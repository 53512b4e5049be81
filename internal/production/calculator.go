// Package production computes resource production rates and the diminishing
// accumulation credited on each harvest. Both functions are pure: master
// data comes in through the catalog reference, state comes in as arguments.
package production

import (
	"math"

	"github.com/mkarlsen/bastion/internal/catalog"
	"github.com/mkarlsen/bastion/internal/resource"
)

// Diminishing-return tiers for offline accumulation, in effective hours.
const (
	fullRateHours = 24  // full rate up to 24 effective hours
	halfRateCap   = 48  // 50% rate until effective hours reach 48
	maxEffective  = 96  // hard ceiling on effective hours
)

// Calculator derives production rates from catalog master data.
type Calculator struct {
	cat *catalog.Catalog
}

// NewCalculator creates a calculator bound to a catalog.
func NewCalculator(cat *catalog.Catalog) *Calculator {
	return &Calculator{cat: cat}
}

// Rate returns the hourly production rate for a resource extracted by the
// given extractor type in the given biome.
//
//	rate = base × biomeEfficiency × 1.5^(level-1) × worldMultiplier
//
// An unknown (resource, extractor) pair yields 0, not an error. A biome
// missing from the efficiency table contributes ×1.0. The result is rounded
// to two decimal places, half-up.
func (c *Calculator) Rate(res resource.Type, extractor, biome string, level int, worldMult float64) float64 {
	base, ok := c.cat.BaseRate(res, extractor)
	if !ok {
		return 0
	}
	if level < 1 {
		level = 1
	}
	if worldMult <= 0 {
		worldMult = 1
	}

	eff := c.cat.BiomeEfficiency(biome, res)
	levelMult := math.Pow(1.5, float64(level-1))

	return round2(base * eff * levelMult * worldMult)
}

// Accumulated converts an hourly rate and the wall-clock hours since the
// last harvest into whole resource units. Offline accumulation diminishes
// in tiers: the first 24 effective hours accrue at full rate, the band up
// to 48 effective hours at 50%, everything past that at 25%, capped at 96
// effective hours. Tier boundaries apply to the effective hour count after
// the prior tier, so the 50% band covers raw hours 24 through 72.
func (c *Calculator) Accumulated(rate float64, elapsedHours float64) int64 {
	if rate <= 0 || elapsedHours <= 0 {
		return 0
	}
	return int64(math.Floor(rate * EffectiveHours(elapsedHours)))
}

// EffectiveHours maps raw elapsed hours to the effective hours credited
// after diminishing returns. Continuous and monotonic in elapsed.
func EffectiveHours(elapsed float64) float64 {
	if elapsed <= 0 {
		return 0
	}
	eff := elapsed
	if eff > fullRateHours {
		eff = fullRateHours + (eff-fullRateHours)*0.5
	}
	if eff > halfRateCap {
		eff = halfRateCap + (eff-halfRateCap)*0.5
	}
	if eff > maxEffective {
		eff = maxEffective
	}
	return eff
}

// round2 rounds to two decimal places, half-up on the third decimal.
func round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}
