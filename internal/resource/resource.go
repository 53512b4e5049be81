// Package resource defines the resource types settlements produce and store,
// and the Ledger that tracks per-settlement stockpiles.
package resource

// Type identifies a resource kind.
type Type string

const (
	Food  Type = "food"
	Water Type = "water"
	Wood  Type = "wood"
	Stone Type = "stone"
	Ore   Type = "ore"

	// Extended resources, produced by specialist structures. Not part of
	// the core five used for aggregate penalty reporting.
	Gold  Type = "gold"
	Herbs Type = "herbs"
)

// Core is the five core resources every settlement tracks from founding.
// Aggregate disaster-penalty reporting averages over exactly this set.
var Core = [5]Type{Food, Water, Wood, Stone, Ore}

// All lists every known resource type.
var All = []Type{Food, Water, Wood, Stone, Ore, Gold, Herbs}

// Valid reports whether t is a known resource type.
func Valid(t Type) bool {
	for _, r := range All {
		if r == t {
			return true
		}
	}
	return false
}
