// Package world generates the static biome map settlements are founded on.
// Generation is a one-time setup step; the simulation loop only ever reads
// the biome assigned to each settlement.
package world

// Biome names as used by the production efficiency tables.
const (
	BiomeOcean     = "Ocean"
	BiomeGrassland = "Grassland"
	BiomeForest    = "Forest"
	BiomeHills     = "Hills"
	BiomeMountains = "Mountains"
	BiomeDesert    = "Desert"
	BiomeSwamp     = "Swamp"
	BiomeTundra    = "Tundra"
	BiomeCoast     = "Coast"
)

// Tile is one hex of the generated map, axial coordinates (q, r).
type Tile struct {
	Q         int     `json:"q" db:"q"`
	R         int     `json:"r" db:"r"`
	Biome     string  `json:"biome" db:"biome"`
	Elevation float64 `json:"elevation" db:"elevation"`
	Moisture  float64 `json:"moisture" db:"moisture"`
}

// Map holds a generated world.
type Map struct {
	Radius int
	Tiles  []Tile

	index map[[2]int]int
}

// At returns the tile at (q, r), nil when out of bounds.
func (m *Map) At(q, r int) *Tile {
	if i, ok := m.index[[2]int{q, r}]; ok {
		return &m.Tiles[i]
	}
	return nil
}

// BiomeCounts summarizes the biome distribution.
func (m *Map) BiomeCounts() map[string]int {
	counts := make(map[string]int)
	for _, t := range m.Tiles {
		counts[t.Biome]++
	}
	return counts
}

// Habitable reports whether settlements can be founded on the biome.
func Habitable(biome string) bool {
	return biome != BiomeOcean
}
