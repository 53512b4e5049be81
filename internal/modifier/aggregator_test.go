package modifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarlsen/bastion/internal/catalog"
	"github.com/mkarlsen/bastion/internal/structure"
)

func typed(cat *catalog.Catalog, id, key string, level int, health float64) structure.WithType {
	st, ok := cat.Structure(key)
	if !ok {
		panic("unknown structure key " + key)
	}
	return structure.WithType{
		Instance: structure.Instance{
			ID:           id,
			SettlementID: "s1",
			TypeKey:      key,
			Level:        level,
			Health:       health,
		},
		Type: st,
	}
}

func TestComputeEmpty(t *testing.T) {
	mods := Compute("s1", nil)
	assert.Empty(t, mods)
}

func TestComputeSingleFarm(t *testing.T) {
	cat := catalog.Default()
	mods := Compute("s1", []structure.WithType{typed(cat, "a", "farm", 1, 100)})

	require.Len(t, mods, 1)
	m := mods[0]
	assert.Equal(t, catalog.ModFoodProduction, m.Type)
	assert.InDelta(t, 10.0, m.TotalValue, 1e-9)
	assert.Equal(t, 1, m.SourceCount)
	require.Len(t, m.Contributors, 1)
	assert.Equal(t, "a", m.Contributors[0].StructureID)
	assert.Equal(t, "Farm", m.Contributors[0].StructureName)
}

func TestComputeSameTypeAdds(t *testing.T) {
	cat := catalog.Default()
	mods := Compute("s1", []structure.WithType{
		typed(cat, "a", "farm", 1, 100),
		typed(cat, "b", "farm", 1, 100),
	})

	require.Len(t, mods, 1)
	assert.InDelta(t, 20.0, mods[0].TotalValue, 1e-9)
	assert.Equal(t, 2, mods[0].SourceCount)
}

func TestComputeLevelScaling(t *testing.T) {
	cat := catalog.Default()
	// Farm grants base 10, +5 per level past the first.
	mods := Compute("s1", []structure.WithType{typed(cat, "a", "farm", 3, 100)})

	require.Len(t, mods, 1)
	assert.InDelta(t, 20.0, mods[0].TotalValue, 1e-9)
}

func TestComputeSkipsDestroyed(t *testing.T) {
	cat := catalog.Default()
	mods := Compute("s1", []structure.WithType{
		typed(cat, "a", "farm", 1, 100),
		typed(cat, "b", "farm", 5, 0),
	})

	require.Len(t, mods, 1)
	assert.InDelta(t, 10.0, mods[0].TotalValue, 1e-9)
	assert.Equal(t, 1, mods[0].SourceCount)
}

func TestComputeSkipsUnknownType(t *testing.T) {
	cat := catalog.Default()
	orphan := typed(cat, "x", "farm", 1, 100)
	orphan.Type = nil

	mods := Compute("s1", []structure.WithType{
		orphan,
		typed(cat, "a", "well", 1, 100),
	})

	require.Len(t, mods, 1)
	assert.Equal(t, catalog.ModWaterProduction, mods[0].Type)
}

func TestComputeDamagedStillContributes(t *testing.T) {
	cat := catalog.Default()
	mods := Compute("s1", []structure.WithType{typed(cat, "a", "farm", 1, 0.5)})

	require.Len(t, mods, 1)
	assert.InDelta(t, 10.0, mods[0].TotalValue, 1e-9)
}

func TestComputeMultipleTypesSorted(t *testing.T) {
	cat := catalog.Default()
	mods := Compute("s1", []structure.WithType{
		typed(cat, "c", "well", 1, 100),
		typed(cat, "a", "farm", 1, 100),
		typed(cat, "b", "granary", 1, 100),
	})

	require.Len(t, mods, 3)
	for i := 1; i < len(mods); i++ {
		assert.Less(t, mods[i-1].Type, mods[i].Type)
	}
}

func TestComputeIdempotent(t *testing.T) {
	cat := catalog.Default()
	structs := []structure.WithType{
		typed(cat, "b", "farm", 2, 100),
		typed(cat, "a", "farm", 1, 100),
		typed(cat, "c", "granary", 3, 40),
	}

	first := Compute("s1", structs)
	second := Compute("s1", structs)
	assert.Equal(t, first, second)
}

func TestTotal(t *testing.T) {
	cat := catalog.Default()
	mods := Compute("s1", []structure.WithType{typed(cat, "a", "farm", 1, 100)})

	assert.InDelta(t, 10.0, Total(mods, catalog.ModFoodProduction), 1e-9)
	assert.Zero(t, Total(mods, catalog.ModOreProduction))
	assert.Zero(t, Total(nil, catalog.ModFoodProduction))
}
