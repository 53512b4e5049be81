package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Radius = 10
	cfg.Seed = 42

	a := Generate(cfg)
	b := Generate(cfg)
	require.Equal(t, len(a.Tiles), len(b.Tiles))
	assert.Equal(t, a.Tiles, b.Tiles)
}

func TestGenerateTileCount(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Radius = 5
	cfg.Seed = 1

	m := Generate(cfg)
	// Hex grid of radius r holds 3r(r+1)+1 tiles.
	assert.Len(t, m.Tiles, 3*5*6+1)
	assert.Equal(t, 5, m.Radius)
}

func TestGenerateBounds(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Radius = 8
	cfg.Seed = 7

	m := Generate(cfg)
	for _, tile := range m.Tiles {
		s := -tile.Q - tile.R
		assert.LessOrEqual(t, maxAbs(tile.Q, tile.R, s), cfg.Radius)
		assert.GreaterOrEqual(t, tile.Elevation, 0.0)
		assert.LessOrEqual(t, tile.Elevation, 1.0)
		assert.NotEmpty(t, tile.Biome)
	}
}

func TestGenerateEdgeIsOcean(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Radius = 12
	cfg.Seed = 3

	// The radial falloff drives the outermost ring's elevation to zero.
	m := Generate(cfg)
	tile := m.At(cfg.Radius, 0)
	require.NotNil(t, tile)
	assert.Equal(t, BiomeOcean, tile.Biome)
}

func TestMapAt(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Radius = 4
	cfg.Seed = 9

	m := Generate(cfg)
	tile := m.At(0, 0)
	require.NotNil(t, tile)
	assert.Equal(t, 0, tile.Q)

	assert.Nil(t, m.At(99, 99))
}

func TestCoastalTilesBorderOcean(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Radius = 12
	cfg.Seed = 5

	m := Generate(cfg)
	for _, tile := range m.Tiles {
		if tile.Biome != BiomeCoast {
			continue
		}
		hasOceanNeighbor := false
		for _, off := range neighborOffsets {
			if n := m.At(tile.Q+off[0], tile.R+off[1]); n != nil && n.Biome == BiomeOcean {
				hasOceanNeighbor = true
				break
			}
		}
		assert.True(t, hasOceanNeighbor, "coast tile (%d,%d) has no ocean neighbor", tile.Q, tile.R)
	}
}

func TestHabitable(t *testing.T) {
	assert.False(t, Habitable(BiomeOcean))
	assert.True(t, Habitable(BiomeGrassland))
	assert.True(t, Habitable(BiomeCoast))
}
