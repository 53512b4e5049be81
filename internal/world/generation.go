package world

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Radius      int     // hex grid radius
	Seed        int64   // 0 = random
	SeaLevel    float64 // elevation threshold for ocean
	MountainLvl float64 // elevation threshold for mountains
}

// DefaultGenConfig returns the standard map size.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:      22,
		Seed:        0,
		SeaLevel:    0.25,
		MountainLvl: 0.72,
	}
}

// Generate creates a biome map from layered simplex noise. Deterministic
// for a fixed seed.
func Generate(cfg GenConfig) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	elevNoise := opensimplex.NewNormalized(seed)
	moistNoise := opensimplex.NewNormalized(seed + 1)
	tempNoise := opensimplex.NewNormalized(seed + 2)

	m := &Map{Radius: cfg.Radius, index: make(map[[2]int]int)}

	for q := -cfg.Radius; q <= cfg.Radius; q++ {
		for r := -cfg.Radius; r <= cfg.Radius; r++ {
			// Cube coordinate constraint: max(|q|,|r|,|s|) <= radius.
			s := -q - r
			if maxAbs(q, r, s) > cfg.Radius {
				continue
			}

			// Hex axial -> cartesian for noise sampling.
			x := float64(q) + float64(r)*0.5
			y := float64(r) * math.Sqrt(3.0) / 2.0

			elev := octaveNoise(elevNoise, x, y, 4, 0.08, 0.5)
			moist := octaveNoise(moistNoise, x, y, 3, 0.06, 0.5)
			temp := octaveNoise(tempNoise, x, y, 3, 0.05, 0.5)

			// Continental shaping: lower elevation toward the map edge so
			// the world is ringed by ocean.
			dist := math.Sqrt(x*x+y*y) / float64(cfg.Radius)
			falloff := 1.0 - math.Pow(dist, 3.5)
			if falloff < 0 {
				falloff = 0
			}
			elev *= falloff

			// Temperature falls with elevation and distance from the equator.
			temp = temp*0.6 + (1.0-math.Abs(y)/float64(cfg.Radius))*0.3 + (1.0-elev)*0.1

			m.index[[2]int{q, r}] = len(m.Tiles)
			m.Tiles = append(m.Tiles, Tile{
				Q:         q,
				R:         r,
				Biome:     deriveBiome(elev, moist, temp, cfg),
				Elevation: elev,
				Moisture:  moist,
			})
		}
	}

	markCoastalTiles(m)
	return m
}

// deriveBiome maps environmental parameters to a biome name.
func deriveBiome(elev, moist, temp float64, cfg GenConfig) string {
	switch {
	case elev < cfg.SeaLevel:
		return BiomeOcean
	case elev > cfg.MountainLvl:
		return BiomeMountains
	case elev > cfg.MountainLvl-0.15:
		return BiomeHills
	case temp < 0.25:
		return BiomeTundra
	case moist < 0.25 && temp > 0.5:
		return BiomeDesert
	case moist > 0.7 && elev < 0.45:
		return BiomeSwamp
	case moist > 0.45:
		return BiomeForest
	default:
		return BiomeGrassland
	}
}

// neighborOffsets are the six axial hex neighbors.
var neighborOffsets = [6][2]int{
	{1, 0}, {1, -1}, {0, -1}, {-1, 0}, {-1, 1}, {0, 1},
}

// markCoastalTiles reclassifies land tiles adjacent to ocean as coast.
func markCoastalTiles(m *Map) {
	for i := range m.Tiles {
		t := &m.Tiles[i]
		if t.Biome == BiomeOcean || t.Biome == BiomeMountains {
			continue
		}
		for _, off := range neighborOffsets {
			n := m.At(t.Q+off[0], t.R+off[1])
			if n != nil && n.Biome == BiomeOcean {
				t.Biome = BiomeCoast
				break
			}
		}
	}
}

// octaveNoise layers multiple noise frequencies for natural terrain.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

func maxAbs(vals ...int) int {
	m := 0
	for _, v := range vals {
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}
