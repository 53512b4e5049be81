package catalog

import "github.com/mkarlsen/bastion/internal/resource"

// defaultBaseRates returns the hourly base production table keyed by
// (resource, extractor type). A pair absent here produces nothing.
func defaultBaseRates() map[rateKey]float64 {
	return map[rateKey]float64{
		{resource.Food, "farm"}:           10,
		{resource.Food, "fishing_dock"}:   8,
		{resource.Water, "well"}:          12,
		{resource.Water, "reservoir"}:     20,
		{resource.Wood, "lumber_mill"}:    9,
		{resource.Stone, "quarry"}:        7,
		{resource.Ore, "mine"}:            5,
		{resource.Gold, "gold_mine"}:      1.5,
		{resource.Herbs, "herbalist_hut"}: 4,
	}
}

// defaultBiomeEfficiencies returns the (biome, resource) production
// multipliers. Pairs absent here default to 1.0.
func defaultBiomeEfficiencies() map[biomeKey]float64 {
	return map[biomeKey]float64{
		{"Grassland", resource.Food}:  1.8,
		{"Grassland", resource.Wood}:  0.7,
		{"Forest", resource.Wood}:     1.9,
		{"Forest", resource.Food}:     1.1,
		{"Forest", resource.Herbs}:    1.6,
		{"Hills", resource.Stone}:     1.5,
		{"Hills", resource.Ore}:       1.3,
		{"Mountains", resource.Ore}:   1.8,
		{"Mountains", resource.Stone}: 1.6,
		{"Mountains", resource.Food}:  0.4,
		{"Desert", resource.Food}:     0.3,
		{"Desert", resource.Water}:    0.4,
		{"Desert", resource.Gold}:     1.4,
		{"Swamp", resource.Water}:     1.5,
		{"Swamp", resource.Herbs}:     1.8,
		{"Swamp", resource.Stone}:     0.6,
		{"Tundra", resource.Food}:     0.5,
		{"Tundra", resource.Wood}:     0.6,
		{"Coast", resource.Food}:      1.4,
		{"Coast", resource.Water}:     1.2,
	}
}
