package catalog

import "github.com/mkarlsen/bastion/internal/resource"

// Structure type keys referenced by the preparedness scorer.
const (
	KeyWatchtower        = "watchtower"
	KeyMeteorologyCenter = "meteorology_center"
	KeySeismologyCenter  = "seismology_center"
	KeyFortress          = "fortress"
	KeyHospital          = "hospital"
)

// defaultStructureTypes returns the buildable structure set. Costs grow
// geometrically per level; modifier grants scale linearly with level.
func defaultStructureTypes() []*StructureType {
	return []*StructureType{
		{
			Key: "farm", Name: "Farm", Category: CategoryExtractor, MaxLevel: 10,
			Extracts:   resource.Food,
			BaseCost:   map[resource.Type]int64{resource.Wood: 50, resource.Stone: 20},
			CostGrowth: 1.6,
			Modifiers:  []ModifierGrant{{ModFoodProduction, 10, 5}},
			Resistances: map[DisasterKind]float64{
				KindDrought:  -0.30, // crops wither first
				KindLocusts:  -0.40,
				KindWildfire: -0.25,
			},
		},
		{
			Key: "fishing_dock", Name: "Fishing Dock", Category: CategoryExtractor, MaxLevel: 8,
			Extracts:   resource.Food,
			BaseCost:   map[resource.Type]int64{resource.Wood: 70, resource.Stone: 10},
			CostGrowth: 1.6,
			Modifiers:  []ModifierGrant{{ModFoodProduction, 8, 4}},
			Resistances: map[DisasterKind]float64{
				KindHurricane:  -0.35,
				KindTsunami:    -0.50,
				KindStormSurge: -0.45,
			},
		},
		{
			Key: "well", Name: "Well", Category: CategoryExtractor, MaxLevel: 8,
			Extracts:   resource.Water,
			BaseCost:   map[resource.Type]int64{resource.Stone: 40, resource.Wood: 10},
			CostGrowth: 1.5,
			Modifiers:  []ModifierGrant{{ModWaterProduction, 12, 6}},
			Resistances: map[DisasterKind]float64{
				KindDrought:    -0.20,
				KindEarthquake: 0.10, // mostly underground
			},
		},
		{
			Key: "reservoir", Name: "Reservoir", Category: CategoryExtractor, MaxLevel: 6,
			Extracts:   resource.Water,
			BaseCost:   map[resource.Type]int64{resource.Stone: 120, resource.Wood: 30},
			CostGrowth: 1.7,
			Modifiers:  []ModifierGrant{{ModWaterProduction, 20, 10}},
			Resistances: map[DisasterKind]float64{
				KindDrought: 0.40,
				KindFlood:   -0.30,
			},
		},
		{
			Key: "lumber_mill", Name: "Lumber Mill", Category: CategoryExtractor, MaxLevel: 10,
			Extracts:   resource.Wood,
			BaseCost:   map[resource.Type]int64{resource.Wood: 40, resource.Stone: 30},
			CostGrowth: 1.6,
			Modifiers:  []ModifierGrant{{ModWoodProduction, 9, 4}},
			Resistances: map[DisasterKind]float64{
				KindWildfire: -0.50, // stacked timber
			},
		},
		{
			Key: "quarry", Name: "Quarry", Category: CategoryExtractor, MaxLevel: 10,
			Extracts:   resource.Stone,
			BaseCost:   map[resource.Type]int64{resource.Wood: 60, resource.Stone: 10},
			CostGrowth: 1.6,
			Modifiers:  []ModifierGrant{{ModStoneProduction, 7, 3}},
			Resistances: map[DisasterKind]float64{
				KindEarthquake: -0.25,
				KindLandslide:  -0.40,
				KindWildfire:   0.30,
			},
		},
		{
			Key: "mine", Name: "Mine", Category: CategoryExtractor, MaxLevel: 10,
			Extracts:   resource.Ore,
			BaseCost:   map[resource.Type]int64{resource.Wood: 80, resource.Stone: 40},
			CostGrowth: 1.7,
			Modifiers:  []ModifierGrant{{ModOreProduction, 5, 3}},
			Resistances: map[DisasterKind]float64{
				KindEarthquake: -0.45, // shafts collapse
				KindFlood:      -0.30,
				KindHurricane:  0.20,
			},
		},
		{
			Key: "gold_mine", Name: "Gold Mine", Category: CategoryExtractor, MaxLevel: 6,
			Extracts:   resource.Gold,
			BaseCost:   map[resource.Type]int64{resource.Wood: 150, resource.Stone: 100, resource.Ore: 40},
			CostGrowth: 1.8,
			Modifiers:  []ModifierGrant{{ModTradeIncome, 5, 3}},
			Resistances: map[DisasterKind]float64{
				KindEarthquake: -0.45,
			},
		},
		{
			Key: "herbalist_hut", Name: "Herbalist Hut", Category: CategoryExtractor, MaxLevel: 6,
			Extracts:   resource.Herbs,
			BaseCost:   map[resource.Type]int64{resource.Wood: 35},
			CostGrowth: 1.5,
			Modifiers:  []ModifierGrant{{ModHealing, 2, 1}},
			Resistances: map[DisasterKind]float64{
				KindWildfire: -0.35,
				KindBlizzard: -0.25,
			},
		},
		{
			Key: "granary", Name: "Granary", Category: CategoryStorage, MaxLevel: 8,
			BaseCost:   map[resource.Type]int64{resource.Wood: 90, resource.Stone: 50},
			CostGrowth: 1.6,
			Modifiers:  []ModifierGrant{{ModStorageCapacity, 500, 300}},
			Resistances: map[DisasterKind]float64{
				KindWildfire: -0.30,
				KindLocusts:  -0.20,
				KindFlood:    -0.25,
			},
		},
		{
			Key: "warehouse", Name: "Warehouse", Category: CategoryStorage, MaxLevel: 8,
			BaseCost:   map[resource.Type]int64{resource.Wood: 120, resource.Stone: 80},
			CostGrowth: 1.6,
			Modifiers:  []ModifierGrant{{ModStorageCapacity, 800, 400}},
			Resistances: map[DisasterKind]float64{
				KindFlood:    -0.20,
				KindWildfire: -0.20,
			},
		},
		{
			Key: "house", Name: "House", Category: CategoryHousing, MaxLevel: 5,
			BaseCost:   map[resource.Type]int64{resource.Wood: 30, resource.Stone: 10},
			CostGrowth: 1.5,
			Modifiers:  []ModifierGrant{{ModHousingCapacity, 10, 5}},
			Resistances: map[DisasterKind]float64{
				KindWildfire:  -0.30,
				KindHurricane: -0.20,
			},
		},
		{
			Key: "stone_shelter", Name: "Stone Shelter", Category: CategoryDefense, MaxLevel: 5,
			BaseCost:        map[resource.Type]int64{resource.Stone: 150, resource.Wood: 20},
			CostGrowth:      1.7,
			ShelterBase:     40,
			ShelterPerLevel: 20,
			Resistances: map[DisasterKind]float64{
				KindAll: 0.25,
			},
		},
		{
			Key: KeyWatchtower, Name: "Watchtower", Category: CategoryWarning, MaxLevel: 4,
			BaseCost:   map[resource.Type]int64{resource.Wood: 60, resource.Stone: 40},
			CostGrowth: 1.5,
			Modifiers:  []ModifierGrant{{ModDefense, 5, 3}},
			Resistances: map[DisasterKind]float64{
				KindHurricane: -0.40, // tall and exposed
				KindTornado:   -0.40,
			},
		},
		{
			Key: KeyMeteorologyCenter, Name: "Meteorology Center", Category: CategoryWarning, MaxLevel: 3,
			BaseCost:   map[resource.Type]int64{resource.Wood: 100, resource.Stone: 120, resource.Ore: 20},
			CostGrowth: 1.8,
			Resistances: map[DisasterKind]float64{
				KindHurricane: 0.15,
				KindTornado:   0.15,
				KindBlizzard:  0.15,
			},
		},
		{
			Key: KeySeismologyCenter, Name: "Seismology Center", Category: CategoryWarning, MaxLevel: 3,
			BaseCost:   map[resource.Type]int64{resource.Stone: 180, resource.Ore: 30},
			CostGrowth: 1.8,
			Resistances: map[DisasterKind]float64{
				KindEarthquake: 0.20,
				KindVolcano:    0.15,
			},
		},
		{
			Key: KeyFortress, Name: "Fortress", Category: CategoryDefense, MaxLevel: 5,
			BaseCost:        map[resource.Type]int64{resource.Stone: 400, resource.Wood: 100, resource.Ore: 60},
			CostGrowth:      1.9,
			ShelterBase:     80,
			ShelterPerLevel: 40,
			Modifiers:       []ModifierGrant{{ModDefense, 20, 10}},
			Resistances: map[DisasterKind]float64{
				KindAll: 0.40,
			},
		},
		{
			Key: KeyHospital, Name: "Hospital", Category: CategoryMedical, MaxLevel: 6,
			BaseCost:   map[resource.Type]int64{resource.Wood: 140, resource.Stone: 100, resource.Herbs: 30},
			CostGrowth: 1.7,
			Modifiers:  []ModifierGrant{{ModHealing, 10, 5}},
			Resistances: map[DisasterKind]float64{
				KindPlague: 0.30,
			},
		},
		{
			Key: "wooden_palisade", Name: "Wooden Palisade", Category: CategoryDefense, MaxLevel: 4,
			BaseCost:   map[resource.Type]int64{resource.Wood: 100},
			CostGrowth: 1.5,
			Modifiers:  []ModifierGrant{{ModDefense, 8, 4}},
			Resistances: map[DisasterKind]float64{
				KindWildfire:   -0.45, // dry timber wall
				KindEarthquake: 0.10,
			},
		},
	}
}
