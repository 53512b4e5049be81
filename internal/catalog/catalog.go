// Package catalog holds the immutable master data the simulation engine
// consumes: structure type definitions, production base rates, biome
// efficiencies, and disaster profiles. A Catalog is built once at process
// start and passed by reference into the calculators; nothing in it mutates
// after construction, which keeps the calculators pure and testable.
package catalog

import "github.com/mkarlsen/bastion/internal/resource"

// ModifierType names a settlement-wide bonus derived from structures.
type ModifierType string

const (
	ModFoodProduction  ModifierType = "FOOD_PRODUCTION"
	ModWaterProduction ModifierType = "WATER_PRODUCTION"
	ModWoodProduction  ModifierType = "WOOD_PRODUCTION"
	ModStoneProduction ModifierType = "STONE_PRODUCTION"
	ModOreProduction   ModifierType = "ORE_PRODUCTION"
	ModStorageCapacity ModifierType = "STORAGE_CAPACITY"
	ModHousingCapacity ModifierType = "HOUSING_CAPACITY"
	ModDefense         ModifierType = "DEFENSE"
	ModHealing         ModifierType = "HEALING"
	ModTradeIncome     ModifierType = "TRADE_INCOME"
)

// Category groups structure types by their role in the simulation.
type Category string

const (
	CategoryExtractor Category = "extractor"
	CategoryStorage   Category = "storage"
	CategoryHousing   Category = "housing"
	CategoryDefense   Category = "defense"
	CategoryMedical   Category = "medical"
	CategoryWarning   Category = "warning"
	CategoryCivic     Category = "civic"
)

// ModifierGrant describes one modifier a structure type contributes.
// The contributed value scales with the structure's level.
type ModifierGrant struct {
	Type     ModifierType
	Base     float64 // value at level 1
	PerLevel float64 // added per level above 1
}

// Value returns the grant's magnitude at the given structure level.
func (g ModifierGrant) Value(level int) float64 {
	if level < 1 {
		level = 1
	}
	return g.Base + g.PerLevel*float64(level-1)
}

// StructureType is the master-data record for one buildable structure kind.
// Resistances map disaster kinds to a fraction in [-1, 1]: positive reduces
// damage, negative amplifies it (wooden structures burn). The KindAll key
// applies against every disaster type.
type StructureType struct {
	Key      string
	Name     string
	Category Category
	MaxLevel int

	// Extracts is the resource this structure produces, empty for
	// non-extractors.
	Extracts resource.Type

	// BaseCost is the level-1 build cost; each further level costs
	// BaseCost × CostGrowth^(level-1), rounded up.
	BaseCost   map[resource.Type]int64
	CostGrowth float64

	Modifiers []ModifierGrant

	// Shelter capacity contributed toward disaster preparedness.
	ShelterBase     int64
	ShelterPerLevel int64

	Resistances map[DisasterKind]float64
}

// Resistance returns the structure type's resistance against kind,
// preferring a disaster-specific entry over a blanket KindAll entry.
// Absent entries mean 0 (no effect either way).
func (st StructureType) Resistance(kind DisasterKind) float64 {
	if r, ok := st.Resistances[kind]; ok {
		return r
	}
	if r, ok := st.Resistances[KindAll]; ok {
		return r
	}
	return 0
}

// ShelterCapacity returns how many people the structure shelters at level.
func (st StructureType) ShelterCapacity(level int) int64 {
	if st.ShelterBase == 0 && st.ShelterPerLevel == 0 {
		return 0
	}
	if level < 1 {
		level = 1
	}
	return st.ShelterBase + st.ShelterPerLevel*int64(level-1)
}

// rateKey keys the base production rate table.
type rateKey struct {
	Resource  resource.Type
	Extractor string
}

// biomeKey keys the biome efficiency table.
type biomeKey struct {
	Biome    string
	Resource resource.Type
}

// Catalog is the complete immutable master-data set.
type Catalog struct {
	baseRates  map[rateKey]float64
	biomeEff   map[biomeKey]float64
	structures map[string]*StructureType
	disasters  map[DisasterKind]*DisasterProfile
}

// BaseRate returns the hourly base production rate for a (resource,
// extractor) pair. ok is false for unknown combinations; callers treat that
// as rate 0, not an error.
func (c *Catalog) BaseRate(res resource.Type, extractor string) (float64, bool) {
	r, ok := c.baseRates[rateKey{res, extractor}]
	return r, ok
}

// BiomeEfficiency returns the production multiplier for a (biome, resource)
// pair, defaulting to 1.0 when the pair is absent from the table.
func (c *Catalog) BiomeEfficiency(biome string, res resource.Type) float64 {
	if e, ok := c.biomeEff[biomeKey{biome, res}]; ok {
		return e
	}
	return 1.0
}

// Structure looks up a structure type by key.
func (c *Catalog) Structure(key string) (*StructureType, bool) {
	st, ok := c.structures[key]
	return st, ok
}

// Disaster looks up a disaster profile by kind.
func (c *Catalog) Disaster(kind DisasterKind) (*DisasterProfile, bool) {
	p, ok := c.disasters[kind]
	return p, ok
}

// Default builds the standard catalog. The returned value is treated as
// immutable; it is safe to share across goroutines.
func Default() *Catalog {
	c := &Catalog{
		baseRates:  defaultBaseRates(),
		biomeEff:   defaultBiomeEfficiencies(),
		structures: make(map[string]*StructureType),
		disasters:  make(map[DisasterKind]*DisasterProfile),
	}
	for _, st := range defaultStructureTypes() {
		c.structures[st.Key] = st
	}
	for _, p := range defaultDisasterProfiles() {
		c.disasters[p.Kind] = p
	}
	return c
}
