package catalog

import "github.com/mkarlsen/bastion/internal/resource"

// DisasterKind identifies a disaster type.
type DisasterKind string

// KindAll is the blanket resistance key matching every disaster kind.
const KindAll DisasterKind = "ALL"

const (
	KindEarthquake DisasterKind = "earthquake"
	KindFlood      DisasterKind = "flood"
	KindWildfire   DisasterKind = "wildfire"
	KindHurricane  DisasterKind = "hurricane"
	KindTornado    DisasterKind = "tornado"
	KindDrought    DisasterKind = "drought"
	KindBlizzard   DisasterKind = "blizzard"
	KindPlague     DisasterKind = "plague"
	KindLandslide  DisasterKind = "landslide"
	KindTsunami    DisasterKind = "tsunami"
	KindVolcano    DisasterKind = "volcanic_eruption"
	KindSandstorm  DisasterKind = "sandstorm"
	KindHeatwave   DisasterKind = "heatwave"
	KindColdSnap   DisasterKind = "cold_snap"
	KindLocusts    DisasterKind = "locust_swarm"
	KindStormSurge DisasterKind = "storm_surge"
	KindHailstorm  DisasterKind = "hailstorm"
	KindAvalanche  DisasterKind = "avalanche"
	KindMeteor     DisasterKind = "meteor_strike"
	KindSinkhole   DisasterKind = "sinkhole"
)

// DisasterProfile is the static per-kind tuning data.
//
// ProductionPenalty maps a resource to the multiplier applied to its
// production while the disaster is in IMPACT (0.2 means production runs at
// 20%). Resources absent from the map are unaffected (multiplier 1.0).
type DisasterProfile struct {
	Kind               DisasterKind
	Name               string
	CasualtyMultiplier float64
	ProductionPenalty  map[resource.Type]float64
}

func defaultDisasterProfiles() []*DisasterProfile {
	return []*DisasterProfile{
		{KindEarthquake, "Earthquake", 0.8, map[resource.Type]float64{
			resource.Stone: 0.3, resource.Ore: 0.2, resource.Water: 0.6,
		}},
		{KindFlood, "Flood", 0.5, map[resource.Type]float64{
			resource.Food: 0.3, resource.Stone: 0.5, resource.Ore: 0.4,
		}},
		{KindWildfire, "Wildfire", 0.6, map[resource.Type]float64{
			resource.Wood: 0.1, resource.Food: 0.4, resource.Herbs: 0.2,
		}},
		{KindHurricane, "Hurricane", 0.7, map[resource.Type]float64{
			resource.Food: 0.4, resource.Wood: 0.5, resource.Water: 0.8,
		}},
		{KindTornado, "Tornado", 0.9, map[resource.Type]float64{
			resource.Food: 0.5, resource.Wood: 0.4,
		}},
		{KindDrought, "Drought", 0.3, map[resource.Type]float64{
			resource.Food: 0.2, resource.Water: 0.1, resource.Herbs: 0.4,
		}},
		{KindBlizzard, "Blizzard", 0.4, map[resource.Type]float64{
			resource.Food: 0.5, resource.Wood: 0.6, resource.Stone: 0.5,
		}},
		{KindPlague, "Plague", 1.5, map[resource.Type]float64{
			resource.Food: 0.6, resource.Wood: 0.6, resource.Stone: 0.6,
			resource.Ore: 0.6, resource.Water: 0.8,
		}},
		{KindLandslide, "Landslide", 0.6, map[resource.Type]float64{
			resource.Stone: 0.3, resource.Ore: 0.3,
		}},
		{KindTsunami, "Tsunami", 1.2, map[resource.Type]float64{
			resource.Food: 0.3, resource.Water: 0.5,
		}},
		{KindVolcano, "Volcanic Eruption", 1.3, map[resource.Type]float64{
			resource.Food: 0.2, resource.Wood: 0.3, resource.Water: 0.4,
		}},
		{KindSandstorm, "Sandstorm", 0.3, map[resource.Type]float64{
			resource.Food: 0.5, resource.Water: 0.6,
		}},
		{KindHeatwave, "Heatwave", 0.4, map[resource.Type]float64{
			resource.Food: 0.5, resource.Water: 0.3,
		}},
		{KindColdSnap, "Cold Snap", 0.4, map[resource.Type]float64{
			resource.Food: 0.6, resource.Water: 0.5,
		}},
		{KindLocusts, "Locust Swarm", 0.1, map[resource.Type]float64{
			resource.Food: 0.1, resource.Herbs: 0.3,
		}},
		{KindStormSurge, "Storm Surge", 0.8, map[resource.Type]float64{
			resource.Food: 0.4, resource.Water: 0.6,
		}},
		{KindHailstorm, "Hailstorm", 0.3, map[resource.Type]float64{
			resource.Food: 0.4,
		}},
		{KindAvalanche, "Avalanche", 0.9, map[resource.Type]float64{
			resource.Stone: 0.4, resource.Ore: 0.4, resource.Wood: 0.6,
		}},
		{KindMeteor, "Meteor Strike", 1.4, map[resource.Type]float64{
			resource.Food: 0.3, resource.Wood: 0.3, resource.Stone: 0.3,
		}},
		{KindSinkhole, "Sinkhole", 0.7, map[resource.Type]float64{
			resource.Water: 0.5, resource.Stone: 0.6,
		}},
	}
}
