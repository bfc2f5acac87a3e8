package selection

import (
	"math/rand/v2"

	"github.com/napolitain/techtree/internal/ledger"
	"github.com/napolitain/techtree/internal/models"
)

// ComponentStats is the artifact metadata the standard queries look at
type ComponentStats struct {
	Weapon      bool    `yaml:"weapon" json:"weapon"`
	Destructive bool    `yaml:"destructive" json:"destructive"`
	Damage      float64 `yaml:"damage" json:"damage"`

	Engine        bool    `yaml:"engine" json:"engine"`
	Speed         float64 `yaml:"speed" json:"speed"`
	FTL           float64 `yaml:"ftl" json:"ftl"`
	TacticalSpeed float64 `yaml:"tactical_speed" json:"tactical_speed"`

	PowerSource bool    `yaml:"power_source" json:"power_source"`
	NetEnergy   float64 `yaml:"net_energy" json:"net_energy"`

	Starbase      bool    `yaml:"starbase" json:"starbase"`
	Research      float64 `yaml:"research" json:"research"`
	Culture       float64 `yaml:"culture" json:"culture"`
	Credit        float64 `yaml:"credit" json:"credit"`
	FleetCapacity float64 `yaml:"fleet_capacity" json:"fleet_capacity"`
}

// ComponentResolver resolves artifacts to ComponentStats
type ComponentResolver = Resolver[ComponentStats]

func starbaseQuery(score func(ComponentStats) float64) Query[ComponentStats] {
	return Query[ComponentStats]{
		Category: models.Improvements,
		Accept:   func(s ComponentStats) bool { return s.Starbase && score(s) > 0 },
		Score:    score,
	}
}

// Standard queries
var (
	WeaponQuery = Query[ComponentStats]{
		Category: models.Combat,
		Accept:   func(s ComponentStats) bool { return s.Weapon && s.Destructive },
		Score:    func(s ComponentStats) float64 { return s.Damage },
	}
	EngineSpeedQuery = Query[ComponentStats]{
		Category: models.Propulsion,
		Accept:   func(s ComponentStats) bool { return s.Engine },
		Score:    func(s ComponentStats) float64 { return s.Speed },
	}
	EngineFTLQuery = Query[ComponentStats]{
		Category: models.Propulsion,
		Accept:   func(s ComponentStats) bool { return s.Engine && s.FTL > 0 },
		Score:    func(s ComponentStats) float64 { return s.FTL },
	}
	TacticalEngineQuery = Query[ComponentStats]{
		Category: models.Propulsion,
		Accept:   func(s ComponentStats) bool { return s.Engine && s.TacticalSpeed > 0 },
		Score:    func(s ComponentStats) float64 { return s.TacticalSpeed },
	}
	PowerSourceQuery = Query[ComponentStats]{
		Category: models.Propulsion,
		Accept:   func(s ComponentStats) bool { return s.PowerSource },
		Score:    func(s ComponentStats) float64 { return s.NetEnergy },
	}
	StarbaseResearchQuery      = starbaseQuery(func(s ComponentStats) float64 { return s.Research })
	StarbaseCultureQuery       = starbaseQuery(func(s ComponentStats) float64 { return s.Culture })
	StarbaseCreditQuery        = starbaseQuery(func(s ComponentStats) float64 { return s.Credit })
	StarbaseFleetCapacityQuery = starbaseQuery(func(s ComponentStats) float64 { return s.FleetCapacity })
)

// BestWeapon returns the owned destructive weapon with the highest damage
func BestWeapon(l *ledger.Ledger, r ComponentResolver, rng *rand.Rand) (models.TechDefinition, bool) {
	return Best(l, WeaponQuery, r, rng)
}

// BestEngineBySpeed returns the owned engine with the highest top speed
func BestEngineBySpeed(l *ledger.Ledger, r ComponentResolver, rng *rand.Rand) (models.TechDefinition, bool) {
	return Best(l, EngineSpeedQuery, r, rng)
}

// BestEngineByFTL returns the owned FTL-capable engine with the highest FTL speed
func BestEngineByFTL(l *ledger.Ledger, r ComponentResolver, rng *rand.Rand) (models.TechDefinition, bool) {
	return Best(l, EngineFTLQuery, r, rng)
}

// BestTacticalEngine returns the owned engine with the highest combat speed
func BestTacticalEngine(l *ledger.Ledger, r ComponentResolver, rng *rand.Rand) (models.TechDefinition, bool) {
	return Best(l, TacticalEngineQuery, r, rng)
}

// BestPowerSource returns the owned power source with the highest net energy
func BestPowerSource(l *ledger.Ledger, r ComponentResolver, rng *rand.Rand) (models.TechDefinition, bool) {
	return Best(l, PowerSourceQuery, r, rng)
}

func BestStarbaseResearch(l *ledger.Ledger, r ComponentResolver, rng *rand.Rand) (models.TechDefinition, bool) {
	return Best(l, StarbaseResearchQuery, r, rng)
}

func BestStarbaseCulture(l *ledger.Ledger, r ComponentResolver, rng *rand.Rand) (models.TechDefinition, bool) {
	return Best(l, StarbaseCultureQuery, r, rng)
}

func BestStarbaseCredit(l *ledger.Ledger, r ComponentResolver, rng *rand.Rand) (models.TechDefinition, bool) {
	return Best(l, StarbaseCreditQuery, r, rng)
}

func BestStarbaseFleetCapacity(l *ledger.Ledger, r ComponentResolver, rng *rand.Rand) (models.TechDefinition, bool) {
	return Best(l, StarbaseFleetCapacityQuery, r, rng)
}
