// Package damage turns a loadout into laser, rocket and total DPS and a
// time-to-kill estimate.
//
// Every function is a pure function of the loadout and the injected
// catalog. Bad input never produces an error: unknown ids fall back to the
// catalog defaults and out-of-range numbers are clamped (see Normalize), so
// an interactive caller always gets a renderable result.
package damage

import (
	"github.com/nzvengeance/aces-companion/internal/catalog"
	"github.com/nzvengeance/aces-companion/internal/models"
)

// DroneUpgradePolicy decides which upgrade level drone-mounted lasers are
// assumed to have. The loadout does not record it separately.
type DroneUpgradePolicy int

const (
	// MaxSeen uses the highest upgrade configured on the ship for the same
	// laser type, or level 16 when the type is only mounted on drones.
	MaxSeen DroneUpgradePolicy = iota
	// LevelZero treats every drone-mounted laser as unupgraded.
	LevelZero
)

type Options struct {
	DroneUpgrades DroneUpgradePolicy
}

type Option func(*Options)

// WithDroneUpgrades selects the drone laser upgrade policy.
func WithDroneUpgrades(p DroneUpgradePolicy) Option {
	return func(o *Options) { o.DroneUpgrades = p }
}

type Calculator struct {
	cat  *catalog.Catalog
	opts Options
}

// New returns a calculator over cat. A nil catalog means catalog.Default().
func New(cat *catalog.Catalog, opts ...Option) *Calculator {
	if cat == nil {
		cat = catalog.Default()
	}
	c := &Calculator{cat: cat}
	for _, o := range opts {
		o(&c.opts)
	}
	return c
}

func (c *Calculator) Catalog() *catalog.Catalog { return c.cat }

// Overview combines laser and rocket DPS and estimates the time to kill
// the loadout's NPC. TTK is 0 when the loadout deals no damage.
func (c *Calculator) Overview(l models.Loadout) models.DamageResult {
	l = Normalize(c.cat, l)
	lasers := c.Lasers(l)
	rockets := c.Rockets(l)

	res := models.DamageResult{
		LaserDPS:        lasers.DPS,
		RocketDPS:       rockets.DPS,
		TotalDPS:        lasers.DPS + rockets.DPS,
		LaserMultiplier: lasers.EffectiveMultiplier,
		LasersOnDrones:  lasers.LasersOnDrones,
		TotalLasers:     lasers.TotalLasers,
		DroneCount:      lasers.DroneCount,
	}
	res.TTKSeconds = TTK(float64(l.NPCHP), res.TotalDPS)
	return res
}

// TTK returns hp/dps with hp floored to 1, or 0 when dps is not positive.
func TTK(hp, dps float64) float64 {
	if dps <= 0 {
		return 0
	}
	if hp < 1 {
		hp = 1
	}
	return hp / dps
}

// Breakdown lists every multiplier factor that went into a result.
type Breakdown struct {
	AmmoMult            float64      `json:"ammo_mult"`
	FormationLaserMult  float64      `json:"formation_laser_mult"`
	FormationNPCMult    float64      `json:"formation_npc_mult"`
	SaturnConquerorMult float64      `json:"saturn_conqueror_mult"`
	TotalDesignMult     float64      `json:"total_design_mult"`
	BoosterMult         float64      `json:"booster_mult"`
	DroneQualityMult    float64      `json:"drone_quality_mult"`
	FormationRocketMult float64      `json:"formation_rocket_mult"`
	RocketEngMult       float64      `json:"rocket_engineering_mult"`
	RocketDesignMult    float64      `json:"rocket_design_mult"`
	MissileAccuracy     float64      `json:"missile_accuracy_bonus"`
	Laser               LaserResult  `json:"laser"`
	Rocket              RocketResult `json:"rocket"`
}

func (c *Calculator) Breakdown(l models.Loadout) Breakdown {
	l = Normalize(c.cat, l)
	skills := c.cat.Skills()
	formation := c.cat.Formation(l.Formation)
	st := c.drones(l)
	lasers := c.Lasers(l)

	return Breakdown{
		AmmoMult:            c.cat.Ammo(l.Ammo).Multiplier(l.TargetIsPirate),
		FormationLaserMult:  formation.LaserGlobalMult,
		FormationNPCMult:    formation.NPCLaserMult,
		SaturnConquerorMult: skills.SaturnConquerorMult(l.Skills.SaturnConqueror),
		TotalDesignMult:     1 + st.totalBonus,
		BoosterMult:         1 + l.DamageBooster,
		DroneQualityMult:    lasers.DroneMultiplier,
		FormationRocketMult: formation.RocketMult,
		RocketEngMult:       skills.RocketEngineeringMult(l.Skills.RocketEngineering),
		RocketDesignMult:    1 + st.rocketBonus,
		MissileAccuracy:     skills.MissileTargetingBonus(l.Skills.MissileTargeting),
		Laser:               lasers,
		Rocket:              c.Rockets(l),
	}
}

// DesignCounts returns how many configured drones carry each design id.
func (c *Calculator) DesignCounts(l models.Loadout) map[string]int {
	return c.drones(Normalize(c.cat, l)).byDesign
}

// DroneSlots returns the laser slots offered by the configured drones.
func (c *Calculator) DroneSlots(l models.Loadout) int {
	return c.drones(Normalize(c.cat, l)).slots
}
