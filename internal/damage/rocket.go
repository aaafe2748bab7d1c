package damage

import (
	"math"

	"github.com/nzvengeance/aces-companion/internal/models"
)

type RocketResult struct {
	Standard float64 `json:"standard_dps"`
	Launcher float64 `json:"launcher_dps"`
	DPS      float64 `json:"dps"`
}

// rocketChain is the multiplier shared by standard rockets and the rocket
// launcher: formation, rocket engineering, rocket and total drone designs
// and the booster.
func (c *Calculator) rocketChain(l models.Loadout) float64 {
	st := c.drones(l)
	return c.cat.Formation(l.Formation).RocketMult *
		c.cat.Skills().RocketEngineeringMult(l.Skills.RocketEngineering) *
		(1 + st.rocketBonus) *
		(1 + st.totalBonus) *
		(1 + l.DamageBooster)
}

// StandardRocket returns the DPS of the selected standard rocket, 0 for
// none.
func (c *Calculator) StandardRocket(l models.Loadout) float64 {
	l = Normalize(c.cat, l)
	r := c.cat.Rocket(l.Rocket)
	if r.BaseDamage <= 0 || r.ShotsPerSecond <= 0 {
		return 0
	}
	acc := math.Min(1, r.Accuracy+c.cat.Skills().MissileTargetingBonus(l.Skills.MissileTargeting))
	return r.BaseDamage * acc * r.ShotsPerSecond * c.rocketChain(l)
}

// LauncherRockets returns the DPS of the rocket launcher, 0 for none.
func (c *Calculator) LauncherRockets(l models.Loadout) float64 {
	l = Normalize(c.cat, l)
	rate := c.cat.Launcher(l.RocketLauncher.Launcher).Rate()
	if rate <= 0 {
		return 0
	}
	r := c.cat.LauncherRocket(l.RocketLauncher.Rocket)
	base := r.BaseDamage
	if l.RocketLauncher.TargetIsSaturn {
		base *= 1 + r.BonusVsSaturn
	}
	return base * r.Accuracy * rate * c.rocketChain(l)
}

func (c *Calculator) Rockets(l models.Loadout) RocketResult {
	res := RocketResult{
		Standard: c.StandardRocket(l),
		Launcher: c.LauncherRockets(l),
	}
	res.DPS = res.Standard + res.Launcher
	return res
}
