package damage

import (
	"math"

	"github.com/nzvengeance/aces-companion/internal/catalog"
	"github.com/nzvengeance/aces-companion/internal/models"
)

const (
	MaxUpgradeLevel = 16
	MinDroneLevel   = 1
	MaxDroneLevel   = 16
)

// Boosters are the damage booster fractions the game offers.
var Boosters = []float64{0, 0.10, 0.20, 0.25}

// Normalize coerces a loadout into the valid domain: negative counts become
// 0, levels are clamped to their ranges, drone counts are capped at the
// drone type's maximum and the booster snaps to the nearest offered value.
// Only the first MaxLaserGroups laser groups are kept. The input is not
// modified.
func Normalize(cat *catalog.Catalog, l models.Loadout) models.Loadout {
	out := l.Clone()

	if len(out.LaserGroups) > models.MaxLaserGroups {
		out.LaserGroups = out.LaserGroups[:models.MaxLaserGroups]
	}
	for i := range out.LaserGroups {
		g := &out.LaserGroups[i]
		g.Count = atLeastZero(g.Count)
		g.Upgrade = clampInt(g.Upgrade, 0, MaxUpgradeLevel)
	}

	for id, n := range out.LasersOnDrones {
		out.LasersOnDrones[id] = atLeastZero(n)
	}

	for id, d := range out.Drones {
		d.Count = atLeastZero(d.Count)
		if dt, ok := cat.Drone(id); ok && dt.MaxCount > 0 && d.Count > dt.MaxCount {
			d.Count = dt.MaxCount
		}
		d.Level = clampInt(d.Level, MinDroneLevel, MaxDroneLevel)
		out.Drones[id] = d
	}

	out.Skills.MissileTargeting = catalog.ClampSkill(out.Skills.MissileTargeting)
	out.Skills.RocketEngineering = catalog.ClampSkill(out.Skills.RocketEngineering)
	out.Skills.SaturnConqueror = catalog.ClampSkill(out.Skills.SaturnConqueror)
	out.Skills.BountyHunter = catalog.ClampSkill(out.Skills.BountyHunter)

	out.DamageBooster = SnapBooster(out.DamageBooster)

	if out.NPCHP < 1 {
		out.NPCHP = 1
	}
	return out
}

// SnapBooster returns the offered booster value closest to b. NaN and
// infinities map to no booster.
func SnapBooster(b float64) float64 {
	if math.IsNaN(b) || math.IsInf(b, 0) {
		return 0
	}
	best := Boosters[0]
	for _, v := range Boosters[1:] {
		if math.Abs(b-v) < math.Abs(b-best) {
			best = v
		}
	}
	return best
}

func atLeastZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
