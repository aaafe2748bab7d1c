package damage

import (
	"github.com/nzvengeance/aces-companion/internal/catalog"
	"github.com/nzvengeance/aces-companion/internal/models"
)

const (
	// UpgradeStep is the damage gained per upgrade level (0.5%).
	UpgradeStep = 0.005
	// Hidden60Mult is the undocumented +60% most lasers deal.
	Hidden60Mult = 1.6
	// DroneLevelBonus is the drone quality bonus at level 16, linear in level.
	DroneLevelBonus = 0.10
)

type LaserResult struct {
	DPS                 float64 `json:"dps"`
	RawDPS              float64 `json:"raw_dps"`
	ShipRawDPS          float64 `json:"ship_raw_dps"`
	DroneRawDPS         float64 `json:"drone_raw_dps"`
	TotalLasers         int     `json:"total_lasers"`
	LasersOnDrones      int     `json:"lasers_on_drones"`
	DroneCount          int     `json:"drone_count"`
	GlobalMultiplier    float64 `json:"global_multiplier"`
	DroneMultiplier     float64 `json:"drone_multiplier"`
	EffectiveMultiplier float64 `json:"effective_multiplier"`
}

// droneStats aggregates the configured drones that exist in the catalog.
type droneStats struct {
	count       int
	slots       int
	qualitySum  float64 // Σ (level bonus + laser design bonus) * count
	rocketBonus float64 // Σ count * bonus over rocket designs
	totalBonus  float64 // Σ count * bonus over total-damage designs
	byDesign    map[string]int
}

func (c *Calculator) drones(l models.Loadout) droneStats {
	st := droneStats{byDesign: make(map[string]int)}
	for _, id := range c.cat.DroneIDs() {
		cfg, ok := l.Drones[id]
		if !ok || cfg.Count <= 0 {
			continue
		}
		dt, _ := c.cat.Drone(id)
		design := c.cat.Design(cfg.Design)
		n := float64(cfg.Count)

		st.count += cfg.Count
		st.slots += cfg.Count * dt.MaxLasers
		st.byDesign[design.ID] += cfg.Count

		quality := DroneLevelBonus * float64(cfg.Level) / MaxDroneLevel
		switch design.Effect {
		case catalog.EffectLaser:
			quality += design.Bonus
		case catalog.EffectRocket:
			st.rocketBonus += n * design.Bonus
		case catalog.EffectTotal:
			st.totalBonus += n * design.Bonus
		}
		st.qualitySum += quality * n
	}
	return st
}

// perShot is the expected damage of a single shot after upgrades, the
// hidden bonus, ammo and accuracy.
func perShot(lt catalog.LaserType, upgrade int, ammoMult float64) float64 {
	dmg := lt.BaseDamage * (1 + UpgradeStep*float64(upgrade))
	if lt.Hidden60 {
		dmg *= Hidden60Mult
	}
	return dmg * ammoMult * lt.Accuracy
}

// Lasers computes laser DPS. Ship lasers receive the global multipliers
// only; drone-mounted lasers additionally receive the drone quality bonus,
// scaled down by the share of drone lasers that actually fit into drone
// slots.
func (c *Calculator) Lasers(l models.Loadout) LaserResult {
	l = Normalize(c.cat, l)
	skills := c.cat.Skills()
	ammoMult := c.cat.Ammo(l.Ammo).Multiplier(l.TargetIsPirate)

	var res LaserResult

	shipLasers := 0
	maxUpgrade := make(map[string]int)
	for _, g := range l.LaserGroups {
		if g.Count <= 0 {
			continue
		}
		lt, ok := c.cat.Laser(g.Type)
		if !ok {
			continue
		}
		if lvl, seen := maxUpgrade[g.Type]; !seen || g.Upgrade > lvl {
			maxUpgrade[g.Type] = g.Upgrade
		}
		res.ShipRawDPS += perShot(lt, g.Upgrade, ammoMult) * lt.ShotsPerSecond * float64(g.Count)
		shipLasers += g.Count
	}

	droneLasers := 0
	for _, id := range c.cat.LaserIDs() {
		n := l.LasersOnDrones[id]
		if n <= 0 {
			continue
		}
		lt, _ := c.cat.Laser(id)
		lvl := c.droneUpgrade(maxUpgrade, id)
		res.DroneRawDPS += perShot(lt, lvl, ammoMult) * lt.ShotsPerSecond * float64(n)
		droneLasers += n
	}

	res.RawDPS = res.ShipRawDPS + res.DroneRawDPS
	res.TotalLasers = shipLasers + droneLasers

	st := c.drones(l)
	res.DroneCount = st.count
	res.LasersOnDrones = minInt(droneLasers, res.TotalLasers, st.slots)

	avgQuality := 0.0
	if st.count > 0 {
		avgQuality = st.qualitySum / float64(st.count)
	}
	fitted := 0.0
	if droneLasers > 0 {
		fitted = float64(res.LasersOnDrones) / float64(droneLasers)
	}
	res.DroneMultiplier = 1 + fitted*avgQuality

	formation := c.cat.Formation(l.Formation)
	res.GlobalMultiplier = formation.LaserGlobalMult *
		formation.NPCLaserMult *
		skills.SaturnConquerorMult(l.Skills.SaturnConqueror) *
		(1 + st.totalBonus) *
		(1 + l.DamageBooster)

	res.DPS = res.ShipRawDPS*res.GlobalMultiplier + res.DroneRawDPS*res.GlobalMultiplier*res.DroneMultiplier
	if res.RawDPS > 0 {
		res.EffectiveMultiplier = res.DPS / res.RawDPS
	}
	return res
}

// droneUpgrade is the upgrade level assumed for drone-mounted lasers of a
// type.
func (c *Calculator) droneUpgrade(maxUpgrade map[string]int, laserID string) int {
	if c.opts.DroneUpgrades == LevelZero {
		return 0
	}
	if lvl, ok := maxUpgrade[laserID]; ok {
		return lvl
	}
	return MaxUpgradeLevel
}

func minInt(first int, rest ...int) int {
	m := first
	for _, v := range rest {
		if v < m {
			m = v
		}
	}
	return m
}
