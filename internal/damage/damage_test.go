package damage

import (
	"math"
	"testing"

	"github.com/nzvengeance/aces-companion/internal/catalog"
	"github.com/nzvengeance/aces-companion/internal/models"
)

const eps = 1e-6

func approx(t *testing.T, what string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > eps*math.Max(1, math.Abs(want)) {
		t.Errorf("%s = %.6f, want %.6f", what, got, want)
	}
}

// bare is ten unupgraded LW-3 on the ship with x1 ammo and nothing else.
func bare() models.Loadout {
	return models.Loadout{
		LaserGroups: []models.LaserGroup{
			{Type: "LW3", Count: 10},
			{Type: "LW4"},
			{Type: "LW4U"},
		},
		Ammo:      "LPC11",
		Formation: "NONE",
		Rocket:    "NONE",
		RocketLauncher: models.LauncherConfig{
			Launcher: "NONE",
			Rocket:   "ECO10",
		},
		NPCHP: 250000,
	}
}

func empty() models.Loadout {
	l := bare()
	l.LaserGroups[0].Count = 0
	return l
}

func TestOverviewBaseline(t *testing.T) {
	calc := New(catalog.Default())
	res := calc.Overview(bare())

	approx(t, "laser_dps", res.LaserDPS, 2688.0)
	approx(t, "total_dps", res.TotalDPS, res.LaserDPS)
	approx(t, "rocket_dps", res.RocketDPS, 0)
	approx(t, "ttk", res.TTKSeconds, 250000/2688.0)
	approx(t, "laser_multiplier", res.LaserMultiplier, 1)
	if res.TotalLasers != 10 || res.LasersOnDrones != 0 || res.DroneCount != 0 {
		t.Errorf("counts = %d/%d/%d, want 10/0/0", res.TotalLasers, res.LasersOnDrones, res.DroneCount)
	}
	if math.Round(res.TTKSeconds) != 93 {
		t.Errorf("ttk rounds to %v, want 93", math.Round(res.TTKSeconds))
	}
}

func TestBoosterAppliesToLasers(t *testing.T) {
	calc := New(nil)
	l := bare()
	l.DamageBooster = 0.25
	res := calc.Overview(l)
	approx(t, "total_dps", res.TotalDPS, 3360.0)
	approx(t, "laser_multiplier", res.LaserMultiplier, 1.25)
}

func TestZeroLoadout(t *testing.T) {
	calc := New(nil)
	l := empty()
	l.Drones = map[string]models.DroneConfig{"IRIS": {Count: 0, Level: 16}}
	l.LasersOnDrones = map[string]int{"LW3": 0}
	res := calc.Overview(l)
	if res.TotalDPS != 0 || res.TTKSeconds != 0 || res.LaserMultiplier != 0 {
		t.Errorf("zero loadout = %+v", res)
	}
}

func TestLaserCountMonotonic(t *testing.T) {
	calc := New(nil)
	for _, typ := range []string{"LW3", "LW4", "LW4U", "PRL"} {
		prev := -1.0
		for n := 0; n <= 20; n++ {
			l := bare()
			l.LaserGroups[1] = models.LaserGroup{Type: typ, Count: n, Upgrade: 8}
			l.Drones = map[string]models.DroneConfig{"IRIS": {Count: 4, Level: 12, Design: "HAVOC"}}
			l.LasersOnDrones = map[string]int{"LW4": 3}
			got := calc.Lasers(l).DPS
			if got < prev {
				t.Fatalf("%s count %d: dps %.3f < %.3f", typ, n, got, prev)
			}
			prev = got
		}
	}
}

func TestPirateAmmo(t *testing.T) {
	calc := New(nil)

	pirate := bare()
	pirate.TargetIsPirate = true
	pirate.Ammo = "LFR4C"

	flat := bare()
	flat.TargetIsPirate = true
	flat.Ammo = "QRB101"

	approx(t, "L-FR4C vs pirate", calc.Lasers(pirate).DPS, calc.Lasers(flat).DPS*6/4)

	pirate.TargetIsPirate = false
	approx(t, "L-FR4C vs others", calc.Lasers(pirate).DPS, calc.Lasers(flat).DPS)
}

func TestUpgradeScaling(t *testing.T) {
	calc := New(nil)
	for _, typ := range []string{"LW3", "LW4", "LW4U", "PRL"} {
		lo := empty()
		lo.LaserGroups[0] = models.LaserGroup{Type: typ, Count: 5, Upgrade: 0}
		hi := lo.Clone()
		hi.LaserGroups[0].Upgrade = 16
		approx(t, typ+" upgrade 16", calc.Lasers(hi).DPS, calc.Lasers(lo).DPS*1.08)
	}
}

func TestPrometheusHasNoHiddenBonus(t *testing.T) {
	calc := New(nil)
	l := empty()
	l.LaserGroups[0] = models.LaserGroup{Type: "PRL", Count: 1}
	approx(t, "PRL dps", calc.Lasers(l).DPS, 600*0.75*0.4)
}

func TestBoosterOnRockets(t *testing.T) {
	calc := New(nil)
	for _, tc := range []struct {
		name string
		set  func(*models.Loadout)
	}{
		{"standard", func(l *models.Loadout) { l.Rocket = "S2S3030" }},
		{"launcher", func(l *models.Loadout) { l.RocketLauncher.Launcher = "HST2"; l.RocketLauncher.Rocket = "HRP01" }},
		{"both with modifiers", func(l *models.Loadout) {
			l.Rocket = "SIM311"
			l.RocketLauncher.Launcher = "HST1"
			l.Formation = "CHEVRON"
			l.Skills.RocketEngineering = 3
			l.Drones = map[string]models.DroneConfig{"IRIS": {Count: 8, Level: 16, Design: "HAUNTVOC"}}
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l := empty()
			tc.set(&l)
			base := calc.Overview(l).TotalDPS
			if base <= 0 {
				t.Fatalf("rocket-only loadout deals no damage")
			}
			l.DamageBooster = 0.20
			approx(t, "boosted", calc.Overview(l).TotalDPS, base*1.20)
		})
	}
}

func TestStandardRocket(t *testing.T) {
	calc := New(nil)
	tests := []struct {
		name string
		set  func(*models.Loadout)
		want float64
	}{
		{"none", func(l *models.Loadout) {}, 0},
		{"unknown id", func(l *models.Loadout) { l.Rocket = "R9000" }, 0},
		{"sim311", func(l *models.Loadout) { l.Rocket = "SIM311" }, 3000 * 0.95},
		{"accuracy capped at 1", func(l *models.Loadout) { l.Rocket = "SIM311"; l.Skills.MissileTargeting = 5 }, 3000},
		{"missile targeting 3", func(l *models.Loadout) { l.Rocket = "S2S3030"; l.Skills.MissileTargeting = 3 }, 10000 * 0.76},
		{"chevron", func(l *models.Loadout) { l.Rocket = "SIM311"; l.Skills.MissileTargeting = 5; l.Formation = "CHEVRON" }, 3000 * 1.65},
		{"rocket engineering 5", func(l *models.Loadout) { l.Rocket = "S2S2021"; l.Skills.RocketEngineering = 5 }, 7000 * 0.85 * 1.10},
		{"haunt-voc", func(l *models.Loadout) {
			l.Rocket = "SIM311"
			l.Drones = map[string]models.DroneConfig{"IRIS": {Count: 8, Level: 16, Design: "HAUNTVOC"}}
		}, 3000 * 0.95 * 1.12},
		{"vandal", func(l *models.Loadout) {
			l.Rocket = "SIM311"
			l.Drones = map[string]models.DroneConfig{"IRIS": {Count: 5, Level: 1, Design: "VANDAL"}}
		}, 3000 * 0.95 * 1.20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := empty()
			tt.set(&l)
			approx(t, "standard rocket dps", calc.StandardRocket(l), tt.want)
		})
	}
}

func TestLauncherRockets(t *testing.T) {
	calc := New(nil)
	tests := []struct {
		name string
		cfg  models.LauncherConfig
		want float64
	}{
		{"no launcher", models.LauncherConfig{Launcher: "NONE", Rocket: "ERS100"}, 0},
		{"unknown launcher", models.LauncherConfig{Launcher: "HST9", Rocket: "ECO10"}, 0},
		{"hst1 eco", models.LauncherConfig{Launcher: "HST1", Rocket: "ECO10"}, 3500},
		{"unknown rocket falls back to eco", models.LauncherConfig{Launcher: "HST1", Rocket: "??"}, 3500},
		{"ers100 vs others", models.LauncherConfig{Launcher: "HST2", Rocket: "ERS100"}, 4000},
		{"ers100 vs saturn", models.LauncherConfig{Launcher: "HST2", Rocket: "ERS100", TargetIsSaturn: true}, 8000},
		{"player bonus ignored", models.LauncherConfig{Launcher: "HST1", Rocket: "HRP01", TargetIsSaturn: true}, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := empty()
			l.RocketLauncher = tt.cfg
			approx(t, "launcher dps", calc.LauncherRockets(l), tt.want)
		})
	}
}

func TestDroneLasers(t *testing.T) {
	const lw3 = 240 * 1.6 * 0.7 // one unupgraded LW-3 per second

	tests := []struct {
		name     string
		drones   map[string]models.DroneConfig
		onDrones map[string]int
		opts     []Option
		wantDPS  float64
		wantOn   int
		wantAll  int
	}{
		{
			name:     "fitted lasers get drone quality",
			drones:   map[string]models.DroneConfig{"IRIS": {Count: 2, Level: 16, Design: "NONE"}},
			onDrones: map[string]int{"LW3": 4},
			wantDPS:  10*lw3 + 4*lw3*1.10,
			wantOn:   4,
			wantAll:  14,
		},
		{
			name:     "overcommitted slots scale the bonus",
			drones:   map[string]models.DroneConfig{"IRIS": {Count: 2, Level: 16, Design: "NONE"}},
			onDrones: map[string]int{"LW3": 8},
			wantDPS:  10*lw3 + 8*lw3*1.05,
			wantOn:   4,
			wantAll:  18,
		},
		{
			name:     "havoc adds laser bonus",
			drones:   map[string]models.DroneConfig{"IRIS": {Count: 2, Level: 8, Design: "HAVOC"}},
			onDrones: map[string]int{"LW3": 4},
			wantDPS:  10*lw3 + 4*lw3*1.15,
			wantOn:   4,
			wantAll:  14,
		},
		{
			name:     "no drones means no bonus",
			onDrones: map[string]int{"LW3": 2},
			wantDPS:  12 * lw3,
			wantOn:   0,
			wantAll:  12,
		},
		{
			name:     "vandal is global",
			drones:   map[string]models.DroneConfig{"IRIS": {Count: 8, Level: 16, Design: "VANDAL"}},
			wantDPS:  10 * lw3 * 1.32,
			wantOn:   0,
			wantAll:  10,
		},
		{
			name:     "drone-only type assumes upgrade 16",
			drones:   map[string]models.DroneConfig{"IRIS": {Count: 1, Level: 16, Design: "NONE"}},
			onDrones: map[string]int{"PRL": 2},
			wantDPS:  10*lw3 + 2*600*1.08*0.75*0.4*1.10,
			wantOn:   2,
			wantAll:  12,
		},
		{
			name:     "level zero policy",
			drones:   map[string]models.DroneConfig{"IRIS": {Count: 1, Level: 16, Design: "NONE"}},
			onDrones: map[string]int{"PRL": 2},
			opts:     []Option{WithDroneUpgrades(LevelZero)},
			wantDPS:  10*lw3 + 2*600*0.75*0.4*1.10,
			wantOn:   2,
			wantAll:  12,
		},
		{
			name:     "unknown drone and laser ids are ignored",
			drones:   map[string]models.DroneConfig{"HAWK": {Count: 3, Level: 16, Design: "HAVOC"}},
			onDrones: map[string]int{"LW9": 5},
			wantDPS:  10 * lw3,
			wantOn:   0,
			wantAll:  10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := New(nil, tt.opts...)
			l := bare()
			l.Drones = tt.drones
			l.LasersOnDrones = tt.onDrones
			res := calc.Lasers(l)
			approx(t, "dps", res.DPS, tt.wantDPS)
			if res.LasersOnDrones != tt.wantOn || res.TotalLasers != tt.wantAll {
				t.Errorf("lasers on drones/total = %d/%d, want %d/%d", res.LasersOnDrones, res.TotalLasers, tt.wantOn, tt.wantAll)
			}
		})
	}
}

func TestDroneUpgradeUsesMaxShipLevel(t *testing.T) {
	calc := New(nil)
	l := bare()
	l.LaserGroups[1] = models.LaserGroup{Type: "LW3", Count: 1, Upgrade: 10}
	l.LasersOnDrones = map[string]int{"LW3": 1}
	res := calc.Lasers(l)
	approx(t, "drone raw dps", res.DroneRawDPS, 240*1.05*1.6*0.7)
}

func TestGlobalMultipliers(t *testing.T) {
	calc := New(nil)
	l := bare()
	l.Formation = "BARRIER"
	l.Skills.SaturnConqueror = 5
	l.DamageBooster = 0.10
	approx(t, "dps", calc.Lasers(l).DPS, 2688*1.05*1.25*1.10)

	l.Formation = "TURTLE"
	approx(t, "turtle dps", calc.Lasers(l).DPS, 2688*0.925*1.25*1.10)

	l.Formation = "UNKNOWN"
	approx(t, "unknown formation dps", calc.Lasers(l).DPS, 2688*1.25*1.10)
}

func TestUnknownIdsDegrade(t *testing.T) {
	calc := New(nil)
	l := bare()
	l.Ammo = "MYSTERY"
	l.LaserGroups[1] = models.LaserGroup{Type: "LASERBEAM", Count: 50, Upgrade: 16}
	res := calc.Overview(l)
	approx(t, "dps", res.TotalDPS, 2688)
	if res.TotalLasers != 10 {
		t.Errorf("total lasers = %d, want 10", res.TotalLasers)
	}
}

func TestNormalize(t *testing.T) {
	cat := catalog.Default()
	l := models.Loadout{
		LaserGroups: []models.LaserGroup{
			{Type: "LW3", Count: -4, Upgrade: -1},
			{Type: "LW4", Count: 2, Upgrade: 99},
			{Type: "LW4U", Count: 1},
			{Type: "LW3", Count: 100},
		},
		LasersOnDrones: map[string]int{"LW3": -2},
		Drones: map[string]models.DroneConfig{
			"APIS": {Count: 5, Level: 0},
			"IRIS": {Count: -1, Level: 40},
		},
		Skills:        models.SkillLevels{MissileTargeting: -1, SaturnConqueror: 12},
		DamageBooster: 0.22,
		NPCHP:         -50,
	}
	n := Normalize(cat, l)

	if len(n.LaserGroups) != models.MaxLaserGroups {
		t.Errorf("groups = %d, want %d", len(n.LaserGroups), models.MaxLaserGroups)
	}
	if g := n.LaserGroups[0]; g.Count != 0 || g.Upgrade != 0 {
		t.Errorf("group 0 = %+v", g)
	}
	if g := n.LaserGroups[1]; g.Upgrade != MaxUpgradeLevel {
		t.Errorf("group 1 upgrade = %d", g.Upgrade)
	}
	if n.LasersOnDrones["LW3"] != 0 {
		t.Errorf("lasers on drones = %d", n.LasersOnDrones["LW3"])
	}
	if d := n.Drones["APIS"]; d.Count != 1 || d.Level != MinDroneLevel {
		t.Errorf("APIS = %+v", d)
	}
	if d := n.Drones["IRIS"]; d.Count != 0 || d.Level != MaxDroneLevel {
		t.Errorf("IRIS = %+v", d)
	}
	if n.Skills.MissileTargeting != 0 || n.Skills.SaturnConqueror != 5 {
		t.Errorf("skills = %+v", n.Skills)
	}
	if n.DamageBooster != 0.20 {
		t.Errorf("booster = %v", n.DamageBooster)
	}
	if n.NPCHP != 1 {
		t.Errorf("npc hp = %d", n.NPCHP)
	}
	if l.LaserGroups[0].Count != -4 || l.Drones["APIS"].Count != 5 {
		t.Error("Normalize modified its input")
	}
}

func TestSnapBooster(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0}, {0.1, 0.1}, {0.04, 0}, {0.06, 0.1}, {0.24, 0.25}, {0.5, 0.25}, {-3, 0},
		{math.NaN(), 0}, {math.Inf(1), 0},
	}
	for _, tt := range tests {
		if got := SnapBooster(tt.in); got != tt.want {
			t.Errorf("SnapBooster(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTTK(t *testing.T) {
	if got := TTK(1000, 0); got != 0 {
		t.Errorf("TTK with no dps = %v", got)
	}
	if got := TTK(0, 2); got != 0.5 {
		t.Errorf("TTK floors hp to 1: got %v", got)
	}
	l := bare()
	l.NPCHP = 0
	approx(t, "ttk with zero hp", New(nil).Overview(l).TTKSeconds, 1/2688.0)
}

func TestBreakdown(t *testing.T) {
	calc := New(nil)
	l := bare()
	l.Formation = "STAR"
	l.DamageBooster = 0.25
	l.Rocket = "SIM311"
	l.Drones = map[string]models.DroneConfig{
		"IRIS": {Count: 4, Level: 16, Design: "HAUNTVOC"},
		"ZEUS": {Count: 1, Level: 16, Design: "VANDAL"},
	}
	b := calc.Breakdown(l)
	approx(t, "rocket formation", b.FormationRocketMult, 1.25)
	approx(t, "booster", b.BoosterMult, 1.25)
	approx(t, "rocket design", b.RocketDesignMult, 1.06)
	approx(t, "total design", b.TotalDesignMult, 1.04)
	approx(t, "rocket dps", b.Rocket.DPS, 3000*0.95*1.25*1.06*1.04*1.25)

	counts := calc.DesignCounts(l)
	if counts["HAUNTVOC"] != 4 || counts["VANDAL"] != 1 {
		t.Errorf("design counts = %v", counts)
	}
	if slots := calc.DroneSlots(l); slots != 10 {
		t.Errorf("drone slots = %d, want 10", slots)
	}
}
