package catalog

// Built-in balance data. Names show the current item name with the legacy
// name in parentheses.

var defaultLasers = []LaserType{
	{ID: "LW3", Name: "LW-3 (LF-3)", BaseDamage: 240, BaseDamageLvl16: 258.5, ShotsPerSecond: 1.0, Accuracy: 0.70, Hidden60: true},
	{ID: "LW4", Name: "LW-4 (LF-4)", BaseDamage: 320, BaseDamageLvl16: 344, ShotsPerSecond: 1.0, Accuracy: 0.70, Hidden60: true},
	{ID: "LW4U", Name: "LW-4U (LF-4U)", BaseDamage: 160, BaseDamageLvl16: 172, ShotsPerSecond: 2.0, Accuracy: 0.70, Hidden60: true},
	{ID: "PRL", Name: "PR-L (Prometheus)", BaseDamage: 600, BaseDamageLvl16: 645, ShotsPerSecond: 1.0 / 2.5, Accuracy: 0.75, Hidden60: false},
}

var defaultAmmo = []AmmoType{
	{ID: "LPC11", Name: "LPC-11 (x1 / LCB-10)", MultNormal: 1, MultPirate: 1},
	{ID: "PCC25", Name: "PCC-25 (x2 / MCB-25)", MultNormal: 2, MultPirate: 2},
	{ID: "PCC50", Name: "PCC-50 (x3 / MCB-50)", MultNormal: 3, MultPirate: 3},
	{ID: "QRB101", Name: "QRB-101 (x4 / UCB-100)", MultNormal: 4, MultPirate: 4},
	{ID: "LSA50", Name: "LSA-50 (x2 leech / SAB-50)", MultNormal: 2, MultPirate: 2},
	{ID: "RLPC75", Name: "RLPC-75 (x6 / RSB-75)", MultNormal: 6, MultPirate: 6},
	{ID: "HSAX", Name: "HSA-X (x3 + leech / CBO-100)", MultNormal: 3, MultPirate: 3},
	{ID: "LFR4C", Name: "L-FR4C (x6 vs Pirates, x4 vs others)", MultNormal: 4, MultPirate: 6},
}

var defaultDrones = []DroneType{
	{ID: "IRIS", Name: "Iris (Iova)", MaxCount: 8, MaxLasers: 2},
	{ID: "APIS", Name: "Apis (Atlas)", MaxCount: 1, MaxLasers: 2},
	{ID: "ZEUS", Name: "Zeus (Zagreus)", MaxCount: 1, MaxLasers: 2},
}

var defaultDesigns = []DroneDesign{
	{ID: "NONE", Name: "None", Effect: EffectNone},
	{ID: "HAVOC", Name: "Havoc (+10% laser dmg per drone)", Effect: EffectLaser, Bonus: 0.10},
	{ID: "HAUNTVOC", Name: "Haunt-Voc (+1.5% rocket dmg per drone)", Effect: EffectRocket, Bonus: 0.015},
	{ID: "VANDAL", Name: "Vandal (+4% total dmg per drone)", Effect: EffectTotal, Bonus: 0.04},
}

var defaultFormations = []Formation{
	{ID: "NONE", Name: "None", LaserGlobalMult: 1, NPCLaserMult: 1, RocketMult: 1},
	{ID: "TURTLE", Name: "Turtle (-7.5% dmg)", LaserGlobalMult: 0.925, NPCLaserMult: 1, RocketMult: 0.925},
	{ID: "HEART", Name: "Heart (-5% dmg)", LaserGlobalMult: 0.95, NPCLaserMult: 1, RocketMult: 0.95},
	{ID: "BARRIER", Name: "Barrier (+5% NPC dmg)", LaserGlobalMult: 1, NPCLaserMult: 1.05, RocketMult: 1},
	{ID: "ARROW", Name: "Arrow (+20% rocket dmg)", LaserGlobalMult: 1, NPCLaserMult: 1, RocketMult: 1.20},
	{ID: "STAR", Name: "Star (+25% rocket dmg)", LaserGlobalMult: 1, NPCLaserMult: 1, RocketMult: 1.25},
	{ID: "DOUBLE_ARROW", Name: "Double Arrow (+30% rocket dmg)", LaserGlobalMult: 1, NPCLaserMult: 1, RocketMult: 1.30},
	{ID: "CHEVRON", Name: "Chevron (+65% rocket dmg)", LaserGlobalMult: 1, NPCLaserMult: 1, RocketMult: 1.65},
}

// Standard rocket rates approximate one rocket per second.
var defaultRockets = []Rocket{
	{ID: "NONE", Name: "None", BaseDamage: 0, Accuracy: 1.0, ShotsPerSecond: 0},
	{ID: "SIM311", Name: "SIM-311 (R-310)", BaseDamage: 3000, Accuracy: 0.95, ShotsPerSecond: 1},
	{ID: "S2S2026", Name: "S2S-2026 (PLT-2026)", BaseDamage: 5000, Accuracy: 0.80, ShotsPerSecond: 1},
	{ID: "S2S2021", Name: "S2S-2021 (PLT-2021)", BaseDamage: 7000, Accuracy: 0.85, ShotsPerSecond: 1},
	{ID: "S2S3030", Name: "S2S-3030 (PLT-3030)", BaseDamage: 10000, Accuracy: 0.70, ShotsPerSecond: 1},
}

var defaultLaunchers = []Launcher{
	{ID: "NONE", Name: "None", RocketsPerBurst: 0, ReloadSeconds: 1},
	{ID: "HST1", Name: "HST-1 (3 rockets / 3 s)", RocketsPerBurst: 3, ReloadSeconds: 3},
	{ID: "HST2", Name: "HST-2 (5 rockets / 5 s)", RocketsPerBurst: 5, ReloadSeconds: 5},
}

var defaultLauncherRockets = []LauncherRocket{
	{ID: "ECO10", Name: "ECO-10", BaseDamage: 3500, Accuracy: 1.0},
	{ID: "HRP01", Name: "HRP-01 (HSTRM-01, +5% vs players)", BaseDamage: 5000, Accuracy: 1.0, BonusVsPlayers: 0.05},
	{ID: "ERS100", Name: "ERS-100 (UBR-10, +100% vs Saturn faction)", BaseDamage: 4000, Accuracy: 1.0, BonusVsSaturn: 1.0},
}

var defaultSkills = SkillTables{
	SaturnConqueror:   SkillTable{0, 0.02, 0.04, 0.08, 0.16, 0.25},
	BountyHunter:      SkillTable{0, 0.02, 0.04, 0.04, 0.08, 0.12},
	RocketEngineering: SkillTable{0, 0.02, 0.04, 0.06, 0.08, 0.10},
	MissileTargeting:  SkillTable{0, 0.02, 0.04, 0.06, 0.08, 0.10},
}

// Default returns a fresh catalog with the built-in balance data.
func Default() *Catalog {
	return &Catalog{
		lasers:          newTable(func(v LaserType) string { return v.ID }, defaultLasers...),
		ammo:            newTable(func(v AmmoType) string { return v.ID }, defaultAmmo...),
		drones:          newTable(func(v DroneType) string { return v.ID }, defaultDrones...),
		designs:         newTable(func(v DroneDesign) string { return v.ID }, defaultDesigns...),
		formations:      newTable(func(v Formation) string { return v.ID }, defaultFormations...),
		rockets:         newTable(func(v Rocket) string { return v.ID }, defaultRockets...),
		launchers:       newTable(func(v Launcher) string { return v.ID }, defaultLaunchers...),
		launcherRockets: newTable(func(v LauncherRocket) string { return v.ID }, defaultLauncherRockets...),
		skills:          defaultSkills,
	}
}
