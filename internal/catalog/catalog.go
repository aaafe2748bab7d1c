// Package catalog holds the static game-balance tables used by the damage
// model: lasers, ammo, drones, drone designs, formations, rockets, rocket
// launchers, launcher rockets and the skill level tables.
//
// Lookups never fail for items that have a neutral entry (ammo, formation,
// design, rocket, launcher, launcher rocket): an unknown id resolves to the
// table default.
package catalog

// Default ids returned when a lookup misses.
const (
	DefaultAmmo           = "LPC11"
	DefaultFormation      = "NONE"
	DefaultDesign         = "NONE"
	DefaultRocket         = "NONE"
	DefaultLauncher       = "NONE"
	DefaultLauncherRocket = "ECO10"
)

type LaserType struct {
	ID              string  `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	BaseDamage      float64 `yaml:"base_damage" json:"base_damage"`
	BaseDamageLvl16 float64 `yaml:"base_damage_lvl16" json:"base_damage_lvl16"`
	ShotsPerSecond  float64 `yaml:"shots_per_second" json:"shots_per_second"`
	Accuracy        float64 `yaml:"accuracy" json:"accuracy"`
	Hidden60        bool    `yaml:"hidden_60" json:"hidden_60"` // flat +60% on everything except PR-L
}

type AmmoType struct {
	ID         string  `yaml:"id" json:"id"`
	Name       string  `yaml:"name" json:"name"`
	MultNormal float64 `yaml:"mult_normal" json:"mult_normal"`
	MultPirate float64 `yaml:"mult_pirate" json:"mult_pirate"`
}

// Multiplier returns the ammo multiplier against the given target faction.
func (a AmmoType) Multiplier(pirate bool) float64 {
	if pirate {
		return a.MultPirate
	}
	return a.MultNormal
}

type DroneType struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	MaxCount  int    `yaml:"max_count" json:"max_count"`
	MaxLasers int    `yaml:"max_lasers" json:"max_lasers"`
}

// Effect is the damage category a drone design boosts.
type Effect string

const (
	EffectNone   Effect = "none"
	EffectLaser  Effect = "laser"
	EffectRocket Effect = "rocket"
	EffectTotal  Effect = "total"
)

// DroneDesign grants Bonus per equipped drone to the Effect category.
type DroneDesign struct {
	ID     string  `yaml:"id" json:"id"`
	Name   string  `yaml:"name" json:"name"`
	Effect Effect  `yaml:"effect" json:"effect"`
	Bonus  float64 `yaml:"bonus" json:"bonus"`
}

type Formation struct {
	ID              string  `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	LaserGlobalMult float64 `yaml:"laser_global_mult" json:"laser_global_mult"`
	NPCLaserMult    float64 `yaml:"npc_laser_mult" json:"npc_laser_mult"`
	RocketMult      float64 `yaml:"rocket_mult" json:"rocket_mult"`
}

type Rocket struct {
	ID             string  `yaml:"id" json:"id"`
	Name           string  `yaml:"name" json:"name"`
	BaseDamage     float64 `yaml:"base_damage" json:"base_damage"`
	Accuracy       float64 `yaml:"accuracy" json:"accuracy"`
	ShotsPerSecond float64 `yaml:"shots_per_second" json:"shots_per_second"`
}

type Launcher struct {
	ID              string  `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	RocketsPerBurst int     `yaml:"rockets_per_burst" json:"rockets_per_burst"`
	ReloadSeconds   float64 `yaml:"reload_seconds" json:"reload_seconds"`
}

// Rate is the sustained rockets per second, 0 for an empty launcher.
func (l Launcher) Rate() float64 {
	if l.RocketsPerBurst <= 0 || l.ReloadSeconds <= 0 {
		return 0
	}
	return float64(l.RocketsPerBurst) / l.ReloadSeconds
}

type LauncherRocket struct {
	ID             string  `yaml:"id" json:"id"`
	Name           string  `yaml:"name" json:"name"`
	BaseDamage     float64 `yaml:"base_damage" json:"base_damage"`
	Accuracy       float64 `yaml:"accuracy" json:"accuracy"`
	BonusVsSaturn  float64 `yaml:"bonus_vs_saturn" json:"bonus_vs_saturn"`
	BonusVsPlayers float64 `yaml:"bonus_vs_players" json:"bonus_vs_players"` // PvP only
}

// table is an id-keyed map that remembers insertion order.
type table[T any] struct {
	order []string
	byID  map[string]T
}

func newTable[T any](id func(T) string, items ...T) table[T] {
	t := table[T]{byID: make(map[string]T, len(items))}
	for _, it := range items {
		t.put(id(it), it)
	}
	return t
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.byID[id]; !ok {
		t.order = append(t.order, id)
	}
	t.byID[id] = v
}

func (t table[T]) get(id string) (T, bool) {
	v, ok := t.byID[id]
	return v, ok
}

func (t table[T]) list() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.byID[id])
	}
	return out
}

func (t table[T]) clone() table[T] {
	c := table[T]{order: append([]string(nil), t.order...), byID: make(map[string]T, len(t.byID))}
	for k, v := range t.byID {
		c.byID[k] = v
	}
	return c
}

// Catalog is read-only once built. Share one instance between requests.
type Catalog struct {
	lasers          table[LaserType]
	ammo            table[AmmoType]
	drones          table[DroneType]
	designs         table[DroneDesign]
	formations      table[Formation]
	rockets         table[Rocket]
	launchers       table[Launcher]
	launcherRockets table[LauncherRocket]
	skills          SkillTables
}

// Laser reports false for ids that are not in the table.
func (c *Catalog) Laser(id string) (LaserType, bool) { return c.lasers.get(id) }

// Drone reports false for ids that are not in the table.
func (c *Catalog) Drone(id string) (DroneType, bool) { return c.drones.get(id) }

func (c *Catalog) Ammo(id string) AmmoType {
	if a, ok := c.ammo.get(id); ok {
		return a
	}
	return c.ammo.byID[DefaultAmmo]
}

func (c *Catalog) Formation(id string) Formation {
	if f, ok := c.formations.get(id); ok {
		return f
	}
	return c.formations.byID[DefaultFormation]
}

func (c *Catalog) Design(id string) DroneDesign {
	if d, ok := c.designs.get(id); ok {
		return d
	}
	return c.designs.byID[DefaultDesign]
}

func (c *Catalog) Rocket(id string) Rocket {
	if r, ok := c.rockets.get(id); ok {
		return r
	}
	return c.rockets.byID[DefaultRocket]
}

func (c *Catalog) Launcher(id string) Launcher {
	if l, ok := c.launchers.get(id); ok {
		return l
	}
	return c.launchers.byID[DefaultLauncher]
}

func (c *Catalog) LauncherRocket(id string) LauncherRocket {
	if r, ok := c.launcherRockets.get(id); ok {
		return r
	}
	return c.launcherRockets.byID[DefaultLauncherRocket]
}

func (c *Catalog) Skills() SkillTables { return c.skills }

func (c *Catalog) Lasers() []LaserType               { return c.lasers.list() }
func (c *Catalog) AmmoTypes() []AmmoType             { return c.ammo.list() }
func (c *Catalog) Drones() []DroneType               { return c.drones.list() }
func (c *Catalog) Designs() []DroneDesign            { return c.designs.list() }
func (c *Catalog) Formations() []Formation           { return c.formations.list() }
func (c *Catalog) Rockets() []Rocket                 { return c.rockets.list() }
func (c *Catalog) Launchers() []Launcher             { return c.launchers.list() }
func (c *Catalog) LauncherRockets() []LauncherRocket { return c.launcherRockets.list() }

// LaserIDs returns laser ids in table order.
func (c *Catalog) LaserIDs() []string { return append([]string(nil), c.lasers.order...) }

// DroneIDs returns drone ids in table order.
func (c *Catalog) DroneIDs() []string { return append([]string(nil), c.drones.order...) }

// Snapshot is the serializable form of the whole catalog, used by the API
// and as the YAML overlay document.
type Snapshot struct {
	Lasers          []LaserType      `yaml:"lasers" json:"lasers"`
	Ammo            []AmmoType       `yaml:"ammo" json:"ammo"`
	Drones          []DroneType      `yaml:"drones" json:"drones"`
	DroneDesigns    []DroneDesign    `yaml:"drone_designs" json:"drone_designs"`
	Formations      []Formation      `yaml:"formations" json:"formations"`
	Rockets         []Rocket         `yaml:"rockets" json:"rockets"`
	Launchers       []Launcher       `yaml:"rocket_launchers" json:"rocket_launchers"`
	LauncherRockets []LauncherRocket `yaml:"launcher_rockets" json:"launcher_rockets"`
	Skills          *SkillSnapshot   `yaml:"skills,omitempty" json:"skills,omitempty"`
}

func (c *Catalog) Snapshot() Snapshot {
	s := c.skills.snapshot()
	return Snapshot{
		Lasers:          c.Lasers(),
		Ammo:            c.AmmoTypes(),
		Drones:          c.Drones(),
		DroneDesigns:    c.Designs(),
		Formations:      c.Formations(),
		Rockets:         c.Rockets(),
		Launchers:       c.Launchers(),
		LauncherRockets: c.LauncherRockets(),
		Skills:          &s,
	}
}
