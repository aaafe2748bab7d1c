package models

import (
	"encoding/json"
	"time"
)

// --- Loadout ---

// MaxLaserGroups is the number of independently configured ship laser groups.
const MaxLaserGroups = 3

type LaserGroup struct {
	Type    string `json:"type" yaml:"type"`
	Count   int    `json:"count" yaml:"count"`
	Upgrade int    `json:"upgrade" yaml:"upgrade"` // 0..16
}

type DroneConfig struct {
	Count  int    `json:"count" yaml:"count"`
	Level  int    `json:"level" yaml:"level"` // 1..16
	Design string `json:"design" yaml:"design"`
}

type SkillLevels struct {
	MissileTargeting  int `json:"missile_targeting" yaml:"missile_targeting"`
	RocketEngineering int `json:"rocket_engineering" yaml:"rocket_engineering"`
	SaturnConqueror   int `json:"saturn_conqueror" yaml:"saturn_conqueror"`
	BountyHunter      int `json:"bounty_hunter" yaml:"bounty_hunter"`
}

type LauncherConfig struct {
	Launcher       string `json:"launcher_type" yaml:"launcher_type"`
	Rocket         string `json:"rocket_type" yaml:"rocket_type"`
	TargetIsSaturn bool   `json:"target_is_saturn" yaml:"target_is_saturn"`
}

// Loadout is the full player setup the damage model evaluates. It is owned
// by the caller and never modified by the engine.
type Loadout struct {
	LaserGroups    []LaserGroup           `json:"laser_groups" yaml:"laser_groups"`
	LasersOnDrones map[string]int         `json:"lasers_on_drones_by_type" yaml:"lasers_on_drones_by_type"`
	Drones         map[string]DroneConfig `json:"drones" yaml:"drones"`
	Ammo           string                 `json:"ammo" yaml:"ammo"`
	TargetIsPirate bool                   `json:"target_is_pirate" yaml:"target_is_pirate"`
	Skills         SkillLevels            `json:"skills" yaml:"skills"`
	Formation      string                 `json:"formation" yaml:"formation"`
	DamageBooster  float64                `json:"damage_booster" yaml:"damage_booster"` // 0, 0.10, 0.20 or 0.25
	Rocket         string                 `json:"rocket" yaml:"rocket"`
	RocketLauncher LauncherConfig         `json:"rocket_launcher" yaml:"rocket_launcher"`
	NPCHP          int                    `json:"npc_hp" yaml:"npc_hp"`
}

// DefaultLoadout is the setup a fresh calculator starts with.
func DefaultLoadout() Loadout {
	return Loadout{
		LaserGroups: []LaserGroup{
			{Type: "LW3", Count: 10},
			{Type: "LW4"},
			{Type: "LW4U"},
		},
		LasersOnDrones: map[string]int{"LW3": 0, "LW4": 0, "LW4U": 0, "PRL": 0},
		Drones: map[string]DroneConfig{
			"IRIS": {Count: 8, Level: 16, Design: "NONE"},
			"APIS": {Count: 0, Level: 16, Design: "NONE"},
			"ZEUS": {Count: 0, Level: 16, Design: "NONE"},
		},
		Ammo:      "LPC11",
		Formation: "NONE",
		Rocket:    "NONE",
		RocketLauncher: LauncherConfig{
			Launcher: "NONE",
			Rocket:   "ECO10",
		},
		NPCHP: 250000,
	}
}

// Clone returns a deep copy so callers can edit without aliasing maps.
func (l Loadout) Clone() Loadout {
	c := l
	c.LaserGroups = append([]LaserGroup(nil), l.LaserGroups...)
	if l.LasersOnDrones != nil {
		c.LasersOnDrones = make(map[string]int, len(l.LasersOnDrones))
		for k, v := range l.LasersOnDrones {
			c.LasersOnDrones[k] = v
		}
	}
	if l.Drones != nil {
		c.Drones = make(map[string]DroneConfig, len(l.Drones))
		for k, v := range l.Drones {
			c.Drones[k] = v
		}
	}
	return c
}

// --- Results ---

// DamageResult is recomputed on every request.
type DamageResult struct {
	LaserDPS        float64 `json:"laser_dps"`
	RocketDPS       float64 `json:"rocket_dps"`
	TotalDPS        float64 `json:"total_dps"`
	TTKSeconds      float64 `json:"ttk_seconds"`
	LaserMultiplier float64 `json:"laser_multiplier"`
	LasersOnDrones  int     `json:"lasers_on_drones"`
	TotalLasers     int     `json:"total_lasers"`
	DroneCount      int     `json:"drone_count"`
}

// --- NPCs ---

type NPC struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Map           string `json:"map"`
	Health        int64  `json:"health"`
	Shields       int64  `json:"shields"`
	RewardURI     int64  `json:"reward_uri"`
	RewardCredits int64  `json:"reward_credits"`
}

func (n NPC) TotalHP() int64 {
	return n.Health + n.Shields
}

// FarmingSuggestion is one ranked NPC.
type FarmingSuggestion struct {
	NPC           NPC     `json:"npc"`
	HP            int64   `json:"hp"`
	TTK           float64 `json:"ttk"`
	CycleTime     float64 `json:"cycle_time"`
	Reward        int64   `json:"uri"`
	RewardPerHour float64 `json:"uri_per_hour"`
	Penalty       float64 `json:"penalty"`
	Score         float64 `json:"score"`
}

// RewardPerMinute is the per-minute figure shown in ranking tables.
func (s FarmingSuggestion) RewardPerMinute() float64 {
	return s.RewardPerHour / 60
}

// --- Persistence ---

type SavedLoadout struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Loadout   Loadout   `json:"loadout"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RankingRun struct {
	ID          int       `json:"id"`
	LoadoutID   string    `json:"loadout_id,omitempty"`
	TotalDPS    float64   `json:"total_dps"`
	MapFilter   string    `json:"map_filter,omitempty"`
	SearchTime  float64   `json:"search_time"`
	ResultCount int       `json:"result_count"`
	TopNPC      string    `json:"top_npc,omitempty"`
	TopScore    float64   `json:"top_score"`
	CreatedAt   time.Time `json:"created_at"`
}

type SyncStatus struct {
	ID           int        `json:"id"`
	SyncType     string     `json:"sync_type"`
	Source       string     `json:"source,omitempty"`
	Status       string     `json:"status"`
	ItemCount    int        `json:"item_count"`
	ErrorMessage string     `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

type UserLLMConfig struct {
	Provider        string    `json:"provider"`
	EncryptedAPIKey string    `json:"-"`
	Model           string    `json:"model"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type AIAdvice struct {
	ID        int64     `json:"id"`
	LoadoutID string    `json:"loadout_id,omitempty"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	Advice    string    `json:"advice"`
	CreatedAt time.Time `json:"created_at"`
}

// MarshalLoadout is the storage encoding of a loadout.
func MarshalLoadout(l Loadout) (string, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func UnmarshalLoadout(s string) (Loadout, error) {
	var l Loadout
	err := json.Unmarshal([]byte(s), &l)
	return l, err
}
