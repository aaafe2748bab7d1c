package catalog

import "fmt"

// MaxSkillLevel is the highest level of every skill tree node.
const MaxSkillLevel = 5

// SkillTable maps a skill level (0..5) to a bonus fraction. The values are
// hand-tuned in game and must be looked up, never interpolated.
type SkillTable [MaxSkillLevel + 1]float64

// At returns the bonus for level, clamping level into 0..5.
func (t SkillTable) At(level int) float64 {
	return t[ClampSkill(level)]
}

// ClampSkill clamps a skill level into 0..MaxSkillLevel.
func ClampSkill(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxSkillLevel {
		return MaxSkillLevel
	}
	return level
}

type SkillTables struct {
	SaturnConqueror   SkillTable
	BountyHunter      SkillTable
	RocketEngineering SkillTable
	MissileTargeting  SkillTable
}

// SaturnConquerorMult is the NPC laser damage multiplier.
func (s SkillTables) SaturnConquerorMult(level int) float64 {
	return 1 + s.SaturnConqueror.At(level)
}

// BountyHunterMult only applies against players and is unused by NPC math.
func (s SkillTables) BountyHunterMult(level int) float64 {
	return 1 + s.BountyHunter.At(level)
}

// RocketEngineeringMult scales rocket and launcher damage.
func (s SkillTables) RocketEngineeringMult(level int) float64 {
	return 1 + s.RocketEngineering.At(level)
}

// MissileTargetingBonus is added to standard rocket accuracy.
func (s SkillTables) MissileTargetingBonus(level int) float64 {
	return s.MissileTargeting.At(level)
}

// SkillSnapshot is the YAML/JSON shape of SkillTables.
type SkillSnapshot struct {
	SaturnConqueror   []float64 `yaml:"saturn_conqueror,omitempty" json:"saturn_conqueror"`
	BountyHunter      []float64 `yaml:"bounty_hunter,omitempty" json:"bounty_hunter"`
	RocketEngineering []float64 `yaml:"rocket_engineering,omitempty" json:"rocket_engineering"`
	MissileTargeting  []float64 `yaml:"missile_targeting,omitempty" json:"missile_targeting"`
}

func (s SkillTables) snapshot() SkillSnapshot {
	return SkillSnapshot{
		SaturnConqueror:   s.SaturnConqueror[:],
		BountyHunter:      s.BountyHunter[:],
		RocketEngineering: s.RocketEngineering[:],
		MissileTargeting:  s.MissileTargeting[:],
	}
}

// apply overrides tables present in snap. A present table must carry exactly
// one value per level.
func (s *SkillTables) apply(snap SkillSnapshot) error {
	pairs := []struct {
		name string
		src  []float64
		dst  *SkillTable
	}{
		{"saturn_conqueror", snap.SaturnConqueror, &s.SaturnConqueror},
		{"bounty_hunter", snap.BountyHunter, &s.BountyHunter},
		{"rocket_engineering", snap.RocketEngineering, &s.RocketEngineering},
		{"missile_targeting", snap.MissileTargeting, &s.MissileTargeting},
	}
	for _, p := range pairs {
		if p.src == nil {
			continue
		}
		if len(p.src) != len(p.dst) {
			return fmt.Errorf("skill table %s: want %d levels, got %d", p.name, len(p.dst), len(p.src))
		}
		copy(p.dst[:], p.src)
	}
	return nil
}
