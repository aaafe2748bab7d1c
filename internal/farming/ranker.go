// Package farming ranks NPC targets by how much reward a loadout earns per
// hour killing them over and over.
package farming

import (
	"math"
	"sort"

	"github.com/nzvengeance/aces-companion/internal/models"
)

const (
	DefaultSearchTime = 5.0
	MaxSearchTime     = 60.0
	DefaultTopN       = 10

	// Kills faster than IdealMinTTK waste damage, kills slower than
	// IdealMaxTTK are tedious. Both are penalized down to MinPenalty.
	IdealMinTTK = 3.0
	IdealMaxTTK = 45.0
	MinPenalty  = 0.2
)

type Options struct {
	// SearchTime is the seconds spent finding the next target, clamped to
	// 0..60.
	SearchTime float64
	// TopN limits the result; zero or negative returns every NPC.
	TopN int
}

func DefaultOptions() Options {
	return Options{SearchTime: DefaultSearchTime, TopN: DefaultTopN}
}

// ClampSearchTime maps NaN to the default and clamps into 0..MaxSearchTime.
func ClampSearchTime(s float64) float64 {
	if math.IsNaN(s) {
		return DefaultSearchTime
	}
	return math.Max(0, math.Min(s, MaxSearchTime))
}

// Penalty scales reward per hour by how far ttk is outside the ideal kill
// window.
func Penalty(ttk float64) float64 {
	switch {
	case ttk <= 0:
		return 0
	case ttk < IdealMinTTK:
		return math.Max(MinPenalty, ttk/IdealMinTTK)
	case ttk > IdealMaxTTK:
		return math.Max(MinPenalty, IdealMaxTTK/ttk)
	default:
		return 1
	}
}

// Evaluate scores a single NPC for the given DPS.
func Evaluate(totalDPS float64, npc models.NPC, searchTime float64) models.FarmingSuggestion {
	hp := npc.TotalHP()
	if hp < 1 {
		hp = 1
	}
	ttk := float64(hp) / totalDPS
	reward := npc.RewardURI
	if reward < 0 {
		reward = 0
	}

	s := models.FarmingSuggestion{
		NPC:    npc,
		HP:     hp,
		TTK:    ttk,
		Reward: reward,
	}
	if ttk > 0 {
		s.CycleTime = ttk + searchTime
	}
	if reward > 0 && s.CycleTime > 0 {
		s.RewardPerHour = 3600 / s.CycleTime * float64(reward)
	}
	s.Penalty = Penalty(ttk)
	s.Score = s.RewardPerHour * s.Penalty
	return s
}

// Suggest ranks npcs by score, best first. NPCs with equal score keep
// their input order. It returns nil when totalDPS is not positive or there
// are no NPCs.
func Suggest(totalDPS float64, npcs []models.NPC, opts Options) []models.FarmingSuggestion {
	if !(totalDPS > 0) || math.IsInf(totalDPS, 1) || len(npcs) == 0 {
		return nil
	}
	search := ClampSearchTime(opts.SearchTime)

	out := make([]models.FarmingSuggestion, 0, len(npcs))
	for _, npc := range npcs {
		out = append(out, Evaluate(totalDPS, npc, search))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if opts.TopN > 0 && len(out) > opts.TopN {
		out = out[:opts.TopN]
	}
	return out
}
