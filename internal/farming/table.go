package farming

import (
	"github.com/nzvengeance/aces-companion/internal/models"
	"github.com/nzvengeance/aces-companion/internal/npcs"
)

// Rating buckets a reward rate relative to the best rate in the same
// result set.
func Rating(perMinute, maxPerMinute float64) string {
	if maxPerMinute <= 0 {
		return "-"
	}
	ratio := perMinute / maxPerMinute
	switch {
	case ratio >= 0.90:
		return "A+"
	case ratio >= 0.75:
		return "A"
	case ratio >= 0.60:
		return "B"
	case ratio >= 0.40:
		return "C"
	case ratio >= 0.20:
		return "D"
	default:
		return "F"
	}
}

// Row is one line of a rendered ranking.
type Row struct {
	Rank            int     `json:"rank"`
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Map             string  `json:"map"`
	HP              int64   `json:"hp"`
	RewardPerKill   int64   `json:"uri_per_kill"`
	TTK             float64 `json:"ttk"`
	CycleTime       float64 `json:"cycle_time"`
	RewardPerMinute float64 `json:"uri_per_min"`
	Score           float64 `json:"score"`
	Rating          string  `json:"rating"`
}

// Table renders suggestions into rows, naming NPCs in the given style.
func Table(suggestions []models.FarmingSuggestion, style npcs.NameStyle) []Row {
	best := 0.0
	for _, s := range suggestions {
		if pm := s.RewardPerMinute(); pm > best {
			best = pm
		}
	}

	rows := make([]Row, 0, len(suggestions))
	for i, s := range suggestions {
		pm := s.RewardPerMinute()
		rows = append(rows, Row{
			Rank:            i + 1,
			ID:              s.NPC.ID,
			Name:            npcs.DisplayName(s.NPC, style),
			Map:             s.NPC.Map,
			HP:              s.HP,
			RewardPerKill:   s.Reward,
			TTK:             s.TTK,
			CycleTime:       s.CycleTime,
			RewardPerMinute: pm,
			Score:           s.Score,
			Rating:          Rating(pm, best),
		})
	}
	return rows
}
