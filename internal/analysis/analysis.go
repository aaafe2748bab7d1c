package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nzvengeance/aces-companion/internal/damage"
	"github.com/nzvengeance/aces-companion/internal/models"
)

// Slot usage states
const (
	SlotsNone = "none" // no drone slots available
	SlotsFree = "free"
	SlotsFull = "full"
	SlotsOver = "over" // more lasers assigned than slots; extras get no drone bonus
)

type SlotReport struct {
	Used      int    `json:"used"`
	Available int    `json:"available"`
	State     string `json:"state"`
}

func (r SlotReport) Text() string {
	text := fmt.Sprintf("Drone laser slots used: %d / %d", r.Used, r.Available)
	switch r.State {
	case SlotsOver:
		text += " (too many, extra lasers get no drone bonus)"
	case SlotsFree:
		text += " (free slots remaining)"
	case SlotsFull:
		text += " (all slots used)"
	}
	return text
}

// SlotUsage compares the lasers assigned to drones against the laser slots
// the configured drones offer.
func SlotUsage(calc *damage.Calculator, l models.Loadout) SlotReport {
	report := SlotReport{Available: calc.DroneSlots(l)}
	for _, n := range l.LasersOnDrones {
		if n > 0 {
			report.Used += n
		}
	}

	switch {
	case report.Available == 0:
		report.State = SlotsNone
	case report.Used > report.Available:
		report.State = SlotsOver
	case report.Used < report.Available:
		report.State = SlotsFree
	default:
		report.State = SlotsFull
	}
	return report
}

// BuildSummary describes a loadout for the farming guide header.
type BuildSummary struct {
	TotalDPS       float64        `json:"total_dps"`
	LaserDPS       float64        `json:"laser_dps"`
	RocketDPS      float64        `json:"rocket_dps"`
	Formation      string         `json:"formation"`
	BoosterPercent int            `json:"booster_percent"`
	TotalDrones    int            `json:"total_drones"`
	DesignCounts   map[string]int `json:"design_counts"`
	Slots          SlotReport     `json:"slots"`
}

// Summarize builds the summary of a loadout and its computed result.
func Summarize(calc *damage.Calculator, l models.Loadout, res models.DamageResult) BuildSummary {
	norm := damage.Normalize(calc.Catalog(), l)
	counts := calc.DesignCounts(norm)

	total := 0
	for _, n := range counts {
		total += n
	}

	return BuildSummary{
		TotalDPS:       res.TotalDPS,
		LaserDPS:       res.LaserDPS,
		RocketDPS:      res.RocketDPS,
		Formation:      calc.Catalog().Formation(norm.Formation).ID,
		BoosterPercent: int(norm.DamageBooster*100 + 0.5),
		TotalDrones:    total,
		DesignCounts:   counts,
		Slots:          SlotUsage(calc, norm),
	}
}

// Text renders the summary as a single line.
func (s BuildSummary) Text() string {
	if s.TotalDPS <= 0 {
		return "No active damage setup imported yet."
	}

	var designs []string
	for id, n := range s.DesignCounts {
		if id == "NONE" || n == 0 {
			continue
		}
		designs = append(designs, fmt.Sprintf("%s: %d", id, n))
	}
	sort.Strings(designs)

	drones := fmt.Sprintf("Drones: %d", s.TotalDrones)
	if len(designs) > 0 {
		drones += " (" + strings.Join(designs, ", ") + ")"
	}

	return fmt.Sprintf("Total DPS %.0f (laser: %.0f, rockets: %.0f) | Formation: %s, Booster: +%d%% | %s",
		s.TotalDPS, s.LaserDPS, s.RocketDPS, s.Formation, s.BoosterPercent, drones)
}
