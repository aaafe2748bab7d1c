package analysis

import (
	"strings"
	"testing"

	"github.com/nzvengeance/aces-companion/internal/damage"
	"github.com/nzvengeance/aces-companion/internal/models"
)

func TestSlotUsage(t *testing.T) {
	calc := damage.New(nil)
	tests := []struct {
		name     string
		drones   map[string]models.DroneConfig
		onDrones map[string]int
		want     SlotReport
	}{
		{"no drones", nil, map[string]int{"LW3": 2}, SlotReport{Used: 2, Available: 0, State: SlotsNone}},
		{"free", map[string]models.DroneConfig{"IRIS": {Count: 8, Level: 16}}, map[string]int{"LW3": 4, "LW4": 2}, SlotReport{Used: 6, Available: 16, State: SlotsFree}},
		{"full", map[string]models.DroneConfig{"IRIS": {Count: 2, Level: 16}, "ZEUS": {Count: 1, Level: 16}}, map[string]int{"PRL": 6}, SlotReport{Used: 6, Available: 6, State: SlotsFull}},
		{"over", map[string]models.DroneConfig{"APIS": {Count: 1, Level: 1}}, map[string]int{"LW3": 3, "LW4": -1}, SlotReport{Used: 3, Available: 2, State: SlotsOver}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := models.Loadout{Drones: tt.drones, LasersOnDrones: tt.onDrones}
			if got := SlotUsage(calc, l); got != tt.want {
				t.Errorf("SlotUsage = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSlotReportText(t *testing.T) {
	r := SlotReport{Used: 3, Available: 2, State: SlotsOver}
	if !strings.HasPrefix(r.Text(), "Drone laser slots used: 3 / 2") || !strings.Contains(r.Text(), "too many") {
		t.Errorf("Text = %q", r.Text())
	}
}

func TestSummarize(t *testing.T) {
	calc := damage.New(nil)
	l := models.DefaultLoadout()
	l.Formation = "STAR"
	l.DamageBooster = 0.2
	l.Drones["IRIS"] = models.DroneConfig{Count: 6, Level: 16, Design: "HAVOC"}
	l.Drones["ZEUS"] = models.DroneConfig{Count: 1, Level: 16, Design: "VANDAL"}

	res := calc.Overview(l)
	s := Summarize(calc, l, res)

	if s.TotalDrones != 7 || s.DesignCounts["HAVOC"] != 6 || s.DesignCounts["VANDAL"] != 1 {
		t.Errorf("drones = %d, designs = %v", s.TotalDrones, s.DesignCounts)
	}
	if s.BoosterPercent != 20 || s.Formation != "STAR" {
		t.Errorf("booster = %d, formation = %s", s.BoosterPercent, s.Formation)
	}
	text := s.Text()
	for _, part := range []string{"Formation: STAR", "Booster: +20%", "Drones: 7 (HAVOC: 6, VANDAL: 1)"} {
		if !strings.Contains(text, part) {
			t.Errorf("Text %q missing %q", text, part)
		}
	}

	if got := (BuildSummary{}).Text(); got != "No active damage setup imported yet." {
		t.Errorf("empty summary text = %q", got)
	}
}
