package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	npcPath := writeFile(t, dir, "npcs.json", `[
		{"id":"a","name":"Luminid","map":"1-2","health":8000,"shields":2000,"reward_uri":1000},
		{"id":"b","name":"Streuner","map":"1-1","health":4000,"shields":1000,"reward_uri":500}
	]`)
	loadoutPath := writeFile(t, dir, "loadout.yaml", `
formation: STAR
damage_booster: 0.2
drones:
  IRIS: {count: 8, level: 16, design: HAVOC}
`)
	xlsxPath := filepath.Join(dir, "out", "ranking.xlsx")

	var out bytes.Buffer
	code := run([]string{"-loadout", loadoutPath, "-npcs", npcPath, "-style", "mod", "-xlsx", xlsxPath}, &out)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, out.String())
	}

	text := out.String()
	for _, part := range []string{"Formation: STAR", "Booster: +20%", "HAVOC: 8", "Lordakia", "Drone laser slots used"} {
		if !strings.Contains(text, part) {
			t.Errorf("output missing %q:\n%s", part, text)
		}
	}
	if _, err := os.Stat(xlsxPath); err != nil {
		t.Errorf("xlsx not written: %v", err)
	}
}

func TestRunMapFilterAndMissingCatalog(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"-npcs", filepath.Join(t.TempDir(), "none.json")}, &out); code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(out.String(), "No farming targets.") {
		t.Errorf("output = %s", out.String())
	}
}

func TestRunBadInput(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "formation: [unterminated")

	var out bytes.Buffer
	if code := run([]string{"-loadout", bad}, &out); code != 1 {
		t.Errorf("bad loadout exit = %d", code)
	}
	if code := run([]string{"-loadout", filepath.Join(dir, "missing.yaml")}, &out); code != 1 {
		t.Errorf("missing loadout exit = %d", code)
	}
	if code := run([]string{"-nope"}, &out); code != 2 {
		t.Errorf("unknown flag exit = %d", code)
	}
}
