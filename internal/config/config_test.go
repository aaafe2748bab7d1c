package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "NPC_SYNC_SCHEDULE", "SYNC_ON_STARTUP", "DEFAULT_SEARCH_TIME", "DEFAULT_TOP_N"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" || cfg.DBDriver != "sqlite" || cfg.SyncSchedule != "0 * * * *" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.SyncOnStartup || cfg.DefaultSearchTime != 5 || cfg.DefaultTopN != 10 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SYNC_ON_STARTUP", "FALSE")
	t.Setenv("DEFAULT_SEARCH_TIME", "7.5")
	t.Setenv("DEFAULT_TOP_N", "25")
	t.Setenv("NPC_CATALOG_URL", "https://example.com/npcs.json")

	cfg := Load()
	if cfg.SyncOnStartup {
		t.Error("SyncOnStartup should be false")
	}
	if cfg.DefaultSearchTime != 7.5 || cfg.DefaultTopN != 25 {
		t.Errorf("search time = %v, top n = %d", cfg.DefaultSearchTime, cfg.DefaultTopN)
	}
	if cfg.NPCCatalogURL != "https://example.com/npcs.json" {
		t.Errorf("catalog url = %q", cfg.NPCCatalogURL)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("DEFAULT_TOP_N", "ten")
	t.Setenv("DEFAULT_SEARCH_TIME", "soon")
	if got := getEnvInt("DEFAULT_TOP_N", 10); got != 10 {
		t.Errorf("getEnvInt = %d", got)
	}
	if got := getEnvFloat("DEFAULT_SEARCH_TIME", 5); got != 5 {
		t.Errorf("getEnvFloat = %v", got)
	}
}
