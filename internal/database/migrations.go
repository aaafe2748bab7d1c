package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

func (db *DB) migrate() error {
	log.Info().Msg("running database migrations")

	migrations := []string{
		// Game data
		db.migrationNPCs(),
		// User data
		db.migrationLoadouts(),
		db.migrationRankingRuns(),
		db.migrationUserLLMConfigs(),
		db.migrationAppSettings(),
		// Sync & audit
		db.migrationSyncHistory(),
		db.migrationAIAdvice(),
	}

	for i, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_npcs_map ON npcs(map)",
		"CREATE INDEX IF NOT EXISTS idx_ranking_runs_created_at ON ranking_runs(created_at)",
		"CREATE INDEX IF NOT EXISTS idx_sync_history_started_at ON sync_history(started_at)",
	}
	for _, idx := range indexes {
		if _, err := db.conn.Exec(idx); err != nil {
			return fmt.Errorf("index creation: %w", err)
		}
	}

	log.Info().Msg("migrations complete")
	return nil
}

// --- Game Data ---

// npc_id is not unique: catalogs may list the same NPC on several maps.
func (db *DB) migrationNPCs() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS npcs (
		id %s,
		position INTEGER NOT NULL,
		npc_id TEXT NOT NULL,
		name TEXT NOT NULL,
		map TEXT NOT NULL DEFAULT '',
		health BIGINT NOT NULL DEFAULT 0,
		shields BIGINT NOT NULL DEFAULT 0,
		reward_uri BIGINT NOT NULL DEFAULT 0,
		reward_credits BIGINT NOT NULL DEFAULT 0,
		synced_at %s
	)`, db.autoIncrement(), db.timestampType())
}

// --- User Data ---

func (db *DB) migrationLoadouts() string {
	ts := db.timestampType()
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS loadouts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		loadout_json TEXT NOT NULL,
		created_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`, ts, ts)
}

func (db *DB) migrationRankingRuns() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS ranking_runs (
		id %s,
		loadout_id TEXT NOT NULL DEFAULT '',
		total_dps DOUBLE PRECISION NOT NULL,
		map_filter TEXT NOT NULL DEFAULT '',
		search_time DOUBLE PRECISION NOT NULL,
		result_count INTEGER NOT NULL,
		top_npc TEXT NOT NULL DEFAULT '',
		top_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`, db.autoIncrement(), db.timestampType())
}

func (db *DB) migrationUserLLMConfigs() string {
	ts := db.timestampType()
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS user_llm_configs (
		id %s,
		provider TEXT NOT NULL UNIQUE,
		encrypted_api_key TEXT NOT NULL,
		model TEXT,
		created_at %s DEFAULT CURRENT_TIMESTAMP,
		updated_at %s DEFAULT CURRENT_TIMESTAMP
	)`, db.autoIncrement(), ts, ts)
}

func (db *DB) migrationAppSettings() string {
	return `CREATE TABLE IF NOT EXISTS app_settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
}

// --- Sync & Audit ---

func (db *DB) migrationSyncHistory() string {
	ts := db.timestampType()
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS sync_history (
		id %s,
		sync_type TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		item_count INTEGER DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		started_at %s DEFAULT CURRENT_TIMESTAMP,
		completed_at %s
	)`, db.autoIncrement(), ts, ts)
}

func (db *DB) migrationAIAdvice() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS ai_advice (
		id %s,
		loadout_id TEXT NOT NULL DEFAULT '',
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		advice TEXT NOT NULL,
		created_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`, db.autoIncrement(), db.timestampType())
}
