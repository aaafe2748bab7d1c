package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nzvengeance/aces-companion/internal/config"
	"github.com/nzvengeance/aces-companion/internal/models"
	"github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Setting keys
const (
	SettingNameStyle     = "name_style"
	SettingActiveLoadout = "active_loadout_id"
)

// DB provides the data access layer
type DB struct {
	conn   *sql.DB
	driver string
}

// New creates a new database connection based on config
func New(cfg *config.Config) (*DB, error) {
	var conn *sql.DB
	var err error

	switch cfg.DBDriver {
	case "sqlite":
		// Ensure directory exists
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
		conn, err = sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		conn.SetMaxOpenConns(1) // SQLite is single-writer
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DATABASE_URL required for postgres driver")
		}
		conn, err = sql.Open("pgx", cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		conn.SetMaxOpenConns(10)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db := &DB{conn: conn, driver: cfg.DBDriver}

	if err := db.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	log.Info().Str("driver", cfg.DBDriver).Msg("database connected")
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// autoIncrement returns the correct auto-increment syntax
func (db *DB) autoIncrement() string {
	if db.driver == "postgres" {
		return "SERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// timestampType returns the correct timestamp type
func (db *DB) timestampType() string {
	if db.driver == "postgres" {
		return "TIMESTAMPTZ"
	}
	return "DATETIME"
}

// now returns the correct current timestamp function
func (db *DB) now() string {
	if db.driver == "postgres" {
		return "NOW()"
	}
	return "datetime('now')"
}

// q rewrites placeholders for the active driver.
func (db *DB) q(query string) string {
	if db.driver == "postgres" {
		return replacePlaceholders(query)
	}
	return query
}

// insertReturningID runs an INSERT and returns the generated id.
func (db *DB) insertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	if db.driver == "postgres" {
		var id int64
		err := db.conn.QueryRowContext(ctx, replacePlaceholders(query)+" RETURNING id", args...).Scan(&id)
		return id, err
	}

	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// --- NPC Operations ---

// ReplaceNPCs swaps the stored NPC catalog for list in one transaction,
// keeping list order.
func (db *DB) ReplaceNPCs(ctx context.Context, list []models.NPC) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM npcs"); err != nil {
		return fmt.Errorf("clearing npcs: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, db.q(fmt.Sprintf(`
		INSERT INTO npcs (position, npc_id, name, map, health, shields, reward_uri, reward_credits, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, %s)`, db.now())))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, n := range list {
		if _, err := stmt.ExecContext(ctx, i, n.ID, n.Name, n.Map, n.Health, n.Shields, n.RewardURI, n.RewardCredits); err != nil {
			return fmt.Errorf("inserting npc %s: %w", n.ID, err)
		}
	}
	return tx.Commit()
}

func (db *DB) GetNPCs(ctx context.Context) ([]models.NPC, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT npc_id, name, map, health, shields, reward_uri, reward_credits
		FROM npcs ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.NPC{}
	for rows.Next() {
		var n models.NPC
		if err := rows.Scan(&n.ID, &n.Name, &n.Map, &n.Health, &n.Shields, &n.RewardURI, &n.RewardCredits); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (db *DB) GetNPCCount(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM npcs").Scan(&count)
	return count, err
}

func (db *DB) GetNPCMaps(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT DISTINCT map FROM npcs WHERE map <> '' ORDER BY map")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var maps []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	return maps, rows.Err()
}

// --- Loadout Operations ---

// SaveLoadout inserts a new loadout when s.ID is empty, or updates it.
// The stored id is written back to s.
func (db *DB) SaveLoadout(ctx context.Context, s *models.SavedLoadout) error {
	data, err := models.MarshalLoadout(s.Loadout)
	if err != nil {
		return fmt.Errorf("encoding loadout: %w", err)
	}

	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO loadouts (id, name, loadout_json, created_at, updated_at)
		VALUES (?, ?, ?, %s, %s)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, loadout_json=excluded.loadout_json, updated_at=excluded.updated_at`,
		db.now(), db.now())

	_, err = db.conn.ExecContext(ctx, db.q(query), s.ID, s.Name, data)
	return err
}

// GetLoadout returns nil when the id is unknown.
func (db *DB) GetLoadout(ctx context.Context, id string) (*models.SavedLoadout, error) {
	var s models.SavedLoadout
	var data string
	err := db.conn.QueryRowContext(ctx,
		db.q("SELECT id, name, loadout_json, created_at, updated_at FROM loadouts WHERE id = ?"), id,
	).Scan(&s.ID, &s.Name, &data, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.Loadout, err = models.UnmarshalLoadout(data)
	if err != nil {
		return nil, fmt.Errorf("decoding loadout %s: %w", id, err)
	}
	return &s, nil
}

func (db *DB) ListLoadouts(ctx context.Context) ([]models.SavedLoadout, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, name, loadout_json, created_at, updated_at FROM loadouts ORDER BY updated_at DESC, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.SavedLoadout{}
	for rows.Next() {
		var s models.SavedLoadout
		var data string
		if err := rows.Scan(&s.ID, &s.Name, &data, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if s.Loadout, err = models.UnmarshalLoadout(data); err != nil {
			log.Warn().Err(err).Str("id", s.ID).Msg("skipping undecodable loadout")
			continue
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// DeleteLoadout reports whether a row was removed.
func (db *DB) DeleteLoadout(ctx context.Context, id string) (bool, error) {
	res, err := db.conn.ExecContext(ctx, db.q("DELETE FROM loadouts WHERE id = ?"), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// --- Ranking Runs ---

func (db *DB) InsertRankingRun(ctx context.Context, r *models.RankingRun) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO ranking_runs (loadout_id, total_dps, map_filter, search_time, result_count, top_npc, top_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, %s)`, db.now())
	return db.insertReturningID(ctx, query,
		r.LoadoutID, r.TotalDPS, r.MapFilter, r.SearchTime, r.ResultCount, r.TopNPC, r.TopScore)
}

func (db *DB) GetRankingRuns(ctx context.Context, limit int) ([]models.RankingRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, loadout_id, total_dps, map_filter, search_time, result_count, top_npc, top_score, created_at
		FROM ranking_runs ORDER BY id DESC LIMIT %d`, limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.RankingRun
	for rows.Next() {
		var r models.RankingRun
		if err := rows.Scan(&r.ID, &r.LoadoutID, &r.TotalDPS, &r.MapFilter, &r.SearchTime,
			&r.ResultCount, &r.TopNPC, &r.TopScore, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// --- Settings Operations ---

func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.conn.QueryRowContext(ctx, db.q("SELECT value FROM app_settings WHERE key = ?"), key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil // Key not found = empty
	}
	return value, err
}

func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	query := "INSERT INTO app_settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value"
	_, err := db.conn.ExecContext(ctx, db.q(query), key, value)
	return err
}

// --- Sync Status Operations ---

func (db *DB) InsertSyncStatus(ctx context.Context, s *models.SyncStatus) (int, error) {
	query := fmt.Sprintf(`INSERT INTO sync_history (sync_type, source, status, item_count, error_message, started_at) VALUES (?, ?, ?, ?, ?, %s)`, db.now())
	id, err := db.insertReturningID(ctx, query, s.SyncType, s.Source, s.Status, s.ItemCount, s.ErrorMessage)
	return int(id), err
}

func (db *DB) UpdateSyncStatus(ctx context.Context, id int, status string, count int, errMsg string) error {
	query := fmt.Sprintf("UPDATE sync_history SET status = ?, item_count = ?, error_message = ?, completed_at = %s WHERE id = ?", db.now())
	_, err := db.conn.ExecContext(ctx, db.q(query), status, count, errMsg, id)
	return err
}

func (db *DB) GetLatestSyncStatus(ctx context.Context) ([]models.SyncStatus, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, sync_type, source, status, item_count, error_message, started_at, completed_at
		FROM sync_history ORDER BY id DESC LIMIT 10`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []models.SyncStatus
	for rows.Next() {
		var s models.SyncStatus
		var completedAt sql.NullTime
		err := rows.Scan(&s.ID, &s.SyncType, &s.Source, &s.Status, &s.ItemCount, &s.ErrorMessage,
			&s.StartedAt, &completedAt)
		if err != nil {
			return nil, err
		}
		if completedAt.Valid {
			t := completedAt.Time
			s.CompletedAt = &t
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

// --- LLM Config Operations ---

// SaveLLMConfig stores the sealed key for a provider and makes it the
// active one.
func (db *DB) SaveLLMConfig(ctx context.Context, c models.UserLLMConfig) error {
	query := fmt.Sprintf(`
		INSERT INTO user_llm_configs (provider, encrypted_api_key, model, updated_at)
		VALUES (?, ?, ?, %s)
		ON CONFLICT(provider) DO UPDATE SET encrypted_api_key=excluded.encrypted_api_key, model=excluded.model, updated_at=excluded.updated_at`,
		db.now())
	if _, err := db.conn.ExecContext(ctx, db.q(query), c.Provider, c.EncryptedAPIKey, c.Model); err != nil {
		return err
	}
	return db.SetSetting(ctx, "llm_provider", c.Provider)
}

// GetLLMConfig returns the active provider config, or nil when none is set.
func (db *DB) GetLLMConfig(ctx context.Context) (*models.UserLLMConfig, error) {
	provider, err := db.GetSetting(ctx, "llm_provider")
	if err != nil || provider == "" {
		return nil, err
	}

	var c models.UserLLMConfig
	var model sql.NullString
	err = db.conn.QueryRowContext(ctx,
		db.q("SELECT provider, encrypted_api_key, model, updated_at FROM user_llm_configs WHERE provider = ?"), provider,
	).Scan(&c.Provider, &c.EncryptedAPIKey, &model, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.Model = model.String
	return &c, nil
}

func (db *DB) DeleteLLMConfigs(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, "DELETE FROM user_llm_configs"); err != nil {
		return err
	}
	return db.SetSetting(ctx, "llm_provider", "")
}

// --- AI Advice ---

// SaveAIAdvice stores generated build advice
func (db *DB) SaveAIAdvice(ctx context.Context, a *models.AIAdvice) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO ai_advice (loadout_id, provider, model, advice, created_at) VALUES (?, ?, ?, ?, %s)`, db.now())
	return db.insertReturningID(ctx, query, a.LoadoutID, a.Provider, a.Model, a.Advice)
}

// GetAIAdviceHistory retrieves stored advice, newest first
func (db *DB) GetAIAdviceHistory(ctx context.Context, limit int) ([]models.AIAdvice, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, loadout_id, provider, model, advice, created_at FROM ai_advice ORDER BY id DESC LIMIT %d`, limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AIAdvice
	for rows.Next() {
		var a models.AIAdvice
		if err := rows.Scan(&a.ID, &a.LoadoutID, &a.Provider, &a.Model, &a.Advice, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// replacePlaceholders converts ? to $1, $2, etc. for PostgreSQL
func replacePlaceholders(query string) string {
	result := make([]byte, 0, len(query)+10)
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, '$')
			result = append(result, []byte(fmt.Sprintf("%d", n))...)
			n++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}
