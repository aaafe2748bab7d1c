package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Server
	Port    string
	BaseURL string

	// Database
	DBDriver string // "sqlite" or "postgres"
	DBPath   string // SQLite file path
	DBURL    string // PostgreSQL connection string

	// NPC catalog
	NPCCatalogPath string // local JSON or YAML file
	NPCCatalogURL  string // remote JSON document, used when set

	// Sync
	SyncSchedule  string // cron expression
	SyncOnStartup bool

	// Item catalog overlay (YAML), optional
	CatalogOverlayPath string

	// Farming defaults
	DefaultSearchTime float64
	DefaultTopN       int

	EncryptionKey string
	LogLevel      string
}

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		DBDriver:           getEnv("DB_DRIVER", "sqlite"),
		DBPath:             getEnv("DB_PATH", "./data/aces-companion.db"),
		DBURL:              getEnv("DATABASE_URL", ""),
		NPCCatalogPath:     getEnv("NPC_CATALOG_PATH", "./data/npcs.json"),
		NPCCatalogURL:      getEnv("NPC_CATALOG_URL", ""),
		SyncSchedule:       getEnv("NPC_SYNC_SCHEDULE", "0 * * * *"), // hourly
		SyncOnStartup:      getEnvBool("SYNC_ON_STARTUP", true),
		CatalogOverlayPath: getEnv("CATALOG_OVERLAY_PATH", ""),
		DefaultSearchTime:  getEnvFloat("DEFAULT_SEARCH_TIME", 5),
		DefaultTopN:        getEnvInt("DEFAULT_TOP_N", 10),
		EncryptionKey:      getEnv("ENCRYPTION_KEY", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	val = strings.ToLower(val)
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return f
}
