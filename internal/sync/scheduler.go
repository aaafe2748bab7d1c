package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nzvengeance/aces-companion/internal/config"
	"github.com/nzvengeance/aces-companion/internal/database"
	"github.com/nzvengeance/aces-companion/internal/models"
	"github.com/nzvengeance/aces-companion/internal/npcfeed"
	"github.com/nzvengeance/aces-companion/internal/npcs"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ErrEmptyCatalog is returned when a refresh produced no NPCs. The stored
// catalog is left untouched in that case.
var ErrEmptyCatalog = errors.New("npc source returned no records")

// Source provides a fresh copy of the NPC catalog.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.NPC, error)
}

// FileSource reads the catalog from a local JSON or YAML file.
type FileSource struct {
	Path string
}

func (f FileSource) Name() string { return "file:" + f.Path }

func (f FileSource) Fetch(ctx context.Context) ([]models.NPC, error) {
	return npcs.LoadFile(f.Path), nil
}

// FeedSource reads the catalog from a remote URL.
type FeedSource struct {
	URL    string
	Client *npcfeed.Client
}

func (f FeedSource) Name() string { return "url:" + f.URL }

func (f FeedSource) Fetch(ctx context.Context) ([]models.NPC, error) {
	return f.Client.Fetch(ctx)
}

// SourceFromConfig prefers the remote feed when NPC_CATALOG_URL is set.
func SourceFromConfig(cfg *config.Config) Source {
	if cfg.NPCCatalogURL != "" {
		return FeedSource{URL: cfg.NPCCatalogURL, Client: npcfeed.NewClient(cfg.NPCCatalogURL)}
	}
	return FileSource{Path: cfg.NPCCatalogPath}
}

type Scheduler struct {
	db     *database.DB
	source Source
	cfg    *config.Config
	cron   *cron.Cron
}

func NewScheduler(db *database.DB, source Source, cfg *config.Config) *Scheduler {
	return &Scheduler{
		db:     db,
		source: source,
		cfg:    cfg,
		cron:   cron.New(),
	}
}

// Start begins the scheduled catalog refresh
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.SyncSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		log.Info().Msg("scheduled npc sync starting")
		if _, err := s.SyncNPCs(ctx); err != nil {
			log.Error().Err(err).Msg("scheduled npc sync failed")
		}
	})
	if err != nil {
		return fmt.Errorf("adding cron job: %w", err)
	}

	s.cron.Start()
	log.Info().Str("schedule", s.cfg.SyncSchedule).Str("source", s.source.Name()).Msg("sync scheduler started")

	if s.cfg.SyncOnStartup {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			count, _ := s.db.GetNPCCount(ctx)
			log.Info().Int("count", count).Msg("running startup npc sync")
			if _, err := s.SyncNPCs(ctx); err != nil {
				log.Error().Err(err).Msg("startup npc sync failed")
			}
		}()
	}

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("sync scheduler stopped")
}

// SyncNPCs reloads the catalog from the source and replaces the stored one.
// It returns the number of NPCs stored.
func (s *Scheduler) SyncNPCs(ctx context.Context) (int, error) {
	syncID, _ := s.db.InsertSyncStatus(ctx, &models.SyncStatus{
		SyncType: "npcs",
		Source:   s.source.Name(),
		Status:   "running",
	})

	list, err := s.source.Fetch(ctx)
	if err == nil && len(list) == 0 {
		err = ErrEmptyCatalog
	}
	if err != nil {
		s.db.UpdateSyncStatus(ctx, syncID, "error", 0, err.Error())
		return 0, err
	}

	if err := s.db.ReplaceNPCs(ctx, list); err != nil {
		s.db.UpdateSyncStatus(ctx, syncID, "error", 0, err.Error())
		return 0, fmt.Errorf("storing npcs: %w", err)
	}

	s.db.UpdateSyncStatus(ctx, syncID, "success", len(list), "")
	log.Info().Int("synced", len(list)).Str("source", s.source.Name()).Msg("npc sync complete")
	return len(list), nil
}
