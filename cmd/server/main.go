package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nzvengeance/aces-companion/internal/api"
	"github.com/nzvengeance/aces-companion/internal/catalog"
	"github.com/nzvengeance/aces-companion/internal/config"
	"github.com/nzvengeance/aces-companion/internal/crypto"
	"github.com/nzvengeance/aces-companion/internal/damage"
	"github.com/nzvengeance/aces-companion/internal/database"
	syncsvc "github.com/nzvengeance/aces-companion/internal/sync"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load config
	cfg := config.Load()

	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().Msg("Aces Companion starting up")

	cat := catalog.Default()
	if cfg.CatalogOverlayPath != "" {
		var err error
		cat, err = catalog.LoadFile(cfg.CatalogOverlayPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.CatalogOverlayPath).Msg("failed to load catalog overlay")
		}
		log.Info().Str("path", cfg.CatalogOverlayPath).Msg("catalog overlay applied")
	}
	calc := damage.New(cat)

	sealer, err := crypto.NewSealer(cfg.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize encryption")
	}
	if cfg.EncryptionKey == "" {
		log.Warn().Msg("ENCRYPTION_KEY not set, stored API keys will not survive a restart")
	}

	// Connect database
	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Create sync scheduler
	scheduler := syncsvc.NewScheduler(db, syncsvc.SourceFromConfig(cfg), cfg)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer scheduler.Stop()

	// Create API server
	srv := api.NewServer(db, cfg, calc, scheduler, sealer)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Info().Str("port", cfg.Port).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("Aces Companion stopped")
}
