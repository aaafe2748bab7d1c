package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nzvengeance/aces-companion/internal/config"
	"github.com/nzvengeance/aces-companion/internal/crypto"
	"github.com/nzvengeance/aces-companion/internal/damage"
	"github.com/nzvengeance/aces-companion/internal/database"
	"github.com/nzvengeance/aces-companion/internal/llm"
	"github.com/nzvengeance/aces-companion/internal/npcs"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// NPCSyncer refreshes the stored NPC catalog.
type NPCSyncer interface {
	SyncNPCs(ctx context.Context) (int, error)
}

type Server struct {
	db             *database.DB
	cfg            *config.Config
	calc           *damage.Calculator
	syncer         NPCSyncer
	sealer         *crypto.Sealer
	llmRateLimiter *rate.Limiter
	newLLMClient   func(provider, apiKey string) (llm.Client, error)
}

func NewServer(db *database.DB, cfg *config.Config, calc *damage.Calculator, syncer NPCSyncer, sealer *crypto.Sealer) *Server {
	return &Server{
		db:             db,
		cfg:            cfg,
		calc:           calc,
		syncer:         syncer,
		sealer:         sealer,
		llmRateLimiter: rate.NewLimiter(rate.Every(10*time.Second), 1),
		newLLMClient:   llm.NewClient,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.healthCheck)
		r.Get("/status", s.getStatus)

		// Item tables and damage calculation
		r.Get("/catalog", s.getCatalog)
		r.Get("/loadout/default", s.getDefaultLoadout)
		r.Post("/damage", s.calculateDamage)
		r.Get("/ws/damage", s.damageSocket)

		// NPC wiki
		r.Route("/npcs", func(r chi.Router) {
			r.Get("/", s.listNPCs)
			r.Get("/maps", s.listNPCMaps)
			r.Get("/{id}", s.getNPC)
		})

		// Farming guide
		r.Post("/farming", s.rankTargets)
		r.Get("/farming/export.xlsx", s.exportRanking)
		r.Get("/farming/history", s.getRankingHistory)

		// Saved builds
		r.Route("/loadouts", func(r chi.Router) {
			r.Get("/", s.listLoadouts)
			r.Post("/", s.saveLoadout)
			r.Get("/{id}", s.getLoadout)
			r.Put("/{id}", s.saveLoadout)
			r.Delete("/{id}", s.deleteLoadout)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/name-style", s.getNameStyle)
			r.Put("/name-style", s.setNameStyle)
			r.Get("/llm-config", s.getLLMConfig)
			r.Put("/llm-config", s.setLLMConfig)
		})

		r.Route("/llm", func(r chi.Router) {
			r.With(s.rateLimitLLM).Post("/test-connection", s.testLLMConnection)
			r.With(s.rateLimitLLM).Post("/advice", s.generateAdvice)
			r.Get("/advice-history", s.getAdviceHistory)
		})

		r.Route("/sync", func(r chi.Router) {
			r.Get("/status", s.getSyncStatus)
			r.Post("/npcs", s.triggerNPCSync)
		})
	})

	return r
}

// --- Middleware ---

func (s *Server) rateLimitLLM(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.llmRateLimiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded - please wait before making another LLM request")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- Health & Status ---

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	npcCount, _ := s.db.GetNPCCount(ctx)
	loadouts, _ := s.db.ListLoadouts(ctx)
	syncs, _ := s.db.GetLatestSyncStatus(ctx)

	resp := map[string]interface{}{
		"npcs":       npcCount,
		"loadouts":   len(loadouts),
		"name_style": s.nameStyle(ctx),
		"last_sync":  nil,
	}
	if len(syncs) > 0 {
		resp["last_sync"] = syncs[0]
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Settings ---

func (s *Server) nameStyle(ctx context.Context) npcs.NameStyle {
	v, _ := s.db.GetSetting(ctx, database.SettingNameStyle)
	return npcs.ParseNameStyle(v)
}

// styleParam prefers an explicit style over the stored setting.
func (s *Server) styleParam(ctx context.Context, raw string) npcs.NameStyle {
	if raw != "" {
		return npcs.ParseNameStyle(raw)
	}
	return s.nameStyle(ctx)
}

func (s *Server) getNameStyle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"style": string(s.nameStyle(r.Context()))})
}

func (s *Server) setNameStyle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Style string `json:"style"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	style := npcs.ParseNameStyle(req.Style)
	if err := s.db.SetSetting(r.Context(), database.SettingNameStyle, string(style)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save setting")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"style": string(style)})
}

// --- Sync ---

func (s *Server) getSyncStatus(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.db.GetLatestSyncStatus(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) triggerNPCSync(w http.ResponseWriter, r *http.Request) {
	if s.syncer == nil {
		writeError(w, http.StatusServiceUnavailable, "NPC sync not configured")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := s.syncer.SyncNPCs(ctx); err != nil {
			log.Error().Err(err).Msg("manual npc sync failed")
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "NPC sync started",
	})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
