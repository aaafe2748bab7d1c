package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/nzvengeance/aces-companion/internal/analysis"
	"github.com/nzvengeance/aces-companion/internal/crypto"
	"github.com/nzvengeance/aces-companion/internal/llm"
	"github.com/nzvengeance/aces-companion/internal/models"
	"github.com/rs/zerolog/log"
)

// adviceTargets is how many ranked NPCs are passed to the advisor.
const adviceTargets = 5

func (s *Server) getLLMConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.db.GetLLMConfig(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch LLM config")
		return
	}

	resp := map[string]interface{}{
		"provider":     "",
		"api_key_set":  false,
		"api_key_mask": "",
		"model":        "",
	}
	if cfg != nil {
		resp["provider"] = cfg.Provider
		resp["model"] = cfg.Model
		if cfg.EncryptedAPIKey != "" {
			resp["api_key_set"] = true
			if key, err := s.sealer.Open(cfg.EncryptedAPIKey); err == nil {
				resp["api_key_mask"] = crypto.MaskAPIKey(key)
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) setLLMConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Provider string `json:"provider"`
		APIKey   string `json:"api_key"`
		Model    string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ctx := r.Context()

	// All empty clears the configuration
	if req.Provider == "" && req.APIKey == "" && req.Model == "" {
		if err := s.db.DeleteLLMConfigs(ctx); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to clear LLM config")
			return
		}
		log.Info().Msg("LLM configuration cleared")
		writeJSON(w, http.StatusOK, map[string]string{"message": "LLM configuration cleared"})
		return
	}

	switch req.Provider {
	case llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderGoogle:
	default:
		writeError(w, http.StatusBadRequest, "Invalid provider")
		return
	}
	if req.APIKey == "" {
		writeError(w, http.StatusBadRequest, "API key is required")
		return
	}

	sealed, err := s.sealer.Seal(req.APIKey)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encrypt API key")
		return
	}

	if err := s.db.SaveLLMConfig(ctx, models.UserLLMConfig{Provider: req.Provider, EncryptedAPIKey: sealed, Model: req.Model}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save LLM config")
		return
	}

	log.Info().Str("provider", req.Provider).Msg("LLM configuration updated")
	writeJSON(w, http.StatusOK, map[string]string{"message": "LLM configuration saved"})
}

func (s *Server) testLLMConnection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Provider string `json:"provider"`
		APIKey   string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Provider == "" || req.APIKey == "" {
		writeError(w, http.StatusBadRequest, "Provider and API key are required")
		return
	}

	client, err := s.newLLMClient(req.Provider, req.APIKey)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if err := client.TestConnection(ctx); err != nil {
		writeError(w, http.StatusUnauthorized, "API key is invalid: "+err.Error())
		return
	}

	available, err := client.ListModels(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch models: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"models":  available,
	})
}

// generateAdvice asks the configured provider for advice on a loadout.
// The body is {loadout_id} or {loadout}; empty uses the active build.
func (s *Server) generateAdvice(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	ctx := r.Context()

	cfg, err := s.db.GetLLMConfig(ctx)
	if err != nil || cfg == nil || cfg.EncryptedAPIKey == "" {
		writeError(w, http.StatusBadRequest, "LLM not configured")
		return
	}

	apiKey, err := s.sealer.Open(cfg.EncryptedAPIKey)
	if err != nil {
		log.Error().Err(err).Msg("failed to decrypt API key")
		writeError(w, http.StatusInternalServerError, "Failed to decrypt API key")
		return
	}

	client, err := s.newLLMClient(cfg.Provider, apiKey)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	loadout, loadoutID, err := s.resolveLoadout(ctx, req)
	if errors.Is(err, errLoadoutNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	res := s.calc.Overview(loadout)
	top := adviceTargets
	ranking, err := s.rank(ctx, rankRequest{TotalDPS: &res.TotalDPS, Map: req.Map, TopN: &top, Style: req.Style})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	build := llm.BuildData{
		Loadout:  loadout,
		Result:   res,
		Summary:  analysis.Summarize(s.calc, loadout, res),
		Targets:  ranking.Rows,
		NPCCount: ranking.NPCCount,
	}

	model := cfg.Model
	if model == "" {
		model = llm.DefaultModel(cfg.Provider)
	}

	log.Info().Str("provider", cfg.Provider).Str("model", model).Msg("generating build advice")
	advice, err := client.GenerateBuildAdvice(ctx, model, build)
	if err != nil {
		log.Error().Err(err).Str("provider", cfg.Provider).Msg("build advice failed")
		writeError(w, http.StatusBadGateway, "Build advice failed: "+err.Error())
		return
	}

	id, err := s.db.SaveAIAdvice(ctx, &models.AIAdvice{LoadoutID: loadoutID, Provider: cfg.Provider, Model: model, Advice: advice})
	if err != nil {
		log.Error().Err(err).Msg("failed to save build advice")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"advice": advice,
		"id":     id,
	})
}

func (s *Server) getAdviceHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	history, err := s.db.GetAIAdviceHistory(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch advice history")
		return
	}
	if history == nil {
		history = []models.AIAdvice{}
	}
	writeJSON(w, http.StatusOK, history)
}
