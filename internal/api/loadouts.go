package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nzvengeance/aces-companion/internal/database"
	"github.com/nzvengeance/aces-companion/internal/models"
	"github.com/rs/zerolog/log"
)

func (s *Server) listLoadouts(w http.ResponseWriter, r *http.Request) {
	list, err := s.db.ListLoadouts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch loadouts")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getLoadout(w http.ResponseWriter, r *http.Request) {
	saved, err := s.db.GetLoadout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch loadout")
		return
	}
	if saved == nil {
		writeError(w, http.StatusNotFound, "Loadout not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"loadout": saved,
		"damage":  s.evaluate(saved.Loadout),
	})
}

// saveLoadout creates (POST) or replaces (PUT /{id}) a saved build.
// "active": true also makes it the build the farming guide uses.
func (s *Server) saveLoadout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string         `json:"name"`
		Loadout models.Loadout `json:"loadout"`
		Active  bool           `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	ctx := r.Context()
	saved := &models.SavedLoadout{ID: chi.URLParam(r, "id"), Name: req.Name, Loadout: req.Loadout}
	status := http.StatusCreated
	if saved.ID != "" {
		existing, err := s.db.GetLoadout(ctx, saved.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch loadout")
			return
		}
		if existing == nil {
			writeError(w, http.StatusNotFound, "Loadout not found")
			return
		}
		status = http.StatusOK
	}

	if err := s.db.SaveLoadout(ctx, saved); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save loadout")
		return
	}
	if req.Active {
		if err := s.db.SetSetting(ctx, database.SettingActiveLoadout, saved.ID); err != nil {
			log.Warn().Err(err).Msg("failed to set active loadout")
		}
	}

	log.Info().Str("id", saved.ID).Str("name", saved.Name).Msg("loadout saved")
	writeJSON(w, status, map[string]string{"id": saved.ID})
}

func (s *Server) deleteLoadout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	ok, err := s.db.DeleteLoadout(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete loadout")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Loadout not found")
		return
	}

	if active, _ := s.db.GetSetting(ctx, database.SettingActiveLoadout); active == id {
		s.db.SetSetting(ctx, database.SettingActiveLoadout, "")
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Loadout deleted"})
}
