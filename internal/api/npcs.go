package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nzvengeance/aces-companion/internal/models"
	"github.com/nzvengeance/aces-companion/internal/npcs"
)

type npcView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DisplayName   string `json:"display_name"`
	Map           string `json:"map"`
	Health        int64  `json:"health"`
	Shields       int64  `json:"shields"`
	TotalHP       int64  `json:"total_hp"`
	RewardURI     int64  `json:"reward_uri"`
	RewardCredits int64  `json:"reward_credits"`
}

func viewOf(n models.NPC, style npcs.NameStyle) npcView {
	return npcView{
		ID:            n.ID,
		Name:          n.Name,
		DisplayName:   npcs.DisplayName(n, style),
		Map:           n.Map,
		Health:        n.Health,
		Shields:       n.Shields,
		TotalHP:       n.TotalHP(),
		RewardURI:     n.RewardURI,
		RewardCredits: n.RewardCredits,
	}
}

func (s *Server) listNPCs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := s.db.GetNPCs(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch NPCs")
		return
	}

	q := r.URL.Query()
	style := s.styleParam(ctx, q.Get("style"))
	list = npcs.Search(npcs.FilterByMap(list, q.Get("map")), q.Get("search"), style)

	views := make([]npcView, 0, len(list))
	for _, n := range list {
		views = append(views, viewOf(n, style))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) listNPCMaps(w http.ResponseWriter, r *http.Request) {
	maps, err := s.db.GetNPCMaps(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch maps")
		return
	}
	if maps == nil {
		maps = []string{}
	}
	writeJSON(w, http.StatusOK, maps)
}

func (s *Server) getNPC(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := s.db.GetNPCs(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch NPCs")
		return
	}

	n, ok := npcs.Find(list, chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "NPC not found")
		return
	}

	style := s.styleParam(ctx, r.URL.Query().Get("style"))
	writeJSON(w, http.StatusOK, viewOf(n, style))
}
