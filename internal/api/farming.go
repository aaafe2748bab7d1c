package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/nzvengeance/aces-companion/internal/database"
	"github.com/nzvengeance/aces-companion/internal/export"
	"github.com/nzvengeance/aces-companion/internal/farming"
	"github.com/nzvengeance/aces-companion/internal/models"
	"github.com/nzvengeance/aces-companion/internal/npcs"
	"github.com/rs/zerolog/log"
)

var errLoadoutNotFound = errors.New("loadout not found")

// rankRequest selects the damage source and ranking options. Exactly one
// of TotalDPS, Loadout or LoadoutID is used, in that order; with none set
// the active saved loadout (or the default loadout) is evaluated.
type rankRequest struct {
	TotalDPS   *float64        `json:"total_dps"`
	Loadout    *models.Loadout `json:"loadout"`
	LoadoutID  string          `json:"loadout_id"`
	Map        string          `json:"map"`
	SearchTime *float64        `json:"search_time"`
	TopN       *int            `json:"top_n"`
	Style      string          `json:"style"`
}

type rankResponse struct {
	TotalDPS   float64       `json:"total_dps"`
	LoadoutID  string        `json:"loadout_id,omitempty"`
	Map        string        `json:"map,omitempty"`
	SearchTime float64       `json:"search_time"`
	Style      string        `json:"style"`
	NPCCount   int           `json:"npc_count"`
	Rows       []farming.Row `json:"rows"`
}

func (s *Server) rankTargets(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := s.rank(r.Context(), req)
	if errors.Is(err, errLoadoutNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.recordRun(r.Context(), resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) exportRanking(w http.ResponseWriter, r *http.Request) {
	req, err := rankRequestFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.rank(r.Context(), req)
	if errors.Is(err, errLoadoutNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	title := fmt.Sprintf("Total DPS %.0f, search time %.0fs", resp.TotalDPS, resp.SearchTime)
	if resp.Map != "" {
		title += ", map " + resp.Map
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="farming.xlsx"`)
	if err := export.WriteRanking(w, title, resp.Rows); err != nil {
		log.Error().Err(err).Msg("failed to write ranking export")
	}
}

func (s *Server) getRankingHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.db.GetRankingRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch ranking history")
		return
	}
	if runs == nil {
		runs = []models.RankingRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func rankRequestFromQuery(r *http.Request) (rankRequest, error) {
	q := r.URL.Query()
	req := rankRequest{
		LoadoutID: q.Get("loadout_id"),
		Map:       q.Get("map"),
		Style:     q.Get("style"),
	}

	if v := q.Get("total_dps"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, fmt.Errorf("invalid total_dps: %q", v)
		}
		req.TotalDPS = &f
	}
	if v := q.Get("search_time"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, fmt.Errorf("invalid search_time: %q", v)
		}
		req.SearchTime = &f
	}
	if v := q.Get("top_n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("invalid top_n: %q", v)
		}
		req.TopN = &n
	}
	return req, nil
}

func (s *Server) rank(ctx context.Context, req rankRequest) (rankResponse, error) {
	dps, loadoutID, err := s.resolveDPS(ctx, req)
	if err != nil {
		return rankResponse{}, err
	}

	opts := farming.Options{SearchTime: s.cfg.DefaultSearchTime, TopN: s.cfg.DefaultTopN}
	if req.SearchTime != nil {
		opts.SearchTime = *req.SearchTime
	}
	if req.TopN != nil {
		opts.TopN = *req.TopN
	}

	list, err := s.db.GetNPCs(ctx)
	if err != nil {
		return rankResponse{}, fmt.Errorf("fetching npcs: %w", err)
	}
	list = npcs.FilterByMap(list, req.Map)

	style := s.styleParam(ctx, req.Style)
	return rankResponse{
		TotalDPS:   dps,
		LoadoutID:  loadoutID,
		Map:        req.Map,
		SearchTime: farming.ClampSearchTime(opts.SearchTime),
		Style:      string(style),
		NPCCount:   len(list),
		Rows:       farming.Table(farming.Suggest(dps, list, opts), style),
	}, nil
}

func (s *Server) resolveDPS(ctx context.Context, req rankRequest) (float64, string, error) {
	if req.TotalDPS != nil {
		return *req.TotalDPS, "", nil
	}
	l, id, err := s.resolveLoadout(ctx, req)
	if err != nil {
		return 0, "", err
	}
	return s.calc.Overview(l).TotalDPS, id, nil
}

// resolveLoadout picks the request's inline loadout, then its saved
// loadout id, then the active saved loadout, then the default loadout.
func (s *Server) resolveLoadout(ctx context.Context, req rankRequest) (models.Loadout, string, error) {
	if req.Loadout != nil {
		return *req.Loadout, "", nil
	}

	id := req.LoadoutID
	if id == "" {
		id, _ = s.db.GetSetting(ctx, database.SettingActiveLoadout)
		if id == "" {
			return models.DefaultLoadout(), "", nil
		}
	}

	saved, err := s.db.GetLoadout(ctx, id)
	if err != nil {
		return models.Loadout{}, "", fmt.Errorf("fetching loadout: %w", err)
	}
	if saved == nil {
		return models.Loadout{}, "", errLoadoutNotFound
	}
	return saved.Loadout, saved.ID, nil
}

func (s *Server) recordRun(ctx context.Context, resp rankResponse) {
	run := &models.RankingRun{
		LoadoutID:   resp.LoadoutID,
		TotalDPS:    resp.TotalDPS,
		MapFilter:   resp.Map,
		SearchTime:  resp.SearchTime,
		ResultCount: len(resp.Rows),
	}
	if len(resp.Rows) > 0 {
		run.TopNPC = resp.Rows[0].Name
		run.TopScore = resp.Rows[0].Score
	}
	if _, err := s.db.InsertRankingRun(ctx, run); err != nil {
		log.Warn().Err(err).Msg("failed to record ranking run")
	}
}
