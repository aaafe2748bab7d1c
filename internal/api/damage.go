package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/nzvengeance/aces-companion/internal/analysis"
	"github.com/nzvengeance/aces-companion/internal/damage"
	"github.com/nzvengeance/aces-companion/internal/models"
	"github.com/rs/zerolog/log"
)

// DamageResponse is returned by the damage endpoint and the live socket.
type DamageResponse struct {
	Result    models.DamageResult   `json:"result"`
	Breakdown damage.Breakdown      `json:"breakdown"`
	Summary   analysis.BuildSummary `json:"summary"`
	SlotText  string                `json:"slot_text"`
}

func (s *Server) evaluate(l models.Loadout) DamageResponse {
	res := s.calc.Overview(l)
	summary := analysis.Summarize(s.calc, l, res)
	return DamageResponse{
		Result:    res,
		Breakdown: s.calc.Breakdown(l),
		Summary:   summary,
		SlotText:  summary.Slots.Text(),
	}
}

func (s *Server) getCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.calc.Catalog().Snapshot())
}

func (s *Server) getDefaultLoadout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.DefaultLoadout())
}

func (s *Server) calculateDamage(w http.ResponseWriter, r *http.Request) {
	var l models.Loadout
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	writeJSON(w, http.StatusOK, s.evaluate(l))
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// damageSocket answers every loadout message with a damage response, so a
// form can recalculate on each edit without a request per keystroke.
func (s *Server) damageSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("damage socket closed")
			}
			return
		}

		var l models.Loadout
		if err := json.Unmarshal(msg, &l); err != nil {
			if err := conn.WriteJSON(map[string]string{"error": "Invalid JSON"}); err != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(s.evaluate(l)); err != nil {
			return
		}
	}
}
