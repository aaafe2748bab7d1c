package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/nzvengeance/aces-companion/internal/config"
	"github.com/nzvengeance/aces-companion/internal/crypto"
	"github.com/nzvengeance/aces-companion/internal/damage"
	"github.com/nzvengeance/aces-companion/internal/database"
	"github.com/nzvengeance/aces-companion/internal/llm"
	"github.com/nzvengeance/aces-companion/internal/models"
	"github.com/xuri/excelize/v2"
)

type fakeSyncer struct{ calls chan struct{} }

func (f *fakeSyncer) SyncNPCs(ctx context.Context) (int, error) {
	f.calls <- struct{}{}
	return 0, nil
}

type fakeLLM struct{ got llm.BuildData }

func (f *fakeLLM) TestConnection(ctx context.Context) error { return nil }
func (f *fakeLLM) ListModels(ctx context.Context) ([]llm.Model, error) {
	return []llm.Model{{ID: "m1", Name: "Model One"}}, nil
}
func (f *fakeLLM) GenerateBuildAdvice(ctx context.Context, model string, build llm.BuildData) (string, error) {
	f.got = build
	return "Farm Luminid with STAR formation.", nil
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	cfg := &config.Config{
		BaseURL:           "http://localhost:8080",
		DBDriver:          "sqlite",
		DBPath:            filepath.Join(t.TempDir(), "test.db"),
		DefaultSearchTime: 5,
		DefaultTopN:       10,
	}
	db, err := database.New(cfg)
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sealer, err := crypto.NewSealer("")
	if err != nil {
		t.Fatal(err)
	}

	npcList := []models.NPC{
		{ID: "streuner", Name: "Streuner", Map: "1-1", Health: 4000, Shields: 1000, RewardURI: 500},
		{ID: "luminid", Name: "Luminid", Map: "1-2", Health: 8000, Shields: 2000, RewardURI: 1000},
		{ID: "boss", Name: "Boss Luminid", Map: "1-2", Health: 80000, Shields: 20000, RewardURI: 2000},
	}
	if err := db.ReplaceNPCs(context.Background(), npcList); err != nil {
		t.Fatal(err)
	}

	s := NewServer(db, cfg, damage.New(nil), &fakeSyncer{calls: make(chan struct{}, 1)}, sealer)
	return s, s.Router()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

func TestHealthAndStatus(t *testing.T) {
	_, h := newTestServer(t)

	if rec := do(t, h, "GET", "/api/health", nil); rec.Code != http.StatusOK {
		t.Errorf("health = %d", rec.Code)
	}

	rec := do(t, h, "GET", "/api/status", nil)
	var status map[string]interface{}
	decode(t, rec, &status)
	if status["npcs"] != float64(3) || status["name_style"] != "vanilla" {
		t.Errorf("status = %v", status)
	}
}

func TestCalculateDamage(t *testing.T) {
	s, h := newTestServer(t)

	l := models.DefaultLoadout()
	rec := do(t, h, "POST", "/api/damage", l)
	if rec.Code != http.StatusOK {
		t.Fatalf("damage = %d: %s", rec.Code, rec.Body.String())
	}
	var resp DamageResponse
	decode(t, rec, &resp)

	want := s.calc.Overview(l)
	if resp.Result.TotalDPS != want.TotalDPS || resp.Result.TotalDPS <= 0 {
		t.Errorf("total dps = %v, want %v", resp.Result.TotalDPS, want.TotalDPS)
	}
	if resp.Summary.TotalDrones != 8 || resp.SlotText == "" {
		t.Errorf("summary = %+v, slot text %q", resp.Summary, resp.SlotText)
	}

	if rec := do(t, h, "POST", "/api/damage", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("empty body = %d", rec.Code)
	}
}

func TestCatalogAndDefaultLoadout(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, "GET", "/api/catalog", nil)
	var snap map[string]json.RawMessage
	decode(t, rec, &snap)
	if len(snap) == 0 {
		t.Error("empty catalog snapshot")
	}

	rec = do(t, h, "GET", "/api/loadout/default", nil)
	var l models.Loadout
	decode(t, rec, &l)
	if l.NPCHP != 250000 || len(l.LaserGroups) != 3 {
		t.Errorf("default loadout = %+v", l)
	}
}

func TestDamageSocket(t *testing.T) {
	_, h := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/damage"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(models.DefaultLoadout()); err != nil {
		t.Fatal(err)
	}
	var resp DamageResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Result.TotalDPS <= 0 {
		t.Errorf("socket result = %+v", resp.Result)
	}

	conn.WriteMessage(websocket.TextMessage, []byte("{oops"))
	var errResp map[string]string
	if err := conn.ReadJSON(&errResp); err != nil || errResp["error"] == "" {
		t.Errorf("bad message reply = %v, %v", errResp, err)
	}
}

func TestNPCEndpoints(t *testing.T) {
	_, h := newTestServer(t)

	var list []npcView
	decode(t, do(t, h, "GET", "/api/npcs?map=1-2", nil), &list)
	if len(list) != 2 {
		t.Errorf("map filter returned %d", len(list))
	}

	decode(t, do(t, h, "GET", "/api/npcs?search=lordakia&style=mod", nil), &list)
	if len(list) != 2 || list[0].DisplayName != "Lordakia" {
		t.Errorf("mod search = %+v", list)
	}

	var maps []string
	decode(t, do(t, h, "GET", "/api/npcs/maps", nil), &maps)
	if len(maps) != 2 {
		t.Errorf("maps = %v", maps)
	}

	var one npcView
	decode(t, do(t, h, "GET", "/api/npcs/luminid", nil), &one)
	if one.TotalHP != 10000 {
		t.Errorf("npc = %+v", one)
	}
	if rec := do(t, h, "GET", "/api/npcs/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing npc = %d", rec.Code)
	}
}

func TestRankTargets(t *testing.T) {
	s, h := newTestServer(t)

	dps := 1000.0
	rec := do(t, h, "POST", "/api/farming", map[string]interface{}{"total_dps": dps, "search_time": 5})
	if rec.Code != http.StatusOK {
		t.Fatalf("farming = %d: %s", rec.Code, rec.Body.String())
	}
	var resp rankResponse
	decode(t, rec, &resp)
	if len(resp.Rows) != 3 || resp.Rows[0].ID != "luminid" {
		t.Errorf("rows = %+v", resp.Rows)
	}

	decode(t, do(t, h, "POST", "/api/farming", map[string]interface{}{"total_dps": dps, "map": "1-1"}), &resp)
	if len(resp.Rows) != 1 || resp.Rows[0].ID != "streuner" {
		t.Errorf("map filtered rows = %+v", resp.Rows)
	}

	decode(t, do(t, h, "POST", "/api/farming", map[string]interface{}{"total_dps": 0}), &resp)
	if len(resp.Rows) != 0 {
		t.Errorf("zero dps rows = %+v", resp.Rows)
	}

	if rec := do(t, h, "POST", "/api/farming", map[string]interface{}{"loadout_id": "missing"}); rec.Code != http.StatusNotFound {
		t.Errorf("missing loadout = %d", rec.Code)
	}

	runs, _ := s.db.GetRankingRuns(context.Background(), 10)
	if len(runs) != 3 {
		t.Errorf("recorded %d runs", len(runs))
	}
}

func TestExportRanking(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, "GET", "/api/farming/export.xlsx?total_dps=1000&top_n=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d: %s", rec.Code, rec.Body.String())
	}
	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("reading workbook: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows("Farming")
	if len(rows) != 5 { // title, blank, header, 2 rows
		t.Errorf("sheet rows = %d", len(rows))
	}

	if rec := do(t, h, "GET", "/api/farming/export.xlsx?total_dps=lots", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad query = %d", rec.Code)
	}
}

func TestLoadoutCRUD(t *testing.T) {
	_, h := newTestServer(t)

	l := models.DefaultLoadout()
	l.Formation = "STAR"
	rec := do(t, h, "POST", "/api/loadouts", map[string]interface{}{"name": "star", "loadout": l, "active": true})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var created map[string]string
	decode(t, rec, &created)
	id := created["id"]

	var got map[string]json.RawMessage
	decode(t, do(t, h, "GET", "/api/loadouts/"+id, nil), &got)
	if _, ok := got["damage"]; !ok {
		t.Error("loadout response missing damage")
	}

	// The active loadout now drives the farming guide
	var resp rankResponse
	decode(t, do(t, h, "POST", "/api/farming", map[string]interface{}{}), &resp)
	if resp.LoadoutID != id {
		t.Errorf("farming used loadout %q, want %q", resp.LoadoutID, id)
	}

	if rec := do(t, h, "PUT", "/api/loadouts/"+id, map[string]interface{}{"name": "renamed", "loadout": l}); rec.Code != http.StatusOK {
		t.Errorf("update = %d", rec.Code)
	}
	if rec := do(t, h, "PUT", "/api/loadouts/nope", map[string]interface{}{"name": "x"}); rec.Code != http.StatusNotFound {
		t.Errorf("update missing = %d", rec.Code)
	}
	if rec := do(t, h, "POST", "/api/loadouts", map[string]interface{}{"name": " "}); rec.Code != http.StatusBadRequest {
		t.Errorf("blank name = %d", rec.Code)
	}

	var list []models.SavedLoadout
	decode(t, do(t, h, "GET", "/api/loadouts", nil), &list)
	if len(list) != 1 || list[0].Name != "renamed" {
		t.Errorf("list = %+v", list)
	}

	if rec := do(t, h, "DELETE", "/api/loadouts/"+id, nil); rec.Code != http.StatusOK {
		t.Errorf("delete = %d", rec.Code)
	}
	if rec := do(t, h, "DELETE", "/api/loadouts/"+id, nil); rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d", rec.Code)
	}

	// Deleting the active loadout falls back to the default one
	decode(t, do(t, h, "POST", "/api/farming", map[string]interface{}{}), &resp)
	if resp.LoadoutID != "" {
		t.Errorf("farming still uses deleted loadout %q", resp.LoadoutID)
	}
}

func TestNameStyleSetting(t *testing.T) {
	_, h := newTestServer(t)

	do(t, h, "PUT", "/api/settings/name-style", map[string]string{"style": "mod"})
	var got map[string]string
	decode(t, do(t, h, "GET", "/api/settings/name-style", nil), &got)
	if got["style"] != "mod" {
		t.Errorf("style = %v", got)
	}

	var list []npcView
	decode(t, do(t, h, "GET", "/api/npcs?map=1-1", nil), &list)
	if len(list) != 1 || list[0].DisplayName != "Streuner" {
		t.Errorf("list = %+v", list)
	}
	decode(t, do(t, h, "GET", "/api/npcs/boss", nil), &list[0])
	if list[0].DisplayName != "Boss Lordakia" {
		t.Errorf("stored style not applied: %+v", list[0])
	}
}

func TestLLMAdvice(t *testing.T) {
	s, h := newTestServer(t)
	fake := &fakeLLM{}
	s.newLLMClient = func(provider, apiKey string) (llm.Client, error) {
		if apiKey != "sk-test-key-123456" {
			t.Errorf("api key = %q", apiKey)
		}
		return fake, nil
	}

	if rec := do(t, h, "POST", "/api/llm/advice", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("unconfigured advice = %d", rec.Code)
	}
	s.llmRateLimiter.SetLimit(1000)
	s.llmRateLimiter.SetBurst(10)

	if rec := do(t, h, "PUT", "/api/settings/llm-config", map[string]string{"provider": "bogus", "api_key": "x"}); rec.Code != http.StatusBadRequest {
		t.Errorf("bogus provider = %d", rec.Code)
	}
	do(t, h, "PUT", "/api/settings/llm-config", map[string]string{"provider": "openai", "api_key": "sk-test-key-123456"})

	var cfg map[string]interface{}
	decode(t, do(t, h, "GET", "/api/settings/llm-config", nil), &cfg)
	if cfg["api_key_mask"] != "sk-...3456" || cfg["provider"] != "openai" {
		t.Errorf("config = %v", cfg)
	}

	rec := do(t, h, "POST", "/api/llm/advice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("advice = %d: %s", rec.Code, rec.Body.String())
	}
	var advice map[string]interface{}
	decode(t, rec, &advice)
	if advice["advice"] != "Farm Luminid with STAR formation." {
		t.Errorf("advice = %v", advice)
	}
	if fake.got.Result.TotalDPS <= 0 || len(fake.got.Targets) == 0 || fake.got.NPCCount != 3 {
		t.Errorf("build data = %+v", fake.got)
	}

	var history []models.AIAdvice
	decode(t, do(t, h, "GET", "/api/llm/advice-history", nil), &history)
	if len(history) != 1 || history[0].Model != llm.DefaultModel("openai") {
		t.Errorf("history = %+v", history)
	}
}

func TestLLMRateLimit(t *testing.T) {
	_, h := newTestServer(t)
	body := map[string]string{"provider": "openai", "api_key": ""}
	do(t, h, "POST", "/api/llm/test-connection", body)
	if rec := do(t, h, "POST", "/api/llm/test-connection", body); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request = %d, want 429", rec.Code)
	}
}

func TestTriggerNPCSync(t *testing.T) {
	s, h := newTestServer(t)
	if rec := do(t, h, "POST", "/api/sync/npcs", nil); rec.Code != http.StatusAccepted {
		t.Errorf("sync = %d", rec.Code)
	}
	<-s.syncer.(*fakeSyncer).calls

	if rec := do(t, h, "GET", "/api/sync/status", nil); rec.Code != http.StatusOK {
		t.Errorf("sync status = %d", rec.Code)
	}
}
