package httpadapter

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"terragrow/internal/adapter/weather/scenario"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route"
)

func TestRoutes_FullSeason(t *testing.T) {
	h, rec := newTestHandler()
	engine := newEngine(h)

	created := struct {
		Session struct {
			ID     string  `json:"session_id"`
			Week   int     `json:"week"`
			Budget float64 `json:"budget"`
		} `json:"session"`
	}{}
	w := perform(engine, http.MethodPost, "/api/sessions", `{"region":"kano","crop":"sorghum","weather":[{"precipitation_mm":10,"temperature_c":30,"reference_et_mm":35}]}`)
	if w.Code != consts.StatusCreated {
		t.Fatalf("create status got=%d body=%s", w.Code, w.Body.String())
	}
	decode(t, w.Body.Bytes(), &created)
	id := created.Session.ID
	if id == "" || created.Session.Week != 1 {
		t.Fatalf("unexpected created session: %+v", created.Session)
	}

	w = perform(engine, http.MethodPost, "/api/sessions/"+id+"/harvest", "")
	if w.Code != consts.StatusNotFound && w.Code != consts.StatusMethodNotAllowed {
		t.Fatalf("harvest is GET only, got=%d", w.Code)
	}
	w = perform(engine, http.MethodGet, "/api/sessions/"+id+"/harvest", "")
	if w.Code != consts.StatusConflict {
		t.Fatalf("early harvest got=%d want=409", w.Code)
	}

	for week := 1; week <= 12; week++ {
		w = perform(engine, http.MethodPost, "/api/sessions/"+id+"/step", `{"irrigation":5,"fertilizer":2}`)
		if w.Code != consts.StatusOK {
			t.Fatalf("week %d status got=%d body=%s", week, w.Code, w.Body.String())
		}
	}
	w = perform(engine, http.MethodPost, "/api/sessions/"+id+"/step", `{"irrigation":0,"fertilizer":0}`)
	if w.Code != consts.StatusConflict {
		t.Fatalf("step after season got=%d want=409", w.Code)
	}

	report := struct {
		SessionID string    `json:"session_id"`
		Stars     int       `json:"stars"`
		NDVI      []float64 `json:"ndvi_history"`
	}{}
	w = perform(engine, http.MethodGet, "/api/sessions/"+id+"/harvest", "")
	if w.Code != consts.StatusOK {
		t.Fatalf("harvest status got=%d body=%s", w.Code, w.Body.String())
	}
	decode(t, w.Body.Bytes(), &report)
	if report.SessionID != id || report.Stars < 1 || len(report.NDVI) != 13 {
		t.Fatalf("unexpected report: %+v", report)
	}

	w = perform(engine, http.MethodGet, "/api/sessions/"+id+"/replay?from_week=3&to_week=4", "")
	replayed := struct {
		Weeks []struct {
			Week int `json:"week"`
		} `json:"weeks"`
	}{}
	decode(t, w.Body.Bytes(), &replayed)
	if len(replayed.Weeks) != 2 || replayed.Weeks[0].Week != 3 {
		t.Fatalf("unexpected replay window: %+v", replayed.Weeks)
	}

	snap := rec.Snapshot()
	if snap.StepSuccess != 12 || snap.Completed != 1 {
		t.Fatalf("metrics got success=%d completed=%d", snap.StepSuccess, snap.Completed)
	}
}

func TestRoutes_InsufficientBudgetReturns402(t *testing.T) {
	h, _ := newTestHandler()
	engine := newEngine(h)

	w := perform(engine, http.MethodPost, "/api/sessions", `{"region":"kano","initial_budget":100}`)
	created := struct {
		Session struct {
			ID string `json:"session_id"`
		} `json:"session"`
	}{}
	decode(t, w.Body.Bytes(), &created)

	w = perform(engine, http.MethodPost, "/api/sessions/"+created.Session.ID+"/step", `{"irrigation":100}`)
	if w.Code != consts.StatusPaymentRequired {
		t.Fatalf("status got=%d want=402 body=%s", w.Code, w.Body.String())
	}
	body := decodeErrorBody(t, w.Body.Bytes())
	if body.Error.Code != "insufficient_budget" {
		t.Fatalf("code got=%q", body.Error.Code)
	}
	if _, ok := body.Error.Details["loan_offer"]; ok {
		t.Fatalf("week 1 must not carry a loan offer: %+v", body.Error.Details)
	}
}

func TestRoutes_LoanBeforeEligibleWeek(t *testing.T) {
	h, _ := newTestHandler()
	engine := newEngine(h)

	w := perform(engine, http.MethodPost, "/api/sessions", `{"region":"kano"}`)
	created := struct {
		Session struct {
			ID string `json:"session_id"`
		} `json:"session"`
	}{}
	decode(t, w.Body.Bytes(), &created)

	w = perform(engine, http.MethodPost, "/api/sessions/"+created.Session.ID+"/loan", "")
	if w.Code != consts.StatusConflict {
		t.Fatalf("status got=%d want=409", w.Code)
	}
	if code := decodeErrorBody(t, w.Body.Bytes()).Error.Code; code != "loan_not_eligible" {
		t.Fatalf("code got=%q want=loan_not_eligible", code)
	}
}

func TestRoutes_UnknownCropSuggests(t *testing.T) {
	h, _ := newTestHandler()
	w := perform(newEngine(h), http.MethodPost, "/api/sessions", `{"region":"kano","crop":"maiz"}`)
	if w.Code != consts.StatusBadRequest {
		t.Fatalf("status got=%d want=400", w.Code)
	}
	body := decodeErrorBody(t, w.Body.Bytes())
	if body.Error.Code != "unknown_key" {
		t.Fatalf("code got=%q want=unknown_key", body.Error.Code)
	}
}

func TestRoutes_StatusMissingSession(t *testing.T) {
	h, _ := newTestHandler()
	w := perform(newEngine(h), http.MethodGet, "/api/sessions/nope", "")
	if w.Code != consts.StatusNotFound {
		t.Fatalf("status got=%d want=404", w.Code)
	}
}

func TestRoutes_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler()
	w := perform(newEngine(h), http.MethodPost, "/api/sessions", `{"region":`)
	if w.Code != consts.StatusBadRequest {
		t.Fatalf("status got=%d want=400", w.Code)
	}
}

func TestRoutes_Catalog(t *testing.T) {
	h, _ := newTestHandler()
	engine := newEngine(h)

	w := perform(engine, http.MethodGet, "/api/catalog/crops", "")
	crops := struct {
		Crops []struct {
			Key string `json:"key"`
		} `json:"crops"`
	}{}
	decode(t, w.Body.Bytes(), &crops)
	if len(crops.Crops) != 4 {
		t.Fatalf("crops got=%d want=4", len(crops.Crops))
	}

	w = perform(engine, http.MethodGet, "/api/catalog/nearest?lat=12.0&lon=8.5", "")
	if w.Code != consts.StatusOK {
		t.Fatalf("nearest status got=%d body=%s", w.Code, w.Body.String())
	}
	w = perform(engine, http.MethodGet, "/api/catalog/nearest?lat=abc", "")
	if w.Code != consts.StatusBadRequest {
		t.Fatalf("bad nearest got=%d want=400", w.Code)
	}

	w = perform(engine, http.MethodGet, "/api/leaderboard", "")
	if w.Code != consts.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"scores":[]`)) {
		t.Fatalf("leaderboard without archive got=%d body=%s", w.Code, w.Body.String())
	}
}

func TestRoutes_ScenarioList(t *testing.T) {
	dir := t.TempDir()
	body := `{"region_key":"kano","season":"2019 drought","weeks":[{"precipitation_mm":0,"temperature_c":35,"reference_et_mm":45}]}`
	if err := os.WriteFile(filepath.Join(dir, "kano.json"), []byte(body), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	h, _ := newTestHandler()
	h.CatalogUC.Scenarios = scenario.Provider{Root: dir}

	w := perform(newEngine(h), http.MethodGet, "/api/catalog/scenarios", "")
	if w.Code != consts.StatusOK {
		t.Fatalf("status got=%d body=%s", w.Code, w.Body.String())
	}
	out := struct {
		Scenarios []struct {
			RegionKey string `json:"region_key"`
			Season    string `json:"season"`
			Weeks     int    `json:"weeks"`
		} `json:"scenarios"`
	}{}
	decode(t, w.Body.Bytes(), &out)
	if len(out.Scenarios) != 1 || out.Scenarios[0].Season != "2019 drought" || out.Scenarios[0].Weeks != 1 {
		t.Fatalf("scenarios got=%+v", out.Scenarios)
	}
}

func TestRoutes_HealthzAndCORS(t *testing.T) {
	h, _ := newTestHandler()
	engine := newEngine(h)

	w := perform(engine, http.MethodGet, "/healthz", "")
	if w.Code != consts.StatusOK {
		t.Fatalf("healthz got=%d", w.Code)
	}
	if got := string(w.Header().Peek("Access-Control-Allow-Origin")); got != "*" {
		t.Fatalf("allow-origin got=%q want=*", got)
	}

	w = perform(engine, http.MethodOptions, "/api/sessions", "")
	if w.Code != consts.StatusNoContent {
		t.Fatalf("preflight got=%d want=204", w.Code)
	}
}

func newEngine(h Handler) *route.Engine {
	s := server.New()
	h.RegisterRoutes(s)
	return s.Engine
}

func perform(engine *route.Engine, method, path, body string) *ut.ResponseRecorder {
	var b *ut.Body
	if body != "" {
		b = &ut.Body{Body: bytes.NewBufferString(body), Len: len(body)}
	}
	return ut.PerformRequest(engine, method, path, b, ut.Header{Key: "Content-Type", Value: "application/json"})
}

func decode(t *testing.T, raw []byte, out any) {
	t.Helper()
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
}
