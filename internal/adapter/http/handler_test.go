package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	staticcatalog "terragrow/internal/adapter/catalog/static"
	"terragrow/internal/adapter/metrics/inmemory"
	"terragrow/internal/adapter/random"
	"terragrow/internal/adapter/repo/memory"
	"terragrow/internal/app/catalog"
	"terragrow/internal/app/harvest"
	"terragrow/internal/app/loan"
	"terragrow/internal/app/newgame"
	"terragrow/internal/app/ports"
	"terragrow/internal/app/replay"
	"terragrow/internal/app/status"
	"terragrow/internal/app/step"
	"terragrow/internal/domain/season"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

func TestWriteError_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"budget", &season.InsufficientBudgetError{Required: 10, Available: 5}, consts.StatusPaymentRequired, "insufficient_budget"},
		{"unknown key", &ports.UnknownKeyError{Kind: "crop", Key: "maiz", Suggestions: []string{"maize"}}, consts.StatusBadRequest, "unknown_key"},
		{"complete", season.ErrSessionComplete, consts.StatusConflict, "session_complete"},
		{"not complete", season.ErrSessionNotComplete, consts.StatusConflict, "session_not_complete"},
		{"loan early", season.ErrLoanNotEligible, consts.StatusConflict, "loan_not_eligible"},
		{"loan twice", season.ErrLoanAlreadyTaken, consts.StatusConflict, "loan_already_taken"},
		{"step input", step.ErrInvalidRequest, consts.StatusBadRequest, "bad_request"},
		{"wrapped newgame", fmt.Errorf("%w: lat", newgame.ErrInvalidRequest), consts.StatusBadRequest, "bad_request"},
		{"domain input", season.ErrInvalidInput, consts.StatusBadRequest, "bad_request"},
		{"missing", ports.ErrNotFound, consts.StatusNotFound, "not_found"},
		{"stale", ports.ErrConflict, consts.StatusConflict, "conflict"},
		{"other", errors.New("boom"), consts.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := &app.RequestContext{}
			writeError(ctx, tc.err)
			if got := ctx.Response.StatusCode(); got != tc.status {
				t.Fatalf("status got=%d want=%d", got, tc.status)
			}
			body := decodeErrorBody(t, ctx.Response.Body())
			if body.Error.Code != tc.code {
				t.Fatalf("code got=%q want=%q", body.Error.Code, tc.code)
			}
		})
	}
}

func TestWriteError_BudgetDetailsCarryLoanOffer(t *testing.T) {
	ctx := &app.RequestContext{}
	offer := season.DefaultEconomics().Offer()
	writeError(ctx, &season.InsufficientBudgetError{Required: 900, Available: 100, Offer: &offer})

	body := decodeErrorBody(t, ctx.Response.Body())
	if body.Error.Details["required"] != float64(900) || body.Error.Details["available"] != float64(100) {
		t.Fatalf("unexpected details: %+v", body.Error.Details)
	}
	if _, ok := body.Error.Details["loan_offer"]; !ok {
		t.Fatalf("expected loan_offer in details: %+v", body.Error.Details)
	}
}

func TestWriteError_UnknownKeyDetails(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, &ports.UnknownKeyError{Kind: "soil", Key: "lom", Suggestions: []string{"loam"}})

	body := decodeErrorBody(t, ctx.Response.Body())
	if body.Error.Details["kind"] != "soil" || body.Error.Details["key"] != "lom" {
		t.Fatalf("unexpected details: %+v", body.Error.Details)
	}
	sugg, _ := body.Error.Details["suggestions"].([]any)
	if len(sugg) != 1 || sugg[0] != "loam" {
		t.Fatalf("suggestions got=%v want=[loam]", sugg)
	}
}

func TestKPI_NotConfigured(t *testing.T) {
	ctx := &app.RequestContext{}
	Handler{}.kpi(context.Background(), ctx)
	if got := ctx.Response.StatusCode(); got != consts.StatusNotFound {
		t.Fatalf("status got=%d want=404", got)
	}
}

func TestIntQuery(t *testing.T) {
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/leaderboard?limit=7&bad=x")

	if v, err := intQuery(ctx, "limit"); err != nil || v != 7 {
		t.Fatalf("limit got=%d err=%v want=7", v, err)
	}
	if v, err := intQuery(ctx, "missing"); err != nil || v != 0 {
		t.Fatalf("missing got=%d err=%v want=0", v, err)
	}
	if _, err := intQuery(ctx, "bad"); err == nil {
		t.Fatalf("expected parse error for non-integer")
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeErrorBody(t *testing.T, raw []byte) errorEnvelope {
	t.Helper()
	var body errorEnvelope
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode error body %q: %v", raw, err)
	}
	return body
}

func newTestHandler() (Handler, *inmemory.Recorder) {
	store := memory.NewStore()
	repo := memory.NewSessionRepo(store)
	tx := memory.NewTxManager(store)
	cat := staticcatalog.New()
	rec := inmemory.NewRecorder()
	ids := 0
	return Handler{
		NewGameUC: newgame.UseCase{
			Repo:    repo,
			Catalog: cat,
			NewID: func() string {
				ids++
				return fmt.Sprintf("session-%d", ids)
			},
		},
		StepUC:    step.UseCase{TxManager: tx, Repo: repo, RNG: random.NewSeeded(7), Metrics: rec},
		LoanUC:    loan.UseCase{TxManager: tx, Repo: repo, Metrics: rec},
		StatusUC:  status.UseCase{Repo: repo},
		HarvestUC: harvest.UseCase{Repo: repo},
		ReplayUC:  replay.UseCase{Repo: repo},
		CatalogUC: catalog.UseCase{Catalog: cat},
		KPI:       rec,
	}, rec
}
