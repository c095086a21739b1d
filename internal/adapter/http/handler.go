package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

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
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	NewGameUC newgame.UseCase
	StepUC    step.UseCase
	LoanUC    loan.UseCase
	StatusUC  status.UseCase
	HarvestUC harvest.UseCase
	ReplayUC  replay.UseCase
	CatalogUC catalog.UseCase
	KPI       kpiSnapshotProvider

	// AllowOrigin is sent in CORS responses; empty means "*".
	AllowOrigin string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.AllowOrigin))

	sessions := s.Group("/api/sessions")
	sessions.POST("", h.createSession)
	sessions.GET("/:id", h.status)
	sessions.POST("/:id/step", h.step)
	sessions.POST("/:id/loan", h.loan)
	sessions.GET("/:id/harvest", h.harvest)
	sessions.GET("/:id/replay", h.replay)

	cat := s.Group("/api/catalog")
	cat.GET("/crops", h.crops)
	cat.GET("/soils", h.soils)
	cat.GET("/regions", h.regions)
	cat.GET("/nearest", h.nearest)
	cat.GET("/scenarios", h.scenarios)

	s.GET("/api/leaderboard", h.leaderboard)
	s.GET("/healthz", h.healthz)
	s.GET("/ops/kpi", h.kpi)
	s.OPTIONS("/*path", func(_ context.Context, ctx *app.RequestContext) {
		ctx.SetStatusCode(consts.StatusNoContent)
	})
}

type stepRequest struct {
	Irrigation float64 `json:"irrigation"`
	Fertilizer float64 `json:"fertilizer"`
}

func (h Handler) createSession(c context.Context, ctx *app.RequestContext) {
	var body newgame.Request
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.NewGameUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Execute(c, status.Request{SessionID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) step(c context.Context, ctx *app.RequestContext) {
	var body stepRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.StepUC.Execute(c, step.Request{
		SessionID:    ctx.Param("id"),
		IrrigationMM: body.Irrigation,
		FertilizerKG: body.Fertilizer,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) loan(c context.Context, ctx *app.RequestContext) {
	resp, err := h.LoanUC.Execute(c, loan.Request{SessionID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) harvest(c context.Context, ctx *app.RequestContext) {
	resp, err := h.HarvestUC.Execute(c, harvest.Request{SessionID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	from, err := intQuery(ctx, "from_week")
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "from_week must be an integer")
		return
	}
	to, err := intQuery(ctx, "to_week")
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "to_week must be an integer")
		return
	}
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		SessionID: ctx.Param("id"),
		FromWeek:  from,
		ToWeek:    to,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) crops(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{"crops": h.CatalogUC.Crops()})
}

func (h Handler) soils(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{"soils": h.CatalogUC.Soils()})
}

func (h Handler) regions(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{"regions": h.CatalogUC.Regions()})
}

func (h Handler) scenarios(c context.Context, ctx *app.RequestContext) {
	list, err := h.CatalogUC.ListScenarios(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"scenarios": list})
}

func (h Handler) nearest(_ context.Context, ctx *app.RequestContext) {
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(ctx.Query("lat")), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(ctx.Query("lon")), 64)
	if errLat != nil || errLon != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "lat and lon are required numbers")
		return
	}
	resp, err := h.CatalogUC.Nearest(lat, lon)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) leaderboard(c context.Context, ctx *app.RequestContext) {
	limit, err := intQuery(ctx, "limit")
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "limit must be an integer")
		return
	}
	records, err := h.CatalogUC.Leaderboard(c, ctx.Query("region"), limit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"scores": records})
}

func (h Handler) healthz(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]string{"status": "ok"})
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// intQuery returns 0 for an absent parameter.
func intQuery(ctx *app.RequestContext, key string) (int, error) {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func writeError(ctx *app.RequestContext, err error) {
	var budgetErr *season.InsufficientBudgetError
	var keyErr *ports.UnknownKeyError
	switch {
	case errors.As(err, &budgetErr):
		details := map[string]any{
			"required":  budgetErr.Required,
			"available": budgetErr.Available,
		}
		if budgetErr.Offer != nil {
			details["loan_offer"] = budgetErr.Offer
		}
		writeErrorDetails(ctx, consts.StatusPaymentRequired, "insufficient_budget", err.Error(), details)
	case errors.As(err, &keyErr):
		writeErrorDetails(ctx, consts.StatusBadRequest, "unknown_key", err.Error(), map[string]any{
			"kind":        keyErr.Kind,
			"key":         keyErr.Key,
			"suggestions": keyErr.Suggestions,
		})
	case errors.Is(err, season.ErrSessionComplete):
		writeErrorBody(ctx, consts.StatusConflict, "session_complete", err.Error())
	case errors.Is(err, season.ErrSessionNotComplete):
		writeErrorBody(ctx, consts.StatusConflict, "session_not_complete", err.Error())
	case errors.Is(err, season.ErrLoanNotEligible):
		writeErrorBody(ctx, consts.StatusConflict, "loan_not_eligible", err.Error())
	case errors.Is(err, season.ErrLoanAlreadyTaken):
		writeErrorBody(ctx, consts.StatusConflict, "loan_already_taken", err.Error())
	case errors.Is(err, newgame.ErrInvalidRequest),
		errors.Is(err, step.ErrInvalidRequest),
		errors.Is(err, loan.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest),
		errors.Is(err, harvest.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, catalog.ErrInvalidRequest),
		errors.Is(err, season.ErrInvalidInput),
		errors.Is(err, season.ErrInvalidConfig):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	writeErrorDetails(ctx, status, code, message, nil)
}

func writeErrorDetails(ctx *app.RequestContext, status int, code, message string, details map[string]any) {
	body := map[string]any{
		"code":    code,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	ctx.JSON(status, map[string]any{"error": body})
}
