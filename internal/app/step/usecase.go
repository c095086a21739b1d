package step

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"terragrow/internal/app/ports"
	"terragrow/internal/domain/season"
)

var ErrInvalidRequest = errors.New("invalid step request")

const (
	RejectInsufficientBudget = "insufficient_budget"
	RejectSessionComplete    = "session_complete"
	RejectConflict           = "conflict"
)

type UseCase struct {
	TxManager ports.TxManager
	Repo      ports.SessionRepository
	RNG       season.RandomSource
	Metrics   ports.StepMetrics
	Now       func() time.Time
	Logger    *slog.Logger
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.SessionID) == "" || req.IrrigationMM < 0 || req.FertilizerKG < 0 {
		return Response{}, ErrInvalidRequest
	}
	in := season.StepInput{IrrigationMM: req.IrrigationMM, FertilizerKG: req.FertilizerKG}

	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		s, err := u.Repo.Get(txCtx, req.SessionID)
		if err != nil {
			return err
		}
		expected := s.Version
		res, err := s.Step(in, s.CurrentWeather(), u.RNG)
		if err != nil {
			return err
		}
		s.UpdatedAt = u.now()
		if err := u.Repo.Put(txCtx, s, expected); err != nil {
			return err
		}
		out = Response{SessionID: s.ID, WeekResult: res}
		return nil
	})
	if err != nil {
		u.recordError(req.SessionID, err)
		return Response{}, err
	}

	if u.Metrics != nil {
		u.Metrics.RecordStep(out.WeekResult)
	}
	attrs := []any{
		"session_id", out.SessionID,
		"week", out.WeekPlayed,
		"ndvi", out.Growth.NDVI,
		"budget", out.Budget,
		"complete", out.IsComplete,
	}
	if out.Event != nil {
		attrs = append(attrs, "event", out.Event.Type)
	}
	u.logger().Info("week played", attrs...)
	return out, nil
}

func (u UseCase) recordError(sessionID string, err error) {
	kind := ""
	switch {
	case errors.Is(err, season.ErrInsufficientBudget):
		kind = RejectInsufficientBudget
	case errors.Is(err, season.ErrSessionComplete):
		kind = RejectSessionComplete
	case errors.Is(err, ports.ErrConflict):
		kind = RejectConflict
	}
	if kind == "" {
		if !errors.Is(err, ports.ErrNotFound) {
			u.logger().Error("step failed", "session_id", sessionID, "err", err)
		}
		if u.Metrics != nil {
			u.Metrics.RecordFailure()
		}
		return
	}
	u.logger().Warn("step rejected", "session_id", sessionID, "reason", kind)
	if u.Metrics != nil {
		u.Metrics.RecordRejected(kind)
	}
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return slog.Default()
}
