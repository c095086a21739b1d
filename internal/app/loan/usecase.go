package loan

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"terragrow/internal/app/ports"
	"terragrow/internal/domain/season"
)

var ErrInvalidRequest = errors.New("invalid loan request")

const (
	RejectNotEligible  = "loan_not_eligible"
	RejectAlreadyTaken = "loan_already_taken"
	RejectComplete     = "session_complete"
	RejectConflict     = "conflict"
)

type UseCase struct {
	TxManager ports.TxManager
	Repo      ports.SessionRepository
	Metrics   ports.LoanMetrics
	Now       func() time.Time
	Logger    *slog.Logger
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return Response{}, ErrInvalidRequest
	}
	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		s, err := u.Repo.Get(txCtx, req.SessionID)
		if err != nil {
			return err
		}
		expected := s.Version
		res, err := s.AcceptLoan()
		if err != nil {
			return err
		}
		s.UpdatedAt = u.now()
		if err := u.Repo.Put(txCtx, s, expected); err != nil {
			return err
		}
		out = Response{SessionID: s.ID, LoanResult: res}
		return nil
	})
	if err != nil {
		u.recordError(req.SessionID, err)
		return Response{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordLoanGranted()
	}
	u.logger().Info("loan granted", "session_id", out.SessionID, "week", out.Week, "new_budget", out.NewBudget)
	return out, nil
}

func (u UseCase) recordError(sessionID string, err error) {
	reason := ""
	switch {
	case errors.Is(err, season.ErrLoanNotEligible):
		reason = RejectNotEligible
	case errors.Is(err, season.ErrLoanAlreadyTaken):
		reason = RejectAlreadyTaken
	case errors.Is(err, season.ErrSessionComplete):
		reason = RejectComplete
	case errors.Is(err, ports.ErrConflict):
		reason = RejectConflict
	}
	if reason == "" {
		if !errors.Is(err, ports.ErrNotFound) {
			u.logger().Error("loan failed", "session_id", sessionID, "err", err)
		}
		return
	}
	u.logger().Warn("loan rejected", "session_id", sessionID, "reason", reason)
	if u.Metrics != nil {
		u.Metrics.RecordLoanRejected(reason)
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
