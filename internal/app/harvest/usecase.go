package harvest

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"terragrow/internal/app/ports"
	"terragrow/internal/domain/season"
)

var ErrInvalidRequest = errors.New("invalid harvest request")

// UseCase scores a complete session. Archive is optional; archive failures
// are logged and never fail the harvest.
type UseCase struct {
	Repo    ports.SessionRepository
	Archive ports.ScoreArchive
	Now     func() time.Time
	Logger  *slog.Logger
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return Response{}, ErrInvalidRequest
	}
	s, err := u.Repo.Get(ctx, req.SessionID)
	if err != nil {
		return Response{}, err
	}
	report, err := season.Finalize(s)
	if err != nil {
		return Response{}, err
	}

	if u.Archive != nil {
		rec := ports.ScoreRecord{
			SessionID:      s.ID,
			RegionKey:      s.Region.Key,
			RegionName:     s.Region.Name,
			CropKey:        s.Crop.Params.Key,
			SoilKey:        s.Soil.Params.Key,
			Yield:          report.Yield,
			Profit:         report.Profit,
			Sustainability: report.Sustainability,
			Stars:          report.Stars,
			LoanTaken:      report.LoanTaken,
			FinishedAt:     u.now(),
		}
		if err := u.Archive.Record(ctx, rec); err != nil {
			u.logger().Error("archive score", "session_id", s.ID, "err", err)
		}
	}

	u.logger().Info("season harvested",
		"session_id", s.ID,
		"yield", report.Yield,
		"profit", report.Profit,
		"stars", report.Stars,
	)
	return Response{
		SessionID:   s.ID,
		RegionName:  s.Region.Name,
		CropName:    s.Crop.Params.Name,
		ScoreReport: report,
	}, nil
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
