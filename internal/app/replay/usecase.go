package replay

import (
	"context"
	"errors"
	"strings"

	"terragrow/internal/app/ports"
	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/season"
)

var ErrInvalidRequest = errors.New("invalid replay request")

type UseCase struct {
	Repo ports.SessionRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.SessionID) == "" || req.FromWeek < 0 || req.ToWeek < 0 {
		return Response{}, ErrInvalidRequest
	}
	if req.FromWeek > 0 && req.ToWeek > 0 && req.FromWeek > req.ToWeek {
		return Response{}, ErrInvalidRequest
	}
	s, err := u.Repo.Get(ctx, req.SessionID)
	if err != nil {
		return Response{}, err
	}

	weeks := filterWeeks(s.Weeks, req.FromWeek, req.ToWeek)
	out := Response{
		SessionID: s.ID,
		Weeks:     weeks,
		Events:    filterEvents(s.Events, req.FromWeek, req.ToWeek),
		NDVITrend: make([]float64, 0, len(weeks)),
	}
	for _, w := range weeks {
		out.NDVITrend = append(out.NDVITrend, w.NDVI)
		out.TotalCosts += w.Costs.Total
		out.LatestWeek = w.Week
		if w.NDVI > out.PeakNDVI {
			out.PeakNDVI = w.NDVI
		}
		if w.OverallStress < agronomy.StressMemoryCutoff {
			out.StressWeeks++
		}
	}
	return out, nil
}

func inWindow(week, from, to int) bool {
	if from > 0 && week < from {
		return false
	}
	if to > 0 && week > to {
		return false
	}
	return true
}

func filterWeeks(weeks []season.WeekLog, from, to int) []season.WeekLog {
	out := make([]season.WeekLog, 0, len(weeks))
	for _, w := range weeks {
		if inWindow(w.Week, from, to) {
			out = append(out, w)
		}
	}
	return out
}

func filterEvents(events []season.EventRecord, from, to int) []season.EventRecord {
	out := make([]season.EventRecord, 0, len(events))
	for _, e := range events {
		if inWindow(e.Week, from, to) {
			out = append(out, e)
		}
	}
	return out
}
