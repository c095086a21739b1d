package status

import (
	"context"
	"errors"
	"strings"

	"terragrow/internal/app/ports"
	"terragrow/internal/domain/season"
)

var ErrInvalidRequest = errors.New("invalid status request")

type UseCase struct {
	Repo ports.SessionRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return Response{}, ErrInvalidRequest
	}
	s, err := u.Repo.Get(ctx, req.SessionID)
	if err != nil {
		return Response{}, err
	}
	resp := Response{
		Session:          s.Snapshot(),
		Characteristics:  s.Region.Characteristics(),
		RecommendedCrops: s.Region.RecommendedCrops(),
	}
	if s.Phase() == season.PhaseActive {
		w := s.CurrentWeather()
		resp.NextWeather = &w
	}
	if s.LoanAvailable() {
		offer := s.Economics.Offer()
		resp.LoanOffer = &offer
	}
	return resp, nil
}
