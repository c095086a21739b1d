package replay

import (
	"context"
	"errors"
	"testing"
	"time"

	"terragrow/internal/app/ports"
	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
	"terragrow/internal/domain/season"
)

func TestUseCase_ReturnsWholeLogWithoutWindow(t *testing.T) {
	uc := UseCase{Repo: fakeRepo{session: playedSession(t, 6)}}
	out, err := uc.Execute(context.Background(), Request{SessionID: "s-1"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(out.Weeks) != 6 || out.LatestWeek != 6 {
		t.Fatalf("expected 6 weeks, got %d (latest %d)", len(out.Weeks), out.LatestWeek)
	}
	if len(out.Events) != 6 {
		t.Fatalf("expected an event every week, got %d", len(out.Events))
	}
	if out.TotalCosts != 6*(10*3.5) {
		t.Fatalf("total costs got=%v", out.TotalCosts)
	}
	if len(out.NDVITrend) != 6 || out.PeakNDVI <= 0 {
		t.Fatalf("unexpected trend %v peak %v", out.NDVITrend, out.PeakNDVI)
	}
}

func TestUseCase_FiltersByWeekWindow(t *testing.T) {
	uc := UseCase{Repo: fakeRepo{session: playedSession(t, 8)}}
	out, err := uc.Execute(context.Background(), Request{SessionID: "s-1", FromWeek: 3, ToWeek: 5})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(out.Weeks) != 3 || out.Weeks[0].Week != 3 || out.Weeks[2].Week != 5 {
		t.Fatalf("unexpected window %+v", out.Weeks)
	}
	for _, e := range out.Events {
		if e.Week < 3 || e.Week > 5 {
			t.Fatalf("event outside window: %+v", e)
		}
	}
}

func TestUseCase_RejectsInvertedWindow(t *testing.T) {
	uc := UseCase{Repo: fakeRepo{session: playedSession(t, 1)}}
	for _, req := range []Request{{}, {SessionID: "s-1", FromWeek: 5, ToWeek: 2}, {SessionID: "s-1", FromWeek: -1}} {
		if _, err := uc.Execute(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest for %+v, got %v", req, err)
		}
	}
}

type alwaysRNG struct{}

func (alwaysRNG) Float64() float64 { return 0 }
func (alwaysRNG) IntN(int) int     { return 0 }

func playedSession(t *testing.T, weeks int) *season.Session {
	t.Helper()
	s, err := season.NewSession(season.SessionConfig{
		ID:     "s-1",
		Region: region.Profile{Key: "douala", Name: "Douala", Latitude: 4.05, Longitude: 9.7, Climate: "Tropical humid", SoilType: "clay"},
		Crop: agronomy.CropParameters{
			Key: "maize", Name: "Maize", OptimalTemp: 25, OptimalMoisture: 60, WaterNeed: 500, NitrogenNeed: 150,
			GrowthRate: 0.08, InitialNDVI: 0.15, MaxNDVI: 0.85,
			DroughtTolerance: agronomy.ToleranceMedium, WaterlogTolerance: agronomy.ToleranceLow,
			NitrogenCurve: [4]float64{0.20, 0.50, 0.25, 0.05}, PricePerTon: 250,
		},
		Soil:      agronomy.SoilParameters{Key: "clay", Name: "Clay", FieldCapacity: 85, WiltingPoint: 35, DrainageRate: 0.08, NitrogenRetention: 0.95},
		Economics: season.DefaultEconomics(),
		Now:       time.Unix(1700000000, 0),
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	for i := 0; i < weeks; i++ {
		if _, err := s.Step(season.StepInput{IrrigationMM: 10}, s.CurrentWeather(), alwaysRNG{}); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	return s
}

type fakeRepo struct {
	session *season.Session
}

func (r fakeRepo) Create(_ context.Context, _ *season.Session) error { return nil }

func (r fakeRepo) Get(_ context.Context, _ string) (*season.Session, error) {
	return r.session.Clone(), nil
}

func (r fakeRepo) Put(_ context.Context, _ *season.Session, _ int64) error { return nil }

func (r fakeRepo) Delete(_ context.Context, _ string) error { return nil }

var _ ports.SessionRepository = fakeRepo{}
