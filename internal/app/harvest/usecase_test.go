package harvest

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

func TestUseCase_RejectsActiveSession(t *testing.T) {
	archive := &fakeArchive{}
	uc := UseCase{Repo: harvestRepo{session: newSession(t, 5)}, Archive: archive}
	if _, err := uc.Execute(context.Background(), Request{SessionID: "s-1"}); !errors.Is(err, season.ErrSessionNotComplete) {
		t.Fatalf("expected ErrSessionNotComplete, got %v", err)
	}
	if len(archive.records) != 0 {
		t.Fatalf("active session must not be archived")
	}
}

func TestUseCase_ScoresAndArchives(t *testing.T) {
	archive := &fakeArchive{}
	finished := time.Unix(1700001000, 0)
	uc := UseCase{Repo: harvestRepo{session: newSession(t, 12)}, Archive: archive, Now: func() time.Time { return finished }}
	resp, err := uc.Execute(context.Background(), Request{SessionID: "s-1"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.Stars < 1 || resp.Stars > 5 || resp.RegionalAvg != 3.8 {
		t.Fatalf("unexpected report %+v", resp.ScoreReport)
	}
	if len(archive.records) != 1 {
		t.Fatalf("expected one archived record, got %d", len(archive.records))
	}
	rec := archive.records[0]
	if rec.SessionID != "s-1" || rec.RegionKey != "kano" || rec.CropKey != "sorghum" || !rec.FinishedAt.Equal(finished) {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestUseCase_ArchiveFailureDoesNotFailHarvest(t *testing.T) {
	uc := UseCase{Repo: harvestRepo{session: newSession(t, 12)}, Archive: &fakeArchive{err: errors.New("disk full")}}
	if _, err := uc.Execute(context.Background(), Request{SessionID: "s-1"}); err != nil {
		t.Fatalf("archive error must be swallowed after logging, got %v", err)
	}
}

func TestUseCase_WorksWithoutArchive(t *testing.T) {
	uc := UseCase{Repo: harvestRepo{session: newSession(t, 12)}}
	if _, err := uc.Execute(context.Background(), Request{SessionID: "s-1"}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
}

func newSession(t *testing.T, played int) *season.Session {
	t.Helper()
	s, err := season.NewSession(season.SessionConfig{
		ID:     "s-1",
		Region: region.Profile{Key: "kano", Name: "Kano", Latitude: 12, Longitude: 8.52, Climate: "Sahel", SoilType: "sandy"},
		Crop: agronomy.CropParameters{
			Key: "sorghum", Name: "Sorghum", OptimalTemp: 28, OptimalMoisture: 50, WaterNeed: 400, NitrogenNeed: 100,
			GrowthRate: 0.07, InitialNDVI: 0.12, MaxNDVI: 0.80,
			DroughtTolerance: agronomy.ToleranceHigh, WaterlogTolerance: agronomy.ToleranceLow,
			NitrogenCurve: [4]float64{0.20, 0.50, 0.25, 0.05}, PricePerTon: 220,
		},
		Soil:      agronomy.SoilParameters{Key: "sandy", Name: "Sandy", FieldCapacity: 50, WiltingPoint: 15, DrainageRate: 0.30, NitrogenRetention: 0.65},
		Economics: season.DefaultEconomics(),
		Now:       time.Unix(1700000000, 0),
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	for i := 0; i < played; i++ {
		if _, err := s.Step(season.StepInput{IrrigationMM: 10, FertilizerKG: 8}, s.CurrentWeather(), nil); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	return s
}

type harvestRepo struct {
	session *season.Session
}

func (r harvestRepo) Create(_ context.Context, _ *season.Session) error { return nil }

func (r harvestRepo) Get(_ context.Context, id string) (*season.Session, error) {
	if r.session == nil || r.session.ID != id {
		return nil, ports.ErrNotFound
	}
	return r.session.Clone(), nil
}

func (r harvestRepo) Put(_ context.Context, _ *season.Session, _ int64) error { return nil }

func (r harvestRepo) Delete(_ context.Context, _ string) error { return nil }

type fakeArchive struct {
	records []ports.ScoreRecord
	err     error
}

func (a *fakeArchive) Record(_ context.Context, rec ports.ScoreRecord) error {
	if a.err != nil {
		return a.err
	}
	a.records = append(a.records, rec)
	return nil
}

func (a *fakeArchive) Top(_ context.Context, _ string, _ int) ([]ports.ScoreRecord, error) {
	return a.records, a.err
}

var _ ports.SessionRepository = harvestRepo{}
var _ ports.ScoreArchive = (*fakeArchive)(nil)
