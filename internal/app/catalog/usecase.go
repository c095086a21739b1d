package catalog

import (
	"context"
	"errors"

	"terragrow/internal/app/ports"
	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
)

var ErrInvalidRequest = errors.New("invalid catalog request")

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
	nearbyRadiusKM          = 50.0
)

type RegionView struct {
	region.Profile
	RecommendedCrops []string               `json:"recommended_crops"`
	Characteristics  region.Characteristics `json:"characteristics"`
}

type NearestResponse struct {
	Region     RegionView `json:"region"`
	DistanceKM float64    `json:"distance_km"`
	Nearby     bool       `json:"nearby"`
	// EstimatedClimate is what a custom location at the query point would get.
	EstimatedClimate string `json:"estimated_climate"`
}

type UseCase struct {
	Catalog   ports.Catalog
	Archive   ports.ScoreArchive
	Scenarios ports.ScenarioCatalog
}

func (u UseCase) Crops() []agronomy.CropParameters {
	return u.Catalog.Crops()
}

func (u UseCase) Soils() []agronomy.SoilParameters {
	return u.Catalog.Soils()
}

func (u UseCase) Regions() []RegionView {
	regions := u.Catalog.Regions()
	out := make([]RegionView, 0, len(regions))
	for _, r := range regions {
		out = append(out, view(r))
	}
	return out
}

func (u UseCase) Nearest(lat, lon float64) (NearestResponse, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return NearestResponse{}, ErrInvalidRequest
	}
	r, dist, err := u.Catalog.Nearest(lat, lon)
	if err != nil {
		return NearestResponse{}, err
	}
	return NearestResponse{
		Region:           view(r),
		DistanceKM:       dist,
		Nearby:           dist <= nearbyRadiusKM,
		EstimatedClimate: region.EstimateClimate(lat),
	}, nil
}

func (u UseCase) Leaderboard(ctx context.Context, regionKey string, limit int) ([]ports.ScoreRecord, error) {
	if u.Archive == nil {
		return []ports.ScoreRecord{}, nil
	}
	switch {
	case limit <= 0:
		limit = DefaultLeaderboardLimit
	case limit > MaxLeaderboardLimit:
		limit = MaxLeaderboardLimit
	}
	return u.Archive.Top(ctx, regionKey, limit)
}

// ListScenarios returns the recorded seasons available for replay, empty
// when no scenario source is configured.
func (u UseCase) ListScenarios(ctx context.Context) ([]ports.ScenarioSummary, error) {
	if u.Scenarios == nil {
		return []ports.ScenarioSummary{}, nil
	}
	return u.Scenarios.Scenarios(ctx)
}

func view(r region.Profile) RegionView {
	return RegionView{
		Profile:          r,
		RecommendedCrops: r.RecommendedCrops(),
		Characteristics:  r.Characteristics(),
	}
}
