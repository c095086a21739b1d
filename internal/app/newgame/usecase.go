package newgame

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"terragrow/internal/app/ports"
	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
	"terragrow/internal/domain/season"
)

var ErrInvalidRequest = errors.New("invalid new game request")

const (
	DefaultNearbyRadiusKM = 50.0
	previewWeeks          = 4

	SourcePopularRegion = "popular_region"
	SourceCustom        = "custom"
)

type UseCase struct {
	Repo           ports.SessionRepository
	Catalog        ports.Catalog
	Weather        ports.WeatherProvider
	Economics      season.Economics
	NearbyRadiusKM float64
	NewID          func() string
	Now            func() time.Time
	Logger         *slog.Logger
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if req.InitialBudget < 0 {
		return Response{}, fmt.Errorf("%w: initial budget must not be negative", ErrInvalidRequest)
	}
	if (req.Lat == nil) != (req.Lon == nil) {
		return Response{}, fmt.Errorf("%w: lat and lon must be given together", ErrInvalidRequest)
	}

	profile, source, err := u.resolveRegion(req)
	if err != nil {
		return Response{}, err
	}

	cropKey := strings.TrimSpace(req.CropKey)
	if cropKey == "" {
		cropKey = profile.RecommendedCrops()[0]
	}
	crop, err := u.Catalog.Crop(cropKey)
	if err != nil {
		return Response{}, err
	}
	soilKey := strings.TrimSpace(req.SoilKey)
	if soilKey == "" {
		soilKey = profile.SoilType
	}
	soil, err := u.Catalog.Soil(soilKey)
	if err != nil {
		return Response{}, err
	}

	econ := u.Economics
	if econ == (season.Economics{}) {
		econ = season.DefaultEconomics()
	}
	if req.InitialBudget > 0 {
		econ.InitialBudget = req.InitialBudget
	}

	weather := req.Weather
	if len(weather) == 0 && u.Weather != nil {
		weather, err = u.Weather.WeeklySeries(ctx, profile, econ.SeasonWeeks)
		if err != nil {
			return Response{}, fmt.Errorf("weather series: %w", err)
		}
	}

	s, err := season.NewSession(season.SessionConfig{
		ID:        u.newID(),
		Region:    profile,
		Crop:      crop,
		Soil:      soil,
		Economics: econ,
		Weather:   weather,
		Now:       u.now(),
	})
	if err != nil {
		return Response{}, errors.Join(ErrInvalidRequest, err)
	}
	if err := u.Repo.Create(ctx, s); err != nil {
		return Response{}, err
	}

	u.logger().Info("session created",
		"session_id", s.ID,
		"region", profile.Key,
		"crop", crop.Key,
		"soil", soil.Key,
		"weeks", s.MaxWeeks,
		"source", source,
	)

	preview := make([]agronomy.WeeklyWeather, 0, previewWeeks)
	for w := 1; w <= previewWeeks && w <= s.MaxWeeks; w++ {
		preview = append(preview, s.WeatherForWeek(w))
	}
	return Response{
		Session:          s.Snapshot(),
		Characteristics:  profile.Characteristics(),
		RecommendedCrops: profile.RecommendedCrops(),
		WeatherPreview:   preview,
		Source:           source,
	}, nil
}

func (u UseCase) resolveRegion(req Request) (region.Profile, string, error) {
	if key := strings.TrimSpace(req.RegionKey); key != "" {
		p, err := u.Catalog.Region(key)
		return p, SourcePopularRegion, err
	}
	if req.Lat == nil {
		return region.Profile{}, "", fmt.Errorf("%w: region or coordinates are required", ErrInvalidRequest)
	}
	lat, lon := *req.Lat, *req.Lon
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return region.Profile{}, "", fmt.Errorf("%w: coordinates out of range", ErrInvalidRequest)
	}

	radius := u.NearbyRadiusKM
	if radius <= 0 {
		radius = DefaultNearbyRadiusKM
	}
	nearest, dist, err := u.Catalog.Nearest(lat, lon)
	if err == nil && dist <= radius {
		return nearest, SourcePopularRegion, nil
	}

	climate := region.EstimateClimate(lat)
	return region.Profile{
		Key:       SourceCustom,
		Name:      fmt.Sprintf("Location (%.2f, %.2f)", lat, lon),
		Latitude:  lat,
		Longitude: lon,
		Climate:   climate,
		SoilType:  region.EstimateSoil(climate),
	}, SourceCustom, nil
}

func (u UseCase) newID() string {
	if u.NewID != nil {
		return u.NewID()
	}
	return uuid.NewString()
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
