package ports

import (
	"context"

	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
)

type WeatherProvider interface {
	WeeklySeries(ctx context.Context, r region.Profile, weeks int) ([]agronomy.WeeklyWeather, error)
}

// ScenarioSummary describes one recorded season a region can be replayed with.
type ScenarioSummary struct {
	RegionKey   string `json:"region_key"`
	Season      string `json:"season"`
	Description string `json:"description,omitempty"`
	Weeks       int    `json:"weeks"`
}

type ScenarioCatalog interface {
	Scenarios(ctx context.Context) ([]ScenarioSummary, error)
}
