package newgame

import (
	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
	"terragrow/internal/domain/season"
)

type Request struct {
	RegionKey     string                   `json:"region"`
	Lat           *float64                 `json:"lat,omitempty"`
	Lon           *float64                 `json:"lon,omitempty"`
	CropKey       string                   `json:"crop"`
	SoilKey       string                   `json:"soil"`
	InitialBudget float64                  `json:"initial_budget"`
	Weather       []agronomy.WeeklyWeather `json:"weather,omitempty"`
}

type Response struct {
	Session          season.Snapshot          `json:"session"`
	Characteristics  region.Characteristics   `json:"characteristics"`
	RecommendedCrops []string                 `json:"recommended_crops"`
	WeatherPreview   []agronomy.WeeklyWeather `json:"weather_preview"`
	Source           string                   `json:"source"`
}
