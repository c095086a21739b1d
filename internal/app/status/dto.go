package status

import (
	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
	"terragrow/internal/domain/season"
)

type Request struct {
	SessionID string
}

type Response struct {
	Session          season.Snapshot         `json:"session"`
	Characteristics  region.Characteristics  `json:"characteristics"`
	RecommendedCrops []string                `json:"recommended_crops"`
	NextWeather      *agronomy.WeeklyWeather `json:"next_weather,omitempty"`
	LoanOffer        *season.LoanOffer       `json:"loan_offer,omitempty"`
}
