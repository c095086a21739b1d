package replay

import "terragrow/internal/domain/season"

type Request struct {
	SessionID string
	FromWeek  int
	ToWeek    int
}

type Response struct {
	SessionID   string               `json:"session_id"`
	Weeks       []season.WeekLog     `json:"weeks"`
	Events      []season.EventRecord `json:"events"`
	NDVITrend   []float64            `json:"ndvi_trend"`
	LatestWeek  int                  `json:"latest_week"`
	TotalCosts  float64              `json:"total_costs"`
	PeakNDVI    float64              `json:"peak_ndvi"`
	StressWeeks int                  `json:"stress_weeks"`
}
