package step

import "terragrow/internal/domain/season"

type Request struct {
	SessionID    string
	IrrigationMM float64
	FertilizerKG float64
}

type Response struct {
	SessionID string `json:"session_id"`
	season.WeekResult
}
