package harvest

import "terragrow/internal/domain/season"

type Request struct {
	SessionID string
}

type Response struct {
	SessionID  string `json:"session_id"`
	RegionName string `json:"region_name"`
	CropName   string `json:"crop_name"`
	season.ScoreReport
}
