package loan

import "terragrow/internal/domain/season"

type Request struct {
	SessionID string
}

type Response struct {
	SessionID string `json:"session_id"`
	season.LoanResult
}
