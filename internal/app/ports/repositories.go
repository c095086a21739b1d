package ports

import (
	"context"
	"time"

	"terragrow/internal/domain/season"
)

// TxManager runs fn as one unit of work; repositories called with the
// context passed to fn take part in it.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SessionRepository hands out copies. Put succeeds only when the stored
// version equals expectedVersion and bumps it by one.
type SessionRepository interface {
	Create(ctx context.Context, s *season.Session) error
	Get(ctx context.Context, id string) (*season.Session, error)
	Put(ctx context.Context, s *season.Session, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
}

type ScoreRecord struct {
	SessionID      string    `json:"session_id" db:"session_id"`
	RegionKey      string    `json:"region_key" db:"region_key"`
	RegionName     string    `json:"region_name" db:"region_name"`
	CropKey        string    `json:"crop" db:"crop_key"`
	SoilKey        string    `json:"soil" db:"soil_key"`
	Yield          float64   `json:"yield" db:"yield"`
	Profit         float64   `json:"profit" db:"profit"`
	Sustainability float64   `json:"sustainability_score" db:"sustainability"`
	Stars          int       `json:"stars" db:"stars"`
	LoanTaken      bool      `json:"loan_taken" db:"loan_taken"`
	FinishedAt     time.Time `json:"finished_at" db:"finished_at"`
}

type ScoreArchive interface {
	Record(ctx context.Context, rec ScoreRecord) error
	// Top returns the best records by profit; an empty regionKey spans all regions.
	Top(ctx context.Context, regionKey string, limit int) ([]ScoreRecord, error)
}
