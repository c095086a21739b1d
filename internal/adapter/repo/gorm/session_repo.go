package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"terragrow/internal/adapter/repo/gorm/model"
	"terragrow/internal/app/ports"
	"terragrow/internal/domain/season"
)

// SessionRepo keeps the full aggregate as a JSON document next to a few
// queryable columns. The version column guards concurrent writers.
type SessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) SessionRepo {
	return SessionRepo{db: db}
}

func (r SessionRepo) Create(ctx context.Context, s *season.Session) error {
	db := sessionDB(ctx, r.db)
	var count int64
	if err := db.Model(&model.GameSession{}).Where("session_id = ?", s.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ports.ErrConflict
	}
	row, err := toModel(s)
	if err != nil {
		return err
	}
	if err := db.Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r SessionRepo) Get(ctx context.Context, id string) (*season.Session, error) {
	var row model.GameSession
	err := sessionDB(ctx, r.db).Where("session_id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return fromModel(row)
}

func (r SessionRepo) Put(ctx context.Context, s *season.Session, expectedVersion int64) error {
	db := sessionDB(ctx, r.db)
	next := s.Clone()
	next.Version = expectedVersion + 1
	next.UpdatedAt = nonZero(next.UpdatedAt)
	row, err := toModel(next)
	if err != nil {
		return err
	}

	res := db.Model(&model.GameSession{}).
		Where("session_id = ? AND version = ?", s.ID, expectedVersion).
		Updates(map[string]any{
			"current_week": row.CurrentWeek,
			"budget":       row.Budget,
			"state_json":   row.StateJSON,
			"version":      row.Version,
			"updated_at":   row.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(&model.GameSession{}).Where("session_id = ?", s.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ports.ErrNotFound
		}
		return ports.ErrConflict
	}
	s.Version = next.Version
	return nil
}

func (r SessionRepo) Delete(ctx context.Context, id string) error {
	res := sessionDB(ctx, r.db).Where("session_id = ?", id).Delete(&model.GameSession{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func toModel(s *season.Session) (model.GameSession, error) {
	state, err := json.Marshal(s)
	if err != nil {
		return model.GameSession{}, fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	created := nonZero(s.CreatedAt)
	return model.GameSession{
		SessionID:   s.ID,
		RegionKey:   s.Region.Key,
		CropKey:     s.Crop.Params.Key,
		SoilKey:     s.Soil.Params.Key,
		CurrentWeek: int32(s.CurrentWeek),
		MaxWeeks:    int32(s.MaxWeeks),
		Budget:      s.Budget,
		StateJSON:   string(state),
		Version:     s.Version,
		CreatedAt:   created,
		UpdatedAt:   nonZero(s.UpdatedAt),
	}, nil
}

func fromModel(row model.GameSession) (*season.Session, error) {
	var s season.Session
	if err := json.Unmarshal([]byte(row.StateJSON), &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", row.SessionID, err)
	}
	s.Version = row.Version
	return &s, nil
}

func nonZero(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
