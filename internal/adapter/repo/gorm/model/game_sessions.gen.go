package model

import "time"

const TableNameGameSession = "game_sessions"

// GameSession mapped from table <game_sessions>
type GameSession struct {
	SessionID   string    `gorm:"column:session_id;primaryKey" json:"session_id"`
	RegionKey   string    `gorm:"column:region_key;not null" json:"region_key"`
	CropKey     string    `gorm:"column:crop_key;not null" json:"crop_key"`
	SoilKey     string    `gorm:"column:soil_key;not null" json:"soil_key"`
	CurrentWeek int32     `gorm:"column:current_week;not null" json:"current_week"`
	MaxWeeks    int32     `gorm:"column:max_weeks;not null" json:"max_weeks"`
	Budget      float64   `gorm:"column:budget;not null" json:"budget"`
	StateJSON   string    `gorm:"column:state_json;not null" json:"state_json"`
	Version     int64     `gorm:"column:version;not null" json:"version"`
	CreatedAt   time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName GameSession's table name
func (*GameSession) TableName() string {
	return TableNameGameSession
}
