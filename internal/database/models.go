package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alertdash/alertdash/internal/engine"
)

// FilterColumn stores a filter spec as a JSON column
type FilterColumn engine.FilterSpec

// Scan implements the sql.Scanner interface
func (f *FilterColumn) Scan(value interface{}) error {
	if value == nil {
		*f = FilterColumn{}
		return nil
	}
	bytes, err := columnBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, f)
}

// Value implements the driver.Valuer interface
func (f FilterColumn) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// OptionsColumn stores query options as a JSON column
type OptionsColumn engine.QueryOptions

// Scan implements the sql.Scanner interface
func (o *OptionsColumn) Scan(value interface{}) error {
	if value == nil {
		*o = OptionsColumn{}
		return nil
	}
	bytes, err := columnBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, o)
}

// Value implements the driver.Valuer interface
func (o OptionsColumn) Value() (driver.Value, error) {
	return json.Marshal(o)
}

// columnBytes normalizes the raw column value across drivers. SQLite hands
// text columns back as strings, Postgres as []byte.
func columnBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("type assertion to []byte failed")
	}
}

// FilterPreset is a saved filter configuration for the alert dashboard
type FilterPreset struct {
	ID          uint          `gorm:"primaryKey" json:"-"`
	UUID        string        `gorm:"type:varchar(36);uniqueIndex;not null" json:"id"`
	Name        string        `gorm:"type:varchar(128);uniqueIndex;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Filter      FilterColumn  `gorm:"type:text" json:"filter"`
	Options     OptionsColumn `gorm:"type:text" json:"options"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (FilterPreset) TableName() string {
	return "filter_presets"
}

// BeforeCreate assigns a UUID if the caller did not set one
func (p *FilterPreset) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	return nil
}

// EngineSettings controls dedup and grouping window behavior
type EngineSettings struct {
	ID                       uint      `gorm:"primaryKey" json:"id"`
	SuppressionWindowSeconds int       `gorm:"default:30" json:"suppression_window_seconds"`
	ActiveWindowMinutes      int       `gorm:"default:60" json:"active_window_minutes"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

func (EngineSettings) TableName() string {
	return "engine_settings"
}

// NewDefaultEngineSettings returns settings with default values
func NewDefaultEngineSettings() *EngineSettings {
	return &EngineSettings{
		SuppressionWindowSeconds: 30,
		ActiveWindowMinutes:      60,
	}
}

// SuppressionWindow returns the suppression window as a duration
func (s *EngineSettings) SuppressionWindow() time.Duration {
	return time.Duration(s.SuppressionWindowSeconds) * time.Second
}

// ActiveWindow returns the active window as a duration
func (s *EngineSettings) ActiveWindow() time.Duration {
	return time.Duration(s.ActiveWindowMinutes) * time.Minute
}
