package database

import (
	"errors"

	"gorm.io/gorm"
)

// ErrPresetNotFound is returned when a preset lookup misses
var ErrPresetNotFound = errors.New("filter preset not found")

// CreateFilterPreset persists a new preset
func CreateFilterPreset(db *gorm.DB, preset *FilterPreset) error {
	return db.Create(preset).Error
}

// ListFilterPresets returns all presets ordered by name
func ListFilterPresets(db *gorm.DB) ([]FilterPreset, error) {
	var presets []FilterPreset
	if err := db.Order("name asc").Find(&presets).Error; err != nil {
		return nil, err
	}
	return presets, nil
}

// GetFilterPreset returns one preset by UUID
func GetFilterPreset(db *gorm.DB, id string) (*FilterPreset, error) {
	var preset FilterPreset
	err := db.Where("uuid = ?", id).First(&preset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPresetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &preset, nil
}

// UpdateFilterPreset saves changes to an existing preset
func UpdateFilterPreset(db *gorm.DB, preset *FilterPreset) error {
	return db.Save(preset).Error
}

// DeleteFilterPreset removes a preset by UUID
func DeleteFilterPreset(db *gorm.DB, id string) error {
	result := db.Where("uuid = ?", id).Delete(&FilterPreset{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPresetNotFound
	}
	return nil
}
