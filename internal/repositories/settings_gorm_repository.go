package repositories

import (
	"fmt"

	"pizzaria/internal/models"

	"gorm.io/gorm"
)

// GORMSettingsRepository is a GORM implementation of SettingsRepository.
type GORMSettingsRepository struct {
	db *gorm.DB
}

func NewGORMSettingsRepository(db *gorm.DB) *GORMSettingsRepository {
	return &GORMSettingsRepository{db: db}
}

// Get returns the settings row, or ErrNotFound before the store is seeded.
func (r *GORMSettingsRepository) Get() (*models.StoreSettings, error) {
	var settings models.StoreSettings
	if err := r.db.First(&settings, models.StoreSettingsID).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("store settings: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get store settings: %w", err)
	}
	return &settings, nil
}

// Save upserts the settings row.
func (r *GORMSettingsRepository) Save(settings *models.StoreSettings) error {
	settings.ID = models.StoreSettingsID
	if err := r.db.Save(settings).Error; err != nil {
		return fmt.Errorf("failed to save store settings: %w", err)
	}
	return nil
}
