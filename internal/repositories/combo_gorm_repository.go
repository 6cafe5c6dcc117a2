package repositories

import (
	"fmt"

	"pizzaria/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMComboRepository is a GORM implementation of ComboRepository.
type GORMComboRepository struct {
	db *gorm.DB
}

func NewGORMComboRepository(db *gorm.DB) *GORMComboRepository {
	return &GORMComboRepository{db: db}
}

func (r *GORMComboRepository) GetAll() ([]models.Combo, error) {
	var combos []models.Combo
	if err := r.db.Preload("Items").Order("name").Find(&combos).Error; err != nil {
		return nil, fmt.Errorf("failed to get all combos: %w", err)
	}
	return combos, nil
}

func (r *GORMComboRepository) GetActive() ([]models.Combo, error) {
	var combos []models.Combo
	if err := r.db.Preload("Items").Where("active = ?", true).Order("combo_price").Find(&combos).Error; err != nil {
		return nil, fmt.Errorf("failed to get active combos: %w", err)
	}
	return combos, nil
}

func (r *GORMComboRepository) GetByID(id string) (*models.Combo, error) {
	var combo models.Combo
	if err := r.db.Preload("Items").First(&combo, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("combo with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get combo by ID %s: %w", id, err)
	}
	return &combo, nil
}

func prepareComboItems(combo *models.Combo) {
	for i := range combo.Items {
		if combo.Items[i].ID == "" {
			combo.Items[i].ID = uuid.New().String()
		}
		combo.Items[i].ComboID = combo.ID
	}
}

func (r *GORMComboRepository) Create(combo *models.Combo) error {
	if combo.ID == "" {
		combo.ID = uuid.New().String()
	}
	prepareComboItems(combo)
	if err := r.db.Create(combo).Error; err != nil {
		return fmt.Errorf("failed to create combo: %w", err)
	}
	return nil
}

func (r *GORMComboRepository) Update(combo *models.Combo) error {
	prepareComboItems(combo)
	return r.db.Transaction(func(tx *gorm.DB) error {
		affected, err := updateAll(tx, combo, "Items")
		if err != nil {
			return fmt.Errorf("failed to update combo: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("combo with ID %s for update: %w", combo.ID, ErrNotFound)
		}
		if err := tx.Where("combo_id = ?", combo.ID).Delete(&models.ComboItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear combo items: %w", err)
		}
		if len(combo.Items) > 0 {
			if err := tx.Create(&combo.Items).Error; err != nil {
				return fmt.Errorf("failed to save combo items: %w", err)
			}
		}
		return nil
	})
}

func (r *GORMComboRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("combo_id = ?", id).Delete(&models.ComboItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete combo items: %w", err)
		}
		res := tx.Delete(&models.Combo{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete combo: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("combo with ID %s for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}
