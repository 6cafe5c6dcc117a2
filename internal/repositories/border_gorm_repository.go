package repositories

import (
	"fmt"

	"pizzaria/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBorderRepository is a GORM implementation of BorderRepository.
type GORMBorderRepository struct {
	db *gorm.DB
}

func NewGORMBorderRepository(db *gorm.DB) *GORMBorderRepository {
	return &GORMBorderRepository{db: db}
}

func (r *GORMBorderRepository) GetAll() ([]models.BorderOption, error) {
	var borders []models.BorderOption
	if err := r.db.Order("display_order, price").Find(&borders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all border options: %w", err)
	}
	return borders, nil
}

func (r *GORMBorderRepository) GetActive() ([]models.BorderOption, error) {
	var borders []models.BorderOption
	if err := r.db.Where("active = ?", true).Order("display_order, price").Find(&borders).Error; err != nil {
		return nil, fmt.Errorf("failed to get active border options: %w", err)
	}
	return borders, nil
}

func (r *GORMBorderRepository) GetByID(id string) (*models.BorderOption, error) {
	var border models.BorderOption
	if err := r.db.First(&border, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("border option with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get border option by ID %s: %w", id, err)
	}
	return &border, nil
}

func (r *GORMBorderRepository) Create(border *models.BorderOption) error {
	if border.ID == "" {
		border.ID = uuid.New().String()
	}
	if err := r.db.Create(border).Error; err != nil {
		return fmt.Errorf("failed to create border option: %w", err)
	}
	return nil
}

func (r *GORMBorderRepository) Update(border *models.BorderOption) error {
	affected, err := updateAll(r.db, border)
	if err != nil {
		return fmt.Errorf("failed to update border option: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("border option with ID %s for update: %w", border.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMBorderRepository) Delete(id string) error {
	res := r.db.Delete(&models.BorderOption{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete border option: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("border option with ID %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}
