package repositories

import (
	"fmt"

	"pizzaria/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

func (r *GORMCategoryRepository) GetAll() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("display_order, name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

func (r *GORMCategoryRepository) GetActive() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("active = ?", true).Order("display_order, name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get active categories: %w", err)
	}
	return categories, nil
}

func (r *GORMCategoryRepository) GetByID(id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("category with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by ID %s: %w", id, err)
	}
	return &category, nil
}

func (r *GORMCategoryRepository) Create(category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *GORMCategoryRepository) Update(category *models.Category) error {
	affected, err := updateAll(r.db, category)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category with ID %s for update: %w", category.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a category. Categories still holding products are kept.
func (r *GORMCategoryRepository) Delete(id string) error {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count products of category %s: %w", id, err)
	}
	if count > 0 {
		return fmt.Errorf("category %s still has %d products: %w", id, count, ErrConflict)
	}
	res := r.db.Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category with ID %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}
