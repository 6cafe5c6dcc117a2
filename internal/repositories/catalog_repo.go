package repositories

import (
	"pizzaria/internal/models"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	GetActive() ([]models.Category, error)
	GetByID(id string) (*models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id string) error
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	// GetActive returns active products of active categories, with the
	// category preloaded.
	GetActive() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}

// BorderRepository defines the interface for border option data access.
type BorderRepository interface {
	GetAll() ([]models.BorderOption, error)
	GetActive() ([]models.BorderOption, error)
	GetByID(id string) (*models.BorderOption, error)
	Create(border *models.BorderOption) error
	Update(border *models.BorderOption) error
	Delete(id string) error
}

// ComboRepository defines the interface for combo data access.
type ComboRepository interface {
	GetAll() ([]models.Combo, error)
	GetActive() ([]models.Combo, error)
	GetByID(id string) (*models.Combo, error)
	Create(combo *models.Combo) error
	// Update saves the combo and replaces its items.
	Update(combo *models.Combo) error
	Delete(id string) error
}
