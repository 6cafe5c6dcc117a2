package repositories

import "pizzaria/internal/models"

// UserRepository defines the interface for back-office user data access.
type UserRepository interface {
	Create(user *models.Profile, roles ...models.Role) error
	GetByUsername(username string) (*models.Profile, error)
	GetByEmail(email string) (*models.Profile, error)
	GetByID(id string) (*models.Profile, error)
	GetAll() ([]models.Profile, error)
	SetRoles(userID string, roles ...models.Role) error
	Count() (int64, error)
}
