package repositories

import (
	"fmt"

	"pizzaria/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository over the
// profiles and user_roles tables.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

func buildRoles(userID string, roles []models.Role) []models.UserRole {
	out := make([]models.UserRole, 0, len(roles))
	for _, role := range roles {
		out = append(out, models.UserRole{ID: uuid.New().String(), UserID: userID, Role: role})
	}
	return out
}

// Create creates a new profile with the given roles.
func (r *GORMUserRepository) Create(user *models.Profile, roles ...models.Role) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Roles = buildRoles(user.ID, roles)
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *GORMUserRepository) first(field, value string) (*models.Profile, error) {
	var user models.Profile
	if err := r.db.Preload("Roles").First(&user, field+" = ?", value).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("user with %s %s: %w", field, value, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by %s %s: %w", field, value, err)
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.Profile, error) {
	return r.first("username", username)
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.Profile, error) {
	return r.first("email", email)
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id string) (*models.Profile, error) {
	return r.first("id", id)
}

func (r *GORMUserRepository) GetAll() ([]models.Profile, error) {
	var users []models.Profile
	if err := r.db.Preload("Roles").Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// SetRoles replaces the roles of a user.
func (r *GORMUserRepository) SetRoles(userID string, roles ...models.Role) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Profile{}).Where("id = ?", userID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to look up user %s: %w", userID, err)
		}
		if n == 0 {
			return fmt.Errorf("user with ID %s: %w", userID, ErrNotFound)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error; err != nil {
			return fmt.Errorf("failed to clear roles: %w", err)
		}
		if len(roles) == 0 {
			return nil
		}
		rows := buildRoles(userID, roles)
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to save roles: %w", err)
		}
		return nil
	})
}

func (r *GORMUserRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&models.Profile{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
