package models

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Profile is a back-office user.
type Profile struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username  string     `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email     string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	FullName  string     `json:"full_name" validate:"omitempty,max=100"`
	Password  string     `json:"password,omitempty" gorm:"type:varchar(255)" validate:"required,min=6"`
	Roles     []UserRole `json:"roles,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" validate:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// UserRole grants a role to a profile.
type UserRole struct {
	ID     string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID string `json:"user_id" gorm:"type:varchar(36);uniqueIndex:idx_user_role"`
	Role   Role   `json:"role" gorm:"type:varchar(16);uniqueIndex:idx_user_role"`
}

// HasRole reports whether the profile holds role r.
func (p Profile) HasRole(r Role) bool {
	for _, ur := range p.Roles {
		if ur.Role == r {
			return true
		}
	}
	return false
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Category{}, &Product{}, &BorderOption{}, &Combo{}, &ComboItem{},
		&Coupon{}, &StoreSettings{}, &Order{}, &OrderItem{}, &ChatMessage{},
		&Profile{}, &UserRole{},
	}
}
