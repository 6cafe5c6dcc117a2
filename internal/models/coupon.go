package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a discount code redeemable at checkout.
type Coupon struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Code          string          `json:"code" gorm:"uniqueIndex;type:varchar(50)" validate:"required,min=3,max=50"`
	DiscountType  DiscountType    `json:"discount_type" gorm:"type:varchar(16)" validate:"required,oneof=percentage fixed"`
	DiscountValue decimal.Decimal `json:"discount_value" gorm:"type:numeric(10,2);not null"`
	MinOrderValue decimal.Decimal `json:"min_order_value" gorm:"type:numeric(10,2);not null;default:0"`
	MaxUses       *int            `json:"max_uses" validate:"omitempty,gte=1"`
	UsesCount     int             `json:"uses_count" gorm:"not null;default:0"`
	ExpiresAt     *time.Time      `json:"expires_at"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
