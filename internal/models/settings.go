package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreSettingsID is the primary key of the single settings row.
const StoreSettingsID = 1

// StoreSettings holds the storefront switches edited from the admin panel.
// OpeningTime and ClosingTime are "HH:MM" in the store's local time; empty
// means the store follows IsOpen alone.
type StoreSettings struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	StoreName        string          `json:"store_name" validate:"required,max=100"`
	IsOpen           bool            `json:"is_open"`
	DeliveryFee      decimal.Decimal `json:"delivery_fee" gorm:"type:numeric(10,2);not null;default:0"`
	MinimumOrder     decimal.Decimal `json:"minimum_order" gorm:"type:numeric(10,2);not null;default:0"`
	PremiumSurcharge decimal.Decimal `json:"premium_surcharge" gorm:"type:numeric(10,2);not null"`
	OpeningTime      string          `json:"opening_time" validate:"omitempty,datetime=15:04"`
	ClosingTime      string          `json:"closing_time" validate:"omitempty,datetime=15:04"`
	WhatsAppNumber   string          `json:"whatsapp_number" validate:"omitempty,numeric,max=20"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// OpenAt reports whether orders are accepted at t. Hours that wrap past
// midnight (e.g. 18:00-02:00) are supported.
func (s StoreSettings) OpenAt(t time.Time) bool {
	if !s.IsOpen {
		return false
	}
	if s.OpeningTime == "" || s.ClosingTime == "" {
		return true
	}
	open, err1 := time.Parse("15:04", s.OpeningTime)
	closing, err2 := time.Parse("15:04", s.ClosingTime)
	if err1 != nil || err2 != nil {
		return true
	}
	now := t.Hour()*60 + t.Minute()
	from := open.Hour()*60 + open.Minute()
	to := closing.Hour()*60 + closing.Minute()
	if from <= to {
		return now >= from && now < to
	}
	return now >= from || now < to
}
