package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryKind tells the configurator how products of a category are sold.
type CategoryKind string

const (
	CategoryPizza CategoryKind = "pizza"
	CategoryDrink CategoryKind = "drink"
	CategoryOther CategoryKind = "other"
)

// Category groups products on the menu.
type Category struct {
	ID           string       `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name         string       `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Kind         CategoryKind `json:"kind" gorm:"type:varchar(16);index" validate:"required,oneof=pizza drink other"`
	DisplayOrder int          `json:"display_order"`
	Active       bool         `json:"active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Product is a menu entry. Pizza-category products are the flavors; a
// nonzero BasePrice on a flavor marks it premium. For any other category
// BasePrice is the unit price.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	CategoryID  string          `json:"category_id" gorm:"type:varchar(36);index" validate:"required"`
	Category    *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID" validate:"-"`
	BasePrice   decimal.Decimal `json:"base_price" gorm:"type:numeric(10,2);not null;default:0"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsPremium reports whether the product, used as a flavor, carries the premium surcharge.
func (p Product) IsPremium() bool {
	return !p.BasePrice.IsZero()
}

// BorderOption is a crust add-on. The zero-price option means "no border".
type BorderOption struct {
	ID           string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name         string          `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Price        decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null;default:0"`
	Active       bool            `json:"active"`
	DisplayOrder int             `json:"display_order"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Combo bundles pizzas and a drink at a combo price.
//
// AllowedFlavorIDs and AllowedDrinkIDs are nil when unrestricted. An empty,
// non-nil list admits nothing; the distinction survives storage because the
// JSON serializer writes nil as SQL NULL and an empty list as "[]".
type Combo struct {
	ID               string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name             string          `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Description      string          `json:"description" validate:"omitempty,max=500"`
	RegularPrice     decimal.Decimal `json:"regular_price" gorm:"type:numeric(10,2);not null;default:0"`
	ComboPrice       decimal.Decimal `json:"combo_price" gorm:"type:numeric(10,2);not null;default:0"`
	PizzaSize        string          `json:"pizza_size" gorm:"type:varchar(2)" validate:"required,oneof=P M G GG"`
	PizzaCount       int             `json:"pizza_count" validate:"gte=0,lte=10"`
	IncludesDrink    bool            `json:"includes_drink"`
	AllowedFlavorIDs []string        `json:"allowed_flavor_ids" gorm:"serializer:json"`
	AllowedDrinkIDs  []string        `json:"allowed_drink_ids" gorm:"serializer:json"`
	FreeDelivery     bool            `json:"free_delivery"`
	Active           bool            `json:"active"`
	Items            []ComboItem     `json:"items,omitempty" gorm:"foreignKey:ComboID;constraint:OnDelete:CASCADE" validate:"-"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ComboItem lists a fixed extra shipped with a combo.
type ComboItem struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ComboID   string `json:"combo_id" gorm:"type:varchar(36);index"`
	ProductID string `json:"product_id" gorm:"type:varchar(36)" validate:"required"`
	Quantity  int    `json:"quantity" gorm:"default:1" validate:"gte=1"`
}

// AllowsFlavor reports whether a flavor id passes the combo's allow-list.
func (c Combo) AllowsFlavor(id string) bool {
	return allowed(c.AllowedFlavorIDs, id)
}

// AllowsDrink reports whether a drink id passes the combo's allow-list.
func (c Combo) AllowsDrink(id string) bool {
	return allowed(c.AllowedDrinkIDs, id)
}

func allowed(list []string, id string) bool {
	if list == nil {
		return true
	}
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
