// Package pricing holds the storefront's money rules: pizza size table,
// premium flavor surcharge, configured item prices and checkout totals.
package pricing

import (
	"errors"
	"fmt"
	"time"

	"pizzaria/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownSize     = errors.New("unknown pizza size")
	ErrCouponInactive  = errors.New("coupon is not active")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponExhausted = errors.New("coupon has reached its usage limit")
	ErrCouponMinOrder  = errors.New("order total is below the coupon minimum")
	ErrUnknownDiscount = errors.New("unknown discount type")
	hundred            = decimal.NewFromInt(100)
)

// Size is a pizza size code.
type Size string

const (
	SizeP  Size = "P"
	SizeM  Size = "M"
	SizeG  Size = "G"
	SizeGG Size = "GG"
)

// SizeSpec is the fixed price and flavor limit of a size.
type SizeSpec struct {
	Size       Size            `json:"size"`
	Label      string          `json:"label"`
	BasePrice  decimal.Decimal `json:"base_price"`
	MaxFlavors int             `json:"max_flavors"`
	Slices     int             `json:"slices"`
}

var sizeTable = []SizeSpec{
	{Size: SizeP, Label: "Small", BasePrice: decimal.NewFromInt(35), MaxFlavors: 2, Slices: 4},
	{Size: SizeM, Label: "Medium", BasePrice: decimal.NewFromInt(45), MaxFlavors: 2, Slices: 6},
	{Size: SizeG, Label: "Large", BasePrice: decimal.NewFromInt(55), MaxFlavors: 3, Slices: 8},
	{Size: SizeGG, Label: "Family", BasePrice: decimal.NewFromInt(65), MaxFlavors: 3, Slices: 12},
}

// Sizes returns the size table from smallest to largest.
func Sizes() []SizeSpec {
	out := make([]SizeSpec, len(sizeTable))
	copy(out, sizeTable)
	return out
}

// LookupSize returns the spec for a size code.
func LookupSize(code string) (SizeSpec, error) {
	for _, s := range sizeTable {
		if string(s.Size) == code {
			return s, nil
		}
	}
	return SizeSpec{}, fmt.Errorf("%w: %q", ErrUnknownSize, code)
}

// Surcharge is the premium surcharge for n premium flavor occurrences.
func Surcharge(premiumCount int, perFlavor decimal.Decimal) decimal.Decimal {
	return perFlavor.Mul(decimal.NewFromInt(int64(premiumCount)))
}

// PizzaPrice is the price of one configured pizza: size base price, plus the
// premium surcharge per premium flavor, plus the border.
func PizzaPrice(size SizeSpec, premiumCount int, perFlavor, border decimal.Decimal) decimal.Decimal {
	return size.BasePrice.Add(Surcharge(premiumCount, perFlavor)).Add(border)
}

// ComboPrice is combo_price + premium count × surcharge, plus the border
// charged once per pizza in the combo.
func ComboPrice(comboPrice decimal.Decimal, premiumCount int, perFlavor, border decimal.Decimal, pizzaCount int) decimal.Decimal {
	borders := border.Mul(decimal.NewFromInt(int64(pizzaCount)))
	return comboPrice.Add(Surcharge(premiumCount, perFlavor)).Add(borders)
}

// CouponSelectable returns nil when the coupon can be applied to an order of
// the given subtotal at time now, or the reason it cannot.
func CouponSelectable(c models.Coupon, subtotal decimal.Decimal, now time.Time) error {
	if !c.Active {
		return ErrCouponInactive
	}
	if c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return ErrCouponExpired
	}
	if c.MaxUses != nil && c.UsesCount >= *c.MaxUses {
		return ErrCouponExhausted
	}
	if subtotal.LessThan(c.MinOrderValue) {
		return ErrCouponMinOrder
	}
	return nil
}

// Discount is the amount a coupon takes off a subtotal. Percentages are
// rounded to cents.
func Discount(c *models.Coupon, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if c == nil {
		return decimal.Zero, nil
	}
	switch c.DiscountType {
	case models.DiscountPercentage:
		return subtotal.Mul(c.DiscountValue).Div(hundred).Round(2), nil
	case models.DiscountFixed:
		return c.DiscountValue, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownDiscount, c.DiscountType)
	}
}

// CheckoutInput carries everything the final total depends on.
type CheckoutInput struct {
	Subtotal     decimal.Decimal
	Coupon       *models.Coupon
	Delivery     models.DeliveryType
	DeliveryFee  decimal.Decimal
	FreeDelivery bool
}

// Totals is the priced breakdown of an order.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// Checkout computes max(0, subtotal - discount + delivery fee). The fee is
// waived for pickup and when the cart holds a free-delivery combo.
func Checkout(in CheckoutInput) (Totals, error) {
	discount, err := Discount(in.Coupon, in.Subtotal)
	if err != nil {
		return Totals{}, err
	}
	fee := in.DeliveryFee
	if in.Delivery == models.DeliveryPickup || in.FreeDelivery {
		fee = decimal.Zero
	}
	total := in.Subtotal.Sub(discount).Add(fee)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Totals{
		Subtotal:    in.Subtotal,
		Discount:    discount,
		DeliveryFee: fee,
		Total:       total,
	}, nil
}
