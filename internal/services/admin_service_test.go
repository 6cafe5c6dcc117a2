package services_test

import (
	"context"
	"testing"

	"pizzaria/internal/events"
	"pizzaria/internal/models"
	"pizzaria/internal/repositories"
	"pizzaria/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponService_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	zero := 0

	tests := []struct {
		name   string
		coupon models.Coupon
	}{
		{"unknown type", models.Coupon{Code: "BAD1", DiscountType: "bogus", DiscountValue: decimal.NewFromInt(5)}},
		{"percentage over 100", models.Coupon{Code: "BAD2", DiscountType: models.DiscountPercentage, DiscountValue: decimal.NewFromInt(120)}},
		{"zero value", models.Coupon{Code: "BAD3", DiscountType: models.DiscountFixed, DiscountValue: decimal.Zero}},
		{"negative minimum", models.Coupon{Code: "BAD4", DiscountType: models.DiscountFixed, DiscountValue: decimal.NewFromInt(5), MinOrderValue: decimal.NewFromInt(-1)}},
		{"zero max uses", models.Coupon{Code: "BAD5", DiscountType: models.DiscountFixed, DiscountValue: decimal.NewFromInt(5), MaxUses: &zero}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.coupon
			assert.ErrorIs(t, f.couponSvc.CreateCoupon(ctx, &c), services.ErrInvalidInput)
		})
	}
}

func TestCouponService_CodesAreUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	changes, cancel := f.bus.Subscribe(events.EntityCoupons)
	defer cancel()

	first := &models.Coupon{Code: "pizza10", DiscountType: models.DiscountPercentage, DiscountValue: decimal.NewFromInt(10), Active: true, UsesCount: 7}
	require.NoError(t, f.couponSvc.CreateCoupon(ctx, first))
	assert.Equal(t, "PIZZA10", first.Code)
	assert.Equal(t, 0, first.UsesCount)
	assert.Equal(t, events.ActionInsert, (<-changes).Action)

	dup := &models.Coupon{Code: "Pizza10", DiscountType: models.DiscountFixed, DiscountValue: decimal.NewFromInt(3)}
	assert.ErrorIs(t, f.couponSvc.CreateCoupon(ctx, dup), services.ErrAlreadyExists)

	other := &models.Coupon{Code: "OTHER", DiscountType: models.DiscountFixed, DiscountValue: decimal.NewFromInt(3)}
	require.NoError(t, f.couponSvc.CreateCoupon(ctx, other))
	other.Code = "PIZZA10"
	assert.ErrorIs(t, f.couponSvc.UpdateCoupon(ctx, other), services.ErrAlreadyExists)

	require.NoError(t, f.couponSvc.DeleteCoupon(ctx, other.ID))
	_, err := f.couponSvc.GetCouponByID(other.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestComboService_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bad := &models.Combo{Name: "Huge", PizzaSize: "XL", PizzaCount: 1, ComboPrice: decimal.NewFromInt(10)}
	assert.ErrorIs(t, f.comboSvc.CreateCombo(ctx, bad), services.ErrInvalidInput)

	negative := &models.Combo{Name: "Cheap", PizzaSize: "P", PizzaCount: 1, ComboPrice: decimal.NewFromInt(-1)}
	assert.ErrorIs(t, f.comboSvc.CreateCombo(ctx, negative), services.ErrInvalidInput)

	ok := &models.Combo{Name: "Lunch", PizzaSize: "P", PizzaCount: 1, ComboPrice: decimal.NewFromInt(30), AllowedDrinkIDs: []string{}}
	require.NoError(t, f.comboSvc.CreateCombo(ctx, ok))

	got, err := f.comboSvc.GetComboByID(ok.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.AllowedDrinkIDs)
	assert.Empty(t, got.AllowedDrinkIDs)
	assert.Nil(t, got.AllowedFlavorIDs)
}

func TestProductService_RequiresCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := &models.Product{Name: "Orphan", CategoryID: "missing", Active: true}
	assert.ErrorIs(t, f.productSvc.CreateProduct(ctx, p), repositories.ErrNotFound)

	err := f.productSvc.DeleteCategory(ctx, f.ids.pizzas.ID)
	assert.ErrorIs(t, err, repositories.ErrConflict)
}

func TestSettingsService_SaveAndToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	changes, cancel := f.bus.Subscribe(events.EntitySettings)
	defer cancel()

	settings, err := f.settingsSvc.SetOpen(ctx, false)
	require.NoError(t, err)
	assert.False(t, settings.IsOpen)
	assert.Equal(t, events.ActionUpdate, (<-changes).Action)

	stored, err := f.settingsSvc.Get()
	require.NoError(t, err)
	assert.False(t, stored.IsOpen)
	assert.Equal(t, "Bella", stored.StoreName)

	stored.DeliveryFee = decimal.NewFromInt(-2)
	assert.ErrorIs(t, f.settingsSvc.Save(ctx, stored), services.ErrInvalidInput)
}
