package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pizzaria/internal/events"
	"pizzaria/internal/models"
	"pizzaria/internal/services"
	"pizzaria/pkg/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fillCart(t *testing.T, f *fixture, productID string, qty int) string {
	t.Helper()
	c, _, err := f.carts.AddProduct(context.Background(), "", productID, qty)
	require.NoError(t, err)
	return c.ID
}

func pickupRequest(cartID string, method models.PaymentMethod) services.CheckoutRequest {
	return services.CheckoutRequest{
		CartID:        cartID,
		CustomerName:  "Ana",
		CustomerPhone: "11999990000",
		DeliveryType:  models.DeliveryPickup,
		PaymentMethod: method,
	}
}

func TestCheckoutService_QuoteWithPercentageCoupon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.coupons.Create(&models.Coupon{
		Code: "PIZZA10", DiscountType: models.DiscountPercentage, DiscountValue: decimal.NewFromInt(10), Active: true,
	}))
	cartID := fillCart(t, f, f.ids.guarana.ID, 4)

	q, err := f.checkout.Quote(ctx, cartID, models.DeliveryPickup, "pizza10")
	require.NoError(t, err)
	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(40)))
	assert.True(t, q.Discount.Equal(decimal.NewFromInt(4)))
	assert.True(t, q.DeliveryFee.IsZero())
	assert.True(t, q.Total.Equal(decimal.NewFromInt(36)))
	assert.Equal(t, "PIZZA10", q.CouponCode)

	q, err = f.checkout.Quote(ctx, cartID, models.DeliveryHome, "")
	require.NoError(t, err)
	assert.True(t, q.Total.Equal(decimal.NewFromInt(48)))
}

func TestCheckoutService_CouponSelection(t *testing.T) {
	f := newFixture(t)
	past := time.Now().Add(-time.Hour)
	one := 1
	for _, c := range []*models.Coupon{
		{Code: "BIG", DiscountType: models.DiscountFixed, DiscountValue: decimal.NewFromInt(5), MinOrderValue: decimal.NewFromInt(100), Active: true},
		{Code: "OLD", DiscountType: models.DiscountFixed, DiscountValue: decimal.NewFromInt(5), ExpiresAt: &past, Active: true},
		{Code: "OFF", DiscountType: models.DiscountFixed, DiscountValue: decimal.NewFromInt(5), Active: false},
		{Code: "ONCE", DiscountType: models.DiscountFixed, DiscountValue: decimal.NewFromInt(5), MaxUses: &one, Active: true},
	} {
		require.NoError(t, f.coupons.Create(c))
	}

	selectable, err := f.checkout.SelectableCoupons(decimal.NewFromInt(40))
	require.NoError(t, err)
	require.Len(t, selectable, 1)
	assert.Equal(t, "ONCE", selectable[0].Code)

	_, err = f.checkout.ApplicableCoupon("BIG", decimal.NewFromInt(40))
	assert.ErrorIs(t, err, services.ErrCouponNotApplicable)
	_, err = f.checkout.ApplicableCoupon("nope", decimal.NewFromInt(40))
	assert.ErrorIs(t, err, services.ErrCouponNotApplicable)
}

func TestCheckoutService_FixedDiscountNeverNegative(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.coupons.Create(&models.Coupon{
		Code: "HUGE", DiscountType: models.DiscountFixed, DiscountValue: decimal.NewFromInt(500), Active: true,
	}))
	cartID := fillCart(t, f, f.ids.coke.ID, 2)

	q, err := f.checkout.Quote(context.Background(), cartID, models.DeliveryHome, "HUGE")
	require.NoError(t, err)
	assert.True(t, q.Total.IsZero())
}

func TestCheckoutService_SubmitCashOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	maxUses := 1
	require.NoError(t, f.coupons.Create(&models.Coupon{
		Code: "ONCE", DiscountType: models.DiscountFixed, DiscountValue: decimal.NewFromInt(5), MaxUses: &maxUses, Active: true,
	}))
	changes, cancel := f.bus.Subscribe(events.EntityOrders)
	defer cancel()

	cartID := fillCart(t, f, f.ids.coke.ID, 2)
	req := pickupRequest(cartID, models.PaymentCash)
	req.CouponCode = "once"
	req.ChangeFor = decimal.NewFromInt(50)

	res, err := f.checkout.Submit(ctx, req)
	require.NoError(t, err)
	assert.False(t, res.PaymentPending)
	assert.Empty(t, res.CheckoutURL)
	assert.True(t, strings.HasPrefix(res.WhatsAppURL, "https://wa.me/5511999990000?text="))
	assert.Equal(t, models.StatusPending, res.Order.Status)
	assert.True(t, res.Order.Total.Equal(decimal.NewFromInt(19)))
	assert.Equal(t, "ONCE", res.Order.CouponCode)
	f.gateway.AssertNotCalled(t, "CreatePreference", mock.Anything)

	stored, err := f.orders.GetByID(res.Order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)

	c, err := f.carts.Get(ctx, cartID)
	require.NoError(t, err)
	assert.True(t, c.Empty())

	select {
	case ch := <-changes:
		assert.Equal(t, res.Order.ID, ch.ID)
	case <-time.After(time.Second):
		t.Fatal("no order change published")
	}

	// The coupon is now used up.
	cartID = fillCart(t, f, f.ids.coke.ID, 2)
	req.CartID = cartID
	_, err = f.checkout.Submit(ctx, req)
	assert.ErrorIs(t, err, services.ErrCouponNotApplicable)
}

func TestCheckoutService_SubmitRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.checkout.Submit(ctx, pickupRequest("empty", models.PaymentCash))
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	cartID := fillCart(t, f, f.ids.guarana.ID, 1)
	_, err = f.checkout.Submit(ctx, pickupRequest(cartID, models.PaymentCash))
	assert.ErrorIs(t, err, services.ErrBelowMinimum)

	_, err = f.settingsSvc.SetOpen(ctx, false)
	require.NoError(t, err)
	require.NoError(t, f.catalog.Invalidate(ctx, "store_settings"))
	cartID = fillCart(t, f, f.ids.guarana.ID, 5)
	_, err = f.checkout.Submit(ctx, pickupRequest(cartID, models.PaymentCash))
	assert.ErrorIs(t, err, services.ErrStoreClosed)

	// Rejected submissions leave the cart alone.
	c, err := f.carts.Get(ctx, cartID)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Count())
}

func TestCheckoutService_OnlinePayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.gateway.On("CreatePreference", mock.MatchedBy(func(req payment.PreferenceRequest) bool {
		return req.NotificationURL == "https://pizza.example.com/api/v1/payments/webhook" && req.Items[0].UnitPrice == 24
	})).Return(&payment.Preference{ID: "pref-1", CheckoutURL: "https://pay.example/pref-1"}, nil).Once()

	cartID := fillCart(t, f, f.ids.coke.ID, 2)
	res, err := f.checkout.Submit(ctx, pickupRequest(cartID, models.PaymentPix))
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/pref-1", res.CheckoutURL)
	assert.False(t, res.PaymentPending)
	f.gateway.AssertExpectations(t)

	stored, err := f.orders.GetByID(res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, "pref-1", stored.PaymentID)
}

func TestCheckoutService_PaymentFailureKeepsOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.gateway.On("CreatePreference", mock.Anything).Return(nil, errors.New("gateway down")).Once()

	cartID := fillCart(t, f, f.ids.coke.ID, 2)
	res, err := f.checkout.Submit(ctx, pickupRequest(cartID, models.PaymentCreditCard))
	require.NoError(t, err)
	assert.True(t, res.PaymentPending)
	assert.NotEmpty(t, res.Message)

	_, err = f.orders.GetByID(res.Order.ID)
	assert.NoError(t, err)
	c, err := f.carts.Get(ctx, cartID)
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestCheckoutService_FreeDeliveryCombo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.configurator.StartCombo(ctx, f.ids.familyCombo.ID)
	require.NoError(t, err)
	for _, id := range []string{f.ids.calabresa.ID, "", f.ids.marg.ID, ""} {
		if id == "" {
			_, err = f.configurator.Next(ctx, sess.ID)
		} else {
			_, err = f.configurator.ToggleFlavor(ctx, sess.ID, id)
		}
		require.NoError(t, err)
	}
	_, err = f.configurator.SelectDrink(ctx, sess.ID, f.ids.coke.ID)
	require.NoError(t, err)
	_, err = f.configurator.Next(ctx, sess.ID)
	require.NoError(t, err)
	_, err = f.configurator.Next(ctx, sess.ID)
	require.NoError(t, err)
	c, _, err := f.configurator.Finish(ctx, sess.ID, "")
	require.NoError(t, err)

	q, err := f.checkout.Quote(ctx, c.ID, models.DeliveryHome, "")
	require.NoError(t, err)
	assert.True(t, q.FreeDelivery)
	assert.True(t, q.DeliveryFee.IsZero())
	assert.True(t, q.Total.Equal(decimal.NewFromInt(90)))
}
