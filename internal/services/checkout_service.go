package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"pizzaria/internal/cart"
	"pizzaria/internal/events"
	"pizzaria/internal/models"
	"pizzaria/internal/pricing"
	"pizzaria/internal/receipt"
	"pizzaria/internal/repositories"
	"pizzaria/pkg/payment"

	"github.com/shopspring/decimal"
)

// PaymentGateway creates hosted checkouts. *payment.Client implements it.
type PaymentGateway interface {
	CreatePreference(ctx context.Context, req payment.PreferenceRequest) (*payment.Preference, error)
}

// CheckoutRequest is the customer's submission.
type CheckoutRequest struct {
	CartID        string               `json:"cart_id" validate:"required"`
	CustomerName  string               `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone string               `json:"customer_phone" validate:"required,min=8,max=20"`
	CustomerEmail string               `json:"customer_email" validate:"omitempty,email"`
	DeliveryType  models.DeliveryType  `json:"delivery_type" validate:"required,oneof=delivery pickup"`
	Address       string               `json:"address" validate:"required_if=DeliveryType delivery,max=300"`
	Notes         string               `json:"notes" validate:"max=500"`
	PaymentMethod models.PaymentMethod `json:"payment_method" validate:"required,oneof=pix credit_card debit_card cash"`
	ChangeFor     decimal.Decimal      `json:"change_for"`
	CouponCode    string               `json:"coupon_code" validate:"max=50"`
}

// Quote is the priced preview of a cart.
type Quote struct {
	pricing.Totals
	CouponCode   string          `json:"coupon_code,omitempty"`
	FreeDelivery bool            `json:"free_delivery"`
	StoreOpen    bool            `json:"store_open"`
	MinimumOrder decimal.Decimal `json:"minimum_order"`
	ItemCount    int             `json:"item_count"`
}

// CheckoutResult is what the customer sees after submitting.
type CheckoutResult struct {
	Order          *models.Order `json:"order"`
	CheckoutURL    string        `json:"checkout_url,omitempty"`
	PaymentPending bool          `json:"payment_pending"`
	Message        string        `json:"message"`
	WhatsAppURL    string        `json:"whatsapp_url,omitempty"`
}

// CheckoutService prices carts and turns them into orders.
type CheckoutService struct {
	catalog       *CatalogService
	carts         *CartService
	coupons       repositories.CouponRepository
	orders        repositories.OrderRepository
	gateway       PaymentGateway
	pub           events.Publisher
	publicBaseURL string
	now           func() time.Time
}

// NewCheckoutService creates a CheckoutService. gateway may be nil, in which
// case online payments are left pending for manual handling.
func NewCheckoutService(
	catalog *CatalogService,
	carts *CartService,
	coupons repositories.CouponRepository,
	orders repositories.OrderRepository,
	gateway PaymentGateway,
	pub events.Publisher,
	publicBaseURL string,
) *CheckoutService {
	return &CheckoutService{
		catalog:       catalog,
		carts:         carts,
		coupons:       coupons,
		orders:        orders,
		gateway:       gateway,
		pub:           pub,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
	}
}

// ApplicableCoupon looks up code and checks it against subtotal.
func (s *CheckoutService) ApplicableCoupon(code string, subtotal decimal.Decimal) (*models.Coupon, error) {
	c, err := s.coupons.GetByCode(code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown code %s", ErrCouponNotApplicable, strings.ToUpper(strings.TrimSpace(code)))
		}
		return nil, err
	}
	if err := pricing.CouponSelectable(*c, subtotal, s.now()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCouponNotApplicable, err)
	}
	return c, nil
}

// SelectableCoupons lists the coupons an order of subtotal may use.
func (s *CheckoutService) SelectableCoupons(subtotal decimal.Decimal) ([]models.Coupon, error) {
	all, err := s.coupons.GetAll()
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := []models.Coupon{}
	for _, c := range all {
		if pricing.CouponSelectable(c, subtotal, now) == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *CheckoutService) price(ctx context.Context, c *cart.Cart, delivery models.DeliveryType, couponCode string) (*Quote, *models.Coupon, *models.StoreSettings, error) {
	settings, err := s.catalog.Settings(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	subtotal := c.Total()
	var coupon *models.Coupon
	if strings.TrimSpace(couponCode) != "" {
		if coupon, err = s.ApplicableCoupon(couponCode, subtotal); err != nil {
			return nil, nil, nil, err
		}
	}
	totals, err := pricing.Checkout(pricing.CheckoutInput{
		Subtotal:     subtotal,
		Coupon:       coupon,
		Delivery:     delivery,
		DeliveryFee:  settings.DeliveryFee,
		FreeDelivery: c.FreeDelivery(),
	})
	if err != nil {
		return nil, nil, nil, err
	}
	q := &Quote{
		Totals:       totals,
		FreeDelivery: c.FreeDelivery(),
		StoreOpen:    settings.OpenAt(s.now()),
		MinimumOrder: settings.MinimumOrder,
		ItemCount:    c.Count(),
	}
	if coupon != nil {
		q.CouponCode = coupon.Code
	}
	return q, coupon, settings, nil
}

// Quote prices the cart without placing an order.
func (s *CheckoutService) Quote(ctx context.Context, cartID string, delivery models.DeliveryType, couponCode string) (*Quote, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	q, _, _, err := s.price(ctx, c, delivery, couponCode)
	return q, err
}

// Submit validates the cart against the store rules, persists the order and
// asks the gateway for a checkout link. Once the order row exists the cart
// is cleared even if the gateway fails; the result is then flagged
// PaymentPending.
func (s *CheckoutService) Submit(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	c, err := s.carts.Get(ctx, req.CartID)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		return nil, ErrEmptyCart
	}

	q, coupon, settings, err := s.price(ctx, c, req.DeliveryType, req.CouponCode)
	if err != nil {
		return nil, err
	}
	if !q.StoreOpen {
		return nil, ErrStoreClosed
	}
	if q.Subtotal.LessThan(settings.MinimumOrder) {
		return nil, fmt.Errorf("%w: minimum is %s", ErrBelowMinimum, settings.MinimumOrder.StringFixed(2))
	}

	order := &models.Order{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		DeliveryType:  req.DeliveryType,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentPending,
		Subtotal:      q.Subtotal,
		Discount:      q.Discount,
		DeliveryFee:   q.DeliveryFee,
		Total:         q.Total,
		Status:        models.StatusPending,
	}
	if req.DeliveryType == models.DeliveryHome {
		order.Address = strings.TrimSpace(req.Address)
	}
	if req.PaymentMethod == models.PaymentCash {
		order.ChangeFor = req.ChangeFor
	}
	couponID := ""
	if coupon != nil {
		order.CouponCode = coupon.Code
		couponID = coupon.ID
	}
	for _, item := range c.Items {
		order.Items = append(order.Items, models.OrderItem{
			Type:     item.Type,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Flavors:  item.Flavors,
			SizeInfo: item.SizeInfo,
		})
	}

	if err := s.orders.Create(order, couponID); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, fmt.Errorf("%w: %v", ErrCouponNotApplicable, err)
		}
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	announce(ctx, s.pub, events.EntityOrders, events.ActionInsert, order.ID, order)
	if coupon != nil {
		announce(ctx, s.pub, events.EntityCoupons, events.ActionUpdate, coupon.ID, nil)
	}

	result := &CheckoutResult{
		Order:       order,
		Message:     "Order placed successfully",
		WhatsAppURL: receipt.WhatsAppLink(settings.WhatsAppNumber, receipt.Summary(order)),
	}
	if req.PaymentMethod.Online() {
		url, err := s.createPreference(ctx, order)
		if err != nil {
			log.Printf("Payment preference for order %s failed: %v", order.ID, err)
			result.PaymentPending = true
			result.Message = "Order placed, but online payment is unavailable right now. We will contact you to arrange payment."
		} else {
			result.CheckoutURL = url
		}
	}

	if _, err := s.carts.Clear(ctx, c.ID); err != nil {
		log.Printf("Failed to clear cart %s after order %s: %v", c.ID, order.ID, err)
	}
	return result, nil
}

func (s *CheckoutService) createPreference(ctx context.Context, order *models.Order) (string, error) {
	if s.gateway == nil {
		return "", errors.New("no payment gateway configured")
	}
	req := payment.PreferenceRequest{
		OrderID: order.ID,
		Items: []payment.Item{{
			Title:     "Order " + receipt.ShortID(order.ID),
			Quantity:  1,
			UnitPrice: order.Total.InexactFloat64(),
		}},
		Payer: payment.Payer{
			Name:  order.CustomerName,
			Email: order.CustomerEmail,
			Phone: order.CustomerPhone,
		},
		PaymentMethod: string(order.PaymentMethod),
	}
	if s.publicBaseURL != "" {
		req.NotificationURL = s.publicBaseURL + "/api/v1/payments/webhook"
		orderURL := s.publicBaseURL + "/orders/" + order.ID
		req.BackURLs = map[string]string{"success": orderURL, "pending": orderURL, "failure": orderURL}
	}
	pref, err := s.gateway.CreatePreference(ctx, req)
	if err != nil {
		return "", err
	}
	if err := s.orders.UpdatePaymentGuard(order.ID, []models.PaymentStatus{models.PaymentPending}, models.PaymentPending, pref.ID); err != nil {
		log.Printf("Failed to record preference %s on order %s: %v", pref.ID, order.ID, err)
	} else {
		order.PaymentID = pref.ID
	}
	return pref.CheckoutURL, nil
}
