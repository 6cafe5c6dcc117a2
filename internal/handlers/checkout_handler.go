package handlers

import (
	"pizzaria/internal/models"
	"pizzaria/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler prices carts and places orders.
type CheckoutHandler struct {
	checkout *services.CheckoutService
	carts    *services.CartService
	validate *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkout *services.CheckoutService, carts *services.CartService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, carts: carts, validate: validator.New()}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Get("/quote", h.HandleQuote)
	checkoutRoutes.Get("/coupons", h.HandleCoupons)
	checkoutRoutes.Post("/", h.HandleSubmit)
}

// QuoteQuery is read from the query string of GET /checkout/quote.
type QuoteQuery struct {
	CartID       string              `query:"cart_id" validate:"required"`
	DeliveryType models.DeliveryType `query:"delivery_type" validate:"omitempty,oneof=delivery pickup"`
	CouponCode   string              `query:"coupon_code" validate:"max=50"`
}

// HandleQuote prices a cart for the given delivery type and coupon.
func (h *CheckoutHandler) HandleQuote(c *fiber.Ctx) error {
	var q QuoteQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	if q.DeliveryType == "" {
		q.DeliveryType = models.DeliveryHome
	}
	quote, err := h.checkout.Quote(c.UserContext(), q.CartID, q.DeliveryType, q.CouponCode)
	if err != nil {
		return fail(c, "Could not price cart", err)
	}
	return c.JSON(quote)
}

// HandleCoupons lists the coupons the cart currently qualifies for.
func (h *CheckoutHandler) HandleCoupons(c *fiber.Ctx) error {
	cartID := c.Query("cart_id")
	if cartID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "cart_id is required",
		})
	}
	ct, err := h.carts.Get(c.UserContext(), cartID)
	if err != nil {
		return fail(c, "Could not retrieve cart", err)
	}
	coupons, err := h.checkout.SelectableCoupons(ct.Total())
	if err != nil {
		return fail(c, "Could not list coupons", err)
	}
	return c.JSON(coupons)
}

// HandleSubmit places the order. A gateway failure after the order is
// stored still answers 201 with payment_pending set.
func (h *CheckoutHandler) HandleSubmit(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	result, err := h.checkout.Submit(c.UserContext(), req)
	if err != nil {
		return fail(c, "Order could not be placed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
