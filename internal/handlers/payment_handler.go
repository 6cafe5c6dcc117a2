package handlers

import (
	"log"

	"pizzaria/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler receives payment gateway notifications.
type PaymentHandler struct {
	orders *services.OrderService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(orders *services.OrderService) *PaymentHandler {
	return &PaymentHandler{orders: orders}
}

// RegisterRoutes registers the webhook route with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/payments/webhook", h.HandleWebhook)
}

// HandleWebhook applies a payment notification to its order. The payment id
// may arrive in the body or, as some gateways send it, in the query string.
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	var notice services.PaymentNotice
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&notice); err != nil {
			return badBody(c, err)
		}
	}
	if notice.PaymentID == "" && notice.Data.ID == "" {
		notice.Data.ID = c.Query("data.id", c.Query("id"))
	}
	if topic := c.Query("type", c.Query("topic")); topic != "" && topic != "payment" {
		log.Printf("Ignoring %s notification", topic)
		return c.JSON(fiber.Map{"message": "Notification ignored"})
	}

	order, err := h.orders.ApplyPayment(c.UserContext(), notice)
	if err != nil {
		return fail(c, "Could not apply payment notification", err)
	}
	return c.JSON(fiber.Map{
		"message":        "Payment notification processed",
		"order_id":       order.ID,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
	})
}
