package handlers

import (
	"strconv"

	"pizzaria/internal/middleware"
	"pizzaria/internal/models"
	"pizzaria/internal/repositories"
	"pizzaria/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AlertState reports whether the pending-order alert is ringing.
type AlertState interface {
	Active() bool
}

// OrderHandler handles HTTP requests for orders and their chat.
type OrderHandler struct {
	service  *services.OrderService
	chat     *services.ChatService
	alert    AlertState
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler. alert may be nil.
func NewOrderHandler(service *services.OrderService, chat *services.ChatService, alert AlertState) *OrderHandler {
	return &OrderHandler{
		service:  service,
		chat:     chat,
		alert:    alert,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the customer-facing order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/:id", h.HandleTrackOrder)
	orderRoutes.Get("/:id/messages", h.HandleGetMessages)
	orderRoutes.Post("/:id/messages", h.handleSend(models.SenderCustomer))
	orderRoutes.Post("/:id/messages/read", h.handleMarkRead(models.SenderCustomer))
}

// RegisterAdminRoutes registers the back-office order routes. The router is
// expected to be behind AuthRequired.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/pending", h.HandlePending)
	orderRoutes.Get("/unread", h.HandleUnread)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Post("/:id/advance", h.HandleAdvanceOrder)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Get("/:id/receipt", h.HandleReceipt)
	orderRoutes.Get("/:id/messages", h.HandleGetMessages)
	orderRoutes.Post("/:id/messages", h.handleSend(models.SenderStaff))
	orderRoutes.Post("/:id/messages/read", h.handleMarkRead(models.SenderStaff))
}

// HandleTrackOrder returns the order with its progress step.
func (h *OrderHandler) HandleTrackOrder(c *fiber.Ctx) error {
	tracking, err := h.service.Track(c.Params("id"))
	if err != nil {
		return fail(c, "Could not retrieve order", err)
	}
	return c.JSON(tracking)
}

// HandleGetOrders lists orders, newest first, optionally by status.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	filter := repositories.OrderFilter{Status: models.OrderStatus(c.Query("status"))}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "limit must be a non-negative integer",
			})
		}
		filter.Limit = limit
	}
	orders, err := h.service.GetAllOrders(filter)
	if err != nil {
		return fail(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandlePending reports the pending count and whether the alert is active.
func (h *OrderHandler) HandlePending(c *fiber.Ctx) error {
	n, err := h.service.CountPending()
	if err != nil {
		return fail(c, "Could not count pending orders", err)
	}
	active := false
	if h.alert != nil {
		active = h.alert.Active()
	}
	return c.JSON(fiber.Map{"pending": n, "alert": active})
}

func (h *OrderHandler) HandleUnread(c *fiber.Ctx) error {
	unread, err := h.chat.UnreadForStaff()
	if err != nil {
		return fail(c, "Could not count unread messages", err)
	}
	return c.JSON(unread)
}

func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.Params("id"))
	if err != nil {
		return fail(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// UpdateStatusRequest is the body of PATCH /orders/:id/status.
type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	order, err := h.service.UpdateOrderStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return fail(c, "Could not update order status", err)
	}
	return c.JSON(fiber.Map{
		"message": "Order status updated successfully",
		"order":   order,
	})
}

func (h *OrderHandler) HandleAdvanceOrder(c *fiber.Ctx) error {
	order, err := h.service.AdvanceOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "Could not advance order", err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	order, err := h.service.CancelOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "Could not cancel order", err)
	}
	return c.JSON(order)
}

// HandleReceipt returns the printable receipt as plain text.
func (h *OrderHandler) HandleReceipt(c *fiber.Ctx) error {
	text, err := h.service.Receipt(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "Could not render receipt", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(text)
}

func (h *OrderHandler) HandleGetMessages(c *fiber.Ctx) error {
	msgs, err := h.chat.Messages(c.Params("id"))
	if err != nil {
		return fail(c, "Could not retrieve messages", err)
	}
	return c.JSON(msgs)
}

// SendMessageRequest is a chat message body.
type SendMessageRequest struct {
	SenderName string `json:"sender_name" validate:"omitempty,max=100"`
	Body       string `json:"body" validate:"required,max=2000"`
}

func (h *OrderHandler) handleSend(role models.SenderRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req SendMessageRequest
		if ok, err := parseAndValidate(c, h.validate, &req); !ok {
			return err
		}
		name := req.SenderName
		if role == models.SenderStaff && name == "" {
			name = middleware.Username(c)
		}
		msg, err := h.chat.Send(c.UserContext(), c.Params("id"), role, name, req.Body)
		if err != nil {
			return fail(c, "Could not send message", err)
		}
		return c.Status(fiber.StatusCreated).JSON(msg)
	}
}

func (h *OrderHandler) handleMarkRead(reader models.SenderRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := h.chat.MarkRead(c.UserContext(), c.Params("id"), reader)
		if err != nil {
			return fail(c, "Could not mark messages as read", err)
		}
		return c.JSON(fiber.Map{"marked": n})
	}
}
