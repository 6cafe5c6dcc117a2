package repositories

import (
	"pizzaria/internal/models"
)

// CouponRepository defines the interface for coupon data access.
type CouponRepository interface {
	GetAll() ([]models.Coupon, error)
	GetByID(id string) (*models.Coupon, error)
	// GetByCode looks a coupon up case-insensitively.
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	Update(coupon *models.Coupon) error
	Delete(id string) error
}

// SettingsRepository reads and writes the single store settings row.
type SettingsRepository interface {
	Get() (*models.StoreSettings, error)
	Save(settings *models.StoreSettings) error
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status models.OrderStatus
	Limit  int
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll(filter OrderFilter) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	// Create inserts the order and its items. When couponID is set the
	// coupon's usage counter is incremented in the same transaction, and
	// the insert fails with ErrConflict if the coupon is exhausted.
	Create(order *models.Order, couponID string) error
	// UpdateStatusGuard moves the order from one status to another only if
	// it is still in from.
	UpdateStatusGuard(id string, from, to models.OrderStatus) error
	// UpdatePaymentGuard sets the payment status only if the current one is
	// in from, and fails with ErrConflict otherwise.
	UpdatePaymentGuard(id string, from []models.PaymentStatus, to models.PaymentStatus, paymentID string) error
	CountByStatus(status models.OrderStatus) (int64, error)
}

// ChatRepository defines the interface for order chat data access.
type ChatRepository interface {
	ListByOrder(orderID string) ([]models.ChatMessage, error)
	Create(msg *models.ChatMessage) error
	// MarkRead flags every message of the order sent by role as read.
	MarkRead(orderID string, role models.SenderRole) (int64, error)
	// Unread counts unread messages sent by role, per order.
	Unread(role models.SenderRole) (map[string]int64, error)
}
