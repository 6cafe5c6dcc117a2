package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type DeliveryType string

const (
	DeliveryHome   DeliveryType = "delivery"
	DeliveryPickup DeliveryType = "pickup"
)

type PaymentMethod string

const (
	PaymentPix        PaymentMethod = "pix"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentCash       PaymentMethod = "cash"
)

// Online reports whether the method goes through the payment gateway.
func (m PaymentMethod) Online() bool {
	return m != PaymentCash
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
	PaymentRefunded PaymentStatus = "refunded"
)

type ItemType string

const (
	ItemPizza ItemType = "pizza"
	ItemDrink ItemType = "drink"
	ItemCombo ItemType = "combo"
	ItemOther ItemType = "other"
)

// OrderItem is the persisted snapshot of one cart line.
type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"type:varchar(36);index"`
	Type      ItemType        `json:"type" gorm:"type:varchar(16)"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"` // unit price at the time of order
	Quantity  int             `json:"quantity"`
	Flavors   []string        `json:"flavors,omitempty" gorm:"serializer:json"`
	SizeInfo  string          `json:"size_info,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Order is a customer order with its delivery and payment data.
type Order struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	DeliveryType  DeliveryType    `json:"delivery_type" gorm:"type:varchar(16)"`
	Address       string          `json:"address,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	PaymentMethod PaymentMethod   `json:"payment_method" gorm:"type:varchar(16)"`
	PaymentStatus PaymentStatus   `json:"payment_status" gorm:"type:varchar(16);default:pending"`
	PaymentID     string          `json:"payment_id,omitempty"`
	ChangeFor     decimal.Decimal `json:"change_for" gorm:"type:numeric(10,2);not null;default:0"`
	CouponCode    string          `json:"coupon_code,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal" gorm:"type:numeric(10,2);not null"`
	Discount      decimal.Decimal `json:"discount" gorm:"type:numeric(10,2);not null;default:0"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee" gorm:"type:numeric(10,2);not null;default:0"`
	Total         decimal.Decimal `json:"total" gorm:"type:numeric(10,2);not null"`
	Status        OrderStatus     `json:"status" gorm:"type:varchar(16);index"`
	Items         []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
