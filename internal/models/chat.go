package models

import "time"

type SenderRole string

const (
	SenderCustomer SenderRole = "customer"
	SenderStaff    SenderRole = "staff"
)

// ChatMessage is one message of the conversation attached to an order.
type ChatMessage struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID    string     `json:"order_id" gorm:"type:varchar(36);index" validate:"required"`
	SenderRole SenderRole `json:"sender_role" gorm:"type:varchar(16)" validate:"required,oneof=customer staff"`
	SenderName string     `json:"sender_name" validate:"omitempty,max=100"`
	Body       string     `json:"body" validate:"required,min=1,max=2000"`
	Read       bool       `json:"read" gorm:"column:is_read"`
	CreatedAt  time.Time  `json:"created_at"`
}
