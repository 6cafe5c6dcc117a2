package services

import (
	"context"
	"fmt"
	"strings"

	"pizzaria/internal/events"
	"pizzaria/internal/models"
	"pizzaria/internal/repositories"
)

// ChatService manages the two-party conversation attached to each order.
type ChatService struct {
	repo   repositories.ChatRepository
	orders repositories.OrderRepository
	pub    events.Publisher
}

func NewChatService(repo repositories.ChatRepository, orders repositories.OrderRepository, pub events.Publisher) *ChatService {
	return &ChatService{repo: repo, orders: orders, pub: pub}
}

// Messages lists the conversation of an order, oldest first.
func (s *ChatService) Messages(orderID string) ([]models.ChatMessage, error) {
	if _, err := s.orders.GetByID(orderID); err != nil {
		return nil, err
	}
	return s.repo.ListByOrder(orderID)
}

// Send appends a message to the order's conversation.
func (s *ChatService) Send(ctx context.Context, orderID string, role models.SenderRole, name, body string) (*models.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: empty message", ErrInvalidInput)
	}
	if role != models.SenderCustomer && role != models.SenderStaff {
		return nil, fmt.Errorf("%w: sender role %q", ErrInvalidInput, role)
	}
	if _, err := s.orders.GetByID(orderID); err != nil {
		return nil, err
	}
	msg := &models.ChatMessage{OrderID: orderID, SenderRole: role, SenderName: name, Body: body}
	if err := s.repo.Create(msg); err != nil {
		return nil, err
	}
	announce(ctx, s.pub, events.EntityChat, events.ActionInsert, msg.ID, msg)
	return msg, nil
}

// MarkRead flags the messages the reader received as read. A staff reader
// marks customer messages, and the other way around.
func (s *ChatService) MarkRead(ctx context.Context, orderID string, reader models.SenderRole) (int64, error) {
	from := models.SenderCustomer
	if reader == models.SenderCustomer {
		from = models.SenderStaff
	}
	n, err := s.repo.MarkRead(orderID, from)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		announce(ctx, s.pub, events.EntityChat, events.ActionUpdate, orderID, nil)
	}
	return n, nil
}

// UnreadForStaff counts unread customer messages per order.
func (s *ChatService) UnreadForStaff() (map[string]int64, error) {
	return s.repo.Unread(models.SenderCustomer)
}
