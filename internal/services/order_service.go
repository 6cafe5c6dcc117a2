package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"pizzaria/internal/events"
	"pizzaria/internal/models"
	"pizzaria/internal/orderflow"
	"pizzaria/internal/receipt"
	"pizzaria/internal/repositories"
	"pizzaria/pkg/payment"
)

// PaymentLookup fetches a payment from the gateway. *payment.Client
// implements it.
type PaymentLookup interface {
	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
}

// PaymentNotice is a webhook call from the gateway. Only the payment id is
// used; the payment itself is resolved through PaymentLookup.
type PaymentNotice struct {
	OrderID   string `json:"external_reference"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
	Data      struct {
		ID string `json:"id"`
	} `json:"data"`
}

// OrderTracking is the public view of an order's progress.
type OrderTracking struct {
	Order    *models.Order        `json:"order"`
	Progress int                  `json:"progress"`
	Next     []models.OrderStatus `json:"next,omitempty"`
}

// OrderService handles business logic related to placed orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	catalog   *CatalogService
	lookup    PaymentLookup
	pub       events.Publisher
}

// NewOrderService creates a new OrderService. lookup may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, catalog *CatalogService, lookup PaymentLookup, pub events.Publisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		catalog:   catalog,
		lookup:    lookup,
		pub:       pub,
	}
}

// GetAllOrders retrieves orders, newest first.
func (s *OrderService) GetAllOrders(filter repositories.OrderFilter) ([]models.Order, error) {
	if filter.Status != "" && !orderflow.Valid(filter.Status) {
		return nil, fmt.Errorf("%w: %q", orderflow.ErrUnknownStatus, filter.Status)
	}
	return s.orderRepo.GetAll(filter)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// Track returns the order with its progress step.
func (s *OrderService) Track(id string) (*OrderTracking, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &OrderTracking{Order: order, Progress: orderflow.Progress(order.Status), Next: orderflow.Allowed(order.Status)}, nil
}

// CountPending is the number of orders awaiting confirmation.
func (s *OrderService) CountPending() (int64, error) {
	return s.orderRepo.CountByStatus(models.StatusPending)
}

// UpdateOrderStatus moves an order along the transition table. The write is
// guarded on the status read, so a concurrent change yields ErrConflict.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := orderflow.Check(order.Status, status); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatusGuard(id, order.Status, status); err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	order.Status = status
	announce(ctx, s.pub, events.EntityOrders, events.ActionUpdate, order.ID, order)
	return order, nil
}

// AdvanceOrder applies the main forward action for the order's status.
func (s *OrderService) AdvanceOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	next, ok := orderflow.Next(order.Status)
	if !ok {
		return nil, fmt.Errorf("%w: %s is final", orderflow.ErrInvalidTransition, order.Status)
	}
	return s.UpdateOrderStatus(ctx, id, next)
}

func (s *OrderService) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.UpdateOrderStatus(ctx, id, models.StatusCancelled)
}

// Receipt renders the kitchen receipt of an order.
func (s *OrderService) Receipt(ctx context.Context, id string) (string, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return "", err
	}
	settings, err := s.catalog.Settings(ctx)
	if err != nil {
		return "", err
	}
	return receipt.Format(order, settings), nil
}

// ApplyPayment records a gateway notification. The order and the status
// come from the gateway's copy of the payment, not from the notice. An
// approved payment confirms a pending order and a rejected one cancels it;
// orders that already moved on keep their status.
// Notices that would undo a settled payment are logged and skipped.
func (s *OrderService) ApplyPayment(ctx context.Context, notice PaymentNotice) (*models.Order, error) {
	paymentID := notice.PaymentID
	if paymentID == "" {
		paymentID = notice.Data.ID
	}
	if paymentID == "" {
		return nil, fmt.Errorf("%w: notification carries no payment id", ErrInvalidInput)
	}
	if s.lookup == nil {
		return nil, fmt.Errorf("%w: online payments are not configured", ErrInvalidInput)
	}
	p, err := s.lookup.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up payment %s: %w", paymentID, err)
	}
	orderID := p.ExternalReference
	if orderID == "" {
		return nil, fmt.Errorf("%w: payment %s carries no order reference", ErrInvalidInput, paymentID)
	}
	if notice.OrderID != "" && notice.OrderID != orderID {
		return nil, fmt.Errorf("%w: payment %s does not belong to order %s", ErrInvalidInput, paymentID, notice.OrderID)
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !order.PaymentMethod.Online() {
		return nil, fmt.Errorf("%w: order %s is paid on delivery", ErrInvalidInput, orderID)
	}

	var status models.PaymentStatus
	var target models.OrderStatus
	switch payment.NormalizeStatus(p.Status) {
	case payment.StatusApproved:
		status, target = models.PaymentApproved, models.StatusConfirmed
	case payment.StatusRejected:
		status, target = models.PaymentRejected, models.StatusCancelled
	case payment.StatusRefunded:
		status = models.PaymentRefunded
	default:
		status = models.PaymentPending
	}

	err = s.orderRepo.UpdatePaymentGuard(orderID, orderflow.PaymentSources(status), status, paymentID)
	if errors.Is(err, repositories.ErrConflict) {
		log.Printf("Ignoring payment %s for order %s: %s cannot follow %s", paymentID, orderID, status, order.PaymentStatus)
		return order, nil
	}
	if err != nil {
		return nil, err
	}
	if target != "" {
		err := s.orderRepo.UpdateStatusGuard(orderID, models.StatusPending, target)
		if err != nil && !errors.Is(err, repositories.ErrConflict) {
			return nil, err
		}
	}

	order, err = s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	log.Printf("Payment %s for order %s is %s (%s)", paymentID, orderID, status, strings.ToLower(p.Status))
	announce(ctx, s.pub, events.EntityOrders, events.ActionUpdate, order.ID, order)
	return order, nil
}
