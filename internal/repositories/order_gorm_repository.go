package repositories

import (
	"fmt"
	"time"

	"pizzaria/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// GetAll returns orders newest first.
func (r *GORMOrderRepository) GetAll(filter OrderFilter) ([]models.Order, error) {
	q := r.db.Preload("Items").Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

func (r *GORMOrderRepository) Create(order *models.Order, couponID string) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if couponID != "" {
			res := tx.Model(&models.Coupon{}).
				Where("id = ? AND (max_uses IS NULL OR uses_count < max_uses)", couponID).
				Update("uses_count", gorm.Expr("uses_count + 1"))
			if res.Error != nil {
				return fmt.Errorf("failed to redeem coupon: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("coupon %s exhausted: %w", couponID, ErrConflict)
			}
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
}

func (r *GORMOrderRepository) UpdateStatusGuard(id string, from, to models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s is no longer %s: %w", id, from, ErrConflict)
	}
	return nil
}

func (r *GORMOrderRepository) UpdatePaymentGuard(id string, from []models.PaymentStatus, to models.PaymentStatus, paymentID string) error {
	updates := map[string]interface{}{"payment_status": to, "updated_at": time.Now()}
	if paymentID != "" {
		updates["payment_id"] = paymentID
	}
	res := r.db.Model(&models.Order{}).Where("id = ? AND payment_status IN ?", id, from).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update payment of order %s: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := r.db.Model(&models.Order{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check order %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("order with ID %s for payment update: %w", id, ErrNotFound)
	}
	return fmt.Errorf("payment of order %s cannot become %s: %w", id, to, ErrConflict)
}

func (r *GORMOrderRepository) CountByStatus(status models.OrderStatus) (int64, error) {
	var n int64
	if err := r.db.Model(&models.Order{}).Where("status = ?", status).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s orders: %w", status, err)
	}
	return n, nil
}
