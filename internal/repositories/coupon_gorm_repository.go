package repositories

import (
	"fmt"
	"strings"

	"pizzaria/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCouponRepository is a GORM implementation of CouponRepository.
type GORMCouponRepository struct {
	db *gorm.DB
}

func NewGORMCouponRepository(db *gorm.DB) *GORMCouponRepository {
	return &GORMCouponRepository{db: db}
}

func (r *GORMCouponRepository) GetAll() ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := r.db.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to get all coupons: %w", err)
	}
	return coupons, nil
}

func (r *GORMCouponRepository) GetByID(id string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("coupon with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get coupon by ID %s: %w", id, err)
	}
	return &coupon, nil
}

func (r *GORMCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	var coupon models.Coupon
	if err := r.db.First(&coupon, "code = ?", code).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("coupon %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get coupon %s: %w", code, err)
	}
	return &coupon, nil
}

// Create stores the coupon with its code upper-cased.
func (r *GORMCouponRepository) Create(coupon *models.Coupon) error {
	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	if err := r.db.Create(coupon).Error; err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

// Update saves coupon terms. The usage counter is owned by order creation
// and is never overwritten here.
func (r *GORMCouponRepository) Update(coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	affected, err := updateAll(r.db, coupon, "UsesCount")
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("coupon with ID %s for update: %w", coupon.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMCouponRepository) Delete(id string) error {
	res := r.db.Delete(&models.Coupon{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("coupon with ID %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}
