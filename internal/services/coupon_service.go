package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pizzaria/internal/events"
	"pizzaria/internal/models"
	"pizzaria/internal/repositories"

	"github.com/shopspring/decimal"
)

// CouponService handles admin operations on coupons.
type CouponService struct {
	repo repositories.CouponRepository
	pub  events.Publisher
}

func NewCouponService(repo repositories.CouponRepository, pub events.Publisher) *CouponService {
	return &CouponService{repo: repo, pub: pub}
}

func checkCoupon(c *models.Coupon) error {
	switch c.DiscountType {
	case models.DiscountPercentage:
		if c.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: percentage discount above 100", ErrInvalidInput)
		}
	case models.DiscountFixed:
	default:
		return fmt.Errorf("%w: unknown discount type %q", ErrInvalidInput, c.DiscountType)
	}
	if !c.DiscountValue.IsPositive() {
		return fmt.Errorf("%w: discount value must be positive", ErrInvalidInput)
	}
	if c.MinOrderValue.IsNegative() {
		return fmt.Errorf("%w: minimum order must not be negative", ErrInvalidInput)
	}
	if c.MaxUses != nil && *c.MaxUses < 1 {
		return fmt.Errorf("%w: max_uses must be at least 1", ErrInvalidInput)
	}
	return nil
}

func (s *CouponService) GetAllCoupons() ([]models.Coupon, error) {
	return s.repo.GetAll()
}

func (s *CouponService) GetCouponByID(id string) (*models.Coupon, error) {
	return s.repo.GetByID(id)
}

// CreateCoupon stores a new coupon. Codes are unique regardless of case.
func (s *CouponService) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	if err := checkCoupon(coupon); err != nil {
		return err
	}
	if existing, err := s.repo.GetByCode(coupon.Code); err == nil && existing != nil {
		return fmt.Errorf("coupon %s: %w", strings.ToUpper(coupon.Code), ErrAlreadyExists)
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	coupon.UsesCount = 0
	if err := s.repo.Create(coupon); err != nil {
		return err
	}
	announce(ctx, s.pub, events.EntityCoupons, events.ActionInsert, coupon.ID, coupon)
	return nil
}

// UpdateCoupon edits coupon terms; the usage counter is left untouched.
func (s *CouponService) UpdateCoupon(ctx context.Context, coupon *models.Coupon) error {
	if err := checkCoupon(coupon); err != nil {
		return err
	}
	if existing, err := s.repo.GetByCode(coupon.Code); err == nil && existing.ID != coupon.ID {
		return fmt.Errorf("coupon %s: %w", existing.Code, ErrAlreadyExists)
	}
	if err := s.repo.Update(coupon); err != nil {
		return err
	}
	announce(ctx, s.pub, events.EntityCoupons, events.ActionUpdate, coupon.ID, coupon)
	return nil
}

func (s *CouponService) DeleteCoupon(ctx context.Context, id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	announce(ctx, s.pub, events.EntityCoupons, events.ActionDelete, id, nil)
	return nil
}
