package services

import (
	"context"
	"fmt"

	"pizzaria/internal/events"
	"pizzaria/internal/models"
	"pizzaria/internal/pricing"
	"pizzaria/internal/repositories"
)

// ComboService handles admin operations on combos and border options.
type ComboService struct {
	repo    repositories.ComboRepository
	borders repositories.BorderRepository
	pub     events.Publisher
}

func NewComboService(repo repositories.ComboRepository, borders repositories.BorderRepository, pub events.Publisher) *ComboService {
	return &ComboService{repo: repo, borders: borders, pub: pub}
}

func checkCombo(combo *models.Combo) error {
	if _, err := pricing.LookupSize(combo.PizzaSize); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if combo.PizzaCount < 0 {
		return fmt.Errorf("%w: pizza_count must not be negative", ErrInvalidInput)
	}
	if combo.ComboPrice.IsNegative() || combo.RegularPrice.IsNegative() {
		return fmt.Errorf("%w: prices must not be negative", ErrInvalidInput)
	}
	return nil
}

func (s *ComboService) GetAllCombos() ([]models.Combo, error) {
	return s.repo.GetAll()
}

func (s *ComboService) GetComboByID(id string) (*models.Combo, error) {
	return s.repo.GetByID(id)
}

func (s *ComboService) CreateCombo(ctx context.Context, combo *models.Combo) error {
	if err := checkCombo(combo); err != nil {
		return err
	}
	if err := s.repo.Create(combo); err != nil {
		return err
	}
	announce(ctx, s.pub, events.EntityCombos, events.ActionInsert, combo.ID, combo)
	return nil
}

// UpdateCombo saves the combo. Allow-lists are stored as given: nil stays
// unrestricted and an empty list admits nothing.
func (s *ComboService) UpdateCombo(ctx context.Context, combo *models.Combo) error {
	if err := checkCombo(combo); err != nil {
		return err
	}
	if err := s.repo.Update(combo); err != nil {
		return err
	}
	announce(ctx, s.pub, events.EntityCombos, events.ActionUpdate, combo.ID, combo)
	return nil
}

func (s *ComboService) DeleteCombo(ctx context.Context, id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	announce(ctx, s.pub, events.EntityCombos, events.ActionDelete, id, nil)
	return nil
}

func (s *ComboService) GetAllBorders() ([]models.BorderOption, error) {
	return s.borders.GetAll()
}

func (s *ComboService) GetBorderByID(id string) (*models.BorderOption, error) {
	return s.borders.GetByID(id)
}

func (s *ComboService) CreateBorder(ctx context.Context, border *models.BorderOption) error {
	if border.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if err := s.borders.Create(border); err != nil {
		return err
	}
	announce(ctx, s.pub, events.EntityBorders, events.ActionInsert, border.ID, border)
	return nil
}

func (s *ComboService) UpdateBorder(ctx context.Context, border *models.BorderOption) error {
	if border.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if err := s.borders.Update(border); err != nil {
		return err
	}
	announce(ctx, s.pub, events.EntityBorders, events.ActionUpdate, border.ID, border)
	return nil
}

func (s *ComboService) DeleteBorder(ctx context.Context, id string) error {
	if err := s.borders.Delete(id); err != nil {
		return err
	}
	announce(ctx, s.pub, events.EntityBorders, events.ActionDelete, id, nil)
	return nil
}
