package services

import (
	"context"
	"errors"
	"fmt"

	"pizzaria/internal/events"
	"pizzaria/internal/models"
	"pizzaria/internal/repositories"
)

// SettingsService reads and edits the store settings row.
type SettingsService struct {
	repo repositories.SettingsRepository
	pub  events.Publisher
}

func NewSettingsService(repo repositories.SettingsRepository, pub events.Publisher) *SettingsService {
	return &SettingsService{repo: repo, pub: pub}
}

// Get returns the saved settings or the defaults.
func (s *SettingsService) Get() (*models.StoreSettings, error) {
	settings, err := s.repo.Get()
	if errors.Is(err, repositories.ErrNotFound) {
		return DefaultSettings(), nil
	}
	return settings, err
}

func (s *SettingsService) Save(ctx context.Context, settings *models.StoreSettings) error {
	if settings.DeliveryFee.IsNegative() || settings.MinimumOrder.IsNegative() || settings.PremiumSurcharge.IsNegative() {
		return fmt.Errorf("%w: amounts must not be negative", ErrInvalidInput)
	}
	if err := s.repo.Save(settings); err != nil {
		return err
	}
	announce(ctx, s.pub, events.EntitySettings, events.ActionUpdate, fmt.Sprint(settings.ID), settings)
	return nil
}

// SetOpen toggles whether the store accepts orders.
func (s *SettingsService) SetOpen(ctx context.Context, open bool) (*models.StoreSettings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	settings.IsOpen = open
	if err := s.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
