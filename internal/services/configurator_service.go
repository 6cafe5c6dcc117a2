package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pizzaria/internal/cache"
	"pizzaria/internal/cart"
	"pizzaria/internal/configurator"
	"pizzaria/internal/pricing"
)

// ConfiguratorService runs configurator sessions held in the cache store.
type ConfiguratorService struct {
	catalog *CatalogService
	carts   *CartService
	store   cache.Store
	ttl     time.Duration
}

func NewConfiguratorService(catalog *CatalogService, carts *CartService, store cache.Store, ttl time.Duration) *ConfiguratorService {
	return &ConfiguratorService{catalog: catalog, carts: carts, store: store, ttl: ttl}
}

func sessionKey(id string) string {
	return "configurator:" + id
}

func (s *ConfiguratorService) save(ctx context.Context, sess *configurator.Session) error {
	if err := s.store.Set(ctx, sessionKey(sess.ID), sess, s.ttl); err != nil {
		return fmt.Errorf("failed to save configurator session: %w", err)
	}
	return nil
}

// StartPizza opens a session for a pizza of the given size code.
func (s *ConfiguratorService) StartPizza(ctx context.Context, size string) (*configurator.Session, error) {
	spec, err := pricing.LookupSize(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	opts, err := s.catalog.Options(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := configurator.NewPizza(spec, opts)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// StartCombo opens a session for an active combo.
func (s *ConfiguratorService) StartCombo(ctx context.Context, comboID string) (*configurator.Session, error) {
	combo, err := s.catalog.Combo(ctx, comboID)
	if err != nil {
		return nil, err
	}
	opts, err := s.catalog.Options(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := configurator.NewCombo(*combo, opts)
	if errors.Is(err, configurator.ErrNoFlavorsAvailable) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: combo %s: %v", ErrInvalidInput, combo.Name, err)
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *ConfiguratorService) Get(ctx context.Context, id string) (*configurator.Session, error) {
	var sess configurator.Session
	found, err := s.store.Get(ctx, sessionKey(id), &sess)
	if err != nil {
		return nil, fmt.Errorf("failed to load configurator session: %w", err)
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// update loads the session, applies fn and saves it only if fn succeeded,
// so a rejected action leaves the stored state unchanged.
func (s *ConfiguratorService) update(ctx context.Context, id string, fn func(*configurator.Session) error) (*configurator.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *ConfiguratorService) ToggleFlavor(ctx context.Context, id, flavorID string) (*configurator.Session, error) {
	return s.update(ctx, id, func(sess *configurator.Session) error { return sess.ToggleFlavor(flavorID) })
}

func (s *ConfiguratorService) SelectDrink(ctx context.Context, id, drinkID string) (*configurator.Session, error) {
	return s.update(ctx, id, func(sess *configurator.Session) error { return sess.SelectDrink(drinkID) })
}

func (s *ConfiguratorService) SelectBorder(ctx context.Context, id, borderID string) (*configurator.Session, error) {
	return s.update(ctx, id, func(sess *configurator.Session) error { return sess.SelectBorder(borderID) })
}

func (s *ConfiguratorService) Next(ctx context.Context, id string) (*configurator.Session, error) {
	return s.update(ctx, id, func(sess *configurator.Session) error { return sess.Next() })
}

// Reset clears every selection and rewinds the session.
func (s *ConfiguratorService) Reset(ctx context.Context, id string) (*configurator.Session, error) {
	return s.update(ctx, id, func(sess *configurator.Session) error {
		sess.Cancel()
		return nil
	})
}

// Discard drops the session entirely.
func (s *ConfiguratorService) Discard(ctx context.Context, id string) error {
	return s.store.Delete(ctx, sessionKey(id))
}

// Finish adds the composed item to the cart and ends the session.
func (s *ConfiguratorService) Finish(ctx context.Context, id, cartID string) (*cart.Cart, cart.Item, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, cart.Item{}, err
	}
	item, err := sess.Item()
	if err != nil {
		return nil, cart.Item{}, err
	}
	c, added, err := s.carts.AddItem(ctx, cartID, item)
	if err != nil {
		return nil, cart.Item{}, err
	}
	if err := s.Discard(ctx, id); err != nil {
		log.Printf("Failed to close configurator session %s: %v", id, err)
	}
	return c, added, nil
}
