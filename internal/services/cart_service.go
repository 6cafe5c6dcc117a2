package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pizzaria/internal/cache"
	"pizzaria/internal/cart"
	"pizzaria/internal/models"
)

// CartService keeps carts in the cache store keyed by cart id.
type CartService struct {
	store   cache.Store
	catalog *CatalogService
	ttl     time.Duration
	mu      sync.Mutex
}

func NewCartService(store cache.Store, catalog *CatalogService, ttl time.Duration) *CartService {
	return &CartService{store: store, catalog: catalog, ttl: ttl}
}

func cartKey(id string) string {
	return "cart:" + id
}

func (s *CartService) load(ctx context.Context, id string) (*cart.Cart, error) {
	if id == "" {
		return cart.New(), nil
	}
	var c cart.Cart
	found, err := s.store.Get(ctx, cartKey(id), &c)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", id, err)
	}
	if !found {
		// An expired or unknown cart starts over empty under the same id.
		return &cart.Cart{ID: id, Items: []cart.Item{}, UpdatedAt: time.Now()}, nil
	}
	if c.Items == nil {
		c.Items = []cart.Item{}
	}
	return &c, nil
}

func (s *CartService) save(ctx context.Context, c *cart.Cart) error {
	if err := s.store.Set(ctx, cartKey(c.ID), c, s.ttl); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", c.ID, err)
	}
	return nil
}

// mutate applies fn to the cart under the service lock and persists it.
func (s *CartService) mutate(ctx context.Context, id string, fn func(*cart.Cart) error) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the cart with the given id; an empty id yields a new cart.
func (s *CartService) Get(ctx context.Context, id string) (*cart.Cart, error) {
	return s.load(ctx, id)
}

// AddItem appends an already priced line.
func (s *CartService) AddItem(ctx context.Context, id string, item cart.Item) (*cart.Cart, cart.Item, error) {
	var added cart.Item
	c, err := s.mutate(ctx, id, func(c *cart.Cart) error {
		added = c.Add(item)
		return nil
	})
	return c, added, err
}

// AddProduct adds a drink or other ready-made product at its base price.
// Pizza flavors go through the configurator instead.
func (s *CartService) AddProduct(ctx context.Context, id, productID string, quantity int) (*cart.Cart, cart.Item, error) {
	p, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return nil, cart.Item{}, err
	}
	itemType := models.ItemOther
	switch kindOf(*p) {
	case models.CategoryPizza:
		return nil, cart.Item{}, fmt.Errorf("%w: %s is a pizza flavor", ErrNotOrderable, p.Name)
	case models.CategoryDrink:
		itemType = models.ItemDrink
	}
	return s.AddItem(ctx, id, cart.Item{
		Type:     itemType,
		RefID:    p.ID,
		Name:     p.Name,
		Price:    p.BasePrice,
		Quantity: quantity,
	})
}

// UpdateQuantity sets a line's quantity; below 1 the line is removed.
func (s *CartService) UpdateQuantity(ctx context.Context, id, itemID string, quantity int) (*cart.Cart, error) {
	return s.mutate(ctx, id, func(c *cart.Cart) error {
		return c.UpdateQuantity(itemID, quantity)
	})
}

func (s *CartService) Remove(ctx context.Context, id, itemID string) (*cart.Cart, error) {
	return s.mutate(ctx, id, func(c *cart.Cart) error {
		return c.Remove(itemID)
	})
}

func (s *CartService) Clear(ctx context.Context, id string) (*cart.Cart, error) {
	return s.mutate(ctx, id, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}
