package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pizzaria/internal/cache"
	"pizzaria/internal/configurator"
	"pizzaria/internal/events"
	"pizzaria/internal/models"
	"pizzaria/internal/pricing"
	"pizzaria/internal/repositories"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const catalogTTL = 10 * time.Minute

func catalogKey(e events.Entity) string {
	return "catalog:" + string(e)
}

// DefaultSettings are served until an admin saves the first settings row.
func DefaultSettings() *models.StoreSettings {
	return &models.StoreSettings{
		ID:               models.StoreSettingsID,
		StoreName:        "Pizzaria",
		IsOpen:           true,
		DeliveryFee:      decimal.Zero,
		MinimumOrder:     decimal.Zero,
		PremiumSurcharge: decimal.NewFromInt(10),
	}
}

// Menu is everything the storefront renders.
type Menu struct {
	Settings   *models.StoreSettings `json:"settings"`
	Categories []models.Category     `json:"categories"`
	Flavors    []models.Product      `json:"flavors"`
	Drinks     []models.Product      `json:"drinks"`
	Others     []models.Product      `json:"others"`
	Combos     []models.Combo        `json:"combos"`
	Borders    []models.BorderOption `json:"borders"`
	Sizes      []pricing.SizeSpec    `json:"sizes"`
}

// CatalogService serves the customer-facing read models. Each list is
// cached under its entity type and dropped when a change for that type
// arrives on the feed.
type CatalogService struct {
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
	borders    repositories.BorderRepository
	combos     repositories.ComboRepository
	settings   repositories.SettingsRepository
	cache      cache.Store
}

func NewCatalogService(
	categories repositories.CategoryRepository,
	products repositories.ProductRepository,
	borders repositories.BorderRepository,
	combos repositories.ComboRepository,
	settings repositories.SettingsRepository,
	store cache.Store,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		products:   products,
		borders:    borders,
		combos:     combos,
		settings:   settings,
		cache:      store,
	}
}

// cached returns the value under key, loading and storing it on a miss.
// Cache failures degrade to a direct load.
func cached[T any](ctx context.Context, store cache.Store, key string, load func() (T, error)) (T, error) {
	var v T
	hit, err := store.Get(ctx, key, &v)
	if err != nil {
		log.Printf("Cache read %s failed: %v", key, err)
	}
	if hit {
		return v, nil
	}
	v, err = load()
	if err != nil {
		return v, err
	}
	if err := store.Set(ctx, key, v, catalogTTL); err != nil {
		log.Printf("Cache write %s failed: %v", key, err)
	}
	return v, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return cached(ctx, s.cache, catalogKey(events.EntityCategories), s.categories.GetActive)
}

func (s *CatalogService) Products(ctx context.Context) ([]models.Product, error) {
	return cached(ctx, s.cache, catalogKey(events.EntityProducts), s.products.GetActive)
}

func (s *CatalogService) Borders(ctx context.Context) ([]models.BorderOption, error) {
	return cached(ctx, s.cache, catalogKey(events.EntityBorders), s.borders.GetActive)
}

func (s *CatalogService) Combos(ctx context.Context) ([]models.Combo, error) {
	return cached(ctx, s.cache, catalogKey(events.EntityCombos), s.combos.GetActive)
}

// Settings returns the store settings, or DefaultSettings before any are saved.
func (s *CatalogService) Settings(ctx context.Context) (*models.StoreSettings, error) {
	return cached(ctx, s.cache, catalogKey(events.EntitySettings), func() (*models.StoreSettings, error) {
		settings, err := s.settings.Get()
		if errors.Is(err, repositories.ErrNotFound) {
			return DefaultSettings(), nil
		}
		return settings, err
	})
}

// Product returns an active product by id.
func (s *CatalogService) Product(ctx context.Context, id string) (*models.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product with ID %s: %w", id, repositories.ErrNotFound)
}

// Combo returns an active combo by id.
func (s *CatalogService) Combo(ctx context.Context, id string) (*models.Combo, error) {
	combos, err := s.Combos(ctx)
	if err != nil {
		return nil, err
	}
	for i := range combos {
		if combos[i].ID == id {
			return &combos[i], nil
		}
	}
	return nil, fmt.Errorf("combo with ID %s: %w", id, repositories.ErrNotFound)
}

// Menu loads every list concurrently.
func (s *CatalogService) Menu(ctx context.Context) (*Menu, error) {
	menu := &Menu{Sizes: pricing.Sizes()}
	var products []models.Product

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		menu.Settings, err = s.Settings(gctx)
		return err
	})
	g.Go(func() (err error) {
		menu.Categories, err = s.Categories(gctx)
		return err
	})
	g.Go(func() (err error) {
		products, err = s.Products(gctx)
		return err
	})
	g.Go(func() (err error) {
		menu.Combos, err = s.Combos(gctx)
		return err
	})
	g.Go(func() (err error) {
		menu.Borders, err = s.Borders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}

	for _, p := range products {
		switch kindOf(p) {
		case models.CategoryPizza:
			menu.Flavors = append(menu.Flavors, p)
		case models.CategoryDrink:
			menu.Drinks = append(menu.Drinks, p)
		default:
			menu.Others = append(menu.Others, p)
		}
	}
	return menu, nil
}

func kindOf(p models.Product) models.CategoryKind {
	if p.Category == nil {
		return models.CategoryOther
	}
	return p.Category.Kind
}

// Options builds the configurator choices from the active catalog.
func (s *CatalogService) Options(ctx context.Context) (configurator.Options, error) {
	menu, err := s.Menu(ctx)
	if err != nil {
		return configurator.Options{}, err
	}
	opts := configurator.Options{Surcharge: menu.Settings.PremiumSurcharge}
	for _, p := range menu.Flavors {
		opts.Flavors = append(opts.Flavors, configurator.Flavor{ID: p.ID, Name: p.Name, Premium: p.IsPremium()})
	}
	for _, p := range menu.Drinks {
		opts.Drinks = append(opts.Drinks, configurator.Drink{ID: p.ID, Name: p.Name})
	}
	for _, b := range menu.Borders {
		opts.Borders = append(opts.Borders, configurator.Border{ID: b.ID, Name: b.Name, Price: b.Price})
	}
	return opts, nil
}

// Invalidate drops the cached list for entity. Products embed their
// category, so a category change drops products too.
func (s *CatalogService) Invalidate(ctx context.Context, entity events.Entity) error {
	keys := []string{catalogKey(entity)}
	if entity == events.EntityCategories {
		keys = append(keys, catalogKey(events.EntityProducts))
	}
	return s.cache.Delete(ctx, keys...)
}

// Watch invalidates cached lists as changes arrive on bus. It returns when
// ctx is done.
func (s *CatalogService) Watch(ctx context.Context, bus *events.Bus) {
	changes, cancel := bus.Subscribe(
		events.EntityCategories,
		events.EntityProducts,
		events.EntityBorders,
		events.EntityCombos,
		events.EntitySettings,
	)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			if err := s.Invalidate(ctx, c.Entity); err != nil {
				log.Printf("Failed to invalidate %s cache: %v", c.Entity, err)
			}
		}
	}
}
