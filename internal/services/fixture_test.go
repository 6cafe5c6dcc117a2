package services_test

import (
	"context"
	"testing"
	"time"

	"pizzaria/internal/cache"
	"pizzaria/internal/database"
	"pizzaria/internal/events"
	"pizzaria/internal/models"
	"pizzaria/internal/repositories"
	"pizzaria/internal/services"
	"pizzaria/pkg/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGateway is a mock implementation of services.PaymentGateway and
// services.PaymentLookup.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreatePreference(ctx context.Context, req payment.PreferenceRequest) (*payment.Preference, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Preference), args.Error(1)
}

func (m *MockGateway) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

type catalogIDs struct {
	pizzas, drinks                   *models.Category
	calabresa, camarao, marg         *models.Product
	coke, guarana, brownie           *models.Product
	noBorder, catupiry               *models.BorderOption
	familyCombo, duoCombo, pizzaOnly *models.Combo
}

type fixture struct {
	bus      *events.Bus
	store    *cache.MemoryStore
	settings repositories.SettingsRepository
	coupons  repositories.CouponRepository
	orders   repositories.OrderRepository
	chats    repositories.ChatRepository
	products repositories.ProductRepository
	combos   repositories.ComboRepository
	gateway  *MockGateway

	catalog      *services.CatalogService
	carts        *services.CartService
	configurator *services.ConfiguratorService
	checkout     *services.CheckoutService
	orderSvc     *services.OrderService
	chat         *services.ChatService
	productSvc   *services.ProductService
	comboSvc     *services.ComboService
	couponSvc    *services.CouponService
	settingsSvc  *services.SettingsService

	ids catalogIDs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)

	f := &fixture{
		bus:      events.NewBus(),
		store:    cache.NewMemoryStore(),
		settings: repositories.NewGORMSettingsRepository(db),
		coupons:  repositories.NewGORMCouponRepository(db),
		orders:   repositories.NewGORMOrderRepository(db),
		chats:    repositories.NewGORMChatRepository(db),
		products: repositories.NewGORMProductRepository(db),
		combos:   repositories.NewGORMComboRepository(db),
		gateway:  new(MockGateway),
	}
	categories := repositories.NewGORMCategoryRepository(db)
	borders := repositories.NewGORMBorderRepository(db)

	f.catalog = services.NewCatalogService(categories, f.products, borders, f.combos, f.settings, f.store)
	f.carts = services.NewCartService(f.store, f.catalog, time.Hour)
	f.configurator = services.NewConfiguratorService(f.catalog, f.carts, f.store, time.Hour)
	f.checkout = services.NewCheckoutService(f.catalog, f.carts, f.coupons, f.orders, f.gateway, f.bus, "https://pizza.example.com/")
	f.orderSvc = services.NewOrderService(f.orders, f.catalog, f.gateway, f.bus)
	f.chat = services.NewChatService(f.chats, f.orders, f.bus)
	f.productSvc = services.NewProductService(f.products, categories, f.bus)
	f.comboSvc = services.NewComboService(f.combos, borders, f.bus)
	f.couponSvc = services.NewCouponService(f.coupons, f.bus)
	f.settingsSvc = services.NewSettingsService(f.settings, f.bus)

	require.NoError(t, f.settings.Save(&models.StoreSettings{
		StoreName:        "Bella",
		IsOpen:           true,
		DeliveryFee:      decimal.NewFromInt(8),
		MinimumOrder:     decimal.NewFromInt(20),
		PremiumSurcharge: decimal.NewFromInt(10),
		WhatsAppNumber:   "5511999990000",
	}))

	ids := &f.ids
	ids.pizzas = &models.Category{Name: "Pizzas", Kind: models.CategoryPizza, DisplayOrder: 1, Active: true}
	ids.drinks = &models.Category{Name: "Drinks", Kind: models.CategoryDrink, DisplayOrder: 2, Active: true}
	desserts := &models.Category{Name: "Desserts", Kind: models.CategoryOther, DisplayOrder: 3, Active: true}
	for _, c := range []*models.Category{ids.pizzas, ids.drinks, desserts} {
		require.NoError(t, categories.Create(c))
	}

	ids.calabresa = &models.Product{Name: "Calabresa", CategoryID: ids.pizzas.ID, Active: true}
	ids.camarao = &models.Product{Name: "Camarao", CategoryID: ids.pizzas.ID, BasePrice: decimal.NewFromInt(10), Active: true}
	ids.marg = &models.Product{Name: "Margherita", CategoryID: ids.pizzas.ID, Active: true}
	ids.coke = &models.Product{Name: "Coke 2L", CategoryID: ids.drinks.ID, BasePrice: decimal.NewFromInt(12), Active: true}
	ids.guarana = &models.Product{Name: "Guarana 2L", CategoryID: ids.drinks.ID, BasePrice: decimal.NewFromInt(10), Active: true}
	ids.brownie = &models.Product{Name: "Brownie", CategoryID: desserts.ID, BasePrice: decimal.RequireFromString("7.5"), Active: true}
	for _, p := range []*models.Product{ids.calabresa, ids.camarao, ids.marg, ids.coke, ids.guarana, ids.brownie} {
		require.NoError(t, f.products.Create(p))
	}

	ids.noBorder = &models.BorderOption{Name: "No border", Price: decimal.Zero, DisplayOrder: 0, Active: true}
	ids.catupiry = &models.BorderOption{Name: "Catupiry", Price: decimal.NewFromInt(8), DisplayOrder: 1, Active: true}
	require.NoError(t, borders.Create(ids.noBorder))
	require.NoError(t, borders.Create(ids.catupiry))

	ids.familyCombo = &models.Combo{
		Name: "Family", ComboPrice: decimal.NewFromInt(90), RegularPrice: decimal.NewFromInt(120),
		PizzaSize: "G", PizzaCount: 2, IncludesDrink: true, FreeDelivery: true, Active: true,
	}
	ids.duoCombo = &models.Combo{
		Name: "Duo", ComboPrice: decimal.NewFromInt(50), PizzaSize: "M", PizzaCount: 1, IncludesDrink: true,
		AllowedFlavorIDs: []string{ids.calabresa.ID, ids.camarao.ID}, AllowedDrinkIDs: []string{ids.guarana.ID}, Active: true,
	}
	ids.pizzaOnly = &models.Combo{
		Name: "Solo", ComboPrice: decimal.NewFromInt(40), PizzaSize: "M", PizzaCount: 1, IncludesDrink: true,
		AllowedDrinkIDs: []string{}, Active: true,
	}
	for _, c := range []*models.Combo{ids.familyCombo, ids.duoCombo, ids.pizzaOnly} {
		require.NoError(t, f.combos.Create(c))
	}
	return f
}
