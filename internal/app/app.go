// Package app wires configuration, storage, the change feed and the HTTP
// API into a runnable server.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"pizzaria/internal/cache"
	"pizzaria/internal/config"
	"pizzaria/internal/events"
	"pizzaria/internal/handlers"
	"pizzaria/internal/middleware"
	"pizzaria/internal/models"
	"pizzaria/internal/repositories"
	"pizzaria/internal/services"
	"pizzaria/pkg/kafka"
	"pizzaria/pkg/payment"
	"pizzaria/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Services groups the business services built over one database.
type Services struct {
	Catalog      *services.CatalogService
	Carts        *services.CartService
	Configurator *services.ConfiguratorService
	Checkout     *services.CheckoutService
	Orders       *services.OrderService
	Chat         *services.ChatService
	Products     *services.ProductService
	Combos       *services.ComboService
	Coupons      *services.CouponService
	Settings     *services.SettingsService
	Auth         *services.AuthService
}

// App is a fully wired server.
type App struct {
	Config   config.Config
	DB       *gorm.DB
	Bus      *events.Bus
	Store    cache.Store
	Services Services
	Alert    *services.PendingAlert
	Fiber    *fiber.App

	ctx     context.Context
	cancel  context.CancelFunc
	closers []func() error
}

// Options swaps infrastructure that tests replace.
type Options struct {
	Store   cache.Store
	Gateway interface {
		services.PaymentGateway
		services.PaymentLookup
	}
	// DisableRelays skips connecting to RabbitMQ and Kafka.
	DisableRelays bool
	// DisableRequestLog turns off the per-request logger.
	DisableRequestLog bool
}

// New builds the app over db. Background workers start with Start.
func New(cfg config.Config, db *gorm.DB, opts Options) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{Config: cfg, DB: db, Bus: events.NewBus(), ctx: ctx, cancel: cancel}

	if err := a.connectStore(ctx, opts.Store); err != nil {
		a.Close()
		return nil, err
	}
	if !opts.DisableRelays {
		if err := a.connectRelays(); err != nil {
			a.Close()
			return nil, err
		}
	}
	a.buildServices(opts)
	a.Fiber = a.buildFiber(opts)
	return a, nil
}

func (a *App) connectStore(ctx context.Context, store cache.Store) error {
	switch {
	case store != nil:
		a.Store = store
	case a.Config.RedisURL != "":
		rs, err := cache.NewRedisStore(ctx, a.Config.RedisURL, "pizzaria:")
		if err != nil {
			return err
		}
		a.Store = rs
		a.closers = append(a.closers, rs.Close)
		log.Println("Using Redis cache store")
	default:
		a.Store = cache.NewMemoryStore()
		log.Println("REDIS_URL not set, using in-memory cache store")
	}
	return nil
}

func (a *App) connectRelays() error {
	if a.Config.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: a.Config.RabbitMQURL})
		if err != nil {
			return err
		}
		a.Bus.AddRelay(mq)
		a.closers = append(a.closers, mq.Close)
	}
	if len(a.Config.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(a.Config.KafkaBrokers, a.Config.KafkaTopic)
		if err != nil {
			return err
		}
		a.Bus.AddRelay(producer)
		a.closers = append(a.closers, producer.Close)
		log.Printf("Relaying changes to Kafka topic %s", a.Config.KafkaTopic)
	}
	return nil
}

func (a *App) buildServices(opts Options) {
	categoryRepo := repositories.NewGORMCategoryRepository(a.DB)
	productRepo := repositories.NewGORMProductRepository(a.DB)
	borderRepo := repositories.NewGORMBorderRepository(a.DB)
	comboRepo := repositories.NewGORMComboRepository(a.DB)
	couponRepo := repositories.NewGORMCouponRepository(a.DB)
	settingsRepo := repositories.NewGORMSettingsRepository(a.DB)
	orderRepo := repositories.NewGORMOrderRepository(a.DB)
	chatRepo := repositories.NewGORMChatRepository(a.DB)
	userRepo := repositories.NewGORMUserRepository(a.DB)

	// gateway and lookup stay nil interfaces when payments are off.
	var gateway services.PaymentGateway
	var lookup services.PaymentLookup
	switch {
	case opts.Gateway != nil:
		gateway, lookup = opts.Gateway, opts.Gateway
	case a.Config.PaymentsEnabled():
		client := payment.NewClient(a.Config.PaymentBaseURL, a.Config.PaymentToken, 10*time.Second)
		gateway, lookup = client, client
	default:
		log.Println("PAYMENT_ACCESS_TOKEN not set, online payments stay pending")
	}

	s := &a.Services
	s.Catalog = services.NewCatalogService(categoryRepo, productRepo, borderRepo, comboRepo, settingsRepo, a.Store)
	s.Carts = services.NewCartService(a.Store, s.Catalog, a.Config.SessionTTL)
	s.Configurator = services.NewConfiguratorService(s.Catalog, s.Carts, a.Store, a.Config.SessionTTL)
	s.Checkout = services.NewCheckoutService(s.Catalog, s.Carts, couponRepo, orderRepo, gateway, a.Bus, a.Config.PublicBaseURL)
	s.Orders = services.NewOrderService(orderRepo, s.Catalog, lookup, a.Bus)
	s.Chat = services.NewChatService(chatRepo, orderRepo, a.Bus)
	s.Products = services.NewProductService(productRepo, categoryRepo, a.Bus)
	s.Combos = services.NewComboService(comboRepo, borderRepo, a.Bus)
	s.Coupons = services.NewCouponService(couponRepo, a.Bus)
	s.Settings = services.NewSettingsService(settingsRepo, a.Bus)
	s.Auth = services.NewAuthService(userRepo, a.Config.JWTSecret)

	a.Alert = services.NewPendingAlert(s.Orders, a.Bus, a.Config.AlertInterval)
}

func (a *App) buildFiber(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "pizzaria"})

	app.Use(recover.New())
	if !opts.DisableRequestLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: a.Config.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		code := fiber.StatusOK
		if sqlDB, err := a.DB.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status, code = "degraded", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	s := a.Services
	authHandler := handlers.NewAuthHandler(s.Auth)
	orderHandler := handlers.NewOrderHandler(s.Orders, s.Chat, a.Alert)
	realtimeHandler := handlers.NewRealtimeHandler(a.ctx, a.Bus)

	apiV1 := app.Group("/api/v1")
	handlers.NewMenuHandler(s.Catalog).RegisterRoutes(apiV1)
	handlers.NewCartHandler(s.Carts).RegisterRoutes(apiV1)
	handlers.NewConfiguratorHandler(s.Configurator).RegisterRoutes(apiV1)
	handlers.NewCheckoutHandler(s.Checkout, s.Carts).RegisterRoutes(apiV1)
	handlers.NewPaymentHandler(s.Orders).RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)
	realtimeHandler.RegisterRoutes(apiV1)
	authHandler.RegisterRoutes(apiV1)

	admin := apiV1.Group("/admin",
		middleware.AuthRequired(s.Auth),
		middleware.RequireRole(models.RoleAdmin, models.RoleStaff),
	)
	authHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	realtimeHandler.RegisterAdminRoutes(admin)
	handlers.NewCatalogAdminHandler(s.Products, s.Combos).RegisterRoutes(admin)
	handlers.NewStoreAdminHandler(s.Coupons, s.Settings).RegisterRoutes(admin)

	return app
}

// Start launches the cache invalidation watcher and the pending-order alert.
func (a *App) Start() {
	go a.Services.Catalog.Watch(a.ctx, a.Bus)
	go a.Alert.Run(a.ctx)
}

// EnsureAdmin creates the configured admin account on an empty user table.
func (a *App) EnsureAdmin() error {
	created, err := a.Services.Auth.EnsureAdmin(a.Config.AdminUsername, a.Config.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}
	if created {
		log.Printf("Created admin account %s", a.Config.AdminUsername)
	}
	return nil
}

// Close stops background work and releases connections.
func (a *App) Close() error {
	a.cancel()
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if len(errs) > 0 {
		return fmt.Errorf("errors while closing app: %v", errs)
	}
	return nil
}
