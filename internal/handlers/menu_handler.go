package handlers

import (
	"time"

	"pizzaria/internal/pricing"
	"pizzaria/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MenuHandler serves the public catalog.
type MenuHandler struct {
	catalog *services.CatalogService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(catalog *services.CatalogService) *MenuHandler {
	return &MenuHandler{catalog: catalog}
}

// RegisterRoutes registers the menu routes with the Fiber app.
func (h *MenuHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/menu", h.HandleGetMenu)
	router.Get("/menu/sizes", h.HandleGetSizes)
	router.Get("/menu/products/:id", h.HandleGetProduct)
	router.Get("/menu/combos/:id", h.HandleGetCombo)
	router.Get("/store", h.HandleGetStore)
}

// HandleGetMenu returns every active catalog list in one payload.
func (h *MenuHandler) HandleGetMenu(c *fiber.Ctx) error {
	menu, err := h.catalog.Menu(c.UserContext())
	if err != nil {
		return fail(c, "Could not load menu", err)
	}
	return c.JSON(menu)
}

func (h *MenuHandler) HandleGetSizes(c *fiber.Ctx) error {
	return c.JSON(pricing.Sizes())
}

func (h *MenuHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.catalog.Product(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

func (h *MenuHandler) HandleGetCombo(c *fiber.Ctx) error {
	combo, err := h.catalog.Combo(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "Could not retrieve combo", err)
	}
	return c.JSON(combo)
}

// HandleGetStore reports the store settings plus whether orders are
// accepted right now.
func (h *MenuHandler) HandleGetStore(c *fiber.Ctx) error {
	settings, err := h.catalog.Settings(c.UserContext())
	if err != nil {
		return fail(c, "Could not load store settings", err)
	}
	return c.JSON(fiber.Map{
		"settings": settings,
		"open_now": settings.OpenAt(time.Now()),
	})
}
