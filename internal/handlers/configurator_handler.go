package handlers

import (
	"pizzaria/internal/configurator"
	"pizzaria/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ConfiguratorHandler drives the pizza and combo selection wizard.
type ConfiguratorHandler struct {
	service  *services.ConfiguratorService
	validate *validator.Validate
}

// NewConfiguratorHandler creates a new ConfiguratorHandler.
func NewConfiguratorHandler(service *services.ConfiguratorService) *ConfiguratorHandler {
	return &ConfiguratorHandler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the configurator routes with the Fiber app.
func (h *ConfiguratorHandler) RegisterRoutes(router fiber.Router) {
	cfg := router.Group("/configurator")
	cfg.Post("/pizza", h.HandleStartPizza)
	cfg.Post("/combo", h.HandleStartCombo)
	cfg.Get("/:id", h.HandleGetSession)
	cfg.Delete("/:id", h.HandleDiscard)
	cfg.Post("/:id/flavors/:flavorId", h.HandleToggleFlavor)
	cfg.Post("/:id/drink", h.HandleSelectDrink)
	cfg.Post("/:id/border", h.HandleSelectBorder)
	cfg.Post("/:id/next", h.HandleNext)
	cfg.Post("/:id/reset", h.HandleReset)
	cfg.Post("/:id/finish", h.HandleFinish)
}

// SessionView adds the derived fields the storefront renders.
type SessionView struct {
	*configurator.Session
	Price         decimal.Decimal `json:"price"`
	MaxFlavors    int             `json:"max_flavors"`
	Selected      []string        `json:"selected"`
	CanSelectMore bool            `json:"can_select_more"`
}

func viewSession(s *configurator.Session) SessionView {
	selected := s.Selected()
	if selected == nil {
		selected = []string{}
	}
	return SessionView{
		Session:       s,
		Price:         s.Price(),
		MaxFlavors:    s.MaxFlavors(),
		Selected:      selected,
		CanSelectMore: s.CanSelectMore(),
	}
}

type StartPizzaRequest struct {
	Size string `json:"size" validate:"required,oneof=P M G GG"`
}

type StartComboRequest struct {
	ComboID string `json:"combo_id" validate:"required"`
}

type SelectRequest struct {
	ID string `json:"id" validate:"required"`
}

type FinishRequest struct {
	CartID string `json:"cart_id" validate:"required"`
}

func (h *ConfiguratorHandler) HandleStartPizza(c *fiber.Ctx) error {
	var req StartPizzaRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	sess, err := h.service.StartPizza(c.UserContext(), req.Size)
	if err != nil {
		return fail(c, "Could not start pizza", err)
	}
	return c.Status(fiber.StatusCreated).JSON(viewSession(sess))
}

func (h *ConfiguratorHandler) HandleStartCombo(c *fiber.Ctx) error {
	var req StartComboRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	sess, err := h.service.StartCombo(c.UserContext(), req.ComboID)
	if err != nil {
		return fail(c, "Could not start combo", err)
	}
	return c.Status(fiber.StatusCreated).JSON(viewSession(sess))
}

func (h *ConfiguratorHandler) HandleGetSession(c *fiber.Ctx) error {
	sess, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "Could not retrieve configuration", err)
	}
	return c.JSON(viewSession(sess))
}

func (h *ConfiguratorHandler) HandleDiscard(c *fiber.Ctx) error {
	if err := h.service.Discard(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, "Could not discard configuration", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleToggleFlavor selects the flavor, or deselects it when already chosen.
func (h *ConfiguratorHandler) HandleToggleFlavor(c *fiber.Ctx) error {
	sess, err := h.service.ToggleFlavor(c.UserContext(), c.Params("id"), c.Params("flavorId"))
	if err != nil {
		return fail(c, "Could not toggle flavor", err)
	}
	return c.JSON(viewSession(sess))
}

func (h *ConfiguratorHandler) HandleSelectDrink(c *fiber.Ctx) error {
	var req SelectRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	sess, err := h.service.SelectDrink(c.UserContext(), c.Params("id"), req.ID)
	if err != nil {
		return fail(c, "Could not select drink", err)
	}
	return c.JSON(viewSession(sess))
}

func (h *ConfiguratorHandler) HandleSelectBorder(c *fiber.Ctx) error {
	var req SelectRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	sess, err := h.service.SelectBorder(c.UserContext(), c.Params("id"), req.ID)
	if err != nil {
		return fail(c, "Could not select border", err)
	}
	return c.JSON(viewSession(sess))
}

func (h *ConfiguratorHandler) HandleNext(c *fiber.Ctx) error {
	sess, err := h.service.Next(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "Could not advance configuration", err)
	}
	return c.JSON(viewSession(sess))
}

func (h *ConfiguratorHandler) HandleReset(c *fiber.Ctx) error {
	sess, err := h.service.Reset(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "Could not reset configuration", err)
	}
	return c.JSON(viewSession(sess))
}

// HandleFinish moves the finished item into the cart.
func (h *ConfiguratorHandler) HandleFinish(c *fiber.Ctx) error {
	var req FinishRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	ct, item, err := h.service.Finish(c.UserContext(), c.Params("id"), req.CartID)
	if err != nil {
		return fail(c, "Could not add item to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"cart": viewCart(ct),
		"item": item,
	})
}
