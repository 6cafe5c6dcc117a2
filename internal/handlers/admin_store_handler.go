package handlers

import (
	"pizzaria/internal/models"
	"pizzaria/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StoreAdminHandler manages coupons and store settings.
type StoreAdminHandler struct {
	coupons  *services.CouponService
	settings *services.SettingsService
	validate *validator.Validate
}

// NewStoreAdminHandler creates a new StoreAdminHandler.
func NewStoreAdminHandler(coupons *services.CouponService, settings *services.SettingsService) *StoreAdminHandler {
	return &StoreAdminHandler{coupons: coupons, settings: settings, validate: validator.New()}
}

// RegisterRoutes registers the coupon and settings routes.
func (h *StoreAdminHandler) RegisterRoutes(router fiber.Router) {
	coupons := router.Group("/coupons")
	coupons.Get("/", h.HandleGetCoupons)
	coupons.Get("/:id", h.HandleGetCoupon)
	coupons.Post("/", h.HandleCreateCoupon)
	coupons.Put("/:id", h.HandleUpdateCoupon)
	coupons.Delete("/:id", h.HandleDeleteCoupon)

	router.Get("/settings", h.HandleGetSettings)
	router.Put("/settings", h.HandleSaveSettings)
	router.Patch("/settings/open", h.HandleSetOpen)
}

func (h *StoreAdminHandler) HandleGetCoupons(c *fiber.Ctx) error {
	coupons, err := h.coupons.GetAllCoupons()
	if err != nil {
		return fail(c, "Could not retrieve coupons", err)
	}
	return c.JSON(coupons)
}

func (h *StoreAdminHandler) HandleGetCoupon(c *fiber.Ctx) error {
	coupon, err := h.coupons.GetCouponByID(c.Params("id"))
	if err != nil {
		return fail(c, "Could not retrieve coupon", err)
	}
	return c.JSON(coupon)
}

func (h *StoreAdminHandler) HandleCreateCoupon(c *fiber.Ctx) error {
	var coupon models.Coupon
	if ok, err := parseAndValidate(c, h.validate, &coupon); !ok {
		return err
	}
	coupon.ID = ""
	if err := h.coupons.CreateCoupon(c.UserContext(), &coupon); err != nil {
		return fail(c, "Could not create coupon", err)
	}
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

func (h *StoreAdminHandler) HandleUpdateCoupon(c *fiber.Ctx) error {
	var coupon models.Coupon
	if ok, err := parseAndValidate(c, h.validate, &coupon); !ok {
		return err
	}
	coupon.ID = c.Params("id")
	if err := h.coupons.UpdateCoupon(c.UserContext(), &coupon); err != nil {
		return fail(c, "Could not update coupon", err)
	}
	return c.JSON(coupon)
}

func (h *StoreAdminHandler) HandleDeleteCoupon(c *fiber.Ctx) error {
	if err := h.coupons.DeleteCoupon(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, "Could not delete coupon", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *StoreAdminHandler) HandleGetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.Get()
	if err != nil {
		return fail(c, "Could not load store settings", err)
	}
	return c.JSON(settings)
}

func (h *StoreAdminHandler) HandleSaveSettings(c *fiber.Ctx) error {
	var settings models.StoreSettings
	if ok, err := parseAndValidate(c, h.validate, &settings); !ok {
		return err
	}
	if err := h.settings.Save(c.UserContext(), &settings); err != nil {
		return fail(c, "Could not save store settings", err)
	}
	return c.JSON(settings)
}

type SetOpenRequest struct {
	Open *bool `json:"open" validate:"required"`
}

// HandleSetOpen opens or closes the store for new orders.
func (h *StoreAdminHandler) HandleSetOpen(c *fiber.Ctx) error {
	var req SetOpenRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	settings, err := h.settings.SetOpen(c.UserContext(), *req.Open)
	if err != nil {
		return fail(c, "Could not update store status", err)
	}
	return c.JSON(settings)
}
