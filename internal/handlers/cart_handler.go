package handlers

import (
	"pizzaria/internal/cart"
	"pizzaria/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CartHandler handles HTTP requests for customer carts.
type CartHandler struct {
	carts    *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *services.CartService) *CartHandler {
	return &CartHandler{carts: carts, validate: validator.New()}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/carts")
	cartRoutes.Post("/", h.HandleNewCart)
	cartRoutes.Get("/:id", h.HandleGetCart)
	cartRoutes.Delete("/:id", h.HandleClearCart)
	cartRoutes.Post("/:id/items", h.HandleAddProduct)
	cartRoutes.Patch("/:id/items/:itemId", h.HandleUpdateQuantity)
	cartRoutes.Delete("/:id/items/:itemId", h.HandleRemoveItem)
}

// CartView is a cart with its derived totals.
type CartView struct {
	*cart.Cart
	Total        decimal.Decimal `json:"total"`
	Count        int             `json:"count"`
	FreeDelivery bool            `json:"free_delivery"`
}

func viewCart(c *cart.Cart) CartView {
	return CartView{Cart: c, Total: c.Total(), Count: c.Count(), FreeDelivery: c.FreeDelivery()}
}

// AddProductRequest adds a drink or other ready-made product.
type AddProductRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1,lte=50"`
}

// UpdateQuantityRequest sets a line quantity; zero removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=50"`
}

// HandleNewCart issues a fresh, empty cart.
func (h *CartHandler) HandleNewCart(c *fiber.Ctx) error {
	ct, err := h.carts.Get(c.UserContext(), "")
	if err != nil {
		return fail(c, "Could not create cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(viewCart(ct))
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	ct, err := h.carts.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "Could not retrieve cart", err)
	}
	return c.JSON(viewCart(ct))
}

func (h *CartHandler) HandleAddProduct(c *fiber.Ctx) error {
	var req AddProductRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	ct, item, err := h.carts.AddProduct(c.UserContext(), c.Params("id"), req.ProductID, req.Quantity)
	if err != nil {
		return fail(c, "Could not add product to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"cart": viewCart(ct),
		"item": item,
	})
}

func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	ct, err := h.carts.UpdateQuantity(c.UserContext(), c.Params("id"), c.Params("itemId"), req.Quantity)
	if err != nil {
		return fail(c, "Could not update cart item", err)
	}
	return c.JSON(viewCart(ct))
}

func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	ct, err := h.carts.Remove(c.UserContext(), c.Params("id"), c.Params("itemId"))
	if err != nil {
		return fail(c, "Could not remove cart item", err)
	}
	return c.JSON(viewCart(ct))
}

func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	ct, err := h.carts.Clear(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "Could not clear cart", err)
	}
	return c.JSON(viewCart(ct))
}
