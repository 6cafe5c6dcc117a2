package handlers

import (
	"pizzaria/internal/models"
	"pizzaria/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CatalogAdminHandler handles back-office CRUD for the menu.
type CatalogAdminHandler struct {
	products *services.ProductService
	combos   *services.ComboService
	validate *validator.Validate
}

// NewCatalogAdminHandler creates a new CatalogAdminHandler.
func NewCatalogAdminHandler(products *services.ProductService, combos *services.ComboService) *CatalogAdminHandler {
	return &CatalogAdminHandler{products: products, combos: combos, validate: validator.New()}
}

// RegisterRoutes registers the catalog admin routes.
func (h *CatalogAdminHandler) RegisterRoutes(router fiber.Router) {
	products := router.Group("/products")
	products.Get("/", h.HandleGetProducts)
	products.Get("/:id", h.HandleGetProduct)
	products.Post("/", h.HandleCreateProduct)
	products.Put("/:id", h.HandleUpdateProduct)
	products.Delete("/:id", h.HandleDeleteProduct)

	categories := router.Group("/categories")
	categories.Get("/", h.HandleGetCategories)
	categories.Post("/", h.HandleCreateCategory)
	categories.Put("/:id", h.HandleUpdateCategory)
	categories.Delete("/:id", h.HandleDeleteCategory)

	combos := router.Group("/combos")
	combos.Get("/", h.HandleGetCombos)
	combos.Get("/:id", h.HandleGetCombo)
	combos.Post("/", h.HandleCreateCombo)
	combos.Put("/:id", h.HandleUpdateCombo)
	combos.Delete("/:id", h.HandleDeleteCombo)

	borders := router.Group("/borders")
	borders.Get("/", h.HandleGetBorders)
	borders.Post("/", h.HandleCreateBorder)
	borders.Put("/:id", h.HandleUpdateBorder)
	borders.Delete("/:id", h.HandleDeleteBorder)
}

// HandleGetProducts lists every product, inactive ones included.
func (h *CatalogAdminHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.products.GetAllProducts()
	if err != nil {
		return fail(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

func (h *CatalogAdminHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.products.GetProductByID(c.Params("id"))
	if err != nil {
		return fail(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

func (h *CatalogAdminHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if ok, err := parseAndValidate(c, h.validate, &product); !ok {
		return err
	}
	product.ID = ""
	if err := h.products.CreateProduct(c.UserContext(), &product); err != nil {
		return fail(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *CatalogAdminHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if ok, err := parseAndValidate(c, h.validate, &product); !ok {
		return err
	}
	product.ID = c.Params("id")
	if err := h.products.UpdateProduct(c.UserContext(), &product); err != nil {
		return fail(c, "Could not update product", err)
	}
	return c.JSON(product)
}

func (h *CatalogAdminHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.products.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CatalogAdminHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.products.GetAllCategories()
	if err != nil {
		return fail(c, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

func (h *CatalogAdminHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if ok, err := parseAndValidate(c, h.validate, &category); !ok {
		return err
	}
	category.ID = ""
	if err := h.products.CreateCategory(c.UserContext(), &category); err != nil {
		return fail(c, "Could not create category", err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CatalogAdminHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var category models.Category
	if ok, err := parseAndValidate(c, h.validate, &category); !ok {
		return err
	}
	category.ID = c.Params("id")
	if err := h.products.UpdateCategory(c.UserContext(), &category); err != nil {
		return fail(c, "Could not update category", err)
	}
	return c.JSON(category)
}

// HandleDeleteCategory refuses with 409 while products still use the category.
func (h *CatalogAdminHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.products.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, "Could not delete category", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CatalogAdminHandler) HandleGetCombos(c *fiber.Ctx) error {
	combos, err := h.combos.GetAllCombos()
	if err != nil {
		return fail(c, "Could not retrieve combos", err)
	}
	return c.JSON(combos)
}

func (h *CatalogAdminHandler) HandleGetCombo(c *fiber.Ctx) error {
	combo, err := h.combos.GetComboByID(c.Params("id"))
	if err != nil {
		return fail(c, "Could not retrieve combo", err)
	}
	return c.JSON(combo)
}

// HandleCreateCombo stores a combo. Omitting allowed_flavor_ids or
// allowed_drink_ids leaves the combo unrestricted; [] admits nothing.
func (h *CatalogAdminHandler) HandleCreateCombo(c *fiber.Ctx) error {
	var combo models.Combo
	if ok, err := parseAndValidate(c, h.validate, &combo); !ok {
		return err
	}
	combo.ID = ""
	if err := h.combos.CreateCombo(c.UserContext(), &combo); err != nil {
		return fail(c, "Could not create combo", err)
	}
	return c.Status(fiber.StatusCreated).JSON(combo)
}

func (h *CatalogAdminHandler) HandleUpdateCombo(c *fiber.Ctx) error {
	var combo models.Combo
	if ok, err := parseAndValidate(c, h.validate, &combo); !ok {
		return err
	}
	combo.ID = c.Params("id")
	if err := h.combos.UpdateCombo(c.UserContext(), &combo); err != nil {
		return fail(c, "Could not update combo", err)
	}
	return c.JSON(combo)
}

func (h *CatalogAdminHandler) HandleDeleteCombo(c *fiber.Ctx) error {
	if err := h.combos.DeleteCombo(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, "Could not delete combo", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CatalogAdminHandler) HandleGetBorders(c *fiber.Ctx) error {
	borders, err := h.combos.GetAllBorders()
	if err != nil {
		return fail(c, "Could not retrieve borders", err)
	}
	return c.JSON(borders)
}

func (h *CatalogAdminHandler) HandleCreateBorder(c *fiber.Ctx) error {
	var border models.BorderOption
	if ok, err := parseAndValidate(c, h.validate, &border); !ok {
		return err
	}
	border.ID = ""
	if err := h.combos.CreateBorder(c.UserContext(), &border); err != nil {
		return fail(c, "Could not create border", err)
	}
	return c.Status(fiber.StatusCreated).JSON(border)
}

func (h *CatalogAdminHandler) HandleUpdateBorder(c *fiber.Ctx) error {
	var border models.BorderOption
	if ok, err := parseAndValidate(c, h.validate, &border); !ok {
		return err
	}
	border.ID = c.Params("id")
	if err := h.combos.UpdateBorder(c.UserContext(), &border); err != nil {
		return fail(c, "Could not update border", err)
	}
	return c.JSON(border)
}

func (h *CatalogAdminHandler) HandleDeleteBorder(c *fiber.Ctx) error {
	if err := h.combos.DeleteBorder(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, "Could not delete border", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
