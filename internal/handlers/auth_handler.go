package handlers

import (
	"log"

	"pizzaria/internal/middleware"
	"pizzaria/internal/models"
	"pizzaria/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for staff authentication and accounts.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterAdminRoutes registers account management, restricted to admins.
func (h *AuthHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/me", h.HandleMe)
	users := router.Group("/users", middleware.RequireRole(models.RoleAdmin))
	users.Get("/", h.HandleListUsers)
	users.Post("/", h.HandleRegister)
	users.Put("/:id/roles", h.HandleSetRoles)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	token, err := h.authService.LoginUser(req.Username, req.Password)
	if err != nil {
		log.Printf("Error during login for user %s: %v", req.Username, err)
		return fail(c, "Authentication failed", err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}

func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user_id":  c.Locals("user_id"),
		"username": middleware.Username(c),
		"roles":    c.Locals("roles"),
	})
}

func (h *AuthHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers()
	if err != nil {
		return fail(c, "Could not retrieve users", err)
	}
	return c.JSON(users)
}

// RegisterRequest creates a back-office account.
type RegisterRequest struct {
	models.Profile
	Roles []models.Role `json:"roles" validate:"dive,oneof=admin staff"`
}

// HandleRegister creates a staff account with the requested roles.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	user := req.Profile
	user.Roles = nil
	roles := req.Roles
	if len(roles) == 0 {
		roles = []models.Role{models.RoleStaff}
	}

	if err := h.authService.RegisterUser(&user, roles...); err != nil {
		log.Printf("Error registering user: %v", err)
		return fail(c, "Registration failed", err)
	}

	// For security, do not return the password hash
	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

type SetRolesRequest struct {
	Roles []models.Role `json:"roles" validate:"dive,oneof=admin staff"`
}

func (h *AuthHandler) HandleSetRoles(c *fiber.Ctx) error {
	var req SetRolesRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	if err := h.authService.SetRoles(c.Params("id"), req.Roles...); err != nil {
		return fail(c, "Could not update roles", err)
	}
	return c.JSON(fiber.Map{"message": "Roles updated"})
}
