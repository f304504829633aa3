package handlers

import (
	"log"

	"mercado/internal/middleware"
	"mercado/internal/models"
	"mercado/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication and accounts.
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

// RegisterRoutes registers the public authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterAdminRoutes registers the account administration routes. auth must
// be the AuthRequired middleware.
func (h *AuthHandler) RegisterAdminRoutes(router fiber.Router, auth fiber.Handler) {
	adminRoutes := router.Group("/users/admin", auth, middleware.RequireAdmin())
	adminRoutes.Post("/vendors/:id/verify", h.HandleVerifyVendor)
}

// HandleRegister handles new vendor and customer registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	// Validate the user struct
	if err := h.validate.Struct(user); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.authService.RegisterUser(c.UserContext(), &user); err != nil {
		log.Printf("Error registering user: %v", err)
		return respondServiceError(c, err)
	}

	// For security, do not return the password hash
	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	// Validate the login request
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	token, err := h.authService.LoginUser(c.UserContext(), req.Username, req.Password)
	if err != nil {
		log.Printf("Error during login for user %s: %v", req.Username, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   "invalid credentials",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}

// HandleVerifyVendor lets an administrator mark a vendor account as a
// verified vendor.
func (h *AuthHandler) HandleVerifyVendor(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	user, err := h.authService.VerifyVendor(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"message": "Vendor verified successfully",
		"user":    user,
	})
}
