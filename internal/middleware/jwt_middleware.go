package middleware

import (
	"log"
	"strings"

	"mercado/internal/models"
	"mercado/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		tokenString := parts[1]

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals("user_id", claims["user_id"])
		c.Locals("username", claims["username"])
		c.Locals("role", claims["role"])
		c.Locals("verified_vendor", claims["verified_vendor"])

		// Continue to the next handler
		return c.Next()
	}
}

// ActorFromContext rebuilds the acting identity from the claims AuthRequired
// stored. Missing or malformed claims leave zero values, which every role
// check treats as no permission.
func ActorFromContext(c *fiber.Ctx) models.Actor {
	var actor models.Actor
	if id, ok := c.Locals("user_id").(string); ok {
		actor.ID = id
	}
	if role, ok := c.Locals("role").(string); ok {
		actor.Role = models.Role(role)
	}
	if verified, ok := c.Locals("verified_vendor").(bool); ok {
		actor.VerifiedVendor = verified
	}
	return actor
}

// RequireVendor guards vendor-only route groups. It must run after
// AuthRequired.
func RequireVendor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if actor := ActorFromContext(c); !actor.IsVendor() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Only vendors can access this endpoint.",
			})
		}
		return c.Next()
	}
}

// RequireAdmin guards admin-only route groups. It must run after
// AuthRequired.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if actor := ActorFromContext(c); !actor.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Only administrators can access this endpoint.",
			})
		}
		return c.Next()
	}
}
