package handlers

import (
	"log"

	"mercado/internal/middleware"
	"mercado/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminProductHandler handles HTTP requests for product moderation.
type AdminProductHandler struct {
	service *services.ProductService
}

// NewAdminProductHandler creates a new AdminProductHandler.
func NewAdminProductHandler(service *services.ProductService) *AdminProductHandler {
	return &AdminProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the moderation routes with the Fiber app. auth
// must be the AuthRequired middleware.
func (h *AdminProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	adminRoutes := router.Group("/products/admin", auth, middleware.RequireAdmin())
	adminRoutes.Get("/products", h.HandleModerationQueue)
	adminRoutes.Post("/products/:id/approve", h.HandleApprove)
	adminRoutes.Post("/products/:id/reject", h.HandleReject)
	adminRoutes.Post("/products/:id/set-active", h.HandleSetActive)
}

// HandleModerationQueue lists products awaiting moderation. Without an
// explicit status filter it shows the pending queue.
func (h *AdminProductHandler) HandleModerationQueue(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	page, err := h.service.ListModerationQueue(c.UserContext(), actor, productFilterFromQuery(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// HandleApprove activates a pending product.
func (h *AdminProductHandler) HandleApprove(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	product, err := h.service.Approve(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product approved",
		"product": product,
	})
}

// HandleReject declines a pending product with an optional reason.
func (h *AdminProductHandler) HandleReject(c *fiber.Ctx) error {
	var req struct {
		Reason string `json:"reason"`
	}
	// The reason body is optional; a bare POST rejects without one.
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			log.Printf("Error parsing reject request body: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
				"error":   err.Error(),
			})
		}
	}

	actor := middleware.ActorFromContext(c)
	product, err := h.service.Reject(c.UserContext(), actor, c.Params("id"), req.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product rejected",
		"product": product,
	})
}

// HandleSetActive flips a product between active and inactive.
func (h *AdminProductHandler) HandleSetActive(c *fiber.Ctx) error {
	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing set active request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Active == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "The 'active' field is required.",
		})
	}

	actor := middleware.ActorFromContext(c)
	product, err := h.service.SetActive(c.UserContext(), actor, c.Params("id"), *req.Active)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product visibility updated",
		"product": product,
	})
}
