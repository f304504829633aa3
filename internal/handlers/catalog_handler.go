package handlers

import (
	"mercado/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles the public storefront: active products, category
// and brand dictionaries. No authentication required.
type CatalogHandler struct {
	service *services.ProductService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.ProductService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// RegisterRoutes registers the public catalog routes with the Fiber app.
// Call this after every other /products group: the slug route matches any
// single trailing segment.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	publicRoutes := router.Group("/products")
	publicRoutes.Get("/", h.HandleListProducts)
	publicRoutes.Get("/categories", h.HandleListCategories)
	publicRoutes.Get("/brands", h.HandleListBrands)
	publicRoutes.Get("/:slug", h.HandleGetProduct)
}

// HandleListProducts returns one page of active products.
func (h *CatalogHandler) HandleListProducts(c *fiber.Ctx) error {
	page, err := h.service.ListPublicProducts(c.UserContext(), productFilterFromQuery(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// HandleGetProduct returns an active product by its slug and counts the view.
func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetPublicProduct(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(product)
}

// HandleListCategories returns the active categories.
func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(categories)
}

// HandleListBrands returns the active brands.
func (h *CatalogHandler) HandleListBrands(c *fiber.Ctx) error {
	brands, err := h.service.ListBrands(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(brands)
}
