package handlers

import (
	"log"

	"mercado/internal/middleware"
	"mercado/internal/models"
	"mercado/internal/repositories"
	"mercado/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// VendorProductHandler handles HTTP requests for a vendor's own catalog:
// drafting products, managing gallery images and submitting for review.
type VendorProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewVendorProductHandler creates a new VendorProductHandler.
func NewVendorProductHandler(service *services.ProductService) *VendorProductHandler {
	return &VendorProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the vendor product routes with the Fiber app.
// auth must be the AuthRequired middleware.
func (h *VendorProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	vendorRoutes := router.Group("/products/vendor", auth, middleware.RequireVendor())
	vendorRoutes.Get("/", h.HandleListProducts)
	vendorRoutes.Post("/create", h.HandleCreateProduct)
	vendorRoutes.Get("/:id", h.HandleGetProduct)
	vendorRoutes.Put("/:id/update", h.HandleUpdateProduct)
	vendorRoutes.Patch("/:id/update", h.HandleUpdateProduct)
	vendorRoutes.Post("/:id/submit", h.HandleSubmitForReview)
	vendorRoutes.Post("/:id/images", h.HandleAddImage)
	vendorRoutes.Delete("/:id/images/:imageId/delete", h.HandleRemoveImage)
	vendorRoutes.Post("/:id/images/:imageId/set-primary", h.HandleSetPrimaryImage)
}

// CreateProductRequest represents the request body for drafting a product.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=3,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	CategoryID  string          `json:"category_id"`
	BrandID     string          `json:"brand_id"`
}

// UpdateProductRequest represents a partial product edit. Absent fields
// keep their stored values.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=3,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	CategoryID  *string          `json:"category_id"`
	BrandID     *string          `json:"brand_id"`
}

// AddImageRequest represents the request body for adding a gallery image.
type AddImageRequest struct {
	ImageURL     string `json:"image_url" validate:"required,url,max=500"`
	AltText      string `json:"alt_text" validate:"max=200"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
	IsPrimary    bool   `json:"is_primary"`
}

// productFilterFromQuery builds a listing filter from the query string.
func productFilterFromQuery(c *fiber.Ctx) repositories.ProductFilter {
	return repositories.ProductFilter{
		Status:     models.ProductStatus(c.Query("status")),
		CategoryID: c.Query("category"),
		Search:     c.Query("search"),
		Page:       c.QueryInt("page", 1),
		PerPage:    c.QueryInt("per_page", 0),
	}
}

// HandleListProducts returns one page of the vendor's own products together
// with per-status stats.
func (h *VendorProductHandler) HandleListProducts(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	catalog, err := h.service.ListVendorProducts(c.UserContext(), actor, productFilterFromQuery(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(catalog)
}

// HandleGetProduct returns one of the vendor's own products.
func (h *VendorProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	product, err := h.service.GetVendorProduct(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct drafts a new product owned by the acting vendor.
func (h *VendorProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	actor := middleware.ActorFromContext(c)
	product, err := h.service.CreateProduct(c.UserContext(), actor, services.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial edit to a draft or rejected product.
func (h *VendorProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	actor := middleware.ActorFromContext(c)
	product, err := h.service.UpdateProduct(c.UserContext(), actor, c.Params("id"), services.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(product)
}

// HandleSubmitForReview moves a draft or rejected product into the
// moderation queue.
func (h *VendorProductHandler) HandleSubmitForReview(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	product, err := h.service.SubmitForReview(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product submitted for review",
		"product": product,
	})
}

// HandleAddImage adds a gallery image to the vendor's product.
func (h *VendorProductHandler) HandleAddImage(c *fiber.Ctx) error {
	var req AddImageRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add image request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	actor := middleware.ActorFromContext(c)
	image, err := h.service.AddImage(c.UserContext(), actor, c.Params("id"), services.AddImageInput{
		ImageURL:     req.ImageURL,
		AltText:      req.AltText,
		DisplayOrder: req.DisplayOrder,
		IsPrimary:    req.IsPrimary,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}

// HandleRemoveImage deletes a gallery image from the vendor's product.
func (h *VendorProductHandler) HandleRemoveImage(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if err := h.service.RemoveImage(c.UserContext(), actor, c.Params("id"), c.Params("imageId")); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Image deleted successfully",
	})
}

// HandleSetPrimaryImage makes the target image the product's primary image.
func (h *VendorProductHandler) HandleSetPrimaryImage(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if err := h.service.SetPrimaryImage(c.UserContext(), actor, c.Params("id"), c.Params("imageId")); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Primary image updated successfully",
	})
}
