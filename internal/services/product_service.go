package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"mercado/internal/apperrors"
	"mercado/internal/models"
	"mercado/internal/repositories"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// DefaultOperationTimeout bounds store access when no explicit timeout is
// configured.
const DefaultOperationTimeout = 5 * time.Second

// Messages reported to API consumers.
const (
	msgOnlyVerifiedVendors = "Only verified vendors can create products."
	msgOnlyVendors         = "Only vendors can access this endpoint."
	msgOnlyAdmins          = "Only administrators can access this endpoint."
	msgNotYourProduct      = "You do not have permission to manage this product."
	msgProductNotReady     = "Product is not ready for review."
	msgEditableStates      = "You can only edit products in 'draft' or 'rejected' status. Current status: %s."
	msgSubmitStates        = "Only products in 'draft' or 'rejected' status can be submitted for approval."
	msgApprovePending      = "Only pending products can be approved."
	msgRejectPending       = "Only pending products can be rejected."
	msgDeactivateActive    = "Only active products can be deactivated."
	msgReactivateInactive  = "Only inactive products can be reactivated."
)

// ProductService owns the product lifecycle: drafting, image management,
// review submission and moderation. Every operation takes the acting
// identity explicitly and reports failures with the apperrors taxonomy.
type ProductService struct {
	productRepo repositories.ProductRepository
	catalogRepo repositories.CatalogRepository
	events      EventPublisher
	timeout     time.Duration
}

// NewProductService creates a new ProductService. timeout bounds every
// store operation; events may be nil when no broker is configured.
func NewProductService(productRepo repositories.ProductRepository, catalogRepo repositories.CatalogRepository, events EventPublisher, timeout time.Duration) *ProductService {
	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}
	return &ProductService{
		productRepo: productRepo,
		catalogRepo: catalogRepo,
		events:      events,
		timeout:     timeout,
	}
}

// opContext bounds one store operation so no caller blocks indefinitely.
func (s *ProductService) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// storeErr lifts repository failures into the service error taxonomy.
func storeErr(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeout("The product store did not respond in time.").WrapParent(err)
	case errors.Is(err, repositories.ErrProductNotFound):
		return apperrors.NewNotFound("Product not found.").WrapParent(err)
	case errors.Is(err, repositories.ErrImageNotFound):
		return apperrors.NewNotFound("Image not found.").WrapParent(err)
	case errors.Is(err, repositories.ErrCategoryNotFound):
		return apperrors.NewNotFound("Category not found.").WrapParent(err)
	case errors.Is(err, repositories.ErrBrandNotFound):
		return apperrors.NewNotFound("Brand not found.").WrapParent(err)
	default:
		return apperrors.NewInternal(err, "product store failure")
	}
}

// transitionErr classifies a failed compare-and-swap transition: a stale
// status means some other request won the race, which callers report as an
// invalid state.
func transitionErr(err error, invalidMsg string) error {
	var stale *repositories.StaleStatusError
	if errors.As(err, &stale) {
		return apperrors.NewInvalidState(invalidMsg).WrapParent(err)
	}
	return storeErr(err)
}

// productSlug derives a stable URL slug from the product name. The ID
// suffix keeps slugs unique across products with the same name.
func productSlug(name, id string) string {
	suffix := id
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return slug.Make(name) + "-" + suffix
}

// CreateProductInput carries the fields a vendor supplies when drafting a
// new product. Only the name is required up front; drafts may stay
// incomplete until submission.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	CategoryID  string
	BrandID     string
}

// UpdateProductInput is a partial edit; nil fields keep their stored values.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	CategoryID  *string
	BrandID     *string
}

// AddImageInput describes a new gallery image.
type AddImageInput struct {
	ImageURL     string
	AltText      string
	DisplayOrder int
	IsPrimary    bool
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PerPage  int              `json:"per_page"`
}

// VendorCatalog is a vendor's listing page together with catalog stats.
type VendorCatalog struct {
	Products []models.Product     `json:"products"`
	Stats    *models.ProductStats `json:"stats"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PerPage  int                  `json:"per_page"`
}

// CreateProduct drafts a new product owned by the acting vendor.
func (s *ProductService) CreateProduct(ctx context.Context, actor models.Actor, input CreateProductInput) (*models.Product, error) {
	if !actor.CanCreateProducts() {
		return nil, apperrors.NewAuthorization(msgOnlyVerifiedVendors)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidation("Product name is required.")
	}
	if input.Price.IsNegative() {
		return nil, apperrors.NewValidation("Product price cannot be negative.")
	}
	if input.Stock < 0 {
		return nil, apperrors.NewValidation(models.ViolationNegativeStock)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.checkReferences(ctx, input.CategoryID, input.BrandID); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          uuid.New().String(),
		SellerID:    actor.ID,
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
		BrandID:     input.BrandID,
		Status:      models.StatusDraft,
	}
	product.Slug = productSlug(name, product.ID)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, storeErr(err)
	}
	return product, nil
}

// checkReferences verifies that referenced catalog entries exist.
func (s *ProductService) checkReferences(ctx context.Context, categoryID, brandID string) error {
	if categoryID != "" {
		if _, err := s.catalogRepo.GetCategoryByID(ctx, categoryID); err != nil {
			return storeErr(err)
		}
	}
	if brandID != "" {
		if _, err := s.catalogRepo.GetBrandByID(ctx, brandID); err != nil {
			return storeErr(err)
		}
	}
	return nil
}

// UpdateProduct applies a partial edit to a product the actor owns. Edits
// are only allowed while the product is a draft or was rejected; revising a
// rejected product clears its rejection note.
func (s *ProductService) UpdateProduct(ctx context.Context, actor models.Actor, productID string, input UpdateProductInput) (*models.Product, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !product.OwnedBy(actor) {
		return nil, apperrors.NewAuthorization(msgNotYourProduct)
	}
	if !product.Editable() {
		return nil, apperrors.NewInvalidState(fmt.Sprintf(msgEditableStates, product.Status))
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidation("Product name cannot be empty.")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, apperrors.NewValidation("Product price cannot be negative.")
		}
		product.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperrors.NewValidation(models.ViolationNegativeStock)
		}
		product.Stock = *input.Stock
	}
	if input.CategoryID != nil {
		if *input.CategoryID != "" {
			if _, err := s.catalogRepo.GetCategoryByID(ctx, *input.CategoryID); err != nil {
				return nil, storeErr(err)
			}
		}
		product.CategoryID = *input.CategoryID
	}
	if input.BrandID != nil {
		if *input.BrandID != "" {
			if _, err := s.catalogRepo.GetBrandByID(ctx, *input.BrandID); err != nil {
				return nil, storeErr(err)
			}
		}
		product.BrandID = *input.BrandID
	}

	if product.Status == models.StatusRejected {
		product.RejectionReason = ""
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, storeErr(err)
	}
	return product, nil
}

// AddImage appends an image to a product the actor owns. The repository
// guarantees the first image becomes primary no matter what the caller
// asked for.
func (s *ProductService) AddImage(ctx context.Context, actor models.Actor, productID string, input AddImageInput) (*models.ProductImage, error) {
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, apperrors.NewValidation("Image URL is required.")
	}
	if input.DisplayOrder < 0 {
		return nil, apperrors.NewValidation("Image display order cannot be negative.")
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !product.OwnedBy(actor) {
		return nil, apperrors.NewAuthorization(msgNotYourProduct)
	}

	image := &models.ProductImage{
		ImageURL:     input.ImageURL,
		AltText:      input.AltText,
		DisplayOrder: input.DisplayOrder,
		IsPrimary:    input.IsPrimary,
	}
	if err := s.productRepo.AddImage(ctx, productID, image); err != nil {
		return nil, storeErr(err)
	}
	return image, nil
}

// RemoveImage deletes an image from a product the actor owns. Removing the
// primary image promotes the remaining image with the lowest display order.
func (s *ProductService) RemoveImage(ctx context.Context, actor models.Actor, productID, imageID string) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return storeErr(err)
	}
	if !product.OwnedBy(actor) {
		return apperrors.NewAuthorization(msgNotYourProduct)
	}

	if err := s.productRepo.RemoveImage(ctx, productID, imageID); err != nil {
		return storeErr(err)
	}
	return nil
}

// SetPrimaryImage makes the target image the product's single primary.
func (s *ProductService) SetPrimaryImage(ctx context.Context, actor models.Actor, productID, imageID string) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return storeErr(err)
	}
	if !product.OwnedBy(actor) {
		return apperrors.NewAuthorization(msgNotYourProduct)
	}

	if err := s.productRepo.SetPrimaryImage(ctx, productID, imageID); err != nil {
		return storeErr(err)
	}
	return nil
}

// SubmitForReview moves a draft or rejected product into the moderation
// queue. All broken submission rules are reported together so the vendor
// can fix the product in one pass.
func (s *ProductService) SubmitForReview(ctx context.Context, actor models.Actor, productID string) (*models.Product, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !product.OwnedBy(actor) {
		return nil, apperrors.NewAuthorization(msgNotYourProduct)
	}

	from := product.Status
	to, ok := models.NextStatus(from, models.ActionSubmit)
	if !ok {
		return nil, apperrors.NewInvalidState(msgSubmitStates)
	}

	if violations := product.SubmissionViolations(); len(violations) > 0 {
		return nil, apperrors.NewValidation(msgProductNotReady).WithViolations(violations)
	}

	changes := map[string]interface{}{}
	if from == models.StatusRejected {
		changes["rejection_reason"] = ""
	}
	if err := s.productRepo.TransitionStatus(ctx, productID, from, to, changes); err != nil {
		return nil, transitionErr(err, msgSubmitStates)
	}

	product.Status = to
	product.RejectionReason = ""
	s.publishLifecycleEvent(product, models.ActionSubmit, from, to, "")
	return product, nil
}

// Approve activates a pending product and stamps who approved it when.
func (s *ProductService) Approve(ctx context.Context, actor models.Actor, productID string) (*models.Product, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewAuthorization(msgOnlyAdmins)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, storeErr(err)
	}

	from := product.Status
	to, ok := models.NextStatus(from, models.ActionApprove)
	if !ok {
		return nil, apperrors.NewInvalidState(msgApprovePending)
	}

	now := time.Now().UTC()
	changes := map[string]interface{}{
		"approved_by": actor.ID,
		"approved_at": &now,
	}
	if err := s.productRepo.TransitionStatus(ctx, productID, from, to, changes); err != nil {
		return nil, transitionErr(err, msgApprovePending)
	}

	product.Status = to
	product.ApprovedBy = actor.ID
	product.ApprovedAt = &now
	s.publishLifecycleEvent(product, models.ActionApprove, from, to, "")
	return product, nil
}

// Reject declines a pending product, keeping the reviewer's reason so the
// vendor knows what to fix.
func (s *ProductService) Reject(ctx context.Context, actor models.Actor, productID, reason string) (*models.Product, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewAuthorization(msgOnlyAdmins)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, storeErr(err)
	}

	from := product.Status
	to, ok := models.NextStatus(from, models.ActionReject)
	if !ok {
		return nil, apperrors.NewInvalidState(msgRejectPending)
	}

	changes := map[string]interface{}{"rejection_reason": reason}
	if err := s.productRepo.TransitionStatus(ctx, productID, from, to, changes); err != nil {
		return nil, transitionErr(err, msgRejectPending)
	}

	product.Status = to
	product.RejectionReason = reason
	s.publishLifecycleEvent(product, models.ActionReject, from, to, reason)
	return product, nil
}

// SetActive flips a product between its two public states: true reactivates
// an inactive product, false deactivates an active one.
func (s *ProductService) SetActive(ctx context.Context, actor models.Actor, productID string, active bool) (*models.Product, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewAuthorization(msgOnlyAdmins)
	}

	action := models.ActionDeactivate
	invalidMsg := msgDeactivateActive
	if active {
		action = models.ActionReactivate
		invalidMsg = msgReactivateInactive
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, storeErr(err)
	}

	from := product.Status
	to, ok := models.NextStatus(from, action)
	if !ok {
		return nil, apperrors.NewInvalidState(invalidMsg)
	}

	if err := s.productRepo.TransitionStatus(ctx, productID, from, to, nil); err != nil {
		return nil, transitionErr(err, invalidMsg)
	}

	product.Status = to
	s.publishLifecycleEvent(product, action, from, to, "")
	return product, nil
}

// ListVendorProducts returns one page of the acting vendor's own products
// together with their per-status stats.
func (s *ProductService) ListVendorProducts(ctx context.Context, actor models.Actor, filter repositories.ProductFilter) (*VendorCatalog, error) {
	if !actor.IsVendor() {
		return nil, apperrors.NewAuthorization(msgOnlyVendors)
	}
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		return nil, apperrors.NewValidation(fmt.Sprintf("Invalid status filter: %s.", filter.Status))
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	filter.Normalize()
	products, total, err := s.productRepo.ListBySeller(ctx, actor.ID, filter)
	if err != nil {
		return nil, storeErr(err)
	}
	stats, err := s.productRepo.SellerStats(ctx, actor.ID)
	if err != nil {
		return nil, storeErr(err)
	}

	return &VendorCatalog{
		Products: products,
		Stats:    stats,
		Total:    total,
		Page:     filter.Page,
		PerPage:  filter.PerPage,
	}, nil
}

// GetVendorProduct returns one of the acting vendor's own products.
// Another vendor's product is reported as missing, not forbidden.
func (s *ProductService) GetVendorProduct(ctx context.Context, actor models.Actor, productID string) (*models.Product, error) {
	if !actor.IsVendor() {
		return nil, apperrors.NewAuthorization(msgOnlyVendors)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !product.OwnedBy(actor) {
		return nil, apperrors.NewNotFound("Product not found.")
	}
	return product, nil
}

// ListModerationQueue returns products awaiting (or past) moderation.
// Without an explicit status filter it shows the pending queue.
func (s *ProductService) ListModerationQueue(ctx context.Context, actor models.Actor, filter repositories.ProductFilter) (*ProductPage, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewAuthorization(msgOnlyAdmins)
	}
	if filter.Status == "" {
		filter.Status = models.StatusPending
	}
	if !models.ValidStatus(filter.Status) {
		return nil, apperrors.NewValidation(fmt.Sprintf("Invalid status filter: %s.", filter.Status))
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	filter.Normalize()
	products, total, err := s.productRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, storeErr(err)
	}
	return &ProductPage{Products: products, Total: total, Page: filter.Page, PerPage: filter.PerPage}, nil
}

// ListPublicProducts returns one page of the public storefront: active
// products only.
func (s *ProductService) ListPublicProducts(ctx context.Context, filter repositories.ProductFilter) (*ProductPage, error) {
	filter.Status = models.StatusActive

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	filter.Normalize()
	products, total, err := s.productRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, storeErr(err)
	}
	return &ProductPage{Products: products, Total: total, Page: filter.Page, PerPage: filter.PerPage}, nil
}

// GetPublicProduct returns an active product by its slug and counts the
// view. Non-active products stay invisible to the public.
func (s *ProductService) GetPublicProduct(ctx context.Context, productSlug string) (*models.Product, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	product, err := s.productRepo.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, storeErr(err)
	}
	if product.Status != models.StatusActive {
		return nil, apperrors.NewNotFound("Product not found.")
	}

	if err := s.productRepo.IncrementViews(ctx, product.ID); err != nil {
		log.Printf("Warning: Failed to increment views for product %s: %v", product.ID, err)
	} else {
		product.ViewsCount++
	}
	return product, nil
}

// ListCategories returns the active categories for storefront filters.
func (s *ProductService) ListCategories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return categories, nil
}

// ListBrands returns the active brands for storefront filters.
func (s *ProductService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	brands, err := s.catalogRepo.ListBrands(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return brands, nil
}

// publishLifecycleEvent reports a completed transition to the broker.
// Publishing is best effort: a broker failure never undoes a transition.
func (s *ProductService) publishLifecycleEvent(product *models.Product, action models.LifecycleAction, from, to models.ProductStatus, reason string) {
	if s.events == nil {
		log.Println("Event publisher is not initialized. Skipping message publication.")
		return
	}
	key, ok := eventRoutingKeys[action]
	if !ok {
		return
	}

	event := ProductEvent{
		ProductID:  product.ID,
		SellerID:   product.SellerID,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal product event to JSON: %v", err)
		return
	}
	if err := s.events.Publish(ProductsExchange, key, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %s: %v", key, product.ID, err)
	}
}
