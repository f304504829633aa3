package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"mercado/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// The single mutex serializes every mutation, which is the same guarantee
// the database implementation gets from its transactions and row locks.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// cloneProduct copies a product together with its image slice so callers
// never alias stored state.
func cloneProduct(p models.Product) models.Product {
	images := make([]models.ProductImage, len(p.Images))
	copy(images, p.Images)
	p.Images = images
	return p
}

// Create adds a new product.
func (r *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = cloneProduct(*product)
	return nil
}

// GetByID returns a product with its images in display order.
func (r *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	out := cloneProduct(product)
	models.SortImages(out.Images)
	return &out, nil
}

// GetBySlug returns a product with its images in display order.
func (r *MockProductRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, product := range r.products {
		if product.Slug == slug {
			out := cloneProduct(product)
			models.SortImages(out.Images)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("product with slug %s: %w", slug, ErrProductNotFound)
}

// Update modifies an existing product's own fields, leaving images alone.
func (r *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrProductNotFound)
	}
	updated := cloneProduct(*product)
	updated.Images = stored.Images
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now()
	r.products[product.ID] = updated
	return nil
}

// TransitionStatus applies a compare-and-swap status change under the lock.
func (r *MockProductRepository) TransitionStatus(ctx context.Context, id string, from, to models.ProductStatus, changes map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	if product.Status != from {
		return &StaleStatusError{Expected: from, Current: product.Status}
	}

	product.Status = to
	for col, val := range changes {
		switch col {
		case "rejection_reason":
			product.RejectionReason, _ = val.(string)
		case "approved_by":
			product.ApprovedBy, _ = val.(string)
		case "approved_at":
			switch t := val.(type) {
			case *time.Time:
				product.ApprovedAt = t
			case time.Time:
				product.ApprovedAt = &t
			}
		}
	}
	product.UpdatedAt = time.Now()
	r.products[id] = product
	return nil
}

// matchFilter applies the non-paging filter fields to one product.
func matchFilter(p models.Product, filter ProductFilter) bool {
	if filter.Status != "" && p.Status != filter.Status {
		return false
	}
	if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	return true
}

func (r *MockProductRepository) list(filter ProductFilter, keep func(models.Product) bool) ([]models.Product, int64) {
	filter.Normalize()

	var matched []models.Product
	for _, p := range r.products {
		if keep(p) && matchFilter(p, filter) {
			matched = append(matched, cloneProduct(p))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := int64(len(matched))
	start := filter.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	page := matched[start:end]
	for i := range page {
		models.SortImages(page[i].Images)
	}
	return page, total
}

// ListBySeller returns one page of a vendor's own products, newest first.
func (r *MockProductRepository) ListBySeller(ctx context.Context, sellerID string, filter ProductFilter) ([]models.Product, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	products, total := r.list(filter, func(p models.Product) bool { return p.SellerID == sellerID })
	return products, total, nil
}

// ListAll returns one page of products across all sellers, newest first.
func (r *MockProductRepository) ListAll(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	products, total := r.list(filter, func(models.Product) bool { return true })
	return products, total, nil
}

// SellerStats aggregates a vendor's catalog counts and metric totals.
func (r *MockProductRepository) SellerStats(ctx context.Context, sellerID string) (*models.ProductStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &models.ProductStats{}
	for _, p := range r.products {
		if p.SellerID != sellerID {
			continue
		}
		stats.TotalProducts++
		switch p.Status {
		case models.StatusDraft:
			stats.DraftProducts++
		case models.StatusPending:
			stats.PendingProducts++
		case models.StatusActive:
			stats.ActiveProducts++
		case models.StatusInactive:
			stats.InactiveProducts++
		case models.StatusRejected:
			stats.RejectedProducts++
		}
		stats.TotalViews += int64(p.ViewsCount)
		stats.TotalSales += int64(p.SalesCount)
	}
	return stats, nil
}

// IncrementViews bumps the product's view counter in place.
func (r *MockProductRepository) IncrementViews(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	product.ViewsCount++
	r.products[id] = product
	return nil
}

// AddImage appends an image; the first image is always primary, a later
// image marked primary demotes the existing one.
func (r *MockProductRepository) AddImage(ctx context.Context, productID string, image *models.ProductImage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", productID, ErrProductNotFound)
	}

	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	image.ProductID = productID
	image.CreatedAt = time.Now()
	if len(product.Images) == 0 {
		image.IsPrimary = true
	} else if image.IsPrimary {
		for i := range product.Images {
			product.Images[i].IsPrimary = false
		}
	}
	product.Images = append(product.Images, *image)
	r.products[productID] = product
	return nil
}

// RemoveImage hard-deletes an image; removing the primary promotes the
// remaining image with the lowest display order.
func (r *MockProductRepository) RemoveImage(ctx context.Context, productID, imageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", productID, ErrProductNotFound)
	}

	idx := -1
	for i := range product.Images {
		if product.Images[i].ID == imageID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("image with ID %s on product %s: %w", imageID, productID, ErrImageNotFound)
	}

	wasPrimary := product.Images[idx].IsPrimary
	product.Images = append(product.Images[:idx], product.Images[idx+1:]...)
	if wasPrimary {
		if next := models.NextPrimary(product.Images); next != nil {
			next.IsPrimary = true
		}
	}
	r.products[productID] = product
	return nil
}

// SetPrimaryImage makes the target image the product's single primary.
func (r *MockProductRepository) SetPrimaryImage(ctx context.Context, productID, imageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", productID, ErrProductNotFound)
	}

	found := false
	for i := range product.Images {
		if product.Images[i].ID == imageID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("image with ID %s on product %s: %w", imageID, productID, ErrImageNotFound)
	}

	for i := range product.Images {
		product.Images[i].IsPrimary = product.Images[i].ID == imageID
	}
	r.products[productID] = product
	return nil
}
