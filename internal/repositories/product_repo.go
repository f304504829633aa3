package repositories

import (
	"context"
	"errors"
	"fmt"

	"mercado/internal/models"
)

// Sentinel errors returned by repositories so callers can classify
// failures without matching message text.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrImageNotFound   = errors.New("image not found")
	ErrUserNotFound    = errors.New("user not found")
)

// StaleStatusError reports a status transition that found the product in a
// different status than the caller expected. It carries the status actually
// observed so callers can say which state blocked them.
type StaleStatusError struct {
	Expected models.ProductStatus
	Current  models.ProductStatus
}

func (e *StaleStatusError) Error() string {
	return fmt.Sprintf("product status is '%s', expected '%s'", e.Current, e.Expected)
}

// Listing page bounds, shared by vendor, admin and public listings.
const (
	DefaultPerPage = 12
	MaxPerPage     = 50
)

// ProductFilter narrows and pages a product listing.
type ProductFilter struct {
	Status     models.ProductStatus
	CategoryID string
	Search     string
	Page       int
	PerPage    int
}

// Normalize clamps paging values into their allowed ranges.
func (f *ProductFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
}

// Offset returns the row offset for the current page.
func (f ProductFilter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

// ProductRepository defines the interface for product data access.
//
// TransitionStatus is compare-and-swap: it moves the product from `from` to
// `to` only while the stored status still equals `from`, applying any extra
// column changes in the same write. When the product exists but its status
// moved on, it returns a *StaleStatusError; when it does not exist,
// ErrProductNotFound. Image mutations are atomic per product and keep at
// most one image primary.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	TransitionStatus(ctx context.Context, id string, from, to models.ProductStatus, changes map[string]interface{}) error
	ListBySeller(ctx context.Context, sellerID string, filter ProductFilter) ([]models.Product, int64, error)
	ListAll(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	SellerStats(ctx context.Context, sellerID string) (*models.ProductStats, error)
	IncrementViews(ctx context.Context, id string) error
	AddImage(ctx context.Context, productID string, image *models.ProductImage) error
	RemoveImage(ctx context.Context, productID, imageID string) error
	SetPrimaryImage(ctx context.Context, productID, imageID string) error
}
