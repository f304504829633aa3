package repositories

import (
	"context"
	"errors"

	"mercado/internal/models"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrBrandNotFound    = errors.New("brand not found")
)

// CatalogRepository defines the interface for category and brand data
// access. Listings return active entries only, ordered by name.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
	GetBrandByID(ctx context.Context, id string) (*models.Brand, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	CreateBrand(ctx context.Context, brand *models.Brand) error
}
