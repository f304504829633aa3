package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"mercado/internal/models"

	"github.com/google/uuid"
)

// MockCatalogRepository is an in-memory implementation of CatalogRepository.
type MockCatalogRepository struct {
	categories map[string]models.Category
	brands     map[string]models.Brand
	mu         sync.RWMutex
}

// NewMockCatalogRepository creates a new instance of MockCatalogRepository.
func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		categories: make(map[string]models.Category),
		brands:     make(map[string]models.Brand),
	}
}

// ListCategories returns all active categories ordered by name.
func (r *MockCatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		if c.IsActive {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// ListBrands returns all active brands ordered by name.
func (r *MockCatalogRepository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	brands := make([]models.Brand, 0, len(r.brands))
	for _, b := range r.brands {
		if b.IsActive {
			brands = append(brands, b)
		}
	}
	sort.Slice(brands, func(i, j int) bool { return brands[i].Name < brands[j].Name })
	return brands, nil
}

// GetCategoryByID returns a category by its ID.
func (r *MockCatalogRepository) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok {
		return nil, fmt.Errorf("category with ID %s: %w", id, ErrCategoryNotFound)
	}
	return &category, nil
}

// GetBrandByID returns a brand by its ID.
func (r *MockCatalogRepository) GetBrandByID(ctx context.Context, id string) (*models.Brand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	brand, ok := r.brands[id]
	if !ok {
		return nil, fmt.Errorf("brand with ID %s: %w", id, ErrBrandNotFound)
	}
	return &brand, nil
}

// CreateCategory adds a new category.
func (r *MockCatalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	r.categories[category.ID] = *category
	return nil
}

// CreateBrand adds a new brand.
func (r *MockCatalogRepository) CreateBrand(ctx context.Context, brand *models.Brand) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if brand.ID == "" {
		brand.ID = uuid.New().String()
	}
	r.brands[brand.ID] = *brand
	return nil
}
