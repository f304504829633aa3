package repositories

import (
	"context"
	"errors"
	"fmt"

	"mercado/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCatalogRepository is a GORM implementation of CatalogRepository.
type GORMCatalogRepository struct {
	db *gorm.DB
}

// NewGORMCatalogRepository creates a new instance of GORMCatalogRepository.
func NewGORMCatalogRepository(db *gorm.DB) *GORMCatalogRepository {
	return &GORMCatalogRepository{
		db: db,
	}
}

// ListCategories returns all active categories ordered by name.
func (r *GORMCatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ListBrands returns all active brands ordered by name.
func (r *GORMCatalogRepository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&brands).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

// GetCategoryByID retrieves a single category by its ID.
func (r *GORMCatalogRepository) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category with ID %s: %w", id, ErrCategoryNotFound)
		}
		return nil, fmt.Errorf("failed to get category by ID %s: %w", id, err)
	}
	return &category, nil
}

// GetBrandByID retrieves a single brand by its ID.
func (r *GORMCatalogRepository) GetBrandByID(ctx context.Context, id string) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("brand with ID %s: %w", id, ErrBrandNotFound)
		}
		return nil, fmt.Errorf("failed to get brand by ID %s: %w", id, err)
	}
	return &brand, nil
}

// CreateCategory creates a new category in the database.
func (r *GORMCatalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// CreateBrand creates a new brand in the database.
func (r *GORMCatalogRepository) CreateBrand(ctx context.Context, brand *models.Brand) error {
	if brand.ID == "" {
		brand.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(brand).Error; err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}
	return nil
}
