package repositories

import (
	"context"
	"errors"
	"fmt"

	"mercado/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// preloadImages loads a product's gallery in display order.
func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("is_primary DESC, display_order ASC, created_at ASC")
	})
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetByID retrieves a single product with its images by ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := preloadImages(r.db.WithContext(ctx)).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetBySlug retrieves a single product with its images by slug.
func (r *GORMProductRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := preloadImages(r.db.WithContext(ctx)).First(&product, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with slug %s: %w", slug, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by slug %s: %w", slug, err)
	}
	return &product, nil
}

// Update updates an existing product's own columns. Images are managed
// through the image methods and never written here.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Omit(clause.Associations).Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Save does not return ErrRecordNotFound for a missing row,
		// so we check RowsAffected.
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrProductNotFound)
	}
	return nil
}

// TransitionStatus applies a compare-and-swap status change. The UPDATE is
// conditioned on the current status so two racing transitions resolve to
// exactly one winner; the loser learns the status that beat it.
func (r *GORMProductRepository) TransitionStatus(ctx context.Context, id string, from, to models.ProductStatus, changes map[string]interface{}) error {
	updates := map[string]interface{}{"status": to}
	for col, val := range changes {
		updates[col] = val
	}

	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to transition product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var current models.Product
		err := r.db.WithContext(ctx).Select("status").First(&current, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to read product %s after stale transition: %w", id, err)
		}
		return &StaleStatusError{Expected: from, Current: current.Status}
	}
	return nil
}

// applyFilter narrows a product query by the non-paging filter fields.
func applyFilter(q *gorm.DB, filter ProductFilter) *gorm.DB {
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}
	return q
}

func (r *GORMProductRepository) list(ctx context.Context, filter ProductFilter, scope func(*gorm.DB) *gorm.DB) ([]models.Product, int64, error) {
	filter.Normalize()

	var total int64
	counted := applyFilter(scope(r.db.WithContext(ctx).Model(&models.Product{})), filter)
	if err := counted.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	q := applyFilter(scope(preloadImages(r.db.WithContext(ctx))), filter)
	err := q.Order("created_at DESC").
		Limit(filter.PerPage).
		Offset(filter.Offset()).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// ListBySeller returns one page of a vendor's own products, newest first.
func (r *GORMProductRepository) ListBySeller(ctx context.Context, sellerID string, filter ProductFilter) ([]models.Product, int64, error) {
	return r.list(ctx, filter, func(q *gorm.DB) *gorm.DB {
		return q.Where("seller_id = ?", sellerID)
	})
}

// ListAll returns one page of products across all sellers, newest first.
func (r *GORMProductRepository) ListAll(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	return r.list(ctx, filter, func(q *gorm.DB) *gorm.DB { return q })
}

// SellerStats aggregates a vendor's catalog counts and metric totals.
func (r *GORMProductRepository) SellerStats(ctx context.Context, sellerID string) (*models.ProductStats, error) {
	count := func(status models.ProductStatus) (int64, error) {
		var n int64
		q := r.db.WithContext(ctx).Model(&models.Product{}).Where("seller_id = ?", sellerID)
		if status != "" {
			q = q.Where("status = ?", status)
		}
		if err := q.Count(&n).Error; err != nil {
			return 0, fmt.Errorf("failed to count seller products: %w", err)
		}
		return n, nil
	}

	stats := &models.ProductStats{}
	var err error
	if stats.TotalProducts, err = count(""); err != nil {
		return nil, err
	}
	if stats.DraftProducts, err = count(models.StatusDraft); err != nil {
		return nil, err
	}
	if stats.PendingProducts, err = count(models.StatusPending); err != nil {
		return nil, err
	}
	if stats.ActiveProducts, err = count(models.StatusActive); err != nil {
		return nil, err
	}
	if stats.InactiveProducts, err = count(models.StatusInactive); err != nil {
		return nil, err
	}
	if stats.RejectedProducts, err = count(models.StatusRejected); err != nil {
		return nil, err
	}

	var totals struct {
		TotalViews int64
		TotalSales int64
	}
	err = r.db.WithContext(ctx).Model(&models.Product{}).
		Select("COALESCE(SUM(views_count), 0) AS total_views, COALESCE(SUM(sales_count), 0) AS total_sales").
		Where("seller_id = ?", sellerID).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum seller metrics: %w", err)
	}
	stats.TotalViews = totals.TotalViews
	stats.TotalSales = totals.TotalSales
	return stats, nil
}

// IncrementViews bumps the product's view counter in place.
func (r *GORMProductRepository) IncrementViews(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to increment views for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	return nil
}

// lockProduct takes the row lock that serializes image mutations on one
// product against each other.
func lockProduct(tx *gorm.DB, productID string) error {
	var product models.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&product, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("product with ID %s: %w", productID, ErrProductNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to lock product %s: %w", productID, err)
	}
	return nil
}

// AddImage appends an image to the product's gallery. The first image is
// always primary regardless of the flag supplied; a later image marked
// primary demotes the existing one.
func (r *GORMProductRepository) AddImage(ctx context.Context, productID string, image *models.ProductImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProduct(tx, productID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.ProductImage{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count product images: %w", err)
		}

		if image.ID == "" {
			image.ID = uuid.New().String()
		}
		image.ProductID = productID
		if count == 0 {
			image.IsPrimary = true
		} else if image.IsPrimary {
			err := tx.Model(&models.ProductImage{}).
				Where("product_id = ?", productID).
				Update("is_primary", false).Error
			if err != nil {
				return fmt.Errorf("failed to demote primary image: %w", err)
			}
		}

		if err := tx.Create(image).Error; err != nil {
			return fmt.Errorf("failed to add product image: %w", err)
		}
		return nil
	})
}

// RemoveImage hard-deletes an image. Removing the primary promotes the
// remaining image with the lowest display order.
func (r *GORMProductRepository) RemoveImage(ctx context.Context, productID, imageID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProduct(tx, productID); err != nil {
			return err
		}

		var image models.ProductImage
		err := tx.First(&image, "id = ? AND product_id = ?", imageID, productID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("image with ID %s on product %s: %w", imageID, productID, ErrImageNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get product image %s: %w", imageID, err)
		}

		if err := tx.Delete(&models.ProductImage{}, "id = ?", image.ID).Error; err != nil {
			return fmt.Errorf("failed to delete product image %s: %w", imageID, err)
		}

		if image.IsPrimary {
			var remaining []models.ProductImage
			if err := tx.Where("product_id = ?", productID).Find(&remaining).Error; err != nil {
				return fmt.Errorf("failed to list remaining images: %w", err)
			}
			if next := models.NextPrimary(remaining); next != nil {
				err := tx.Model(&models.ProductImage{}).
					Where("id = ?", next.ID).
					Update("is_primary", true).Error
				if err != nil {
					return fmt.Errorf("failed to promote image %s: %w", next.ID, err)
				}
			}
		}
		return nil
	})
}

// SetPrimaryImage makes the target image the product's single primary.
func (r *GORMProductRepository) SetPrimaryImage(ctx context.Context, productID, imageID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProduct(tx, productID); err != nil {
			return err
		}

		var image models.ProductImage
		err := tx.First(&image, "id = ? AND product_id = ?", imageID, productID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("image with ID %s on product %s: %w", imageID, productID, ErrImageNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get product image %s: %w", imageID, err)
		}

		err = tx.Model(&models.ProductImage{}).
			Where("product_id = ? AND id <> ?", productID, imageID).
			Update("is_primary", false).Error
		if err != nil {
			return fmt.Errorf("failed to demote primary image: %w", err)
		}

		err = tx.Model(&models.ProductImage{}).
			Where("id = ?", imageID).
			Update("is_primary", true).Error
		if err != nil {
			return fmt.Errorf("failed to set primary image %s: %w", imageID, err)
		}
		return nil
	})
}
