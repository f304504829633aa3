package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a vendor's listing together with its moderation state.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	SellerID    string          `json:"seller_id" gorm:"index;type:varchar(36);not null"`
	Name        string          `json:"name" validate:"required,min=3,max=200"`
	Slug        string          `json:"slug" gorm:"uniqueIndex;type:varchar(220)"`
	Description string          `json:"description" validate:"omitempty,max=2000"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(16,2)"`
	Stock       int             `json:"stock" validate:"gte=0"`
	CategoryID  string          `json:"category_id" gorm:"index;type:varchar(36)" validate:"omitempty,uuid"`
	BrandID     string          `json:"brand_id,omitempty" gorm:"type:varchar(36)" validate:"omitempty,uuid"`
	Status      ProductStatus   `json:"status" gorm:"index;type:varchar(20)"`

	// Moderation trail, written only by admin transitions.
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ApprovedBy      string     `json:"approved_by,omitempty" gorm:"type:varchar(36)"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`

	ViewsCount int `json:"views_count"`
	SalesCount int `json:"sales_count"`

	Images     []ProductImage `json:"images" gorm:"foreignKey:ProductID"`
	gorm.Model                // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Submission violation messages, reported together so a vendor fixes the
// product in one pass instead of one error per round trip.
const (
	ViolationNoImages         = "At least one product image is required."
	ViolationEmptyDescription = "Product description cannot be empty."
	ViolationNonPositivePrice = "Product price must be greater than zero."
	ViolationNegativeStock    = "Product stock cannot be negative."
)

// SubmissionViolations returns every rule the product currently breaks for
// review submission; an empty slice means it is ready for moderation.
func (p *Product) SubmissionViolations() []string {
	var violations []string
	if len(p.Images) == 0 {
		violations = append(violations, ViolationNoImages)
	}
	if strings.TrimSpace(p.Description) == "" {
		violations = append(violations, ViolationEmptyDescription)
	}
	if !p.Price.IsPositive() {
		violations = append(violations, ViolationNonPositivePrice)
	}
	if p.Stock < 0 {
		violations = append(violations, ViolationNegativeStock)
	}
	return violations
}

// Editable reports whether the owning vendor may still change the product.
func (p *Product) Editable() bool {
	return p.Status == StatusDraft || p.Status == StatusRejected
}

// OwnedBy reports whether the given actor owns this product.
func (p *Product) OwnedBy(actor Actor) bool {
	return p.SellerID == actor.ID
}

// PrimaryImage returns the product's primary image, or nil when it has none.
func (p *Product) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	return nil
}

// IsAvailable reports whether the product is publicly purchasable.
func (p *Product) IsAvailable() bool {
	return p.Status == StatusActive && p.Stock > 0
}

// ProductStats summarizes a vendor's catalog for the dashboard listing.
type ProductStats struct {
	TotalProducts    int64 `json:"total_products"`
	DraftProducts    int64 `json:"draft_products"`
	PendingProducts  int64 `json:"pending_products"`
	ActiveProducts   int64 `json:"active_products"`
	InactiveProducts int64 `json:"inactive_products"`
	RejectedProducts int64 `json:"rejected_products"`
	TotalViews       int64 `json:"total_views"`
	TotalSales       int64 `json:"total_sales"`
}
