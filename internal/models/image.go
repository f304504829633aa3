package models

import (
	"sort"
	"time"
)

// ProductImage is one gallery entry of a product. Images are hard deleted;
// there is no moderation trail to preserve for them.
type ProductImage struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID    string    `json:"product_id" gorm:"index;type:varchar(36);not null"`
	ImageURL     string    `json:"image_url" validate:"required,url,max=500"`
	AltText      string    `json:"alt_text" validate:"omitempty,max=200"`
	IsPrimary    bool      `json:"is_primary"`
	DisplayOrder int       `json:"display_order" validate:"gte=0"`
	CreatedAt    time.Time `json:"created_at"`
}

// NextPrimary picks the image to promote when the primary slot becomes
// empty: lowest display order wins, ties broken by creation time, then ID.
func NextPrimary(images []ProductImage) *ProductImage {
	var best *ProductImage
	for i := range images {
		img := &images[i]
		if best == nil || imageLess(img, best) {
			best = img
		}
	}
	return best
}

// SortImages orders a gallery for display: primary first, then display
// order, then creation time.
func SortImages(images []ProductImage) {
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].IsPrimary != images[j].IsPrimary {
			return images[i].IsPrimary
		}
		return imageLess(&images[i], &images[j])
	})
}

func imageLess(a, b *ProductImage) bool {
	if a.DisplayOrder != b.DisplayOrder {
		return a.DisplayOrder < b.DisplayOrder
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
