package models

import "gorm.io/gorm"

// Category groups products for browsing and filtering.
type Category struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" gorm:"uniqueIndex;type:varchar(120)"`
	Description string `json:"description" validate:"omitempty,max=500"`
	IsActive    bool   `json:"is_active"`
	gorm.Model
}

// Brand is an optional manufacturer label on a product.
type Brand struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" gorm:"uniqueIndex;type:varchar(120)"`
	Description string `json:"description" validate:"omitempty,max=500"`
	LogoURL     string `json:"logo_url" validate:"omitempty,url"`
	Website     string `json:"website" validate:"omitempty,url"`
	IsActive    bool   `json:"is_active"`
	gorm.Model
}
