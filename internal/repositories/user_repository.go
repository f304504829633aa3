package repositories

import (
	"context"

	"mercado/internal/models"
)

// UserRepository defines the interface for user data access. Lookups that
// find nothing return errors wrapping ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	SetVendorVerified(ctx context.Context, id string, verified bool) error
}
