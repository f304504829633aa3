package models

import "gorm.io/gorm"

// Role is a user's authorization level.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleVendor   Role = "vendor"
	RoleCustomer Role = "customer"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleVendor, RoleCustomer:
		return true
	}
	return false
}

// User represents an account in the marketplace.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Role     Role   `json:"role" gorm:"type:varchar(20);default:customer"`

	// Vendor profile. IsVerifiedVendor is flipped by an admin and gates
	// product creation.
	StoreName        string `json:"store_name,omitempty" gorm:"type:varchar(150)"`
	IsVerifiedVendor bool   `json:"is_verified_vendor"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Actor carries the identity facts a request needs for authorization
// decisions, decoded from the token instead of re-reading the user row.
type Actor struct {
	ID             string
	Role           Role
	VerifiedVendor bool
}

// Actor converts a stored user into its request-time identity.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role, VerifiedVendor: u.IsVerifiedVendor}
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// IsVendor reports whether the actor holds the vendor role.
func (a Actor) IsVendor() bool { return a.Role == RoleVendor }

// CanCreateProducts reports whether the actor may create new products.
func (a Actor) CanCreateProducts() bool {
	return a.IsVendor() && a.VerifiedVendor
}
