package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mercado/internal/apperrors"
	"mercado/internal/models"
	"mercado/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for authentication and accounts.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// userErr lifts user store failures into the service error taxonomy.
func userErr(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeout("The user store did not respond in time.").WrapParent(err)
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.NewNotFound("User not found.").WrapParent(err)
	default:
		return apperrors.NewInternal(err, "user store failure")
	}
}

// RegisterUser registers a new vendor or customer account, hashing the
// password before it is stored. Administrator accounts are provisioned at
// deployment, never through registration.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	if user.Role != models.RoleVendor && user.Role != models.RoleCustomer {
		return apperrors.NewValidation("Role must be 'vendor' or 'customer'.")
	}
	// Vendors always start unverified; an administrator flips the flag.
	user.IsVerifiedVendor = false

	// Check if username or email already exists
	if existingUser, err := s.userRepo.GetByUsername(ctx, user.Username); err == nil && existingUser != nil {
		return apperrors.NewValidation(fmt.Sprintf("username '%s' already taken", user.Username))
	}
	if existingUser, err := s.userRepo.GetByEmail(ctx, user.Email); err == nil && existingUser != nil {
		return apperrors.NewValidation(fmt.Sprintf("email '%s' already registered", user.Email))
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.NewInternal(err, "failed to hash password")
	}
	user.Password = string(hashedPassword) // Store the hashed password

	if err := s.userRepo.Create(ctx, user); err != nil {
		return userErr(err)
	}
	return nil
}

// LoginUser authenticates a user and returns a JWT token if successful.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		// It's good practice not to reveal if the username exists or not for security
		return "", apperrors.NewUnauthenticated("invalid credentials")
	}

	// Compare the provided password with the hashed password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", apperrors.NewUnauthenticated("invalid credentials")
	}

	// Generate JWT token carrying the identity facts authorization needs
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":         user.ID,
		"username":        user.Username,
		"role":            string(user.Role),
		"verified_vendor": user.IsVerifiedVendor,
		"exp":             time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":             time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", apperrors.NewInternal(err, "failed to generate token")
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// GetUser returns a stored account by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, userErr(err)
	}
	return user, nil
}

// VerifyVendor lets an administrator mark a vendor account as verified,
// which is what allows that vendor to create products.
func (s *AuthService) VerifyVendor(ctx context.Context, actor models.Actor, userID string) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewAuthorization(msgOnlyAdmins)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}
	if user.Role != models.RoleVendor {
		return nil, apperrors.NewValidation("Only vendor accounts can be verified.")
	}

	if err := s.userRepo.SetVendorVerified(ctx, userID, true); err != nil {
		return nil, userErr(err)
	}
	user.IsVerifiedVendor = true
	return user, nil
}
