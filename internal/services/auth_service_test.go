package services_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"mercado/internal/apperrors"
	"mercado/internal/models"
	"mercado/internal/repositories"
	"mercado/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) SetVendorVerified(ctx context.Context, id string, verified bool) error {
	args := m.Called(id, verified)
	return args.Error(0)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(os.Stdout) // Changed to stdout to see logs if any, can be changed to ioutil.Discard
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)
	ctx := context.Background()

	// Test successful registration
	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
		Role:     models.RoleVendor,
	}

	mockRepo.On("GetByUsername", user.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", user.Email).Return(nil, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(ctx, user)
	assert.NoError(t, err)
	assert.False(t, user.IsVerifiedVendor, "new vendors must start unverified")
	assert.NotEqual(t, "password123", user.Password, "password must be hashed before storage")
	mockRepo.AssertExpectations(t)

	// Test default role
	customer := &models.User{Username: "buyer", Email: "buyer@example.com", Password: "password123"}
	mockRepo.On("GetByUsername", customer.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", customer.Email).Return(nil, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()
	err = authService.RegisterUser(ctx, customer)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, customer.Role)
	mockRepo.AssertExpectations(t)

	// Test admin registration is refused
	admin := &models.User{Username: "root", Email: "root@example.com", Password: "password123", Role: models.RoleAdmin}
	err = authService.RegisterUser(ctx, admin)
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	// Test username already taken
	mockRepo.On("GetByUsername", user.Username).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(ctx, user)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "username 'testuser' already taken")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	mockRepo.AssertExpectations(t)

	// Test email already registered
	mockRepo.On("GetByUsername", user.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", user.Email).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(ctx, user)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email 'test@example.com' already registered")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)
	ctx := context.Background()

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:               "user-123",
		Username:         "testuser",
		Email:            "test@example.com",
		Password:         string(hashedPassword),
		Role:             models.RoleVendor,
		IsVerifiedVendor: true,
	}

	// Test successful login
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()

	token, err := authService.LoginUser(ctx, "testuser", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Validate the token structure and the authorization claims
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Username, claims["username"])
	assert.Equal(t, "vendor", claims["role"])
	assert.Equal(t, true, claims["verified_vendor"])
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	_, err = authService.LoginUser(ctx, "testuser", "wrongpassword")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (user not found)
	mockRepo.On("GetByUsername", "nonexistentuser").Return(nil, fmt.Errorf("user with username nonexistentuser: %w", repositories.ErrUserNotFound)).Once()
	_, err = authService.LoginUser(ctx, "nonexistentuser", "password123")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err)) // Should not reveal whether the username exists
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Generate a valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"role":     "vendor",
		"exp":      jwt.TimeFunc().Add(time.Hour).Unix(), // Expires in 1 hour
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	// Test valid token
	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])

	// Test invalid token (wrong secret)
	invalidTokenString := "invalid.token.string"
	_, err = authService.ValidateToken(invalidTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(-time.Hour).Unix(), // Expired 1 hour ago
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestAuthService_VerifyVendor(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")
	ctx := context.Background()

	admin := models.Actor{ID: "admin-1", Role: models.RoleAdmin}
	vendorUser := &models.User{ID: "vendor-1", Username: "seller", Role: models.RoleVendor}

	// Admin verifies a vendor
	mockRepo.On("GetByID", "vendor-1").Return(vendorUser, nil).Once()
	mockRepo.On("SetVendorVerified", "vendor-1", true).Return(nil).Once()
	verified, err := authService.VerifyVendor(ctx, admin, "vendor-1")
	assert.NoError(t, err)
	assert.True(t, verified.IsVerifiedVendor)
	mockRepo.AssertExpectations(t)

	// Only admins may verify
	vendorActor := models.Actor{ID: "vendor-2", Role: models.RoleVendor, VerifiedVendor: true}
	_, err = authService.VerifyVendor(ctx, vendorActor, "vendor-1")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))

	// Customers cannot be verified as vendors
	customerUser := &models.User{ID: "cust-1", Username: "buyer", Role: models.RoleCustomer}
	mockRepo.On("GetByID", "cust-1").Return(customerUser, nil).Once()
	_, err = authService.VerifyVendor(ctx, admin, "cust-1")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	mockRepo.AssertExpectations(t)

	// Unknown users are reported as missing
	mockRepo.On("GetByID", "ghost").Return(nil, fmt.Errorf("user with ID ghost: %w", repositories.ErrUserNotFound)).Once()
	_, err = authService.VerifyVendor(ctx, admin, "ghost")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	mockRepo.AssertExpectations(t)
}
