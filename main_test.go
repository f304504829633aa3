package main

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"mercado/internal/models"
	"mercado/internal/repositories"
	"mercado/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(ioutil.Discard)
	code := m.Run()
	os.Exit(code)
}

// newTestApp wires the app against an in-memory database, the same way
// main does against PostgreSQL.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	err = db.AutoMigrate(&models.User{}, &models.Category{}, &models.Brand{}, &models.Product{}, &models.ProductImage{})
	assert.NoError(t, err)

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	catalogRepo := repositories.NewGORMCatalogRepository(db)

	authService := services.NewAuthService(userRepo, "test_jwt_secret")
	productService := services.NewProductService(productRepo, catalogRepo, nil, 0)

	return newApp(authService, productService)
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["time"])
}

func TestProtectedRoutesRejectAnonymousRequests(t *testing.T) {
	app := newTestApp(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/products/vendor"},
		{http.MethodPost, "/api/v1/products/vendor/create"},
		{http.MethodGet, "/api/v1/products/admin/products"},
		{http.MethodPost, "/api/v1/users/admin/vendors/some-id/verify"},
	}

	for _, route := range protected {
		req := httptest.NewRequest(route.method, route.path, nil)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s must require a token", route.method, route.path)
		resp.Body.Close()
	}
}

func TestPublicRoutesNeedNoToken(t *testing.T) {
	app := newTestApp(t)

	public := []string{
		"/api/v1/products",
		"/api/v1/products/categories",
		"/api/v1/products/brands",
	}

	for _, path := range public {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "GET %s must be public", path)
		resp.Body.Close()
	}
}
