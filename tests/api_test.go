package tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usedmarket/internal/adapter/api"
	"usedmarket/internal/adapter/api/handler"
	"usedmarket/internal/adapter/repository"
	"usedmarket/internal/domain/entity"
	domain "usedmarket/internal/domain/repository"
	"usedmarket/internal/infrastructure/lock"
	"usedmarket/internal/usecase"
)

func TestHealthCheck(t *testing.T) {
	// Setup
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Define the handler
	healthHandler := func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}

	// Assertions
	if assert.NoError(t, healthHandler(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ok")
	}
}

func TestCreateListingEndpoint(t *testing.T) {
	store := repository.NewMemoryProjectionStore()
	require.NoError(t, store.Set(context.Background(), domain.UserPath("seller-1"), entity.User{
		ID:       "seller-1",
		Username: "ayu",
		Email:    "ayu@example.com",
	}))

	catalog := usecase.NewCatalogUseCase(store, lock.NewKeyedMutex(true), nil, nil, nil)
	h := handler.NewCatalogHandler(catalog)

	e := echo.New()
	e.Validator = api.NewValidator()

	body := `{"productName":"Folding Bike","price":1500000,"quantity":3,"conditions":"used"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/my-products", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("uid", "seller-1")

	require.NoError(t, h.CreateListing(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Folding Bike")

	// The seller's counter moved with the listing.
	var seller entity.User
	require.NoError(t, store.Get(context.Background(), domain.UserPath("seller-1"), &seller))
	assert.Equal(t, 1, seller.ListSells)
}

func TestSearchEndpoint(t *testing.T) {
	store := repository.NewMemoryProjectionStore()
	require.NoError(t, store.Set(context.Background(), domain.ProductPath("p1"), entity.Product{
		ID:       "p1",
		Name:     "Blue Bike",
		Quantity: 1,
	}))

	query := usecase.NewQueryUseCase(store, nil)
	h := handler.NewQueryHandler(query)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/products/search?q=bike", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SearchProducts(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Blue Bike")
}
