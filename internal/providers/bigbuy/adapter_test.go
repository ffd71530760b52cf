package bigbuy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopopti/internal/logger"
	"shopopti/internal/models"
	"shopopti/internal/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConn(baseURL string) *models.SupplierConnection {
	return &models.SupplierConnection{
		ID:       "sup-bigbuy",
		UserID:   "user-1",
		Provider: models.ProviderBigBuy,
		APIKey:   "key-1",
		BaseURL:  baseURL,
	}
}

func TestTestConnectionInvalidCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid token"}`))
	}))
	defer server.Close()

	adapter := New(logger.New("error", "test"))
	result := adapter.TestConnection(context.Background(), testConn(server.URL))

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestTestConnectionSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/user/purse.json", r.URL.Path)
		w.Write([]byte(`{"amount":0}`))
	}))
	defer server.Close()

	adapter := New(logger.New("error", "test"))
	result := adapter.TestConnection(context.Background(), testConn(server.URL))

	assert.True(t, result.Success)
}

func TestListProductsCoercesMissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("pageSize"))
		// No price, stock or images in the upstream payload
		w.Write([]byte(`[{"id":123,"name":"Desk Lamp"},{"id":124,"name":"Chair","wholesalePrice":19.99,"stock":5}]`))
	}))
	defer server.Close()

	adapter := New(logger.New("error", "test"))
	result := adapter.ListProducts(context.Background(), testConn(server.URL), providers.ListFilters{})

	require.True(t, result.Success)
	require.Len(t, result.Products, 2)

	first := result.Products[0]
	assert.Equal(t, "123", first.ExternalID)
	assert.Equal(t, "bigbuy_123", first.ID)
	assert.Equal(t, "Desk Lamp", first.Name)
	assert.Equal(t, 0.0, first.Price)
	assert.Equal(t, 0, first.Stock)
	assert.NotNil(t, first.Images)
	assert.Empty(t, first.Images)
	assert.Equal(t, "sup-bigbuy", first.SupplierID)
	assert.Equal(t, models.ProviderBigBuy, first.Provider)

	second := result.Products[1]
	assert.Equal(t, 19.99, second.Price)
	assert.Equal(t, 5, second.Stock)
}

func TestListProductsFailureReturnsEmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	adapter := New(logger.New("error", "test"))
	result := adapter.ListProducts(context.Background(), testConn(server.URL), providers.ListFilters{Search: "lamp"})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
	assert.NotNil(t, result.Products)
	assert.Empty(t, result.Products)
}

func TestGetProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/catalog/product/123.json", r.URL.Path)
		w.Write([]byte(`{"id":123,"name":"Desk Lamp","wholesalePrice":19.99,"retailPrice":39.99,"stock":5,"images":[{"url":"https://img/1.jpg"}]}`))
	}))
	defer server.Close()

	adapter := New(logger.New("error", "test"))
	product, err := adapter.GetProduct(context.Background(), testConn(server.URL), "123")

	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", product.Name)
	assert.Equal(t, 19.99, product.Price)
	assert.Equal(t, 5, product.Stock)
	require.NotNil(t, product.ListPrice)
	assert.Equal(t, 39.99, *product.ListPrice)
	assert.Equal(t, []string{"https://img/1.jpg"}, product.Images)
}

func TestListCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/catalog/categories.json", r.URL.Path)
		w.Write([]byte(`[{"id":10,"name":"Lighting"},{"id":11,"name":"Desk Lamps","parentCategory":10}]`))
	}))
	defer server.Close()

	adapter := New(logger.New("error", "test"))
	result := adapter.ListCategories(context.Background(), testConn(server.URL))

	require.True(t, result.Success)
	require.Len(t, result.Categories, 2)
	assert.Empty(t, result.Categories[0].ParentID)
	assert.Equal(t, "10", result.Categories[1].ParentID)
}
