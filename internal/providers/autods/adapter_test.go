package autods

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
		ID:       "sup-autods",
		UserID:   "user-1",
		Provider: models.ProviderAutoDS,
		APIKey:   "key-1",
		BaseURL:  baseURL,
	}
}

func TestTestConnectionInvalidCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-1", r.Header.Get("X-API-KEY"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	adapter := New(logger.New("error", "test"))
	result := adapter.TestConnection(context.Background(), testConn(server.URL))

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestListProductsTranslatesFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "lamp", q.Get("search"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("per_page"))
		assert.Equal(t, "3", q.Get("min_quantity"))
		// MinPrice has no AutoDS parameter and must not leak through
		assert.Empty(t, q.Get("min_price"))

		w.Write([]byte(`{"count":1,"results":[{"id":"ad-1","title":"Desk Lamp","price":19.99,"quantity":5}]}`))
	}))
	defer server.Close()

	adapter := New(logger.New("error", "test"))
	result := adapter.ListProducts(context.Background(), testConn(server.URL), providers.ListFilters{
		Search:   "lamp",
		MinPrice: 5,
		MinStock: 3,
		Page:     2,
		PageSize: 10,
	})

	require.True(t, result.Success)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "autods_ad-1", result.Products[0].ID)
	assert.Equal(t, 2, result.Pagination.Page)
}

func TestGetProductCoercesMissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/products/ad-2", r.URL.Path)
		w.Write([]byte(`{"id":"ad-2","title":"Mystery Item","variations":[{"id":"v1","properties":{"Color":"Blue"}}]}`))
	}))
	defer server.Close()

	adapter := New(logger.New("error", "test"))
	product, err := adapter.GetProduct(context.Background(), testConn(server.URL), "ad-2")

	require.NoError(t, err)
	assert.Equal(t, 0.0, product.Price)
	assert.Equal(t, 0, product.Stock)
	assert.NotNil(t, product.Images)
	assert.Empty(t, product.Images)
	require.Len(t, product.Variants, 1)
	assert.Equal(t, 0.0, product.Variants[0].Price)
	assert.Equal(t, "Blue", product.Variants[0].Attributes["Color"])
}
