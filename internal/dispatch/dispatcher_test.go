package dispatch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopopti/internal/importer"
	"shopopti/internal/logger"
	"shopopti/internal/models"
	"shopopti/internal/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopStore struct{}

func (noopStore) InsertCatalogProduct(ctx context.Context, product *models.CatalogProduct) error {
	return nil
}

func (noopStore) InsertOutcome(ctx context.Context, outcome *models.ImportOutcome) error {
	return nil
}

func newDispatcher() *Dispatcher {
	log := logger.New("error", "test")
	return New(NewRegistry(log), importer.New(noopStore{}, log), log)
}

func supplier(kind models.ProviderKind, baseURL string) *models.SupplierConnection {
	return &models.SupplierConnection{
		ID:       "sup-1",
		UserID:   "user-1",
		Provider: kind,
		APIKey:   "key-1",
		BaseURL:  baseURL,
	}
}

func TestDispatchMissingCaller(t *testing.T) {
	d := newDispatcher()

	_, err := d.Dispatch(context.Background(), Request{
		Kind:     models.ProviderBigBuy,
		Action:   ActionTest,
		Supplier: supplier(models.ProviderBigBuy, "https://api.bigbuy.eu"),
	})

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDispatchUnknownProvider(t *testing.T) {
	d := newDispatcher()

	_, err := d.Dispatch(context.Background(), Request{
		Kind:     models.ProviderKind("aliexpress"),
		Action:   ActionTest,
		Supplier: supplier("aliexpress", ""),
		UserID:   "user-1",
	})

	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestDispatchUnsupportedAction(t *testing.T) {
	d := newDispatcher()

	_, err := d.Dispatch(context.Background(), Request{
		Kind:     models.ProviderBigBuy,
		Action:   Action("delete"),
		Supplier: supplier(models.ProviderBigBuy, "https://api.bigbuy.eu"),
		UserID:   "user-1",
	})

	assert.ErrorIs(t, err, ErrUnsupportedAction)
}

func TestDispatchRoutesToAdapter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/user/purse.json", r.URL.Path)
		w.Write([]byte(`{"amount":0}`))
	}))
	defer server.Close()

	d := newDispatcher()

	result, err := d.Dispatch(context.Background(), Request{
		Kind:     models.ProviderBigBuy,
		Action:   ActionTest,
		Supplier: supplier(models.ProviderBigBuy, server.URL),
		UserID:   "user-1",
	})

	require.NoError(t, err)
	test, ok := result.(providers.TestResult)
	require.True(t, ok)
	assert.True(t, test.Success)
}

func TestRegistryCoversEveryKind(t *testing.T) {
	registry := NewRegistry(logger.New("error", "test"))

	for _, kind := range []models.ProviderKind{
		models.ProviderBigBuy,
		models.ProviderEPROLO,
		models.ProviderCdiscount,
		models.ProviderAutoDS,
	} {
		adapter, err := registry.ForKind(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, adapter.Kind())
	}
}
