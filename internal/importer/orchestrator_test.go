package importer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopopti/internal/logger"
	"shopopti/internal/models"
	"shopopti/internal/providers"
	"shopopti/internal/providers/bigbuy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeAdapter serves canned products and fails on demand.
type fakeAdapter struct {
	products map[string]*models.CommonProduct
	failIDs  map[string]bool
	fetched  []string
}

func (f *fakeAdapter) Kind() models.ProviderKind { return models.ProviderBigBuy }

func (f *fakeAdapter) TestConnection(ctx context.Context, conn *models.SupplierConnection) providers.TestResult {
	return providers.TestResult{Success: true}
}

func (f *fakeAdapter) ListProducts(ctx context.Context, conn *models.SupplierConnection, filters providers.ListFilters) providers.ListResult {
	return providers.ListResult{Success: true, Products: []models.CommonProduct{}}
}

func (f *fakeAdapter) ListCategories(ctx context.Context, conn *models.SupplierConnection) providers.CategoryResult {
	return providers.CategoryResult{Success: true, Categories: []models.CommonCategory{}}
}

func (f *fakeAdapter) GetProduct(ctx context.Context, conn *models.SupplierConnection, externalID string) (*models.CommonProduct, error) {
	f.fetched = append(f.fetched, externalID)
	if f.failIDs[externalID] {
		return nil, fmt.Errorf("upstream rejected %s", externalID)
	}
	if p, ok := f.products[externalID]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, fmt.Errorf("no such product %s", externalID)
}

// memStore collects writes in order.
type memStore struct {
	products []models.CatalogProduct
	outcomes []models.ImportOutcome
}

func (s *memStore) InsertCatalogProduct(ctx context.Context, product *models.CatalogProduct) error {
	if product.ID == "" {
		product.ID = fmt.Sprintf("cat-%d", len(s.products)+1)
	}
	s.products = append(s.products, *product)
	return nil
}

func (s *memStore) InsertOutcome(ctx context.Context, outcome *models.ImportOutcome) error {
	s.outcomes = append(s.outcomes, *outcome)
	return nil
}

func supplier() *models.SupplierConnection {
	return &models.SupplierConnection{
		ID:       "sup-1",
		UserID:   "user-1",
		Provider: models.ProviderBigBuy,
		APIKey:   "k1",
		BaseURL:  "https://api.bigbuy.eu",
	}
}

func product(id, name string) *models.CommonProduct {
	return &models.CommonProduct{
		ID:         "bigbuy_" + id,
		ExternalID: id,
		Name:       name,
		Price:      19.99,
		Stock:      5,
		Images:     []string{},
		SupplierID: "sup-1",
		Provider:   models.ProviderBigBuy,
	}
}

func TestBatchMidFailureStillRecordsEveryOutcome(t *testing.T) {
	adapter := &fakeAdapter{
		products: map[string]*models.CommonProduct{
			"1": product("1", "One"),
			"2": product("2", "Two"),
			"3": product("3", "Three"),
			"4": product("4", "Four"),
		},
		failIDs: map[string]bool{"2": true},
	}
	store := &memStore{}
	orch := New(store, logger.New("error", "test"))

	ids := []string{"1", "2", "3", "4"}
	result := orch.ImportProducts(context.Background(), adapter, supplier(), ids, "user-1")

	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"2"}, result.FailedProductIDs)
	assert.Equal(t, len(ids), result.Imported+result.Failed)

	// One outcome per attempted id, in input order
	require.Len(t, store.outcomes, 4)
	for i, id := range ids {
		assert.Equal(t, id, store.outcomes[i].ExternalID)
	}
	assert.Equal(t, models.OutcomeFailed, store.outcomes[1].Status)
	assert.Nil(t, store.outcomes[1].CatalogProductID)
	assert.Equal(t, models.OutcomeSuccess, store.outcomes[0].Status)
	require.NotNil(t, store.outcomes[0].CatalogProductID)

	// Failed fetch never produces a catalog row
	require.Len(t, store.products, 3)
	assert.Equal(t, []string{"1", "2", "3", "4"}, adapter.fetched)
}

func TestRepeatedBatchDuplicatesRows(t *testing.T) {
	adapter := &fakeAdapter{
		products: map[string]*models.CommonProduct{"1": product("1", "One")},
	}
	store := &memStore{}
	orch := New(store, logger.New("error", "test"))

	first := orch.ImportProducts(context.Background(), adapter, supplier(), []string{"1"}, "user-1")
	second := orch.ImportProducts(context.Background(), adapter, supplier(), []string{"1"}, "user-1")

	assert.Equal(t, 1, first.Imported)
	assert.Equal(t, 1, second.Imported)

	// No idempotence guard: same external id, two catalog rows, two
	// outcome rows
	assert.Len(t, store.products, 2)
	assert.Len(t, store.outcomes, 2)
	assert.NotEqual(t, store.products[0].ID, store.products[1].ID)
}

func TestCatalogRowMapping(t *testing.T) {
	src := product("1", "Desk Lamp")
	src.Description = "<p>Bright</p>"
	src.Category = "Lighting"
	src.SKU = "DL-1"

	adapter := &fakeAdapter{products: map[string]*models.CommonProduct{"1": src}}
	store := &memStore{}
	orch := New(store, logger.New("error", "test"))

	result := orch.ImportProducts(context.Background(), adapter, supplier(), []string{"1"}, "user-9")
	require.Equal(t, 1, result.Imported)

	row := store.products[0]
	assert.Equal(t, "Desk Lamp", row.Title)
	assert.Equal(t, "<p>Bright</p>", row.Description)
	assert.Equal(t, 19.99, row.Price)
	assert.Equal(t, "Lighting", row.Category)
	assert.True(t, row.Published)
	assert.Equal(t, "user-9", row.UserID)
	assert.Equal(t, "sup-1", row.SupplierID)
	assert.Equal(t, "1", row.ExternalID)
}

// End to end against a fake BigBuy API and a real SQLite-backed store.
func TestImportThroughGormStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/catalog/product/123.json" {
			w.Write([]byte(`{"id":123,"name":"Desk Lamp","wholesalePrice":19.99,"stock":5}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CatalogProduct{}, &models.ImportOutcome{}))

	log := logger.New("error", "test")
	adapter := bigbuy.New(log)
	orch := New(NewGormStore(db), log)

	conn := supplier()
	conn.BaseURL = server.URL

	result := orch.ImportProducts(context.Background(), adapter, conn, []string{"123"}, "user-1")
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Failed)

	var row models.CatalogProduct
	require.NoError(t, db.First(&row, "external_id = ?", "123").Error)
	assert.Equal(t, "Desk Lamp", row.Title)

	var count int64
	db.Model(&models.ImportOutcome{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
