package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopopti/internal/logger"
	"shopopti/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memOutcomes struct {
	rows []models.ImportOutcome
}

func (s *memOutcomes) InsertOutcome(ctx context.Context, outcome *models.ImportOutcome) error {
	s.rows = append(s.rows, *outcome)
	return nil
}

func TestExportIsolatesFailures(t *testing.T) {
	var nextID int64 = 1000
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2024-01/products.json", r.URL.Path)
		assert.Equal(t, "tok-1", r.Header.Get("X-Shopify-Access-Token"))

		var envelope productEnvelope
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))

		if envelope.Product.Title == "Rejected" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"errors":{"title":["is invalid"]}}`))
			return
		}

		nextID++
		envelope.Product.ID = nextID
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(envelope)
	}))
	defer server.Close()

	log := logger.New("error", "test")
	client := NewClientWithBaseURL(server.URL, "tok-1", "2024-01", log)
	store := &memOutcomes{}
	exporter := NewExporter(client, store, log)

	items := []models.CommonProduct{
		{ExternalID: "1", Name: "Desk Lamp", Price: 19.99, SupplierID: "sup-1"},
		{ExternalID: "2", Name: "Rejected", Price: 9.99, SupplierID: "sup-1"},
		{ExternalID: "3", Name: "Chair", Price: 49.99, SupplierID: "sup-1"},
	}

	result := exporter.Export(context.Background(), items, "user-1")

	assert.Equal(t, 2, result.Exported)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"2"}, result.FailedProductIDs)
	assert.Len(t, result.CreatedShopifyIDs, 2)

	// One audit row per attempted item, in input order
	require.Len(t, store.rows, 3)
	assert.Equal(t, models.OutcomeSuccess, store.rows[0].Status)
	assert.Equal(t, models.OutcomeFailed, store.rows[1].Status)
	assert.Contains(t, store.rows[1].Detail, "422")
	assert.Equal(t, models.OutcomeSuccess, store.rows[2].Status)
	assert.Equal(t, "user-1", store.rows[0].UserID)
}

func TestClientEndpointFromShopDomain(t *testing.T) {
	log := logger.New("error", "test")

	client := NewClient("acme", "tok", "2024-01", log)
	assert.Equal(t,
		"https://acme.myshopify.com/admin/api/2024-01/products.json",
		client.endpoint("products.json"))

	// A fully qualified domain is not doubled
	client = NewClient("acme.myshopify.com", "tok", "2024-01", log)
	assert.Equal(t,
		"https://acme.myshopify.com/admin/api/2024-01/products.json",
		client.endpoint("products.json"))
}
