package shopify

import (
	"context"
	"fmt"
	"strconv"

	"shopopti/internal/logger"
	"shopopti/internal/models"
)

// OutcomeStore records one audit row per exported item.
type OutcomeStore interface {
	InsertOutcome(ctx context.Context, outcome *models.ImportOutcome) error
}

// Result aggregates one export batch.
type Result struct {
	Success           bool     `json:"success"`
	Exported          int      `json:"exported_count"`
	Failed            int      `json:"failed_count"`
	FailedProductIDs  []string `json:"failed_product_ids,omitempty"`
	CreatedShopifyIDs []string `json:"created_shopify_ids,omitempty"`
}

// Exporter pushes normalized products to one shop, one independent HTTP
// call per item. A failed item is counted and recorded; it never blocks
// the items after it. This is a stateless request/response loop: there
// is no compensation if the shop call succeeds but the outcome write
// fails.
type Exporter struct {
	client *Client
	store  OutcomeStore
	logger *logger.Logger
}

func NewExporter(client *Client, store OutcomeStore, log *logger.Logger) *Exporter {
	return &Exporter{client: client, store: store, logger: log}
}

func (e *Exporter) Export(ctx context.Context, items []models.CommonProduct, userID string) Result {
	result := Result{Success: true}

	for _, item := range items {
		created, err := e.client.CreateProduct(ctx, BuildProduct(&item))

		outcome := &models.ImportOutcome{
			UserID:     userID,
			SupplierID: item.SupplierID,
			ExternalID: item.ExternalID,
		}

		if err != nil {
			e.logger.Error("export of %s failed: %v", item.ExternalID, err)
			result.Failed++
			result.FailedProductIDs = append(result.FailedProductIDs, item.ExternalID)
			outcome.Status = models.OutcomeFailed
			outcome.Detail = err.Error()
		} else {
			result.Exported++
			shopifyID := strconv.FormatInt(created.ID, 10)
			result.CreatedShopifyIDs = append(result.CreatedShopifyIDs, shopifyID)
			outcome.Status = models.OutcomeSuccess
			outcome.Detail = fmt.Sprintf("shopify product %s", shopifyID)
		}

		if err := e.store.InsertOutcome(ctx, outcome); err != nil {
			e.logger.Error("failed to record export outcome for %s: %v", item.ExternalID, err)
		}
	}

	return result
}
