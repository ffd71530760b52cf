package importer

import (
	"context"

	"shopopti/internal/logger"
	"shopopti/internal/models"
	"shopopti/internal/providers"
)

// Store is the persistence surface the orchestrator needs. Each write
// is a single independent statement; there is deliberately no
// transaction spanning a catalog insert and its outcome row.
type Store interface {
	InsertCatalogProduct(ctx context.Context, product *models.CatalogProduct) error
	InsertOutcome(ctx context.Context, outcome *models.ImportOutcome) error
}

// Result aggregates one batch. Imported + Failed always equals the
// number of requested ids.
type Result struct {
	Success          bool     `json:"success"`
	Imported         int      `json:"imported_count"`
	Failed           int      `json:"failed_count"`
	FailedProductIDs []string `json:"failed_product_ids,omitempty"`
}

// Orchestrator turns "import these N external products" into catalog
// writes, one outcome row per attempted id. Items run strictly in input
// order; one failure never aborts the rest, and re-running a batch
// creates duplicate catalog rows (no idempotence guard).
type Orchestrator struct {
	store  Store
	logger *logger.Logger
}

func New(store Store, log *logger.Logger) *Orchestrator {
	return &Orchestrator{store: store, logger: log}
}

func (o *Orchestrator) ImportProducts(ctx context.Context, adapter providers.Adapter, conn *models.SupplierConnection, externalIDs []string, userID string) Result {
	result := Result{Success: true}

	for _, externalID := range externalIDs {
		catalogID, err := o.importOne(ctx, adapter, conn, externalID, userID)

		outcome := &models.ImportOutcome{
			UserID:           userID,
			SupplierID:       conn.ID,
			ExternalID:       externalID,
			CatalogProductID: catalogID,
		}

		if err != nil {
			o.logger.Error("import of %s from supplier %s failed: %v", externalID, conn.ID, err)
			result.Failed++
			result.FailedProductIDs = append(result.FailedProductIDs, externalID)
			outcome.Status = models.OutcomeFailed
			outcome.Detail = err.Error()
		} else {
			result.Imported++
			outcome.Status = models.OutcomeSuccess
		}

		if err := o.store.InsertOutcome(ctx, outcome); err != nil {
			// The catalog write already happened; losing the audit row
			// is the accepted dual-write gap.
			o.logger.Error("failed to record outcome for %s: %v", externalID, err)
		}
	}

	return result
}

func (o *Orchestrator) importOne(ctx context.Context, adapter providers.Adapter, conn *models.SupplierConnection, externalID, userID string) (*string, error) {
	detail, err := adapter.GetProduct(ctx, conn, externalID)
	if err != nil {
		return nil, err
	}

	product := &models.CatalogProduct{
		UserID:      userID,
		Title:       detail.Name,
		Description: detail.Description,
		Price:       detail.Price,
		Stock:       detail.Stock,
		Category:    detail.Category,
		SKU:         detail.SKU,
		Images:      detail.Images,
		Published:   true,
		SupplierID:  conn.ID,
		ExternalID:  detail.ExternalID,
	}

	if err := o.store.InsertCatalogProduct(ctx, product); err != nil {
		return nil, err
	}

	return &product.ID, nil
}
