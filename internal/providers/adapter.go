package providers

import (
	"context"

	"shopopti/internal/models"
)

// Adapter translates one marketplace's auth scheme and product schema
// into the common shape. Implementations never let a transport error
// escape as a panic; list/test operations fold errors into the result.
type Adapter interface {
	Kind() models.ProviderKind

	// TestConnection performs one lightweight authenticated request.
	// Always returns a result, never an error.
	TestConnection(ctx context.Context, conn *models.SupplierConnection) TestResult

	// ListProducts translates the common filters into the provider's
	// dialect. Filters the provider lacks are silently ignored.
	ListProducts(ctx context.Context, conn *models.SupplierConnection, filters ListFilters) ListResult

	ListCategories(ctx context.Context, conn *models.SupplierConnection) CategoryResult

	// GetProduct fetches full detail for one external id. Used by the
	// import orchestrator, which owns persistence and outcome rows.
	GetProduct(ctx context.Context, conn *models.SupplierConnection, externalID string) (*models.CommonProduct, error)
}

type TestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ListFilters struct {
	Search   string  `json:"search"`
	Category string  `json:"category"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
	MinStock int     `json:"min_stock"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// Normalize applies the default page window.
func (f *ListFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
}

type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

type ListResult struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message,omitempty"`
	Products   []models.CommonProduct `json:"products"`
	Pagination Pagination             `json:"pagination"`
}

type CategoryResult struct {
	Success    bool                    `json:"success"`
	Message    string                  `json:"message,omitempty"`
	Categories []models.CommonCategory `json:"categories"`
}

// FailedList is the uniform error shape for listings: no partial
// results mixed with an error.
func FailedList(message string) ListResult {
	return ListResult{Success: false, Message: message, Products: []models.CommonProduct{}}
}

func FailedCategories(message string) CategoryResult {
	return CategoryResult{Success: false, Message: message, Categories: []models.CommonCategory{}}
}

// DefaultBaseURL returns the fixed per-provider default, applied by the
// supplier directory before the first connectivity probe.
func DefaultBaseURL(kind models.ProviderKind) string {
	switch kind {
	case models.ProviderBigBuy:
		return "https://api.bigbuy.eu"
	case models.ProviderEPROLO:
		return "https://api.eprolo.com"
	case models.ProviderCdiscount:
		return "https://api.cdiscount.com"
	case models.ProviderAutoDS:
		return "https://api.autods.com"
	}
	return ""
}

// SyntheticID builds the provider-prefixed id for a normalized product.
func SyntheticID(kind models.ProviderKind, externalID string) string {
	return string(kind) + "_" + externalID
}
