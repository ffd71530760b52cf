package autods

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"shopopti/internal/logger"
	"shopopti/internal/models"
	"shopopti/internal/providers"
)

// Adapter speaks the AutoDS REST API. Auth is a static key in the
// X-API-KEY header.
type Adapter struct {
	client *providers.HTTPClient
	logger *logger.Logger
}

func New(log *logger.Logger) *Adapter {
	return &Adapter{
		client: providers.NewHTTPClient(),
		logger: log,
	}
}

func (a *Adapter) Kind() models.ProviderKind {
	return models.ProviderAutoDS
}

func (a *Adapter) headers(conn *models.SupplierConnection) map[string]string {
	return map[string]string{
		"X-API-KEY": conn.APIKey,
	}
}

func (a *Adapter) TestConnection(ctx context.Context, conn *models.SupplierConnection) providers.TestResult {
	endpoint := conn.BaseURL + "/v1/account"

	if err := a.client.DoJSON(ctx, "GET", endpoint, a.headers(conn), nil, nil); err != nil {
		a.logger.Debug("autods connection test failed: %v", err)
		return providers.TestResult{Success: false, Message: "AutoDS authentication failed: " + err.Error()}
	}
	return providers.TestResult{Success: true, Message: "AutoDS connection established"}
}

type product struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        *float64 `json:"price"`
	CompareAt    *float64 `json:"compare_at_price"`
	Quantity     *int     `json:"quantity"`
	Category     string   `json:"category"`
	ImageURLs    []string `json:"image_urls"`
	SKU          string   `json:"sku"`
	ProcessDays  string   `json:"processing_days"`
	Variations   []struct {
		ID         string            `json:"id"`
		SKU        string            `json:"sku"`
		Price      *float64          `json:"price"`
		Quantity   *int              `json:"quantity"`
		Properties map[string]string `json:"properties"`
	} `json:"variations"`
}

func (a *Adapter) ListProducts(ctx context.Context, conn *models.SupplierConnection, filters providers.ListFilters) providers.ListResult {
	filters.Normalize()

	q := url.Values{}
	q.Set("page", strconv.Itoa(filters.Page))
	q.Set("per_page", strconv.Itoa(filters.PageSize))
	if filters.Search != "" {
		q.Set("search", filters.Search)
	}
	if filters.Category != "" {
		q.Set("category", filters.Category)
	}
	if filters.MinStock > 0 {
		q.Set("min_quantity", strconv.Itoa(filters.MinStock))
	}
	// Price windows have no AutoDS equivalent

	var resp struct {
		Results []product `json:"results"`
		Count   int       `json:"count"`
	}

	endpoint := conn.BaseURL + "/v1/products?" + q.Encode()
	if err := a.client.DoJSON(ctx, "GET", endpoint, a.headers(conn), nil, &resp); err != nil {
		a.logger.Error("autods product listing failed: %v", err)
		return providers.FailedList("Failed to fetch AutoDS products: " + err.Error())
	}

	products := make([]models.CommonProduct, 0, len(resp.Results))
	for _, item := range resp.Results {
		products = append(products, a.normalize(conn, item))
	}

	return providers.ListResult{
		Success:  true,
		Products: products,
		Pagination: providers.Pagination{
			Page:     filters.Page,
			PageSize: filters.PageSize,
			Total:    resp.Count,
		},
	}
}

func (a *Adapter) ListCategories(ctx context.Context, conn *models.SupplierConnection) providers.CategoryResult {
	endpoint := conn.BaseURL + "/v1/categories"

	// AutoDS categories are flat
	var resp struct {
		Results []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"results"`
	}

	if err := a.client.DoJSON(ctx, "GET", endpoint, a.headers(conn), nil, &resp); err != nil {
		a.logger.Error("autods category listing failed: %v", err)
		return providers.FailedCategories("Failed to fetch AutoDS categories: " + err.Error())
	}

	categories := make([]models.CommonCategory, 0, len(resp.Results))
	for _, item := range resp.Results {
		categories = append(categories, models.CommonCategory{
			ID:         item.ID,
			Name:       item.Name,
			SupplierID: conn.ID,
		})
	}

	return providers.CategoryResult{Success: true, Categories: categories}
}

func (a *Adapter) GetProduct(ctx context.Context, conn *models.SupplierConnection, externalID string) (*models.CommonProduct, error) {
	endpoint := fmt.Sprintf("%s/v1/products/%s", conn.BaseURL, url.PathEscape(externalID))

	var item product
	if err := a.client.DoJSON(ctx, "GET", endpoint, a.headers(conn), nil, &item); err != nil {
		return nil, fmt.Errorf("autods product %s: %w", externalID, err)
	}

	normalized := a.normalize(conn, item)
	return &normalized, nil
}

func (a *Adapter) normalize(conn *models.SupplierConnection, item product) models.CommonProduct {
	images := item.ImageURLs
	if images == nil {
		images = []string{}
	}

	price := 0.0
	if item.Price != nil && *item.Price > 0 {
		price = *item.Price
	}
	stock := 0
	if item.Quantity != nil && *item.Quantity > 0 {
		stock = *item.Quantity
	}

	variants := make([]models.CommonVariant, 0, len(item.Variations))
	for _, v := range item.Variations {
		variantPrice := 0.0
		if v.Price != nil && *v.Price > 0 {
			variantPrice = *v.Price
		}
		variantStock := 0
		if v.Quantity != nil && *v.Quantity > 0 {
			variantStock = *v.Quantity
		}
		props := v.Properties
		if props == nil {
			props = map[string]string{}
		}
		variants = append(variants, models.CommonVariant{
			ExternalID: v.ID,
			SKU:        v.SKU,
			Price:      variantPrice,
			Stock:      variantStock,
			Attributes: props,
		})
	}

	p := models.CommonProduct{
		ID:           providers.SyntheticID(models.ProviderAutoDS, item.ID),
		ExternalID:   item.ID,
		Name:         item.Title,
		Description:  item.Description,
		Price:        price,
		Stock:        stock,
		Category:     item.Category,
		Images:       images,
		SKU:          item.SKU,
		ShippingTime: item.ProcessDays,
		Variants:     variants,
		SupplierID:   conn.ID,
		Provider:     models.ProviderAutoDS,
	}
	if item.CompareAt != nil && *item.CompareAt > 0 {
		compare := *item.CompareAt
		p.ListPrice = &compare
	}
	return p
}
