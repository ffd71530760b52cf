package bigbuy

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"shopopti/internal/logger"
	"shopopti/internal/models"
	"shopopti/internal/providers"
)

// Adapter speaks the BigBuy REST catalog API. Auth is a static bearer
// token. BigBuy has no free-text search; that filter is ignored.
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
	return models.ProviderBigBuy
}

func (a *Adapter) headers(conn *models.SupplierConnection) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + conn.APIKey,
	}
}

func (a *Adapter) TestConnection(ctx context.Context, conn *models.SupplierConnection) providers.TestResult {
	endpoint := conn.BaseURL + "/rest/user/purse.json"

	err := a.client.DoJSON(ctx, "GET", endpoint, a.headers(conn), nil, nil)
	if err != nil {
		a.logger.Debug("bigbuy connection test failed: %v", err)
		return providers.TestResult{Success: false, Message: "BigBuy authentication failed: " + err.Error()}
	}
	return providers.TestResult{Success: true, Message: "BigBuy connection established"}
}

type product struct {
	ID             int64   `json:"id"`
	SKU            string  `json:"sku"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	WholesalePrice float64 `json:"wholesalePrice"`
	RetailPrice    float64 `json:"retailPrice"`
	Category       string  `json:"category"`
	Stock          int     `json:"stock"`
	Images         []struct {
		URL string `json:"url"`
	} `json:"images"`
	HandlingDays string `json:"handlingDays"`
}

type category struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ParentCategory int64  `json:"parentCategory"`
}

func (a *Adapter) ListProducts(ctx context.Context, conn *models.SupplierConnection, filters providers.ListFilters) providers.ListResult {
	filters.Normalize()

	q := url.Values{}
	q.Set("page", strconv.Itoa(filters.Page))
	q.Set("pageSize", strconv.Itoa(filters.PageSize))
	if filters.Category != "" {
		q.Set("category", filters.Category)
	}
	if filters.MinPrice > 0 {
		q.Set("minimumPrice", strconv.FormatFloat(filters.MinPrice, 'f', 2, 64))
	}
	if filters.MaxPrice > 0 {
		q.Set("maximumPrice", strconv.FormatFloat(filters.MaxPrice, 'f', 2, 64))
	}
	// Search and stock filters have no BigBuy equivalent

	endpoint := conn.BaseURL + "/rest/catalog/products.json?" + q.Encode()

	var items []product
	if err := a.client.DoJSON(ctx, "GET", endpoint, a.headers(conn), nil, &items); err != nil {
		a.logger.Error("bigbuy product listing failed: %v", err)
		return providers.FailedList("Failed to fetch BigBuy products: " + err.Error())
	}

	products := make([]models.CommonProduct, 0, len(items))
	for _, item := range items {
		products = append(products, a.normalize(conn, item))
	}

	return providers.ListResult{
		Success:  true,
		Products: products,
		Pagination: providers.Pagination{
			Page:     filters.Page,
			PageSize: filters.PageSize,
			Total:    len(products),
		},
	}
}

func (a *Adapter) ListCategories(ctx context.Context, conn *models.SupplierConnection) providers.CategoryResult {
	endpoint := conn.BaseURL + "/rest/catalog/categories.json"

	var items []category
	if err := a.client.DoJSON(ctx, "GET", endpoint, a.headers(conn), nil, &items); err != nil {
		a.logger.Error("bigbuy category listing failed: %v", err)
		return providers.FailedCategories("Failed to fetch BigBuy categories: " + err.Error())
	}

	categories := make([]models.CommonCategory, 0, len(items))
	for _, item := range items {
		cat := models.CommonCategory{
			ID:         strconv.FormatInt(item.ID, 10),
			Name:       item.Name,
			SupplierID: conn.ID,
		}
		if item.ParentCategory != 0 {
			cat.ParentID = strconv.FormatInt(item.ParentCategory, 10)
		}
		categories = append(categories, cat)
	}

	return providers.CategoryResult{Success: true, Categories: categories}
}

func (a *Adapter) GetProduct(ctx context.Context, conn *models.SupplierConnection, externalID string) (*models.CommonProduct, error) {
	endpoint := fmt.Sprintf("%s/rest/catalog/product/%s.json", conn.BaseURL, url.PathEscape(externalID))

	var item product
	if err := a.client.DoJSON(ctx, "GET", endpoint, a.headers(conn), nil, &item); err != nil {
		return nil, fmt.Errorf("bigbuy product %s: %w", externalID, err)
	}

	normalized := a.normalize(conn, item)
	return &normalized, nil
}

func (a *Adapter) normalize(conn *models.SupplierConnection, item product) models.CommonProduct {
	externalID := strconv.FormatInt(item.ID, 10)

	images := make([]string, 0, len(item.Images))
	for _, img := range item.Images {
		if img.URL != "" {
			images = append(images, img.URL)
		}
	}

	price := item.WholesalePrice
	if price < 0 {
		price = 0
	}
	stock := item.Stock
	if stock < 0 {
		stock = 0
	}

	p := models.CommonProduct{
		ID:           providers.SyntheticID(models.ProviderBigBuy, externalID),
		ExternalID:   externalID,
		Name:         item.Name,
		Description:  item.Description,
		Price:        price,
		Stock:        stock,
		Category:     item.Category,
		Images:       images,
		SKU:          item.SKU,
		ShippingTime: item.HandlingDays,
		SupplierID:   conn.ID,
		Provider:     models.ProviderBigBuy,
	}
	if item.RetailPrice > 0 {
		retail := item.RetailPrice
		p.ListPrice = &retail
	}
	return p
}
