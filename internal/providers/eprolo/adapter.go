package eprolo

import (
	"context"
	"fmt"
	"strconv"

	"shopopti/internal/logger"
	"shopopti/internal/models"
	"shopopti/internal/providers"
)

// Adapter speaks the EPROLO open API. Auth is the raw API key in the
// Authorization header. EPROLO wraps every response in a {code, msg,
// data} envelope and serializes prices as strings.
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
	return models.ProviderEPROLO
}

func (a *Adapter) headers(conn *models.SupplierConnection) map[string]string {
	return map[string]string{
		"Authorization": conn.APIKey,
	}
}

type envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e envelope) ok() bool { return e.Code == 200 }

type product struct {
	ProductID    string   `json:"productId"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	SellPrice    string   `json:"sellPrice"`
	MarketPrice  string   `json:"marketPrice"`
	Inventory    *int     `json:"inventory"`
	CategoryName string   `json:"categoryName"`
	MainImages   []string `json:"mainImages"`
	SKU          string   `json:"sku"`
	ShippingTime string   `json:"shippingTime"`
	Variants     []struct {
		VariantID  string            `json:"variantId"`
		SKU        string            `json:"sku"`
		Price      string            `json:"price"`
		Inventory  *int              `json:"inventory"`
		Attributes map[string]string `json:"attributes"`
	} `json:"variants"`
}

func (a *Adapter) TestConnection(ctx context.Context, conn *models.SupplierConnection) providers.TestResult {
	endpoint := conn.BaseURL + "/api/account/info"

	var resp envelope
	if err := a.client.DoJSON(ctx, "GET", endpoint, a.headers(conn), nil, &resp); err != nil {
		a.logger.Debug("eprolo connection test failed: %v", err)
		return providers.TestResult{Success: false, Message: "EPROLO authentication failed: " + err.Error()}
	}
	if !resp.ok() {
		return providers.TestResult{Success: false, Message: "EPROLO rejected the API key: " + resp.Msg}
	}
	return providers.TestResult{Success: true, Message: "EPROLO connection established"}
}

func (a *Adapter) ListProducts(ctx context.Context, conn *models.SupplierConnection, filters providers.ListFilters) providers.ListResult {
	filters.Normalize()

	body := map[string]interface{}{
		"page":     filters.Page,
		"pageSize": filters.PageSize,
	}
	if filters.Search != "" {
		body["keyword"] = filters.Search
	}
	if filters.Category != "" {
		body["categoryId"] = filters.Category
	}
	// Price and stock windows have no EPROLO equivalent

	var resp struct {
		envelope
		Data struct {
			List  []product `json:"list"`
			Total int       `json:"total"`
		} `json:"data"`
	}

	endpoint := conn.BaseURL + "/api/product/list"
	if err := a.client.DoJSON(ctx, "POST", endpoint, a.headers(conn), body, &resp); err != nil {
		a.logger.Error("eprolo product listing failed: %v", err)
		return providers.FailedList("Failed to fetch EPROLO products: " + err.Error())
	}
	if !resp.ok() {
		return providers.FailedList("EPROLO product listing failed: " + resp.Msg)
	}

	products := make([]models.CommonProduct, 0, len(resp.Data.List))
	for _, item := range resp.Data.List {
		products = append(products, a.normalize(conn, item))
	}

	return providers.ListResult{
		Success:  true,
		Products: products,
		Pagination: providers.Pagination{
			Page:     filters.Page,
			PageSize: filters.PageSize,
			Total:    resp.Data.Total,
		},
	}
}

func (a *Adapter) ListCategories(ctx context.Context, conn *models.SupplierConnection) providers.CategoryResult {
	endpoint := conn.BaseURL + "/api/category/list"

	var resp struct {
		envelope
		Data []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			ParentID string `json:"parentId"`
		} `json:"data"`
	}

	if err := a.client.DoJSON(ctx, "GET", endpoint, a.headers(conn), nil, &resp); err != nil {
		a.logger.Error("eprolo category listing failed: %v", err)
		return providers.FailedCategories("Failed to fetch EPROLO categories: " + err.Error())
	}
	if !resp.ok() {
		return providers.FailedCategories("EPROLO category listing failed: " + resp.Msg)
	}

	categories := make([]models.CommonCategory, 0, len(resp.Data))
	for _, item := range resp.Data {
		categories = append(categories, models.CommonCategory{
			ID:         item.ID,
			Name:       item.Name,
			ParentID:   item.ParentID,
			SupplierID: conn.ID,
		})
	}

	return providers.CategoryResult{Success: true, Categories: categories}
}

func (a *Adapter) GetProduct(ctx context.Context, conn *models.SupplierConnection, externalID string) (*models.CommonProduct, error) {
	var resp struct {
		envelope
		Data product `json:"data"`
	}

	endpoint := conn.BaseURL + "/api/product/detail"
	body := map[string]string{"productId": externalID}
	if err := a.client.DoJSON(ctx, "POST", endpoint, a.headers(conn), body, &resp); err != nil {
		return nil, fmt.Errorf("eprolo product %s: %w", externalID, err)
	}
	if !resp.ok() {
		return nil, fmt.Errorf("eprolo product %s: %s", externalID, resp.Msg)
	}

	normalized := a.normalize(conn, resp.Data)
	return &normalized, nil
}

func (a *Adapter) normalize(conn *models.SupplierConnection, item product) models.CommonProduct {
	images := item.MainImages
	if images == nil {
		images = []string{}
	}

	stock := 0
	if item.Inventory != nil && *item.Inventory > 0 {
		stock = *item.Inventory
	}

	variants := make([]models.CommonVariant, 0, len(item.Variants))
	for _, v := range item.Variants {
		variantStock := 0
		if v.Inventory != nil && *v.Inventory > 0 {
			variantStock = *v.Inventory
		}
		attrs := v.Attributes
		if attrs == nil {
			attrs = map[string]string{}
		}
		variants = append(variants, models.CommonVariant{
			ExternalID: v.VariantID,
			SKU:        v.SKU,
			Price:      parsePrice(v.Price),
			Stock:      variantStock,
			Attributes: attrs,
		})
	}

	p := models.CommonProduct{
		ID:           providers.SyntheticID(models.ProviderEPROLO, item.ProductID),
		ExternalID:   item.ProductID,
		Name:         item.Title,
		Description:  item.Description,
		Price:        parsePrice(item.SellPrice),
		Stock:        stock,
		Category:     item.CategoryName,
		Images:       images,
		SKU:          item.SKU,
		ShippingTime: item.ShippingTime,
		Variants:     variants,
		SupplierID:   conn.ID,
		Provider:     models.ProviderEPROLO,
	}
	if market := parsePrice(item.MarketPrice); market > 0 {
		p.ListPrice = &market
	}
	return p
}

// parsePrice coerces EPROLO's string prices; anything unparseable or
// missing becomes 0, never NaN.
func parsePrice(raw string) float64 {
	if raw == "" {
		return 0
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price < 0 {
		return 0
	}
	return price
}
