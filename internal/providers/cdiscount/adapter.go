package cdiscount

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"shopopti/internal/logger"
	"shopopti/internal/models"
	"shopopti/internal/providers"
)

// Adapter speaks the Cdiscount marketplace API. Unlike the other
// providers, auth is an OAuth2 client-credentials exchange: api key and
// secret buy a short-lived bearer token. Tokens are cached per
// connection id and refreshed on expiry; TestConnection always performs
// a fresh exchange so an edited credential is probed for real.
type Adapter struct {
	client *providers.HTTPClient
	logger *logger.Logger

	mu     sync.Mutex
	tokens map[string]cachedToken
}

type cachedToken struct {
	value     string
	expiresAt time.Time
}

// expiryMargin guards against using a token in its final seconds.
const expiryMargin = 60 * time.Second

func New(log *logger.Logger) *Adapter {
	return &Adapter{
		client: providers.NewHTTPClient(),
		logger: log,
		tokens: make(map[string]cachedToken),
	}
}

func (a *Adapter) Kind() models.ProviderKind {
	return models.ProviderCdiscount
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (a *Adapter) exchangeToken(ctx context.Context, conn *models.SupplierConnection) (tokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", conn.APIKey)
	form.Set("client_secret", conn.APISecret)

	var resp tokenResponse
	err := a.client.DoForm(ctx, conn.BaseURL+"/oauth2/token", form, &resp)
	if err != nil {
		return tokenResponse{}, err
	}
	if resp.AccessToken == "" {
		return tokenResponse{}, fmt.Errorf("token exchange returned an empty access token")
	}
	return resp, nil
}

// token returns a cached bearer token for the connection, exchanging
// credentials only when the cache is cold or expired.
func (a *Adapter) token(ctx context.Context, conn *models.SupplierConnection) (string, error) {
	a.mu.Lock()
	cached, ok := a.tokens[conn.ID]
	a.mu.Unlock()

	if ok && time.Now().Before(cached.expiresAt) {
		return cached.value, nil
	}

	resp, err := a.exchangeToken(ctx, conn)
	if err != nil {
		return "", fmt.Errorf("cdiscount token exchange: %w", err)
	}

	ttl := time.Duration(resp.ExpiresIn) * time.Second
	if ttl > expiryMargin {
		ttl -= expiryMargin
	}

	a.mu.Lock()
	a.tokens[conn.ID] = cachedToken{
		value:     resp.AccessToken,
		expiresAt: time.Now().Add(ttl),
	}
	a.mu.Unlock()

	return resp.AccessToken, nil
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func (a *Adapter) TestConnection(ctx context.Context, conn *models.SupplierConnection) providers.TestResult {
	resp, err := a.exchangeToken(ctx, conn)
	if err != nil {
		a.logger.Debug("cdiscount connection test failed: %v", err)
		return providers.TestResult{Success: false, Message: "Cdiscount authentication failed: " + err.Error()}
	}

	// A fresh token proves the credentials; seed the cache with it.
	if conn.ID != "" {
		ttl := time.Duration(resp.ExpiresIn) * time.Second
		if ttl > expiryMargin {
			ttl -= expiryMargin
		}
		a.mu.Lock()
		a.tokens[conn.ID] = cachedToken{value: resp.AccessToken, expiresAt: time.Now().Add(ttl)}
		a.mu.Unlock()
	}

	return providers.TestResult{Success: true, Message: "Cdiscount connection established"}
}

type product struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	SalePrice      *float64 `json:"salePrice"`
	ReferencePrice *float64 `json:"referencePrice"`
	StockQuantity  *int     `json:"stockQuantity"`
	CategoryPath   string   `json:"categoryPath"`
	Pictures       []string `json:"pictures"`
	EAN            string   `json:"ean"`
	DeliveryTime   string   `json:"deliveryTime"`
}

func (a *Adapter) ListProducts(ctx context.Context, conn *models.SupplierConnection, filters providers.ListFilters) providers.ListResult {
	filters.Normalize()

	token, err := a.token(ctx, conn)
	if err != nil {
		a.logger.Error("cdiscount auth failed: %v", err)
		return providers.FailedList("Cdiscount authentication failed: " + err.Error())
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(filters.Page))
	q.Set("size", strconv.Itoa(filters.PageSize))
	if filters.Search != "" {
		q.Set("q", filters.Search)
	}
	if filters.Category != "" {
		q.Set("category", filters.Category)
	}
	if filters.MinPrice > 0 {
		q.Set("minPrice", strconv.FormatFloat(filters.MinPrice, 'f', 2, 64))
	}
	if filters.MaxPrice > 0 {
		q.Set("maxPrice", strconv.FormatFloat(filters.MaxPrice, 'f', 2, 64))
	}
	if filters.MinStock > 0 {
		q.Set("minStock", strconv.Itoa(filters.MinStock))
	}

	var resp struct {
		Items []product `json:"items"`
		Total int       `json:"total"`
	}

	endpoint := conn.BaseURL + "/v1/products?" + q.Encode()
	if err := a.client.DoJSON(ctx, "GET", endpoint, bearer(token), nil, &resp); err != nil {
		a.logger.Error("cdiscount product listing failed: %v", err)
		return providers.FailedList("Failed to fetch Cdiscount products: " + err.Error())
	}

	products := make([]models.CommonProduct, 0, len(resp.Items))
	for _, item := range resp.Items {
		products = append(products, a.normalize(conn, item))
	}

	return providers.ListResult{
		Success:  true,
		Products: products,
		Pagination: providers.Pagination{
			Page:     filters.Page,
			PageSize: filters.PageSize,
			Total:    resp.Total,
		},
	}
}

func (a *Adapter) ListCategories(ctx context.Context, conn *models.SupplierConnection) providers.CategoryResult {
	token, err := a.token(ctx, conn)
	if err != nil {
		a.logger.Error("cdiscount auth failed: %v", err)
		return providers.FailedCategories("Cdiscount authentication failed: " + err.Error())
	}

	var resp struct {
		Categories []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			ParentID string `json:"parentId"`
		} `json:"categories"`
	}

	endpoint := conn.BaseURL + "/v1/categories"
	if err := a.client.DoJSON(ctx, "GET", endpoint, bearer(token), nil, &resp); err != nil {
		a.logger.Error("cdiscount category listing failed: %v", err)
		return providers.FailedCategories("Failed to fetch Cdiscount categories: " + err.Error())
	}

	categories := make([]models.CommonCategory, 0, len(resp.Categories))
	for _, item := range resp.Categories {
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
	token, err := a.token(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("cdiscount auth: %w", err)
	}

	var item product
	endpoint := fmt.Sprintf("%s/v1/products/%s", conn.BaseURL, url.PathEscape(externalID))
	if err := a.client.DoJSON(ctx, "GET", endpoint, bearer(token), nil, &item); err != nil {
		return nil, fmt.Errorf("cdiscount product %s: %w", externalID, err)
	}

	normalized := a.normalize(conn, item)
	return &normalized, nil
}

func (a *Adapter) normalize(conn *models.SupplierConnection, item product) models.CommonProduct {
	images := item.Pictures
	if images == nil {
		images = []string{}
	}

	price := 0.0
	if item.SalePrice != nil && *item.SalePrice > 0 {
		price = *item.SalePrice
	}
	stock := 0
	if item.StockQuantity != nil && *item.StockQuantity > 0 {
		stock = *item.StockQuantity
	}

	// Category paths come slash-separated; keep the leaf as free text
	category := item.CategoryPath
	if idx := strings.LastIndex(category, "/"); idx >= 0 {
		category = strings.TrimSpace(category[idx+1:])
	}

	p := models.CommonProduct{
		ID:           providers.SyntheticID(models.ProviderCdiscount, item.ID),
		ExternalID:   item.ID,
		Name:         item.Name,
		Description:  item.Description,
		Price:        price,
		Stock:        stock,
		Category:     category,
		Images:       images,
		SKU:          item.EAN,
		ShippingTime: item.DeliveryTime,
		SupplierID:   conn.ID,
		Provider:     models.ProviderCdiscount,
	}
	if item.ReferencePrice != nil && *item.ReferencePrice > 0 {
		ref := *item.ReferencePrice
		p.ListPrice = &ref
	}
	return p
}
