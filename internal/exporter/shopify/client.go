package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shopopti/internal/logger"
)

// Client talks to one shop's Admin REST API with a static access token.
type Client struct {
	shopDomain  string
	accessToken string
	apiVersion  string
	httpClient  *http.Client
	logger      *logger.Logger

	// baseURL overrides the myshopify.com scheme/host in tests.
	baseURL string
}

func NewClient(shopDomain, accessToken, apiVersion string, log *logger.Logger) *Client {
	return &Client{
		shopDomain:  cleanDomain(shopDomain),
		accessToken: accessToken,
		apiVersion:  apiVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
}

// NewClientWithBaseURL points the client at an arbitrary endpoint.
func NewClientWithBaseURL(baseURL, accessToken, apiVersion string, log *logger.Logger) *Client {
	c := NewClient("", accessToken, apiVersion, log)
	c.baseURL = baseURL
	return c
}

func cleanDomain(shopDomain string) string {
	return strings.TrimSuffix(shopDomain, ".myshopify.com")
}

func (c *Client) endpoint(path string) string {
	if c.baseURL != "" {
		return fmt.Sprintf("%s/admin/api/%s/%s", c.baseURL, c.apiVersion, path)
	}
	return fmt.Sprintf("https://%s.myshopify.com/admin/api/%s/%s", c.shopDomain, c.apiVersion, path)
}

// CreateProduct posts one product and returns the created record with
// its Shopify id.
func (c *Client) CreateProduct(ctx context.Context, product *Product) (*Product, error) {
	payload := productEnvelope{Product: *product}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint("products.json"), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	var created productEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &created.Product, nil
}
