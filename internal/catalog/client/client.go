// Package client is the HTTP consumer of the catalog API, used by the
// storefront CLI to browse products and to capture price snapshots when items
// are added to the cart.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/montluxe/storefront/internal/catalog/domain"
)

// Client fetches catalog data from the storefront API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a catalog Client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var payload struct {
		Products []domain.Product `json:"products"`
	}
	if err := c.get(ctx, "/v1/products", &payload); err != nil {
		return nil, err
	}
	return payload.Products, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var payload struct {
		Product domain.Product `json:"product"`
	}
	if err := c.get(ctx, "/v1/products/"+id, &payload); err != nil {
		return nil, err
	}
	return &payload.Product, nil
}

func (c *Client) get(ctx context.Context, path string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}

	return nil
}
