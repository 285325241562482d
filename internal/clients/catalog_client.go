// internal/clients/catalog_client.go
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"storefront/internal/product"

	"resty.dev/v3"
)

// CatalogClient talks to the catalog service over HTTP. It satisfies
// cart.ProductLookup.
type CatalogClient struct {
	http *resty.Client
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(100*time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Accept", "application/json")

	return &CatalogClient{http: client}
}

// Close releases the underlying transport.
func (c *CatalogClient) Close() error {
	return c.http.Close()
}

func (c *CatalogClient) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/products/" + url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("product with ID %s: %w", id, product.ErrNotFound)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var p product.Product
	if err := json.Unmarshal([]byte(resp.String()), &p); err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", id, err)
	}

	return &p, nil
}
