// internal/catalog/service.go
package catalog

import (
	"context"

	"storefront/internal/product"
)

// Service defines the interface for the catalog service.
type Service interface {
	Search(ctx context.Context, query Query) (*Results, error)
	GetProduct(ctx context.Context, id string) (*product.Product, error)
	Facets(ctx context.Context) (*Facets, error)
	Featured(ctx context.Context, limit int) ([]product.Product, error)
}
