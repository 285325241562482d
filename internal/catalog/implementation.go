// internal/catalog/implementation.go
package catalog

import (
	"context"
	"fmt"

	"storefront/internal/product"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var ErrProductNotFound = product.ErrNotFound

// service implements the Service interface.
type service struct {
	source   Source
	tracer   trace.Tracer
	searches metric.Int64Counter
}

// NewService creates a new catalog service instance.
func NewService(source Source) (Service, error) {
	searches, err := otel.Meter("storefront/catalog").Int64Counter(
		"catalog.searches",
		metric.WithDescription("Catalog searches executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("create search counter: %w", err)
	}
	return &service{
		source:   source,
		tracer:   otel.Tracer("storefront/catalog"),
		searches: searches,
	}, nil
}

// Search runs the query engine over the current collection.
func (s *service) Search(ctx context.Context, query Query) (*Results, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.search",
		trace.WithAttributes(
			attribute.String("query.term", query.SearchTerm),
			attribute.String("query.sort", string(ParseSortKey(string(query.SortKey)))),
			attribute.Int("query.categories", len(query.Categories)),
			attribute.Int("query.brands", len(query.Brands)),
		),
	)
	defer span.End()

	products, err := s.source.LoadProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	matched := Search(products, query)
	s.searches.Add(ctx, 1, metric.WithAttributes(attribute.Bool("empty", len(matched) == 0)))
	span.SetAttributes(attribute.Int("results.count", len(matched)))

	return &Results{
		Products: matched,
		Count:    len(matched),
		Total:    len(products),
	}, nil
}

// GetProduct retrieves a product by its ID.
func (s *service) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.get_product",
		trace.WithAttributes(attribute.String("product.id", id)),
	)
	defer span.End()

	if finder, ok := s.source.(Finder); ok {
		return finder.GetProduct(ctx, id)
	}

	products, err := s.source.LoadProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
}

// Facets derives the filter options for the current collection.
func (s *service) Facets(ctx context.Context) (*Facets, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.facets")
	defer span.End()

	products, err := s.source.LoadProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	facets := BuildFacets(products)
	return &facets, nil
}

// Featured returns the featured preview shown on the landing page.
func (s *service) Featured(ctx context.Context, limit int) ([]product.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.featured",
		trace.WithAttributes(attribute.Int("limit", limit)),
	)
	defer span.End()

	products, err := s.source.LoadProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return Featured(products, limit), nil
}
