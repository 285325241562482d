package catalog

import (
	"context"
	"slices"

	"storefront/internal/product"

	"github.com/shopspring/decimal"
)

// Source supplies the product collection the engine searches.
type Source interface {
	LoadProducts(ctx context.Context) ([]product.Product, error)
}

// Finder is implemented by sources that can look up a single product
// without loading the whole collection. Unknown ids yield product.ErrNotFound.
type Finder interface {
	GetProduct(ctx context.Context, id string) (*product.Product, error)
}

// StaticSource serves a fixed, in-memory collection.
type StaticSource struct {
	products []product.Product
}

// NewStaticSource validates products and wraps a copy of them.
func NewStaticSource(products []product.Product) (*StaticSource, error) {
	if err := product.ValidateAll(products); err != nil {
		return nil, err
	}
	return &StaticSource{products: slices.Clone(products)}, nil
}

// LoadProducts returns a copy of the collection.
func (s *StaticSource) LoadProducts(ctx context.Context) ([]product.Product, error) {
	return slices.Clone(s.products), nil
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sale(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(money(s))
}

// SampleProducts returns the storefront's seed catalog.
func SampleProducts() []product.Product {
	return []product.Product{
		{
			ID:            "1",
			Name:          "Premium Wireless Headphones",
			Price:         money("299.99"),
			OriginalPrice: sale("399.99"),
			Image:         "product-headphones.jpg",
			Category:      "Electronics",
			Brand:         "AudioTech",
			Rating:        4.8,
			Reviews:       1247,
			InStock:       true,
			IsOnSale:      true,
			IsFeatured:    true,
			Variants: []product.Variant{
				{Color: "Black", Size: "Standard"},
				{Color: "Silver", Size: "Standard"},
			},
		},
		{
			ID:         "2",
			Name:       "Smart Fitness Watch",
			Price:      money("449.99"),
			Image:      "product-smartwatch.jpg",
			Category:   "Electronics",
			Brand:      "TechFit",
			Rating:     4.6,
			Reviews:    892,
			InStock:    true,
			IsFeatured: true,
			Variants: []product.Variant{
				{Color: "Black", Size: "42mm"},
				{Color: "Silver", Size: "42mm"},
				{Color: "Black", Size: "46mm"},
			},
		},
		{
			ID:            "3",
			Name:          "Designer Leather Handbag",
			Price:         money("189.99"),
			OriginalPrice: sale("249.99"),
			Image:         "product-handbag.jpg",
			Category:      "Fashion",
			Brand:         "LuxStyle",
			Rating:        4.9,
			Reviews:       456,
			InStock:       true,
			IsOnSale:      true,
			Variants: []product.Variant{
				{Color: "Brown", Size: "Medium"},
				{Color: "Black", Size: "Medium"},
				{Color: "Tan", Size: "Large"},
			},
		},
		{
			ID:         "4",
			Name:       "Professional Running Shoes",
			Price:      money("159.99"),
			Image:      "product-shoes.jpg",
			Category:   "Sports",
			Brand:      "RunPro",
			Rating:     4.7,
			Reviews:    2134,
			InStock:    true,
			IsFeatured: true,
			Variants: []product.Variant{
				{Color: "White/Blue", Size: "US 9"},
				{Color: "Black/Red", Size: "US 10"},
				{Color: "Gray/Orange", Size: "US 11"},
			},
		},
		{
			ID:            "5",
			Name:          "Wireless Gaming Mouse",
			Price:         money("79.99"),
			OriginalPrice: sale("99.99"),
			Image:         "product-headphones.jpg",
			Category:      "Electronics",
			Brand:         "GameTech",
			Rating:        4.5,
			Reviews:       678,
			InStock:       false,
			IsOnSale:      true,
		},
		{
			ID:       "6",
			Name:     "Luxury Silk Scarf",
			Price:    money("125.00"),
			Image:    "product-handbag.jpg",
			Category: "Fashion",
			Brand:    "ElegantSilk",
			Rating:   4.8,
			Reviews:  234,
			InStock:  true,
		},
	}
}
