package catalog

import (
	"storefront/internal/product"

	"github.com/shopspring/decimal"
)

// DistinctCategories returns every category in first-occurrence order.
func DistinctCategories(products []product.Product) []string {
	return distinct(products, func(p product.Product) string { return p.Category })
}

// DistinctBrands returns every brand in first-occurrence order. Products
// without a brand contribute nothing.
func DistinctBrands(products []product.Product) []string {
	return distinct(products, func(p product.Product) string { return p.Brand })
}

func distinct(products []product.Product, field func(product.Product) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range products {
		v := field(p)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// PriceBounds returns the lowest and highest observed price. Both bounds are
// unset for an empty collection.
func PriceBounds(products []product.Product) PriceRange {
	var r PriceRange
	for _, p := range products {
		if !r.Min.Valid || p.Price.LessThan(r.Min.Decimal) {
			r.Min = decimal.NewNullDecimal(p.Price)
		}
		if !r.Max.Valid || p.Price.GreaterThan(r.Max.Decimal) {
			r.Max = decimal.NewNullDecimal(p.Price)
		}
	}
	return r
}

// CountAvailability tallies in-stock and out-of-stock products.
func CountAvailability(products []product.Product) Availability {
	var a Availability
	for _, p := range products {
		if p.InStock {
			a.InStock++
		} else {
			a.OutOfStock++
		}
	}
	return a
}

// BuildFacets derives all filter facets for a collection.
func BuildFacets(products []product.Product) Facets {
	return Facets{
		Categories:   DistinctCategories(products),
		Brands:       DistinctBrands(products),
		PriceRange:   PriceBounds(products),
		Availability: CountAvailability(products),
	}
}

// Featured returns up to limit featured products in catalog order. A
// non-positive limit returns every featured product.
func Featured(products []product.Product, limit int) []product.Product {
	out := make([]product.Product, 0)
	for _, p := range products {
		if !p.IsFeatured {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, p)
	}
	return out
}
