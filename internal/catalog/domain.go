// internal/catalog/domain.go
package catalog

import (
	"storefront/internal/product"

	"github.com/shopspring/decimal"
)

// SortKey selects the ordering of search results.
type SortKey string

const (
	SortFeatured   SortKey = "featured"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortRatingDesc SortKey = "rating-desc"
	SortNewest     SortKey = "newest"
	SortNameAsc    SortKey = "name-asc"
)

// sortAliases maps the storefront's select values onto sort keys.
var sortAliases = map[string]SortKey{
	"price-low":  SortPriceAsc,
	"price-high": SortPriceDesc,
	"rating":     SortRatingDesc,
	"name":       SortNameAsc,
}

// ParseSortKey resolves a raw sort value. Unknown values fall back to
// SortFeatured.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortFeatured, SortPriceAsc, SortPriceDesc, SortRatingDesc, SortNewest, SortNameAsc:
		return k
	}
	if k, ok := sortAliases[s]; ok {
		return k
	}
	return SortFeatured
}

// PriceRange holds inclusive price bounds. An unset bound does not restrict.
type PriceRange struct {
	Min decimal.NullDecimal `json:"min"`
	Max decimal.NullDecimal `json:"max"`
}

// Contains reports whether price lies within the range.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	if r.Min.Valid && price.LessThan(r.Min.Decimal) {
		return false
	}
	if r.Max.Valid && price.GreaterThan(r.Max.Decimal) {
		return false
	}
	return true
}

// Between builds a range bounded on both ends.
func Between(min, max decimal.Decimal) PriceRange {
	return PriceRange{Min: decimal.NewNullDecimal(min), Max: decimal.NewNullDecimal(max)}
}

// Query describes one catalog search request. The zero value matches every
// product and sorts by SortFeatured.
type Query struct {
	SearchTerm  string     `json:"search_term"`
	PriceRange  PriceRange `json:"price_range"`
	Categories  []string   `json:"categories"`
	Brands      []string   `json:"brands"`
	InStockOnly bool       `json:"in_stock_only"`
	OnSaleOnly  bool       `json:"on_sale_only"`
	SortKey     SortKey    `json:"sort_key"`
}

// Results is a search outcome: Count of Total products matched.
type Results struct {
	Products []product.Product `json:"products"`
	Count    int               `json:"count"`
	Total    int               `json:"total"`
}

// Availability counts products by stock state.
type Availability struct {
	InStock    int `json:"in_stock"`
	OutOfStock int `json:"out_of_stock"`
}

// Facets holds the values surfaced by the storefront filter panel.
type Facets struct {
	Categories   []string     `json:"categories"`
	Brands       []string     `json:"brands"`
	PriceRange   PriceRange   `json:"price_range"`
	Availability Availability `json:"availability"`
}
