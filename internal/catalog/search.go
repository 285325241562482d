package catalog

import (
	"cmp"
	"slices"
	"strings"

	"storefront/internal/product"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collation language for name ordering.
var nameCollation = language.English

// Search filters products by every predicate in q and orders the survivors
// by q.SortKey. Ties keep their input order. products is not modified.
func Search(products []product.Product, q Query) []product.Product {
	m := newMatcher(q)
	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if m.match(p) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, comparator(ParseSortKey(string(q.SortKey))))
	return out
}

type matcher struct {
	term       string
	prices     PriceRange
	categories map[string]struct{}
	brands     map[string]struct{}
	inStock    bool
	onSale     bool
}

func newMatcher(q Query) matcher {
	return matcher{
		term:       strings.ToLower(q.SearchTerm),
		prices:     q.PriceRange,
		categories: toSet(q.Categories),
		brands:     toSet(q.Brands),
		inStock:    q.InStockOnly,
		onSale:     q.OnSaleOnly,
	}
}

func (m matcher) match(p product.Product) bool {
	if m.term != "" && !strings.Contains(strings.ToLower(p.Name), m.term) {
		return false
	}
	if !m.prices.Contains(p.Price) {
		return false
	}
	// An empty selection means no restriction, not "match nothing".
	if len(m.categories) > 0 {
		if _, ok := m.categories[p.Category]; !ok {
			return false
		}
	}
	if len(m.brands) > 0 {
		if !p.HasBrand() {
			return false
		}
		if _, ok := m.brands[p.Brand]; !ok {
			return false
		}
	}
	if m.inStock && !p.InStock {
		return false
	}
	if m.onSale && !p.IsOnSale {
		return false
	}
	return true
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func comparator(key SortKey) func(a, b product.Product) int {
	switch key {
	case SortPriceAsc:
		return func(a, b product.Product) int { return a.Price.Cmp(b.Price) }
	case SortPriceDesc:
		return func(a, b product.Product) int { return b.Price.Cmp(a.Price) }
	case SortRatingDesc:
		return byRatingDesc
	case SortNewest:
		// No timestamp exists; later ids are treated as newer.
		return func(a, b product.Product) int { return strings.Compare(b.ID, a.ID) }
	case SortNameAsc:
		c := collate.New(nameCollation)
		return func(a, b product.Product) int { return c.CompareString(a.Name, b.Name) }
	default:
		return func(a, b product.Product) int {
			if a.IsFeatured != b.IsFeatured {
				if a.IsFeatured {
					return -1
				}
				return 1
			}
			return byRatingDesc(a, b)
		}
	}
}

func byRatingDesc(a, b product.Product) int {
	return cmp.Compare(b.Rating, a.Rating)
}
