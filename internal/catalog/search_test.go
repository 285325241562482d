package catalog

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"storefront/internal/product"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func ids(products []product.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func scenarioProducts() []product.Product {
	return []product.Product{
		{
			ID:            "1",
			Name:          "Premium Wireless Headphones",
			Price:         money("299.99"),
			OriginalPrice: sale("399.99"),
			Category:      "Electronics",
			IsOnSale:      true,
			IsFeatured:    true,
			Rating:        4.8,
			InStock:       true,
		},
		{
			ID:         "2",
			Name:       "Smart Fitness Watch",
			Price:      money("449.99"),
			Category:   "Electronics",
			IsFeatured: true,
			Rating:     4.6,
			InStock:    true,
		},
	}
}

func TestSearch_Scenario(t *testing.T) {
	products := scenarioProducts()

	assert.Equal(t, []string{"1"}, ids(Search(products, Query{OnSaleOnly: true})))
	assert.Equal(t, []string{"1", "2"}, ids(Search(products, Query{SortKey: SortPriceAsc})))
	assert.Equal(t, []string{"2", "1"}, ids(Search(products, Query{SortKey: SortPriceDesc})))
}

func TestSearch_EmptySelectionDoesNotRestrict(t *testing.T) {
	products := SampleProducts()

	all := Search(products, Query{Categories: []string{}, Brands: []string{}})
	assert.Len(t, all, len(products))

	none := Search(products, Query{Categories: []string{"Garden"}})
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestSearch_Predicates(t *testing.T) {
	products := SampleProducts()
	products = append(products, product.Product{
		ID:       "7",
		Name:     "Unbranded Tote",
		Price:    money("20"),
		Category: "Fashion",
		InStock:  true,
	})

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"term is case-insensitive", Query{SearchTerm: "WIRELESS"}, []string{"1", "5"}},
		{"inclusive price bounds", Query{PriceRange: Between(money("125.00"), money("189.99"))}, []string{"3", "4", "6"}},
		{"min only", Query{PriceRange: PriceRange{Min: sale("400")}}, []string{"2"}},
		{"category set", Query{Categories: []string{"Sports", "Fashion"}}, []string{"3", "4", "6", "7"}},
		{"brand excludes unbranded", Query{Brands: []string{"LuxStyle", "ElegantSilk"}}, []string{"3", "6"}},
		{"in stock only", Query{InStockOnly: true, Categories: []string{"Electronics"}}, []string{"1", "2"}},
		{"on sale only", Query{OnSaleOnly: true}, []string{"1", "3", "5"}},
		{"predicates combine", Query{SearchTerm: "wireless", InStockOnly: true}, []string{"1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Search(products, tt.query))
			slices.Sort(got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearch_InvertedBoundsYieldEmpty(t *testing.T) {
	got := Search(SampleProducts(), Query{PriceRange: Between(money("500"), money("100"))})
	assert.Empty(t, got)
}

func TestSearch_SortKeys(t *testing.T) {
	products := SampleProducts()

	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortFeatured, []string{"1", "4", "2", "3", "6", "5"}},
		{SortPriceAsc, []string{"5", "6", "4", "3", "1", "2"}},
		{SortPriceDesc, []string{"2", "1", "3", "4", "6", "5"}},
		{SortRatingDesc, []string{"3", "1", "6", "4", "2", "5"}},
		{SortNewest, []string{"6", "5", "4", "3", "2", "1"}},
		{SortNameAsc, []string{"3", "6", "1", "4", "2", "5"}},
		{SortKey("bogus"), []string{"1", "4", "2", "3", "6", "5"}},
		{SortKey("price-low"), []string{"5", "6", "4", "3", "1", "2"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Search(products, Query{SortKey: tt.key})))
		})
	}
}

func TestSearch_NewestIsLexicographic(t *testing.T) {
	products := []product.Product{{ID: "2"}, {ID: "10"}, {ID: "9"}}
	assert.Equal(t, []string{"9", "2", "10"}, ids(Search(products, Query{SortKey: SortNewest})))
}

func TestSearch_NameCollation(t *testing.T) {
	products := []product.Product{{ID: "a", Name: "zebra"}, {ID: "b", Name: "Apple"}, {ID: "c", Name: "éclair"}}
	assert.Equal(t, []string{"b", "c", "a"}, ids(Search(products, Query{SortKey: SortNameAsc})))
}

func TestSearch_DoesNotMutateInput(t *testing.T) {
	products := SampleProducts()
	before := ids(products)
	Search(products, Query{SortKey: SortPriceDesc})
	require.Equal(t, before, ids(products))
}

var (
	categoryPool = []string{"Electronics", "Fashion", "Sports"}
	brandPool    = []string{"", "AudioTech", "TechFit", "RunPro"}
	namePool     = []string{"Wireless Mouse", "Silk Scarf", "Running Shoes", "Smart Watch", "wireless charger"}
)

func productsGen() *rapid.Generator[[]product.Product] {
	return rapid.Custom(func(t *rapid.T) []product.Product {
		n := rapid.IntRange(0, 25).Draw(t, "n")
		out := make([]product.Product, n)
		for i := range out {
			out[i] = product.Product{
				ID:         fmt.Sprintf("p%03d", i),
				Name:       rapid.SampledFrom(namePool).Draw(t, "name"),
				Price:      decimal.NewFromInt(int64(rapid.IntRange(0, 50).Draw(t, "price"))),
				Category:   rapid.SampledFrom(categoryPool).Draw(t, "category"),
				Brand:      rapid.SampledFrom(brandPool).Draw(t, "brand"),
				Rating:     float64(rapid.IntRange(0, 10).Draw(t, "rating")) / 2,
				InStock:    rapid.Bool().Draw(t, "inStock"),
				IsOnSale:   rapid.Bool().Draw(t, "onSale"),
				IsFeatured: rapid.Bool().Draw(t, "featured"),
			}
		}
		return out
	})
}

func queryGen() *rapid.Generator[Query] {
	return rapid.Custom(func(t *rapid.T) Query {
		q := Query{
			SearchTerm:  rapid.SampledFrom([]string{"", "wireless", "S", "watch", "none"}).Draw(t, "term"),
			Categories:  rapid.SliceOfN(rapid.SampledFrom(categoryPool), 0, 2).Draw(t, "categories"),
			Brands:      rapid.SliceOfN(rapid.SampledFrom(brandPool[1:]), 0, 2).Draw(t, "brands"),
			InStockOnly: rapid.Bool().Draw(t, "inStockOnly"),
			OnSaleOnly:  rapid.Bool().Draw(t, "onSaleOnly"),
			SortKey: rapid.SampledFrom([]SortKey{
				SortFeatured, SortPriceAsc, SortPriceDesc, SortRatingDesc, SortNewest, SortNameAsc,
			}).Draw(t, "sort"),
		}
		if rapid.Bool().Draw(t, "hasMin") {
			q.PriceRange.Min = decimal.NewNullDecimal(decimal.NewFromInt(int64(rapid.IntRange(0, 50).Draw(t, "min"))))
		}
		if rapid.Bool().Draw(t, "hasMax") {
			q.PriceRange.Max = decimal.NewNullDecimal(decimal.NewFromInt(int64(rapid.IntRange(0, 50).Draw(t, "max"))))
		}
		return q
	})
}

// satisfies restates the filter predicates independently of the matcher.
func satisfies(p product.Product, q Query) bool {
	if q.SearchTerm != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.SearchTerm)) {
		return false
	}
	if q.PriceRange.Min.Valid && p.Price.LessThan(q.PriceRange.Min.Decimal) {
		return false
	}
	if q.PriceRange.Max.Valid && p.Price.GreaterThan(q.PriceRange.Max.Decimal) {
		return false
	}
	if len(q.Categories) > 0 && !slices.Contains(q.Categories, p.Category) {
		return false
	}
	if len(q.Brands) > 0 && (p.Brand == "" || !slices.Contains(q.Brands, p.Brand)) {
		return false
	}
	if q.InStockOnly && !p.InStock {
		return false
	}
	if q.OnSaleOnly && !p.IsOnSale {
		return false
	}
	return true
}

func TestSearch_FilterComposition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		products := productsGen().Draw(t, "products")
		q := queryGen().Draw(t, "query")

		got := Search(products, q)

		var want []string
		for _, p := range products {
			if satisfies(p, q) {
				want = append(want, p.ID)
			}
		}
		gotIDs := ids(got)
		slices.Sort(gotIDs)
		if len(want) == 0 {
			want = []string{}
		}
		if !slices.Equal(want, gotIDs) {
			t.Fatalf("filtered ids = %v, want %v", gotIDs, want)
		}
	})
}

func TestSearch_SortIsStable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		products := productsGen().Draw(t, "products")
		key := rapid.SampledFrom([]SortKey{SortPriceAsc, SortPriceDesc, SortRatingDesc, SortFeatured}).Draw(t, "sort")

		got := Search(products, Query{SortKey: key})
		cmp := comparator(key)
		for i := 1; i < len(got); i++ {
			c := cmp(got[i-1], got[i])
			if c > 0 {
				t.Fatalf("out of order at %d: %s before %s", i, got[i-1].ID, got[i].ID)
			}
			// IDs encode input position, so equal keys must keep ascending ids.
			if c == 0 && got[i-1].ID > got[i].ID {
				t.Fatalf("unstable at %d: %s before %s", i, got[i-1].ID, got[i].ID)
			}
		}
	})
}
