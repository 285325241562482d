package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Query string parameters understood by ParseQuery.
const (
	paramSearch   = "q"
	paramMinPrice = "min_price"
	paramMaxPrice = "max_price"
	paramCategory = "category"
	paramBrand    = "brand"
	paramInStock  = "in_stock"
	paramOnSale   = "on_sale"
	paramSort     = "sort"
)

// ParseQuery builds a Query from URL parameters. Malformed values are
// dropped so that axis does not restrict; it never fails.
func ParseQuery(v url.Values) Query {
	return Query{
		SearchTerm: strings.TrimSpace(v.Get(paramSearch)),
		PriceRange: PriceRange{
			Min: parseBound(v.Get(paramMinPrice)),
			Max: parseBound(v.Get(paramMaxPrice)),
		},
		Categories:  splitList(v[paramCategory]),
		Brands:      splitList(v[paramBrand]),
		InStockOnly: parseFlag(v.Get(paramInStock)),
		OnSaleOnly:  parseFlag(v.Get(paramOnSale)),
		SortKey:     ParseSortKey(v.Get(paramSort)),
	}
}

func parseBound(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func parseFlag(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

// splitList accepts repeated and comma-separated values alike.
func splitList(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
