// internal/cart/domain.go
package cart

import (
	"fmt"

	"storefront/internal/product"

	"github.com/shopspring/decimal"
)

// Line is one cart entry per product id. Price is captured when the line is
// created and never re-read from the catalog.
type Line struct {
	Product  product.Product  `json:"product"`
	Price    decimal.Decimal  `json:"price"`
	Quantity int              `json:"quantity"`
	Variant  *product.Variant `json:"variant,omitempty"`
}

// ProductID returns the identity key of the line.
func (l Line) ProductID() string {
	return l.Product.ID
}

// Total returns price times quantity.
func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered sequence of lines. The zero value is an empty cart.
type Cart struct {
	Lines []Line `json:"lines"`
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Line returns the line for id.
func (c Cart) Line(id string) (Line, bool) {
	if i := c.index(id); i >= 0 {
		return c.Lines[i], true
	}
	return Line{}, false
}

// ItemCount returns the sum of quantities, shown on the header badge.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c Cart) index(id string) int {
	for i, l := range c.Lines {
		if l.ProductID() == id {
			return i
		}
	}
	return -1
}

// Summary is derived from a cart on demand and never stored.
type Summary struct {
	Subtotal             decimal.Decimal `json:"subtotal"`
	Shipping             decimal.Decimal `json:"shipping"`
	Tax                  decimal.Decimal `json:"tax"`
	Total                decimal.Decimal `json:"total"`
	AmountToFreeShipping decimal.Decimal `json:"amount_to_free_shipping"`
	FreeShipping         bool            `json:"free_shipping"`
	ItemCount            int             `json:"item_count"`
}

// Pricing holds the shipping and tax parameters used by Summarize.
type Pricing struct {
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultPricing returns free shipping above 50, a 9.99 fee otherwise, and
// 8% tax.
func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingThreshold: decimal.NewFromInt(50),
		ShippingFee:           decimal.RequireFromString("9.99"),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

// ParsePricing builds a Pricing from decimal strings, as found in
// configuration.
func ParsePricing(threshold, fee, rate string) (Pricing, error) {
	var (
		p   Pricing
		err error
	)
	if p.FreeShippingThreshold, err = decimal.NewFromString(threshold); err != nil {
		return Pricing{}, fmt.Errorf("invalid free shipping threshold %q: %w", threshold, err)
	}
	if p.ShippingFee, err = decimal.NewFromString(fee); err != nil {
		return Pricing{}, fmt.Errorf("invalid shipping fee %q: %w", fee, err)
	}
	if p.TaxRate, err = decimal.NewFromString(rate); err != nil {
		return Pricing{}, fmt.Errorf("invalid tax rate %q: %w", rate, err)
	}
	if p.FreeShippingThreshold.IsNegative() || p.ShippingFee.IsNegative() || p.TaxRate.IsNegative() {
		return Pricing{}, fmt.Errorf("pricing values must not be negative")
	}
	return p, nil
}
