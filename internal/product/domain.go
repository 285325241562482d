// internal/product/domain.go
package product

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativePrice    = errors.New("price must not be negative")
	ErrInvalidOriginal  = errors.New("original price must be greater than price")
	ErrRatingOutOfRange = errors.New("rating must be between 0 and 5")
	ErrNegativeReviews  = errors.New("reviews must not be negative")
	ErrMissingID        = errors.New("product id is required")
	ErrPricePrecision   = errors.New("prices carry at most two decimal places")

	// ErrNotFound is returned by every product lookup when the id is unknown.
	ErrNotFound = errors.New("product not found")
)

// MaxRating is the top of the rating scale.
const MaxRating = 5.0

// PriceScale is the number of decimal places a price may carry. The product
// table stores prices as NUMERIC(12, 2).
const PriceScale = 2

// Variant is a purchasable color/size combination.
type Variant struct {
	Color string `json:"color"`
	Size  string `json:"size"`
}

// Product represents an immutable catalog entry.
type Product struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Price         decimal.Decimal     `json:"price"`
	OriginalPrice decimal.NullDecimal `json:"original_price"`
	Image         string              `json:"image,omitempty"`
	Category      string              `json:"category"`
	Brand         string              `json:"brand,omitempty"`
	Rating        float64             `json:"rating"`
	Reviews       int                 `json:"reviews"`
	InStock       bool                `json:"in_stock"`
	IsOnSale      bool                `json:"is_on_sale"`
	IsFeatured    bool                `json:"is_featured"`
	Variants      []Variant           `json:"variants,omitempty"`
	Tags          []string            `json:"tags,omitempty"`
}

// HasBrand reports whether the product carries a brand.
func (p Product) HasBrand() bool {
	return p.Brand != ""
}

// DiscountPercent returns the markdown against the original price, rounded
// to the nearest whole percent. Products without a valid original price
// report zero.
func (p Product) DiscountPercent() int {
	if !p.OriginalPrice.Valid || !p.OriginalPrice.Decimal.GreaterThan(p.Price) {
		return 0
	}
	orig := p.OriginalPrice.Decimal
	pct := orig.Sub(p.Price).Div(orig).Mul(decimal.NewFromInt(100)).Round(0)
	return int(pct.IntPart())
}

// Validate checks the invariants a catalog source must uphold before
// handing products to the engines.
func (p Product) Validate() error {
	if p.ID == "" {
		return ErrMissingID
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product %s: %w", p.ID, ErrNegativePrice)
	}
	if !hasPriceScale(p.Price) || (p.OriginalPrice.Valid && !hasPriceScale(p.OriginalPrice.Decimal)) {
		return fmt.Errorf("product %s: %w", p.ID, ErrPricePrecision)
	}
	if p.OriginalPrice.Valid && !p.OriginalPrice.Decimal.GreaterThan(p.Price) {
		return fmt.Errorf("product %s: %w", p.ID, ErrInvalidOriginal)
	}
	if p.Rating < 0 || p.Rating > MaxRating {
		return fmt.Errorf("product %s: %w", p.ID, ErrRatingOutOfRange)
	}
	if p.Reviews < 0 {
		return fmt.Errorf("product %s: %w", p.ID, ErrNegativeReviews)
	}
	return nil
}

func hasPriceScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(PriceScale))
}

// ValidateAll validates every product and rejects duplicate ids.
func ValidateAll(products []Product) error {
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("duplicate product id %s", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
