package cart

import (
	"slices"

	"storefront/internal/product"

	"github.com/shopspring/decimal"
)

// AddItem adds one unit of p. A repeat add increments the existing line and
// leaves its captured price and variant alone.
func AddItem(c Cart, p product.Product) Cart {
	return AddItemVariant(c, p, nil)
}

// AddItemVariant is AddItem with a chosen variant. The variant is recorded
// only when a new line is created.
func AddItemVariant(c Cart, p product.Product, v *product.Variant) Cart {
	lines := slices.Clone(c.Lines)
	if i := c.index(p.ID); i >= 0 {
		lines[i].Quantity++
		return Cart{Lines: lines}
	}
	line := Line{Product: p, Price: p.Price, Quantity: 1}
	if v != nil {
		chosen := *v
		line.Variant = &chosen
	}
	return Cart{Lines: append(lines, line)}
}

// UpdateQuantity sets the quantity of the line for id. A quantity of zero or
// less removes the line. Unknown ids leave the cart unchanged.
func UpdateQuantity(c Cart, id string, quantity int) Cart {
	if quantity <= 0 {
		return RemoveItem(c, id)
	}
	i := c.index(id)
	if i < 0 {
		return Cart{Lines: slices.Clone(c.Lines)}
	}
	lines := slices.Clone(c.Lines)
	lines[i].Quantity = quantity
	return Cart{Lines: lines}
}

// RemoveItem drops the line for id if present.
func RemoveItem(c Cart, id string) Cart {
	lines := slices.DeleteFunc(slices.Clone(c.Lines), func(l Line) bool {
		return l.ProductID() == id
	})
	return Cart{Lines: lines}
}

// Summarize prices c with DefaultPricing.
func Summarize(c Cart) Summary {
	return DefaultPricing().Summarize(c)
}

// Summarize derives subtotal, shipping, tax and total for c. Shipping is
// free only when the subtotal is strictly above the threshold.
func (p Pricing) Summarize(c Cart) Summary {
	subtotal := decimal.Zero
	for _, l := range c.Lines {
		subtotal = subtotal.Add(l.Total())
	}

	free := subtotal.GreaterThan(p.FreeShippingThreshold)
	shipping := p.ShippingFee
	if free {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(p.TaxRate)

	return Summary{
		Subtotal:             subtotal,
		Shipping:             shipping,
		Tax:                  tax,
		Total:                subtotal.Add(shipping).Add(tax),
		AmountToFreeShipping: decimal.Max(decimal.Zero, p.FreeShippingThreshold.Sub(subtotal)),
		FreeShipping:         free,
		ItemCount:            c.ItemCount(),
	}
}
