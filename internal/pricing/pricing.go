// Package pricing computes cart subtotal, tax, shipping and total.
//
// All functions are pure and work at full decimal precision. Rounding to cents
// happens only for presentation, through Summary.Rounded or Format.
package pricing

import (
	"github.com/shopspring/decimal"
)

// Line is anything with a unit price and a quantity.
type Line struct {
	Price    decimal.Decimal
	Quantity int
}

// Rules holds the fixed-rate pricing parameters.
type Rules struct {
	TaxRate decimal.Decimal
	// FreeShippingThreshold is exclusive: a subtotal must be strictly greater to ship free.
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
}

// DefaultRules returns an 8% tax rate and a 5.99 flat fee waived above 50.00.
func DefaultRules() Rules {
	return Rules{
		TaxRate:               decimal.RequireFromString("0.08"),
		FreeShippingThreshold: decimal.RequireFromString("50.00"),
		ShippingFee:           decimal.RequireFromString("5.99"),
	}
}

// Subtotal returns the sum of price times quantity. An empty list is zero.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// Tax applies the flat rate to subtotal.
func (r Rules) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(r.TaxRate)
}

// Shipping is free when subtotal is strictly above the threshold.
func (r Rules) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(r.FreeShippingThreshold) {
		return decimal.Zero
	}
	return r.ShippingFee
}

// Total is subtotal plus tax plus shipping.
func (r Rules) Total(lines []Line) decimal.Decimal {
	return r.Summarize(lines).Total
}

// Summary is the full breakdown of a list of lines.
type Summary struct {
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Shipping  decimal.Decimal
	Total     decimal.Decimal
	ItemCount int
}

// Summarize computes every amount once from the same subtotal.
func (r Rules) Summarize(lines []Line) Summary {
	subtotal := Subtotal(lines)
	tax := r.Tax(subtotal)
	shipping := r.Shipping(subtotal)
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return Summary{
		Subtotal:  subtotal,
		Tax:       tax,
		Shipping:  shipping,
		Total:     subtotal.Add(tax).Add(shipping),
		ItemCount: count,
	}
}

// Rounded returns a copy with every amount rounded half-up to cents.
func (s Summary) Rounded() Summary {
	s.Subtotal = s.Subtotal.Round(2)
	s.Tax = s.Tax.Round(2)
	s.Shipping = s.Shipping.Round(2)
	s.Total = s.Total.Round(2)
	return s
}

// Format renders d with exactly two decimals, rounding half-up.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
