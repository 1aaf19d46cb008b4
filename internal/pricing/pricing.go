// Package pricing derives cart prices from product snapshots.
//
// Amounts are accumulated as decimals and rounded to cents only when a value
// leaves the package as a float (LineTotal, OrderTotal).
package pricing

import (
	"github.com/shopspring/decimal"

	"menuboard/internal/domain"
)

// UnitPrice is the selected size's price, or the base price when no size is
// selected or the id is not one of the product's sizes.
func UnitPrice(p domain.Product, sizeID string) decimal.Decimal {
	if s, ok := p.Size(sizeID); ok {
		return decimal.NewFromFloat(s.Price)
	}
	return decimal.NewFromFloat(p.Price)
}

// AddonsTotal sums the add-ons of p named by ids. Unknown ids add nothing.
func AddonsTotal(p domain.Product, addonIDs []string) decimal.Decimal {
	sum := decimal.Zero
	for _, id := range addonIDs {
		if a, ok := p.Addon(id); ok {
			sum = sum.Add(decimal.NewFromFloat(a.Price))
		}
	}
	return sum
}

// LineAmount is the unrounded price of a cart line.
func LineAmount(l domain.CartLine) decimal.Decimal {
	each := UnitPrice(l.Product, l.SelectedSizeID).Add(AddonsTotal(l.Product, l.SelectedAddonIDs))
	return each.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineTotal is LineAmount rounded to cents.
func LineTotal(l domain.CartLine) float64 {
	return Round(LineAmount(l))
}

// OrderAmount sums unrounded line amounts.
func OrderAmount(lines []domain.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineAmount(l))
	}
	return sum
}

// OrderTotal is OrderAmount rounded to cents.
func OrderTotal(lines []domain.CartLine) float64 {
	return Round(OrderAmount(lines))
}

func Round(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// Format renders an amount as "$12.34".
func Format(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
