// Package cart implements the shopping cart as an immutable value: every
// operation returns a new Cart and leaves the receiver as it was.
package cart

import (
	"slices"
	"strings"

	"menuboard/internal/domain"
	"menuboard/internal/pricing"
)

type Cart struct {
	lines []domain.CartLine
}

// New builds a cart from persisted lines. Lines are copied.
func New(lines []domain.CartLine) Cart {
	c := Cart{lines: make([]domain.CartLine, 0, len(lines))}
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		c.lines = append(c.lines, copyLine(l))
	}
	return c
}

// Key identifies a line: product id, sorted add-on ids and size id.
func Key(productID string, addonIDs []string, sizeID string) string {
	return productID + "|" + strings.Join(sortedIDs(addonIDs), ",") + "|" + sizeID
}

// LineKey is Key for an existing line.
func LineKey(l domain.CartLine) string {
	return Key(l.Product.ID, l.SelectedAddonIDs, l.SelectedSizeID)
}

// Add puts one unit of the combination in the cart, merging with an existing
// line that has the same key. The product is snapshotted.
func (c Cart) Add(p domain.Product, addonIDs []string, sizeID string) Cart {
	return c.AddN(p, addonIDs, sizeID, 1)
}

// AddN is Add for n units. n <= 0 leaves the cart unchanged.
func (c Cart) AddN(p domain.Product, addonIDs []string, sizeID string, n int) Cart {
	if n <= 0 {
		return c
	}
	key := Key(p.ID, addonIDs, sizeID)
	out := c.clone()
	for i := range out.lines {
		if LineKey(out.lines[i]) == key {
			out.lines[i].Quantity += n
			return out
		}
	}
	out.lines = append(out.lines, domain.CartLine{
		Product:          p.Clone(),
		Quantity:         n,
		SelectedAddonIDs: sortedIDs(addonIDs),
		SelectedSizeID:   sizeID,
	})
	return out
}

// UpdateQuantity sets the quantity of the first line for productID.
// A quantity of zero or less removes that line.
func (c Cart) UpdateQuantity(productID string, qty int) Cart {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return c.setAt(i, qty)
		}
	}
	return c.clone()
}

// UpdateLine sets the quantity of the line with the given key.
func (c Cart) UpdateLine(key string, qty int) Cart {
	for i, l := range c.lines {
		if LineKey(l) == key {
			return c.setAt(i, qty)
		}
	}
	return c.clone()
}

// Remove drops every line for productID.
func (c Cart) Remove(productID string) Cart {
	return c.filter(func(l domain.CartLine) bool { return l.Product.ID != productID })
}

// RemoveLine drops the line with the given key.
func (c Cart) RemoveLine(key string) Cart {
	return c.filter(func(l domain.CartLine) bool { return LineKey(l) != key })
}

func (c Cart) Clear() Cart { return Cart{} }

// Lines returns a copy of the lines in insertion order.
func (c Cart) Lines() []domain.CartLine {
	return c.clone().lines
}

func (c Cart) Len() int { return len(c.lines) }

func (c Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Count is the number of units across all lines.
func (c Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c Cart) Total() float64 { return pricing.OrderTotal(c.lines) }

func (c Cart) setAt(i, qty int) Cart {
	out := c.clone()
	if qty <= 0 {
		out.lines = append(out.lines[:i], out.lines[i+1:]...)
		return out
	}
	out.lines[i].Quantity = qty
	return out
}

func (c Cart) filter(keep func(domain.CartLine) bool) Cart {
	out := Cart{lines: make([]domain.CartLine, 0, len(c.lines))}
	for _, l := range c.lines {
		if keep(l) {
			out.lines = append(out.lines, copyLine(l))
		}
	}
	return out
}

func (c Cart) clone() Cart {
	out := Cart{lines: make([]domain.CartLine, len(c.lines))}
	for i, l := range c.lines {
		out.lines[i] = copyLine(l)
	}
	return out
}

func copyLine(l domain.CartLine) domain.CartLine {
	l.Product = l.Product.Clone()
	l.SelectedAddonIDs = sortedIDs(l.SelectedAddonIDs)
	return l
}

// sortedIDs treats add-on ids as a set: sorted, without repeats.
func sortedIDs(in []string) []string {
	out := append([]string{}, in...)
	slices.Sort(out)
	return slices.Compact(out)
}
