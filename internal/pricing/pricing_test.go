package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"menuboard/internal/domain"
	"menuboard/internal/pricing"
)

func margherita() domain.Product {
	return domain.Product{
		ID:    "1",
		Name:  "Pizza Margherita",
		Price: 12.99,
		Addons: []domain.Addon{
			{ID: "extra_queso", Name: "Queso Extra", Price: 2.50, Category: domain.AddonExtra},
			{ID: "aceite_oliva", Name: "Aceite de Oliva", Price: 2.00, Category: domain.AddonExtra},
		},
		Sizes: []domain.ProductSize{
			{ID: "small", Name: "Pequeña", Price: 12.99},
			{ID: "medium", Name: "Mediana", Price: 16.99},
		},
		DefaultSizeID: "medium",
	}
}

func TestUnitPrice(t *testing.T) {
	p := margherita()
	if got := pricing.UnitPrice(p, "medium"); !got.Equal(decimal.RequireFromString("16.99")) {
		t.Fatalf("medium: got %s", got)
	}
	if got := pricing.UnitPrice(p, ""); !got.Equal(decimal.RequireFromString("12.99")) {
		t.Fatalf("no size: got %s", got)
	}
	// unknown size id falls back to the base price
	if got := pricing.UnitPrice(p, "family"); !got.Equal(decimal.RequireFromString("12.99")) {
		t.Fatalf("unknown size: got %s", got)
	}
}

func TestAddonsTotalIgnoresUnknownIDs(t *testing.T) {
	p := margherita()
	got := pricing.AddonsTotal(p, []string{"extra_queso", "bacon", "aceite_oliva"})
	if !got.Equal(decimal.RequireFromString("4.50")) {
		t.Fatalf("want 4.50, got %s", got)
	}
	if !pricing.AddonsTotal(p, nil).IsZero() {
		t.Fatal("no add-ons should total zero")
	}
}

func TestLineAndOrderTotals(t *testing.T) {
	line := domain.CartLine{
		Product:          margherita(),
		Quantity:         1,
		SelectedAddonIDs: []string{"extra_queso"},
		SelectedSizeID:   "medium",
	}
	if got := pricing.LineTotal(line); got != 19.49 {
		t.Fatalf("want 19.49, got %v", got)
	}
	line.Quantity = 2
	if got := pricing.LineTotal(line); got != 38.98 {
		t.Fatalf("want 38.98, got %v", got)
	}
	if got := pricing.OrderTotal([]domain.CartLine{line}); got != 38.98 {
		t.Fatalf("want order 38.98, got %v", got)
	}
}

func TestOrderTotalRoundsOnce(t *testing.T) {
	// three lines of 0.105 would total 0.33 if each were rounded first
	p := domain.Product{ID: "mint", Price: 0.105}
	lines := []domain.CartLine{
		{Product: p, Quantity: 1},
		{Product: p, Quantity: 1},
		{Product: p, Quantity: 1},
	}
	if got := pricing.OrderTotal(lines); got != 0.32 {
		t.Fatalf("want 0.32, got %v", got)
	}
	if got := pricing.OrderAmount(lines); !got.Equal(decimal.RequireFromString("0.315")) {
		t.Fatalf("unrounded amount: got %s", got)
	}
}

func TestFormat(t *testing.T) {
	if got := pricing.Format(decimal.RequireFromString("2.5")); got != "$2.50" {
		t.Fatalf("got %s", got)
	}
}
