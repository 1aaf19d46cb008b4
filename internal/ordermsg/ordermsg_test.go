package ordermsg

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"menuboard/internal/cart"
	"menuboard/internal/domain"
)

func margherita() domain.Product {
	return domain.Product{
		ID:    "1",
		Name:  "Pizza Margherita",
		Price: 12.99,
		Sizes: []domain.ProductSize{
			{ID: "small", Name: "Small", Price: 12.99},
			{ID: "medium", Name: "Medium", Price: 16.99},
		},
		Addons: []domain.Addon{
			{ID: "extra_queso", Name: "Extra cheese", Price: 2.5, Category: domain.AddonExtra},
			{ID: "aceite_oliva", Name: "Olive oil", Price: 2, Category: domain.AddonTopping},
		},
	}
}

func sampleOrder() Order {
	c := cart.Cart{}.
		Add(margherita(), []string{"extra_queso"}, "medium").
		Add(margherita(), []string{"extra_queso"}, "medium").
		Add(domain.Product{ID: "9", Name: "Lemonade", Price: 3}, nil, "")
	return Order{
		Reference: "AB12CD",
		Customer: Customer{
			Name:    "Ana",
			Phone:   "+57 315 000",
			Address: "Calle 1 #2-3",
			Payment: PaymentCash,
			Notes:   "Ring twice",
		},
		Lines: c.Lines(),
	}
}

func TestFormat(t *testing.T) {
	got := Format(sampleOrder())
	want := "*New order #AB12CD*\n\n" +
		"*Customer:* Ana\n" +
		"*Phone:* +57 315 000\n" +
		"*Delivery address:* Calle 1 #2-3\n" +
		"*Payment method:* Cash\n\n" +
		"*Order:*\n" +
		"\n• 2x Pizza Margherita (Medium)" +
		"\n   Add-ons:" +
		"\n   - Extra cheese (+$2.50)" +
		"\n   Subtotal: $38.98" +
		"\n• 1x Lemonade" +
		"\n   Subtotal: $3.00" +
		"\n\n*Notes:* Ring twice" +
		"\n\n*Total:* $41.98"
	if got != want {
		t.Fatalf("message mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatIsDeterministic(t *testing.T) {
	o := sampleOrder()
	if Format(o) != Format(o) {
		t.Fatal("same order rendered differently")
	}
}

func TestFormatOmitsEmptyNotes(t *testing.T) {
	o := sampleOrder()
	o.Customer.Notes = "  "
	if strings.Contains(Format(o), "Notes") {
		t.Fatal("notes section should be omitted")
	}
}

func TestDeepLink(t *testing.T) {
	got := DeepLink("+57 (315) 610-0334", "Hi & bye\n#1")
	want := "https://wa.me/573156100334?text=Hi%20%26%20bye%0A%231"
	if got != want {
		t.Fatalf("got %s", got)
	}
}

func TestNewReference(t *testing.T) {
	re := regexp.MustCompile(`^[0-9A-Z]{6}$`)
	for i := 0; i < 20; i++ {
		ref, err := NewReference()
		if err != nil {
			t.Fatal(err)
		}
		if !re.MatchString(ref) {
			t.Fatalf("bad reference %q", ref)
		}
	}
}

func TestCustomerValidate(t *testing.T) {
	ok := Customer{Name: "Ana", Phone: "1", Address: "x", Payment: PaymentCash}
	cases := []struct {
		name string
		mod  func(*Customer)
		want error
	}{
		{"valid cash", func(c *Customer) {}, nil},
		{"missing name", func(c *Customer) { c.Name = " " }, ErrMissingCustomer},
		{"missing address", func(c *Customer) { c.Address = "" }, ErrMissingCustomer},
		{"unknown payment", func(c *Customer) { c.Payment = "card" }, ErrInvalidPayment},
		{"transfer without proof", func(c *Customer) { c.Payment = PaymentTransfer }, ErrProofRequired},
		{"transfer with proof", func(c *Customer) { c.Payment = PaymentTransfer; c.ProofAttached = true }, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := ok
			tc.mod(&c)
			if err := c.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}
