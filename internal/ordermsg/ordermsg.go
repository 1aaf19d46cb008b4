// Package ordermsg renders a checked-out cart as the plain-text order message
// sent to the restaurant over WhatsApp.
package ordermsg

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"menuboard/internal/domain"
	"menuboard/internal/pricing"
)

type Payment string

const (
	PaymentCash     Payment = "cash"
	PaymentTransfer Payment = "transfer"
)

func (p Payment) Label() string {
	switch p {
	case PaymentCash:
		return "Cash"
	case PaymentTransfer:
		return "Bank transfer"
	}
	return string(p)
}

var (
	ErrMissingCustomer = errors.New("please fill in your name, phone and delivery address")
	ErrInvalidPayment  = errors.New("choose cash or bank transfer")
	ErrProofRequired   = errors.New("attach the transfer receipt to pay by bank transfer")
	ErrEmptyOrder      = errors.New("your cart is empty")
)

type Customer struct {
	Name          string
	Phone         string
	Address       string
	Payment       Payment
	Notes         string
	ProofAttached bool
}

// Validate checks the fields the checkout form requires.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Phone) == "" || strings.TrimSpace(c.Address) == "" {
		return ErrMissingCustomer
	}
	switch c.Payment {
	case PaymentCash:
	case PaymentTransfer:
		if !c.ProofAttached {
			return ErrProofRequired
		}
	default:
		return ErrInvalidPayment
	}
	return nil
}

type Order struct {
	Reference string
	Customer  Customer
	Lines     []domain.CartLine
}

// Format renders o. Output depends only on o.
func Format(o Order) string {
	var b strings.Builder
	b.WriteString("*New order #" + o.Reference + "*\n\n")
	b.WriteString("*Customer:* " + o.Customer.Name + "\n")
	b.WriteString("*Phone:* " + o.Customer.Phone + "\n")
	b.WriteString("*Delivery address:* " + o.Customer.Address + "\n")
	b.WriteString("*Payment method:* " + o.Customer.Payment.Label() + "\n\n")
	b.WriteString("*Order:*\n")

	for _, l := range o.Lines {
		b.WriteString("\n• ")
		b.WriteString(strconv.Itoa(l.Quantity) + "x " + l.Product.Name)
		if s, ok := l.Product.Size(l.SelectedSizeID); ok {
			b.WriteString(" (" + s.Name + ")")
		}
		if len(l.SelectedAddonIDs) > 0 {
			b.WriteString("\n   Add-ons:")
			for _, id := range l.SelectedAddonIDs {
				if a, ok := l.Product.Addon(id); ok {
					b.WriteString("\n   - " + a.Name + " (+" + pricing.Format(decimal.NewFromFloat(a.Price)) + ")")
				}
			}
		}
		b.WriteString("\n   Subtotal: " + pricing.Format(pricing.LineAmount(l)))
	}

	if notes := strings.TrimSpace(o.Customer.Notes); notes != "" {
		b.WriteString("\n\n*Notes:* " + notes)
	}
	b.WriteString("\n\n*Total:* " + pricing.Format(pricing.OrderAmount(o.Lines)))
	return b.String()
}

// DeepLink builds a wa.me link that opens a chat with phone prefilled with msg.
// Everything but digits is dropped from phone.
func DeepLink(phone, msg string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return "https://wa.me/" + digits + "?text=" + strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
}

const refAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewReference returns a random 6 character order reference.
func NewReference() (string, error) {
	var b [6]byte
	max := big.NewInt(int64(len(refAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = refAlphabet[n.Int64()]
	}
	return string(b[:]), nil
}
