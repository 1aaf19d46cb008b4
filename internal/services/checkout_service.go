package services

import (
	"menuboard/internal/ids"
	"menuboard/internal/ordermsg"
	"menuboard/internal/pricing"
	"menuboard/internal/repos"
	"menuboard/internal/validate"
)

// Receipt is what the customer is sent on to: the message and the WhatsApp link.
type Receipt struct {
	OrderID   string  `json:"orderId"`
	Reference string  `json:"reference"`
	Message   string  `json:"message"`
	Link      string  `json:"link"`
	Total     float64 `json:"total"`
}

type CheckoutService struct {
	Carts    *CartService
	Orders   *repos.OrderRepo
	Settings *SettingsService
	IDs      ids.Generator
	// NewReference makes the order reference shown to the restaurant.
	NewReference func() (string, error)
}

func NewCheckoutService(carts *CartService, orders *repos.OrderRepo, settings *SettingsService, gen ids.Generator) *CheckoutService {
	return &CheckoutService{Carts: carts, Orders: orders, Settings: settings, IDs: gen, NewReference: ordermsg.NewReference}
}

// Checkout renders the session's cart as an order message, records the order
// and empties the cart. Nothing is sent: the returned link opens WhatsApp.
func (s *CheckoutService) Checkout(sessionID string, cust ordermsg.Customer) (Receipt, error) {
	cust.Name = validate.Text(cust.Name, 80)
	cust.Address = validate.Text(cust.Address, 300)
	cust.Notes = validate.Text(cust.Notes, 500)
	if err := cust.Validate(); err != nil {
		return Receipt{}, err
	}
	phone, ok := validate.Phone(cust.Phone)
	if !ok {
		return Receipt{}, invalid("phone number looks wrong")
	}
	cust.Phone = phone

	c, err := s.Carts.Cart(sessionID)
	if err != nil {
		return Receipt{}, err
	}
	if c.IsEmpty() {
		return Receipt{}, ordermsg.ErrEmptyOrder
	}
	cfg, err := s.Settings.Get()
	if err != nil {
		return Receipt{}, err
	}
	ref, err := s.NewReference()
	if err != nil {
		return Receipt{}, err
	}

	o := ordermsg.Order{Reference: ref, Customer: cust, Lines: c.Lines()}
	msg := ordermsg.Format(o)
	r := Receipt{
		OrderID:   s.IDs.NewID(),
		Reference: ref,
		Message:   msg,
		Link:      ordermsg.DeepLink(cfg.WhatsApp, msg),
		Total:     pricing.OrderTotal(o.Lines),
	}
	if err := s.Orders.Create(repos.OrderRow{
		ID:            r.OrderID,
		Reference:     ref,
		SessionID:     sessionID,
		CustomerName:  cust.Name,
		CustomerPhone: cust.Phone,
		Address:       cust.Address,
		Payment:       string(cust.Payment),
		Notes:         cust.Notes,
		Total:         r.Total,
		Message:       msg,
	}); err != nil {
		return Receipt{}, err
	}
	if err := s.Carts.Clear(sessionID); err != nil {
		return Receipt{}, err
	}
	return r, nil
}

func (s *CheckoutService) RecentOrders(limit int) ([]repos.OrderRow, error) {
	return s.Orders.ListLatest(limit)
}
