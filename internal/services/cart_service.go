package services

import (
	"errors"

	"menuboard/internal/cart"
	"menuboard/internal/domain"
	"menuboard/internal/pricing"
	"menuboard/internal/repos"
	"menuboard/internal/validate"
)

var ErrSizeRequired = errors.New("please choose a size")

type CartService struct {
	Carts   *repos.CartRepo
	Catalog *repos.CatalogRepo
}

func NewCartService(carts *repos.CartRepo, catalog *repos.CatalogRepo) *CartService {
	return &CartService{Carts: carts, Catalog: catalog}
}

func (s *CartService) load(sessionID string) (cart.Cart, error) {
	lines, err := s.Carts.Load(sessionID)
	if err != nil {
		return cart.Cart{}, err
	}
	return cart.New(lines), nil
}

func (s *CartService) save(sessionID string, c cart.Cart) error {
	if c.IsEmpty() {
		return s.Carts.Clear(sessionID)
	}
	return s.Carts.Save(sessionID, c.Lines())
}

func (s *CartService) Cart(sessionID string) (cart.Cart, error) { return s.load(sessionID) }

// MaxLineQty caps the quantity of a single cart line.
const MaxLineQty = 99

// Add puts one unit of a product in the session's cart.
func (s *CartService) Add(sessionID, productID string, addonIDs []string, sizeID string) (domain.CartLine, error) {
	return s.AddN(sessionID, productID, addonIDs, sizeID, 1)
}

// AddN puts qty units of a product in the session's cart, in one load and one
// save. Add-on ids the product does not offer are dropped. A product with
// sizes needs a size: the selection if it is one of them, else the product's
// default. The resulting line is capped at MaxLineQty.
func (s *CartService) AddN(sessionID, productID string, addonIDs []string, sizeID string, qty int) (domain.CartLine, error) {
	if qty < 1 {
		qty = 1
	}
	p, err := s.Catalog.GetProduct(productID)
	if err != nil {
		return domain.CartLine{}, err
	}

	if len(p.Sizes) == 0 {
		sizeID = ""
	} else if _, ok := p.Size(sizeID); !ok {
		if _, ok := p.Size(p.DefaultSizeID); !ok {
			return domain.CartLine{}, ErrSizeRequired
		}
		sizeID = p.DefaultSizeID
	}

	var keep []string
	for _, id := range validate.IDs(addonIDs) {
		if _, ok := p.Addon(id); ok {
			keep = append(keep, id)
		}
	}

	c, err := s.load(sessionID)
	if err != nil {
		return domain.CartLine{}, err
	}
	c = c.AddN(p, keep, sizeID, min(qty, MaxLineQty))
	key := cart.Key(p.ID, keep, sizeID)
	var line domain.CartLine
	for _, l := range c.Lines() {
		if cart.LineKey(l) == key {
			line = l
		}
	}
	if line.Quantity > MaxLineQty {
		c = c.UpdateLine(key, MaxLineQty)
		line.Quantity = MaxLineQty
	}
	if err := s.save(sessionID, c); err != nil {
		return domain.CartLine{}, err
	}
	return line, nil
}

// UpdateLine sets the quantity of one line; 0 removes it.
func (s *CartService) UpdateLine(sessionID, key string, qty int) error {
	c, err := s.load(sessionID)
	if err != nil {
		return err
	}
	return s.save(sessionID, c.UpdateLine(key, qty))
}

func (s *CartService) RemoveLine(sessionID, key string) error {
	c, err := s.load(sessionID)
	if err != nil {
		return err
	}
	return s.save(sessionID, c.RemoveLine(key))
}

func (s *CartService) Clear(sessionID string) error {
	return s.Carts.Clear(sessionID)
}

type LineView struct {
	Key      string         `json:"key"`
	Name     string         `json:"name"`
	Image    string         `json:"image,omitempty"`
	Size     string         `json:"size,omitempty"`
	Addons   []domain.Addon `json:"addons"`
	Quantity int            `json:"quantity"`
	Unit     float64        `json:"unitPrice"`
	Total    float64        `json:"total"`
}

type CartView struct {
	Lines []LineView `json:"lines"`
	Count int        `json:"count"`
	Total float64    `json:"total"`
}

func (s *CartService) View(sessionID string) (CartView, error) {
	c, err := s.load(sessionID)
	if err != nil {
		return CartView{}, err
	}
	return NewCartView(c), nil
}

func NewCartView(c cart.Cart) CartView {
	v := CartView{Lines: []LineView{}, Count: c.Count(), Total: c.Total()}
	for _, l := range c.Lines() {
		lv := LineView{
			Key:      cart.LineKey(l),
			Name:     l.Product.Name,
			Image:    l.Product.Image,
			Addons:   []domain.Addon{},
			Quantity: l.Quantity,
			Unit: pricing.Round(pricing.UnitPrice(l.Product, l.SelectedSizeID).
				Add(pricing.AddonsTotal(l.Product, l.SelectedAddonIDs))),
			Total: pricing.LineTotal(l),
		}
		if sz, ok := l.Product.Size(l.SelectedSizeID); ok {
			lv.Size = sz.Name
		}
		for _, id := range l.SelectedAddonIDs {
			if a, ok := l.Product.Addon(id); ok {
				lv.Addons = append(lv.Addons, a)
			}
		}
		v.Lines = append(v.Lines, lv)
	}
	return v
}
