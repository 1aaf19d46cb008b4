package services

import (
	"errors"
	"fmt"
	"strings"

	"menuboard/internal/domain"
	"menuboard/internal/ids"
	"menuboard/internal/repos"
	"menuboard/internal/validate"
)

var (
	ErrInvalid            = errors.New("invalid input")
	ErrInvalidDefaultSize = errors.New("default size must be one of the product's sizes")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// CatalogService owns categories, add-ons and products, including the cleanup
// a delete implies: a category takes its products with it and an add-on is
// unlinked from every product.
type CatalogService struct {
	Repo *repos.CatalogRepo
	IDs  ids.Generator
}

func NewCatalogService(repo *repos.CatalogRepo, gen ids.Generator) *CatalogService {
	return &CatalogService{Repo: repo, IDs: gen}
}

// Menu is the whole catalog, as the storefront shows it.
type Menu struct {
	Categories []domain.Category `json:"categories"`
	Products   []domain.Product  `json:"products"`
	Addons     []domain.Addon    `json:"addons"`
}

func (s *CatalogService) Menu() (Menu, error) {
	var m Menu
	err := s.Repo.Atomic(func(tx *repos.CatalogRepo) error {
		var err error
		if m.Categories, err = tx.ListCategories(); err != nil {
			return err
		}
		if m.Products, err = tx.ListProducts(); err != nil {
			return err
		}
		m.Addons, err = tx.ListAddons()
		return err
	})
	return m, err
}

// ProductsIn filters products by category id, keeping order.
func (m Menu) ProductsIn(categoryID string) []domain.Product {
	var out []domain.Product
	for _, p := range m.Products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

// Search matches q against product names and descriptions, ignoring case.
func (m Menu) Search(q string) []domain.Product {
	q = lower(q)
	var out []domain.Product
	for _, p := range m.Products {
		if strings.Contains(lower(p.Name), q) || strings.Contains(lower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) { return s.Repo.ListCategories() }
func (s *CatalogService) ListAddons() ([]domain.Addon, error)        { return s.Repo.ListAddons() }
func (s *CatalogService) ListProducts() ([]domain.Product, error)    { return s.Repo.ListProducts() }

func (s *CatalogService) GetProduct(id string) (domain.Product, error) { return s.Repo.GetProduct(id) }

// ---------- Categories ----------

func (s *CatalogService) CreateCategory(p domain.CategoryPatch) (domain.Category, error) {
	c := p.Apply(domain.Category{ID: s.IDs.NewID()})
	if err := checkCategory(&c); err != nil {
		return domain.Category{}, err
	}
	return c, s.Repo.InsertCategory(c)
}

func (s *CatalogService) UpdateCategory(id string, p domain.CategoryPatch) (domain.Category, error) {
	var c domain.Category
	err := s.Repo.Atomic(func(tx *repos.CatalogRepo) error {
		cur, err := tx.GetCategory(id)
		if err != nil {
			return err
		}
		c = p.Apply(cur)
		if err := checkCategory(&c); err != nil {
			return err
		}
		return tx.UpdateCategory(c)
	})
	return c, err
}

// DeleteCategory also deletes every product in the category.
func (s *CatalogService) DeleteCategory(id string) error {
	return s.Repo.Atomic(func(tx *repos.CatalogRepo) error { return tx.DeleteCategory(id) })
}

func checkCategory(c *domain.Category) error {
	name, ok := validate.Name(c.Name)
	if !ok {
		return invalid("category name is required")
	}
	c.Name = name
	c.Description = validate.Text(c.Description, 500)
	return nil
}

// ---------- Add-ons ----------

func (s *CatalogService) CreateAddon(p domain.AddonPatch) (domain.Addon, error) {
	a := p.Apply(domain.Addon{ID: s.IDs.NewID(), Category: domain.AddonExtra})
	if err := checkAddon(&a); err != nil {
		return domain.Addon{}, err
	}
	return a, s.Repo.InsertAddon(a)
}

func (s *CatalogService) UpdateAddon(id string, p domain.AddonPatch) (domain.Addon, error) {
	var a domain.Addon
	err := s.Repo.Atomic(func(tx *repos.CatalogRepo) error {
		cur, err := tx.GetAddon(id)
		if err != nil {
			return err
		}
		a = p.Apply(cur)
		if err := checkAddon(&a); err != nil {
			return err
		}
		return tx.UpdateAddon(a)
	})
	return a, err
}

// DeleteAddon removes the add-on from every product; the products stay.
func (s *CatalogService) DeleteAddon(id string) error {
	return s.Repo.Atomic(func(tx *repos.CatalogRepo) error { return tx.DeleteAddon(id) })
}

func checkAddon(a *domain.Addon) error {
	name, ok := validate.Name(a.Name)
	if !ok {
		return invalid("add-on name is required")
	}
	a.Name = name
	if !validate.Price(a.Price) {
		return invalid("add-on price must be zero or more")
	}
	if !a.Category.Valid() {
		return invalid("unknown add-on category %q", a.Category)
	}
	return nil
}

// ---------- Products ----------

func (s *CatalogService) CreateProduct(p domain.ProductPatch) (domain.Product, error) {
	var out domain.Product
	err := s.Repo.Atomic(func(tx *repos.CatalogRepo) error {
		pr := p.Apply(domain.Product{ID: s.IDs.NewID(), Addons: []domain.Addon{}})
		if err := s.prepareProduct(tx, &pr, p.AddonIDs); err != nil {
			return err
		}
		if err := tx.InsertProduct(pr); err != nil {
			return err
		}
		out = pr
		return nil
	})
	return out, err
}

func (s *CatalogService) UpdateProduct(id string, p domain.ProductPatch) (domain.Product, error) {
	var out domain.Product
	err := s.Repo.Atomic(func(tx *repos.CatalogRepo) error {
		cur, err := tx.GetProduct(id)
		if err != nil {
			return err
		}
		pr := p.Apply(cur)
		if err := s.prepareProduct(tx, &pr, p.AddonIDs); err != nil {
			return err
		}
		if err := tx.UpdateProduct(pr); err != nil {
			return err
		}
		out = pr
		return nil
	})
	return out, err
}

func (s *CatalogService) DeleteProduct(id string) error {
	return s.Repo.Atomic(func(tx *repos.CatalogRepo) error { return tx.DeleteProduct(id) })
}

// prepareProduct validates pr, gives new sizes an id and, when addonIDs is
// set, replaces the product's add-ons with the named catalog add-ons.
func (s *CatalogService) prepareProduct(tx *repos.CatalogRepo, pr *domain.Product, addonIDs *[]string) error {
	name, ok := validate.Name(pr.Name)
	if !ok {
		return invalid("product name is required")
	}
	pr.Name = name
	pr.Description = validate.Text(pr.Description, 1000)
	pr.Image = validate.Text(pr.Image, 500)
	if !validate.Price(pr.Price) {
		return invalid("price must be zero or more")
	}
	if pr.SpicyLevel < 0 || pr.SpicyLevel > 3 {
		return invalid("spicy level must be between 0 and 3")
	}
	if pr.PreparationTime < 0 {
		return invalid("preparation time must be zero or more")
	}
	if _, err := tx.GetCategory(pr.CategoryID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return invalid("unknown category %q", pr.CategoryID)
		}
		return err
	}

	seen := map[string]bool{}
	for i := range pr.Sizes {
		sz := &pr.Sizes[i]
		if sz.ID == "" {
			sz.ID = s.IDs.NewID()
		}
		if seen[sz.ID] {
			return invalid("duplicate size id %q", sz.ID)
		}
		seen[sz.ID] = true
		n, ok := validate.Name(sz.Name)
		if !ok {
			return invalid("size name is required")
		}
		sz.Name = n
		if !validate.Price(sz.Price) {
			return invalid("size price must be zero or more")
		}
	}
	if pr.DefaultSizeID != "" {
		if _, ok := pr.Size(pr.DefaultSizeID); !ok {
			return ErrInvalidDefaultSize
		}
	}

	if addonIDs != nil {
		pr.Addons = []domain.Addon{}
		for _, id := range validate.IDs(*addonIDs) {
			a, err := tx.GetAddon(id)
			if errors.Is(err, repos.ErrNotFound) {
				return invalid("unknown add-on %q", id)
			}
			if err != nil {
				return err
			}
			pr.Addons = append(pr.Addons, a)
		}
	}
	return nil
}

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
