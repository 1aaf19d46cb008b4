package handlers

import (
	"menuboard/internal/domain"
	applog "menuboard/internal/log"
	"menuboard/internal/services"
	"menuboard/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type MenuHandler struct {
	Catalog  *services.CatalogService
	Settings *services.SettingsService
	Cart     *services.CartService
}

type menuSection struct {
	Category domain.Category
	Products []domain.Product
}

// sections groups products under their categories, in category order. Empty
// categories are left out.
func sections(m services.Menu, only string) []menuSection {
	var out []menuSection
	for _, cat := range m.Categories {
		if only != "" && cat.ID != only {
			continue
		}
		if ps := m.ProductsIn(cat.ID); len(ps) > 0 {
			out = append(out, menuSection{Category: cat, Products: ps})
		}
	}
	return out
}

// GET /
func (h *MenuHandler) Home(c *fiber.Ctx) error {
	m, err := h.Catalog.Menu()
	if err != nil {
		return err
	}
	cfg, err := h.Settings.Get()
	if err != nil {
		return err
	}
	only := ""
	if raw := c.Query("category"); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "category"})
			return notFound(c, "That section of the menu does not exist")
		}
		only = id
	}
	cv, err := h.Cart.View(ensureSID(c))
	if err != nil {
		return err
	}
	return render(c, "menu", fiber.Map{
		"Restaurant": cfg,
		"Categories": m.Categories,
		"Active":     only,
		"Sections":   sections(m, only),
		"CartCount":  cv.Count,
	})
}

// GET /api/v1/menu
func (h *MenuHandler) API(c *fiber.Ctx) error {
	m, err := h.Catalog.Menu()
	if err != nil {
		return jsonError(c, "menu.load.fail", err)
	}
	cfg, err := h.Settings.Get()
	if err != nil {
		return jsonError(c, "menu.load.fail", err)
	}
	return c.JSON(fiber.Map{
		"restaurant": cfg,
		"categories": m.Categories,
		"products":   m.Products,
		"addons":     m.Addons,
	})
}

// GET /api/v1/products/:id
func (h *MenuHandler) Product(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "This item is no longer available"})
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return jsonError(c, "product.load.fail", err)
	}
	return c.JSON(p)
}
