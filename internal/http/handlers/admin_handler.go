package handlers

import (
	"strconv"

	"menuboard/internal/domain"
	applog "menuboard/internal/log"
	"menuboard/internal/services"
	"menuboard/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the back-office page and the catalog/settings JSON API
// under /api/v1/admin.
type AdminHandler struct {
	Catalog  *services.CatalogService
	Settings *services.SettingsService
	Checkout *services.CheckoutService
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	m, err := h.Catalog.Menu()
	if err != nil {
		return err
	}
	cfg, err := h.Settings.Get()
	if err != nil {
		return err
	}
	ords, err := h.Checkout.RecentOrders(25)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return render(c.Status(fiber.StatusInternalServerError), "notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "admin", fiber.Map{
		"Menu":       m,
		"Sections":   sections(m, ""),
		"Restaurant": cfg,
		"Orders":     ords,
	})
}

func badBody(c *fiber.Ctx) error {
	applog.Security(c, "validation.fail", map[string]any{"field": "body"})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "request body is not valid JSON"})
}

func pathID(c *fiber.Ctx) (string, bool) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
	}
	return id, ok
}

var errBadID = fiber.Map{"error": "not found"}

// ---------- categories ----------

func (h *AdminHandler) ListCategories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return jsonError(c, "admin.category.list.fail", err)
	}
	return c.JSON(cats)
}

func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var p domain.CategoryPatch
	if err := c.BodyParser(&p); err != nil {
		return badBody(c)
	}
	cat, err := h.Catalog.CreateCategory(p)
	if err != nil {
		return jsonError(c, "admin.category.create.fail", err)
	}
	applog.Audit(c, "admin.category.create", map[string]any{"id": cat.ID, "name": cat.Name})
	return c.Status(fiber.StatusCreated).JSON(cat)
}

func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errBadID)
	}
	var p domain.CategoryPatch
	if err := c.BodyParser(&p); err != nil {
		return badBody(c)
	}
	cat, err := h.Catalog.UpdateCategory(id, p)
	if err != nil {
		return jsonError(c, "admin.category.update.fail", err)
	}
	applog.Audit(c, "admin.category.update", map[string]any{"id": id})
	return c.JSON(cat)
}

func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errBadID)
	}
	if err := h.Catalog.DeleteCategory(id); err != nil {
		return jsonError(c, "admin.category.delete.fail", err)
	}
	applog.Audit(c, "admin.category.delete", map[string]any{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// ---------- add-ons ----------

func (h *AdminHandler) ListAddons(c *fiber.Ctx) error {
	addons, err := h.Catalog.ListAddons()
	if err != nil {
		return jsonError(c, "admin.addon.list.fail", err)
	}
	return c.JSON(addons)
}

func (h *AdminHandler) CreateAddon(c *fiber.Ctx) error {
	var p domain.AddonPatch
	if err := c.BodyParser(&p); err != nil {
		return badBody(c)
	}
	a, err := h.Catalog.CreateAddon(p)
	if err != nil {
		return jsonError(c, "admin.addon.create.fail", err)
	}
	applog.Audit(c, "admin.addon.create", map[string]any{"id": a.ID, "name": a.Name, "price": a.Price})
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (h *AdminHandler) UpdateAddon(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errBadID)
	}
	var p domain.AddonPatch
	if err := c.BodyParser(&p); err != nil {
		return badBody(c)
	}
	a, err := h.Catalog.UpdateAddon(id, p)
	if err != nil {
		return jsonError(c, "admin.addon.update.fail", err)
	}
	applog.Audit(c, "admin.addon.update", map[string]any{"id": id, "price": a.Price})
	return c.JSON(a)
}

func (h *AdminHandler) DeleteAddon(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errBadID)
	}
	if err := h.Catalog.DeleteAddon(id); err != nil {
		return jsonError(c, "admin.addon.delete.fail", err)
	}
	applog.Audit(c, "admin.addon.delete", map[string]any{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// ---------- products ----------

func (h *AdminHandler) ListProducts(c *fiber.Ctx) error {
	ps, err := h.Catalog.ListProducts()
	if err != nil {
		return jsonError(c, "admin.product.list.fail", err)
	}
	return c.JSON(ps)
}

func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var p domain.ProductPatch
	if err := c.BodyParser(&p); err != nil {
		return badBody(c)
	}
	pr, err := h.Catalog.CreateProduct(p)
	if err != nil {
		return jsonError(c, "admin.product.create.fail", err)
	}
	applog.Audit(c, "admin.product.create", map[string]any{"id": pr.ID, "name": pr.Name, "category": pr.CategoryID})
	return c.Status(fiber.StatusCreated).JSON(pr)
}

func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errBadID)
	}
	var p domain.ProductPatch
	if err := c.BodyParser(&p); err != nil {
		return badBody(c)
	}
	pr, err := h.Catalog.UpdateProduct(id, p)
	if err != nil {
		return jsonError(c, "admin.product.update.fail", err)
	}
	applog.Audit(c, "admin.product.update", map[string]any{"id": id})
	return c.JSON(pr)
}

func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errBadID)
	}
	if err := h.Catalog.DeleteProduct(id); err != nil {
		return jsonError(c, "admin.product.delete.fail", err)
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// ---------- settings & orders ----------

func (h *AdminHandler) GetConfig(c *fiber.Ctx) error {
	cfg, err := h.Settings.Get()
	if err != nil {
		return jsonError(c, "admin.config.load.fail", err)
	}
	return c.JSON(cfg)
}

func (h *AdminHandler) UpdateConfig(c *fiber.Ctx) error {
	var p domain.ConfigPatch
	if err := c.BodyParser(&p); err != nil {
		return badBody(c)
	}
	cfg, err := h.Settings.Update(p)
	if err != nil {
		return jsonError(c, "admin.config.save.fail", err)
	}
	applog.Audit(c, "admin.config.save", map[string]any{"name": cfg.Name, "whatsapp": cfg.WhatsApp})
	return c.JSON(cfg)
}

// GET /api/v1/admin/orders?limit=n
func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}
	ords, err := h.Checkout.RecentOrders(limit)
	if err != nil {
		return jsonError(c, "admin.orders.list.fail", err)
	}
	return c.JSON(ords)
}
