package handlers

import (
	"strings"

	"menuboard/internal/domain"
	"menuboard/internal/log"
	"menuboard/internal/services"
	"menuboard/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) == "" {
		return render(c, "search", fiber.Map{"Q": "", "Products": []any{}, "Count": 0})
	}
	q, ok := validate.Query(rawQ)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
		return render(c.Status(fiber.StatusBadRequest), "search", fiber.Map{
			"Q": "", "Products": []any{}, "Count": 0, "Err": "Enter a dish name or ingredient",
		})
	}
	m, err := h.Catalog.Menu()
	if err != nil {
		return err
	}
	found := m.Search(q)
	if wantsJSON(c) {
		if found == nil {
			found = []domain.Product{}
		}
		return c.JSON(fiber.Map{"q": q, "products": found})
	}
	return render(c, "search", fiber.Map{"Q": q, "Products": found, "Count": len(found)})
}
