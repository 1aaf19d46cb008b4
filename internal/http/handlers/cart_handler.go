package handlers

import (
	"strings"

	applog "menuboard/internal/log"
	"menuboard/internal/services"
	"menuboard/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

type addRequest struct {
	ProductID string   `json:"productId" form:"productId"`
	SizeID    string   `json:"sizeId" form:"sizeId"`
	AddonIDs  []string `json:"addonIds" form:"addons"`
	Quantity  int      `json:"quantity" form:"qty"`
}

func (h *CartHandler) respond(c *fiber.Ctx, sid string) error {
	if !wantsJSON(c) {
		return c.Redirect("/cart")
	}
	cv, err := h.Cart.View(sid)
	if err != nil {
		return jsonError(c, "cart.load.fail", err)
	}
	return c.JSON(cv)
}

func (h *CartHandler) fail(c *fiber.Ctx, sid string, err error) error {
	if wantsJSON(c) {
		return jsonError(c, "cart.save.fail", err)
	}
	st := statusFor(err)
	if st == fiber.StatusInternalServerError {
		return err
	}
	cv, verr := h.Cart.View(sid)
	if verr != nil {
		return verr
	}
	return render(c.Status(st), "cart", fiber.Map{"Cart": cv, "Err": err.Error()})
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		if wantsJSON(c) {
			return jsonError(c, "cart.load.fail", err)
		}
		return err
	}
	if wantsJSON(c) {
		return c.JSON(cv)
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

// POST /cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req addRequest
	if err := c.BodyParser(&req); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "body"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid request")
	}
	productID, ok := validate.ID(req.ProductID)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	qty := min(max(req.Quantity, 1), services.MaxLineQty)

	line, err := h.Cart.AddN(sid, productID, req.AddonIDs, strings.TrimSpace(req.SizeID), qty)
	if err != nil {
		return h.fail(c, sid, err)
	}
	applog.Audit(c, "cart.add", map[string]any{
		"product": productID,
		"size":    line.SelectedSizeID,
		"addons":  line.SelectedAddonIDs,
		"qty":     qty,
	})
	return h.respond(c, sid)
}

func lineKey(c *fiber.Ctx) (string, bool) {
	key := strings.TrimSpace(c.FormValue("key"))
	return key, key != "" && len(key) <= 512
}

// POST /cart/update
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	key, ok := lineKey(c)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "key"})
		return c.Status(fiber.StatusBadRequest).SendString("missing line")
	}
	if err := h.Cart.UpdateLine(sid, key, validate.Qty(c.FormValue("qty"))); err != nil {
		return h.fail(c, sid, err)
	}
	return h.respond(c, sid)
}

// POST /cart/remove
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	key, ok := lineKey(c)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "key"})
		return c.Status(fiber.StatusBadRequest).SendString("missing line")
	}
	if err := h.Cart.RemoveLine(sid, key); err != nil {
		return h.fail(c, sid, err)
	}
	return h.respond(c, sid)
}

// POST /cart/clear
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Cart.Clear(sid); err != nil {
		return h.fail(c, sid, err)
	}
	return h.respond(c, sid)
}
