package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	applog "menuboard/internal/log"
	"menuboard/internal/ordermsg"
	"menuboard/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxProofSize = 4 << 20

var proofTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

type CheckoutHandler struct {
	Cart     *services.CartService
	Checkout *services.CheckoutService
	Settings *services.SettingsService
	// ProofDir keeps uploaded transfer receipts; empty means they are checked
	// and dropped.
	ProofDir string
}

func (h *CheckoutHandler) page(c *fiber.Ctx, status int, data fiber.Map) error {
	cv, err := h.Cart.View(ensureSID(c))
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return render(c.Status(fiber.StatusInternalServerError), "notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	cfg, err := h.Settings.Get()
	if err != nil {
		return err
	}
	data["Cart"] = cv
	data["Restaurant"] = cfg
	return render(c.Status(status), "checkout", data)
}

// GET /checkout
func (h *CheckoutHandler) Form(c *fiber.Ctx) error {
	return h.page(c, fiber.StatusOK, fiber.Map{"Form": fiber.Map{"Payment": string(ordermsg.PaymentCash)}})
}

// POST /checkout
func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cust := ordermsg.Customer{
		Name:    c.FormValue("name"),
		Phone:   c.FormValue("phone"),
		Address: c.FormValue("address"),
		Payment: ordermsg.Payment(strings.ToLower(strings.TrimSpace(c.FormValue("payment")))),
		Notes:   c.FormValue("notes"),
	}

	// Only transfers carry a receipt.
	var proof string
	if cust.Payment == ordermsg.PaymentTransfer {
		var err error
		proof, err = h.saveProof(c)
		var bad errProof
		if errors.As(err, &bad) {
			applog.Security(c, "validation.fail", map[string]any{"field": "proof", "reason": bad.Error()})
			return h.reject(c, cust, bad.Error())
		}
		if err != nil {
			applog.Error(c, "checkout.proof.save", err, nil)
			return err
		}
	}
	cust.ProofAttached = proof != ""

	r, err := h.Checkout.Checkout(sid, cust)
	if err != nil {
		h.dropProof(c, proof)
		server := statusFor(err) == fiber.StatusInternalServerError
		if !server {
			applog.Security(c, "checkout.reject", map[string]any{"reason": err.Error()})
		}
		switch {
		case wantsJSON(c):
			return jsonError(c, "checkout.fail", err)
		case server:
			return err
		}
		return h.reject(c, cust, err.Error())
	}

	applog.Audit(c, "checkout.place", map[string]any{
		"order_id":  r.OrderID,
		"reference": r.Reference,
		"total":     r.Total,
		"payment":   string(cust.Payment),
		"proof":     proof,
	})
	if wantsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(r)
	}
	return c.Redirect(r.Link, fiber.StatusSeeOther)
}

func (h *CheckoutHandler) reject(c *fiber.Ctx, cust ordermsg.Customer, msg string) error {
	if wantsJSON(c) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}
	return h.page(c, fiber.StatusBadRequest, fiber.Map{
		"Err": msg,
		"Form": fiber.Map{
			"Name":    cust.Name,
			"Phone":   cust.Phone,
			"Address": cust.Address,
			"Payment": string(cust.Payment),
			"Notes":   cust.Notes,
		},
	})
}

// saveProof checks the optional "proof" upload and stores it. It returns the
// stored file name, or "" when nothing was attached.
func (h *CheckoutHandler) saveProof(c *fiber.Ctx) (string, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return "", nil
	}
	fh, err := c.FormFile("proof")
	if err != nil || fh == nil || fh.Size == 0 {
		return "", nil
	}
	if fh.Size > maxProofSize {
		return "", errProof("the receipt file is too large")
	}
	ext, ok := proofTypes[strings.ToLower(fh.Header.Get(fiber.HeaderContentType))]
	if !ok {
		return "", errProof("the receipt must be an image or a PDF")
	}
	name := uuid.NewString() + ext
	if h.ProofDir == "" {
		return name, nil
	}
	if err := os.MkdirAll(h.ProofDir, 0o750); err != nil {
		return "", err
	}
	if err := c.SaveFile(fh, filepath.Join(h.ProofDir, name)); err != nil {
		return "", err
	}
	return name, nil
}

// dropProof deletes a stored receipt whose order was not placed.
func (h *CheckoutHandler) dropProof(c *fiber.Ctx, name string) {
	if name == "" || h.ProofDir == "" {
		return
	}
	if err := os.Remove(filepath.Join(h.ProofDir, name)); err != nil && !os.IsNotExist(err) {
		applog.Error(c, "checkout.proof.drop", err, map[string]any{"proof": name})
	}
}

type errProof string

func (e errProof) Error() string { return string(e) }
