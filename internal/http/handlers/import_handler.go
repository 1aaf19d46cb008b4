package handlers

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"menuboard/internal/importer"
	applog "menuboard/internal/log"
	"menuboard/internal/services"
	"menuboard/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// MaxImportSize caps spreadsheet uploads.
const MaxImportSize = 8 << 20

type ImportHandler struct {
	Imports *services.ImportService
}

func (h *ImportHandler) summary(c *fiber.Ctx, source string, sum services.ImportSummary) error {
	applog.Audit(c, "import.apply", map[string]any{
		"source":             source,
		"categories_created": sum.CategoriesCreated,
		"addons_created":     sum.AddonsCreated,
		"addons_updated":     sum.AddonsUpdated,
		"products_created":   sum.ProductsCreated,
		"products_updated":   sum.ProductsUpdated,
		"warnings":           len(sum.Diagnostics),
	})
	return c.JSON(sum)
}

// POST /api/v1/admin/import (multipart field "file", .csv or .xlsx)
func (h *ImportHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "file"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "attach a .csv or .xlsx file"})
	}
	if fh.Size > MaxImportSize {
		applog.Security(c, "import.too_large", map[string]any{"size": fh.Size})
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "file is too large"})
	}
	f, err := fh.Open()
	if err != nil {
		return jsonError(c, "import.read.fail", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxImportSize))
	if err != nil {
		return jsonError(c, "import.read.fail", err)
	}

	name := filepath.Base(fh.Filename)
	sum, err := h.Imports.ImportFile(name, data)
	if err != nil {
		if statusFor(err) != fiber.StatusInternalServerError {
			applog.Security(c, "import.reject", map[string]any{"file": name, "reason": err.Error()})
		}
		return jsonError(c, "import.apply.fail", err)
	}
	return h.summary(c, name, sum)
}

type sheetsRequest struct {
	SpreadsheetID string `json:"spreadsheetId" form:"spreadsheetId"`
	Range         string `json:"range" form:"range"`
}

// POST /api/v1/admin/import/sheets
func (h *ImportHandler) Sheets(c *fiber.Ctx) error {
	var req sheetsRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	id, ok := validate.ID(req.SpreadsheetID)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "spreadsheetId"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "spreadsheetId is required"})
	}
	sum, err := h.Imports.ImportSheet(c.UserContext(), id, strings.TrimSpace(req.Range))
	if err != nil {
		return jsonError(c, "import.sheets.fail", err)
	}
	return h.summary(c, "sheets:"+id, sum)
}

// GET /api/v1/admin/export.csv
func (h *ImportHandler) ExportCSV(c *fiber.Ctx) error {
	rows, err := h.Imports.ExportRows()
	if err != nil {
		return jsonError(c, "export.fail", err)
	}
	var buf bytes.Buffer
	if err := importer.WriteCSV(&buf, rows); err != nil {
		return jsonError(c, "export.fail", err)
	}
	applog.Audit(c, "export.csv", map[string]any{"rows": len(rows) - 1})
	c.Attachment("menu.csv")
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}

// GET /api/v1/admin/export.xlsx
func (h *ImportHandler) ExportXLSX(c *fiber.Ctx) error {
	rows, err := h.Imports.ExportRows()
	if err != nil {
		return jsonError(c, "export.fail", err)
	}
	var buf bytes.Buffer
	if err := importer.WriteXLSX(&buf, "Products", rows); err != nil {
		return jsonError(c, "export.fail", err)
	}
	applog.Audit(c, "export.xlsx", map[string]any{"rows": len(rows) - 1})
	c.Attachment("menu.xlsx")
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(buf.Bytes())
}

// GET /api/v1/admin/template.csv
func (h *ImportHandler) Template(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := importer.WriteCSV(&buf, importer.Template()); err != nil {
		return jsonError(c, "export.fail", err)
	}
	c.Attachment("menu-template.csv")
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}
