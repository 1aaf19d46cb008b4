package handlers

import (
	"path/filepath"
	"strings"

	applog "menuboard/internal/log"

	"github.com/gofiber/fiber/v2"
)

// Media serves files under dir (product images, stored receipts), refusing
// anything that could step outside it.
func Media(dir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		// receipts are customer data
		if first, _, _ := strings.Cut(filepath.ToSlash(clean), "/"); first == "proofs" {
			applog.Security(c, "media.proof.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(dir, clean), true)
	}
}
