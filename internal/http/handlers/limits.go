package handlers

import (
	applog "menuboard/internal/log"

	"github.com/gofiber/fiber/v2"
)

// BodyLimit rejects requests whose declared body exceeds max bytes, except on
// the paths in larger, which get their own cap. The server-wide
// fiber.Config.BodyLimit must be at least the biggest of them.
func BodyLimit(max int, larger map[string]int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := max
		if n, ok := larger[c.Path()]; ok {
			limit = n
		}
		if n := c.Request().Header.ContentLength(); n > limit || len(c.Body()) > limit {
			applog.Security(c, "request.too_large", map[string]any{"limit": limit, "length": n})
			return c.Status(fiber.StatusRequestEntityTooLarge).SendString("request body too large")
		}
		return c.Next()
	}
}
