package handlers

import (
	"menuboard/internal/domain"

	"github.com/gofiber/fiber/v2"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if s, ok := c.Locals("session").(*domain.Session); ok && s != nil {
		data["User"] = s.User
		data["IsAdmin"] = s.IsAdmin()
	}
	// Locals first; the csrf_ cookie covers requests the middleware skipped.
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

func notFound(c *fiber.Ctx, msg string) error {
	return render(c.Status(fiber.StatusNotFound), "notfound", fiber.Map{"Message": msg})
}
