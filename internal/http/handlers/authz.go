package handlers

import (
	"menuboard/internal/domain"
	applog "menuboard/internal/log"
	"menuboard/internal/services"

	"github.com/gofiber/fiber/v2"
)

// LoadSession attaches the signed-in session, if any, for templates, guards
// and the log's user_id.
func LoadSession(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if s, err := auth.Session(sid); err == nil {
				c.Locals("session", s)
				c.Locals("user_id", s.User.ID)
			}
		}
		return c.Next()
	}
}

func currentSession(c *fiber.Ctx, auth *services.AuthService) *domain.Session {
	if s, ok := c.Locals("session").(*domain.Session); ok && s != nil {
		return s
	}
	sid := c.Cookies("sid")
	if sid == "" {
		return nil
	}
	s, err := auth.Session(sid)
	if err != nil {
		return nil
	}
	c.Locals("session", s)
	c.Locals("user_id", s.User.ID)
	return s
}

// RequireAdmin guards the back-office pages.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Cookies("sid") == "" {
			return c.Redirect("/login")
		}
		s := currentSession(c, auth)
		if !s.IsAdmin() {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": c.Cookies("sid")})
			return render(c.Status(fiber.StatusForbidden), "notfound", fiber.Map{"Message": "Access denied"})
		}
		return c.Next()
	}
}

// RequireAdminAPI is RequireAdmin for JSON clients: 401 without a session,
// 403 for a non-admin one.
func RequireAdminAPI(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := currentSession(c, auth)
		if s == nil {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "no_session"})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "sign in required"})
		}
		if !s.IsAdmin() {
			applog.Security(c, "access.denied.admin", map[string]any{"user": s.User.ID})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
		}
		return c.Next()
	}
}
