package handlers

import (
	"time"

	"menuboard/internal/log"
	"menuboard/internal/services"
	"menuboard/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// ensureSID returns the browser session id, issuing one on first visit. The
// same id keys the cart and, after login, the admin session.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) loginFailed(c *fiber.Ctx, email, reason string) error {
	log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": reason})
	return render(c.Status(fiber.StatusUnauthorized), "login", fiber.Map{"Err": "Invalid email or password", "Email": email})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		return h.loginFailed(c, c.FormValue("email"), "bad_format")
	}
	pass := c.FormValue("password")
	if !validate.Password(pass) {
		return h.loginFailed(c, email, "bad_password_format")
	}

	s, err := h.Auth.Authenticate(sid, services.Credentials{Email: email, Password: pass})
	if err != nil {
		return h.loginFailed(c, email, "bad_credentials")
	}

	c.Locals("user_id", s.User.ID)
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	if s.IsAdmin() {
		return c.Redirect("/admin")
	}
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}
