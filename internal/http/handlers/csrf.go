package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var errMissingCSRF = errors.New("missing csrf token")

// CSRFToken reads the token from the X-Csrf-Token header (JSON clients) or
// the "csrf" form field (HTML forms).
func CSRFToken(c *fiber.Ctx) (string, error) {
	if tok := c.Get("X-Csrf-Token"); tok != "" {
		return tok, nil
	}
	if tok := c.FormValue("csrf"); tok != "" {
		return tok, nil
	}
	return "", errMissingCSRF
}
