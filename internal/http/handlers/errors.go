package handlers

import (
	"errors"

	"menuboard/internal/importer"
	applog "menuboard/internal/log"
	"menuboard/internal/ordermsg"
	"menuboard/internal/repos"
	"menuboard/internal/services"

	"github.com/gofiber/fiber/v2"
)

const friendlyError = "Something went wrong. Please try again."

// statusFor maps service errors to HTTP statuses. Anything unknown is a 500
// and its text is never shown.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repos.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalid),
		errors.Is(err, services.ErrInvalidDefaultSize),
		errors.Is(err, services.ErrSizeRequired),
		errors.Is(err, importer.ErrEmptyTable),
		errors.Is(err, importer.ErrMissingNameColumn),
		errors.Is(err, importer.ErrUnsupportedFile),
		errors.Is(err, ordermsg.ErrMissingCustomer),
		errors.Is(err, ordermsg.ErrInvalidPayment),
		errors.Is(err, ordermsg.ErrProofRequired),
		errors.Is(err, ordermsg.ErrEmptyOrder):
		return fiber.StatusBadRequest
	case errors.Is(err, importer.ErrSheetsDisabled):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// jsonError writes {"error": ...}. Server faults are logged under action and
// answered with a generic message.
func jsonError(c *fiber.Ctx, action string, err error) error {
	st := statusFor(err)
	if st == fiber.StatusInternalServerError {
		applog.Error(c, action, err, nil)
		return c.Status(st).JSON(fiber.Map{"error": friendlyError})
	}
	return c.Status(st).JSON(fiber.Map{"error": err.Error()})
}

func wantsJSON(c *fiber.Ctx) bool {
	return c.Is("json") || c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}
