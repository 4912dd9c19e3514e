package utils

import (
	"github.com/gofiber/fiber/v2"
)

// Stable error kinds carried in every error body. Clients key off these,
// the message is for humans.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeInternal         = "INTERNAL"
)

// Error writes the uniform error body: {"error": message, "code": kind}.
func Error(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

// Internal hides datastore/IO detail from the caller. The real error must
// already be logged at the call site.
func Internal(c *fiber.Ctx) error {
	return Error(c, fiber.StatusInternalServerError, CodeInternal, "internal server error")
}
