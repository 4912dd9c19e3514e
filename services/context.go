package services

import (
	"github.com/JakeNLelis/gamehub-server/models"
	"github.com/gofiber/fiber/v2"
)

// currentUser returns the authenticated user placed in Locals by
// middleware.Protected, or nil on optional-auth routes with no credential.
func currentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals("user").(*models.User)
	return u
}
