package handlers

import (
	"github.com/JakeNLelis/gamehub-server/middleware"
	"github.com/JakeNLelis/gamehub-server/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService, db *gorm.DB) {
	protected := middleware.Protected(db)

	app.Put("/users/me", protected, userService.UpdateProfile)
	app.Post("/users/me/avatar", protected, userService.UploadAvatar)
	app.Delete("/users/me", protected, userService.DeleteAccount)
}
