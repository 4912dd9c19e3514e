package handlers

import (
	"time"

	"github.com/JakeNLelis/gamehub-server/middleware"
	"github.com/JakeNLelis/gamehub-server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService, db *gorm.DB) {
	auth := app.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
	}))

	auth.Get("/google", authService.GoogleLogin)
	auth.Get("/google/callback", authService.GoogleCallback)
	auth.Post("/refresh", authService.Refresh)
	auth.Get("/me", middleware.Protected(db), authService.Me)
}
