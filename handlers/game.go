// handlers/game.go — catalog routes
package handlers

import (
	"github.com/JakeNLelis/gamehub-server/middleware"
	"github.com/JakeNLelis/gamehub-server/models"
	"github.com/JakeNLelis/gamehub-server/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupGameRoutes(app *fiber.App, gameService *services.GameService, db *gorm.DB) {
	// Public catalog reads
	app.Get("/games", gameService.GetGames)
	app.Get("/games/:id", gameService.GetGameByID)

	// Catalog management — moderators only
	moderator := []fiber.Handler{
		middleware.Protected(db),
		middleware.RequireRoles(models.RoleAdmin, models.RoleSuperadmin),
	}
	app.Post("/games", append(moderator, gameService.CreateGame)...)
	app.Put("/games/:id", append(moderator, gameService.UpdateGame)...)
	app.Delete("/games/:id", append(moderator, gameService.DeleteGame)...)
}
