package handlers

import (
	"github.com/JakeNLelis/gamehub-server/middleware"
	"github.com/JakeNLelis/gamehub-server/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupFavoriteRoutes(app *fiber.App, favoriteService *services.FavoriteService, db *gorm.DB) {
	protected := middleware.Protected(db)

	app.Post("/games/:id/favorite", protected, favoriteService.AddFavorite)
	app.Delete("/games/:id/favorite", protected, favoriteService.RemoveFavorite)
	app.Get("/games/:id/favorite", protected, favoriteService.GetFavoriteStatus)
	app.Get("/users/me/favorites", protected, favoriteService.GetMyFavorites)
}
