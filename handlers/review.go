package handlers

import (
	"github.com/JakeNLelis/gamehub-server/middleware"
	"github.com/JakeNLelis/gamehub-server/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupReviewRoutes(app *fiber.App, reviewService *services.ReviewService, db *gorm.DB) {
	// Public read; a valid token just promotes the caller's review to the front.
	app.Get("/games/:id/reviews", middleware.OptionalUser(db), reviewService.GetReviewsByGame)

	app.Post("/games/:id/reviews", middleware.Protected(db), reviewService.SubmitReview)
	app.Put("/reviews/:review_id", middleware.Protected(db), reviewService.UpdateReview)
	app.Delete("/reviews/:review_id", middleware.Protected(db), reviewService.DeleteReview)
	app.Get("/users/me/reviews", middleware.Protected(db), reviewService.GetMyReviews)
}
