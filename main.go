package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/JakeNLelis/gamehub-server/handlers"
	"github.com/JakeNLelis/gamehub-server/models"
	"github.com/JakeNLelis/gamehub-server/services"
	"github.com/JakeNLelis/gamehub-server/utils"
	"github.com/JakeNLelis/gamehub-server/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // avatars only, 10MB is plenty
	})

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("⚠️  ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	// TranslateError lets services see gorm.ErrDuplicatedKey instead of
	// driver-specific unique violations.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.Review{},
		&models.Favorite{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	ratingService := services.NewRatingService(db)
	authService := services.NewAuthService(db)
	gameService := services.NewGameService(db)
	reviewService := services.NewReviewService(db, ratingService)
	favoriteService := services.NewFavoriteService(db)
	userService := services.NewUserService(db, ratingService)

	handlers.SetupAuthRoutes(app, authService, db)
	handlers.SetupGameRoutes(app, gameService, db)
	handlers.SetupReviewRoutes(app, reviewService, db)
	handlers.SetupFavoriteRoutes(app, favoriteService, db)
	handlers.SetupUserRoutes(app, userService, db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feedURL := os.Getenv("CATALOG_API_URL")
	if feedURL != "" {
		syncWorker := workers.NewCatalogSyncWorker(db, feedURL)
		syncWorker.StartWeekly(ctx)
		log.Println("✅ Catalog sync worker scheduled (weekly)")
	} else {
		log.Println("⚠️  CATALOG_API_URL not set — external catalog sync disabled")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ CORS configured for origins: %s", strings.Join(origins, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
