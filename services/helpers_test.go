package services_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JakeNLelis/gamehub-server/handlers"
	"github.com/JakeNLelis/gamehub-server/models"
	"github.com/JakeNLelis/gamehub-server/services"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

// newTestDB opens an isolated in-memory database with the full schema.
// MaxOpenConns(1) keeps the pool on the single :memory: connection.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.Review{},
		&models.Favorite{},
	))
	return db
}

// newTestApp wires the real routes against a fresh database, the way main
// does, minus the network listener.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", testJWTSecret)

	db := newTestDB(t)
	app := fiber.New()

	ratings := services.NewRatingService(db)
	handlers.SetupGameRoutes(app, services.NewGameService(db), db)
	handlers.SetupReviewRoutes(app, services.NewReviewService(db, ratings), db)
	handlers.SetupFavoriteRoutes(app, services.NewFavoriteService(db), db)
	handlers.SetupUserRoutes(app, services.NewUserService(db, ratings), db)

	return app, db
}

func createTestUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.NewString(),
		GoogleID: "google-" + uuid.NewString(),
		Email:    name + "-" + uuid.NewString()[:8] + "@example.com",
		Name:     name,
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestGame(t *testing.T, db *gorm.DB, title string, mutate ...func(*models.Game)) *models.Game {
	t.Helper()
	game := &models.Game{
		ID:    uuid.NewString(),
		Title: title,
	}
	for _, m := range mutate {
		m(game)
	}
	require.NoError(t, db.Create(game).Error)
	return game
}

func accessToken(t *testing.T, userID string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"typ": "access",
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

// doRequest runs one request through the app and decodes the JSON body into
// a generic map.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func reloadGame(t *testing.T, db *gorm.DB, id string) *models.Game {
	t.Helper()
	var game models.Game
	require.NoError(t, db.First(&game, "id = ?", id).Error)
	return &game
}

func submitReview(t *testing.T, app *fiber.App, gameID, token string, rating int, content string) (int, map[string]interface{}) {
	t.Helper()
	return doRequest(t, app, http.MethodPost, "/games/"+gameID+"/reviews", token, map[string]interface{}{
		"rating":  rating,
		"content": content,
	})
}
