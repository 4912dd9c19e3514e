package services

import (
	"errors"
	"log"
	"strings"

	"github.com/JakeNLelis/gamehub-server/models"
	"github.com/JakeNLelis/gamehub-server/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteService struct {
	DB *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{DB: db}
}

// AddFavorite bookmarks a game for the caller. Duplicate pairs are a 409,
// whether caught by the lookup or by the unique index on a race.
func (s *FavoriteService) AddFavorite(c *fiber.Ctx) error {
	gameID := c.Params("id")
	user := currentUser(c)

	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "game not found")
		}
		log.Printf("[FAVORITE] game lookup failed: %v", err)
		return utils.Internal(c)
	}

	favorite := models.Favorite{
		ID:     uuid.NewString(),
		UserID: user.ID,
		GameID: gameID,
	}
	if err := s.DB.Create(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Error(c, fiber.StatusConflict, utils.CodeConflict, "game is already in favorites")
		}
		log.Printf("[FAVORITE] add failed: %v", err)
		return utils.Internal(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"favorite": favorite})
}

// RemoveFavorite deletes the caller's bookmark; absent pair is a 404.
func (s *FavoriteService) RemoveFavorite(c *fiber.Ctx) error {
	gameID := c.Params("id")
	user := currentUser(c)

	res := s.DB.Where("user_id = ? AND game_id = ?", user.ID, gameID).Delete(&models.Favorite{})
	if res.Error != nil {
		log.Printf("[FAVORITE] remove failed: %v", res.Error)
		return utils.Internal(c)
	}
	if res.RowsAffected == 0 {
		return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "game is not in favorites")
	}

	return c.JSON(fiber.Map{"message": "removed from favorites"})
}

// GetFavoriteStatus reports presence plus the added-at timestamp.
func (s *FavoriteService) GetFavoriteStatus(c *fiber.Ctx) error {
	gameID := c.Params("id")
	user := currentUser(c)

	var favorite models.Favorite
	err := s.DB.Where("user_id = ? AND game_id = ?", user.ID, gameID).First(&favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"is_favorite": false, "added_at": nil})
		}
		log.Printf("[FAVORITE] status lookup failed: %v", err)
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"is_favorite": true, "added_at": favorite.CreatedAt})
}

// GetMyFavorites lists the caller's favorites, paginated, joined with the
// game rows so they can be filtered and sorted by game fields.
func (s *FavoriteService) GetMyFavorites(c *fiber.Ctx) error {
	user := currentUser(c)
	page, pageSize := parsePageParams(c)

	base := s.DB.Model(&models.Favorite{}).
		Joins("JOIN games ON games.id = favorites.game_id").
		Where("favorites.user_id = ?", user.ID)

	if genre := c.Query("genre"); genre != "" {
		base = base.Where("LOWER(games.genre) = ?", strings.ToLower(genre))
	}
	if platform := c.Query("platform"); platform != "" {
		base = base.Where("LOWER(games.platform) LIKE ? ESCAPE '\\'", likePattern(platform))
	}
	if search := c.Query("search"); search != "" {
		pattern := likePattern(search)
		base = base.Where(
			"LOWER(games.title) LIKE ? ESCAPE '\\' OR LOWER(games.short_description) LIKE ? ESCAPE '\\'",
			pattern, pattern,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		log.Printf("[FAVORITE] count failed: %v", err)
		return utils.Internal(c)
	}

	var order string
	switch c.Query("sortBy") {
	case "title":
		order = "games.title ASC"
	case "rating":
		order = "games.average_rating DESC, games.total_reviews DESC"
	case "release-date":
		order = "games.release_date DESC NULLS LAST"
	default:
		order = "favorites.created_at DESC"
	}

	favorites := []models.Favorite{}
	if err := base.Session(&gorm.Session{}).
		Preload("Game").
		Order(order).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&favorites).Error; err != nil {
		log.Printf("[FAVORITE] list failed: %v", err)
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{
		"favorites": favorites,
		"meta":      newPageMeta(page, pageSize, total),
	})
}
