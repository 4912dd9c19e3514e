package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/JakeNLelis/gamehub-server/models"
	"github.com/JakeNLelis/gamehub-server/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type GameService struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{DB: db, validate: validator.New()}
}

// likeEscaper neutralizes LIKE metacharacters so user input is always
// matched as a literal substring.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-insensitive contains-pattern for
// `LOWER(col) LIKE ? ESCAPE '\'`.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

// catalogQuery is the recognized parameter set of GET /games. Anything else
// in the query string is ignored.
type catalogQuery struct {
	Search    string
	Advanced  bool
	Genre     string
	Platform  string
	Tags      []string
	MinRating *float64
	MaxRating *float64
	SortBy    string
	Page      int
	PageSize  int
}

func parseCatalogQuery(c *fiber.Ctx) catalogQuery {
	q := catalogQuery{
		Search:   c.Query("search"),
		Advanced: c.Query("advanced") == "true",
		Genre:    c.Query("genre"),
		Platform: c.Query("platform"),
		SortBy:   c.Query("sortBy"),
	}
	q.Page, q.PageSize = parsePageParams(c)

	// tag=shooter.pvp or tag=shooter,pvp — AND of ORs across game fields
	if raw := c.Query("tag"); raw != "" {
		for _, t := range strings.FieldsFunc(raw, func(r rune) bool { return r == '.' || r == ',' }) {
			if t = strings.TrimSpace(t); t != "" {
				q.Tags = append(q.Tags, t)
			}
		}
	}

	if v, err := strconv.ParseFloat(c.Query("minRating"), 64); err == nil {
		q.MinRating = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxRating"), 64); err == nil {
		q.MaxRating = &v
	}
	return q
}

// buildCatalogQuery translates the parsed parameters into a GORM query.
// Empty filters mean the unfiltered catalog.
func (s *GameService) buildCatalogQuery(q catalogQuery) *gorm.DB {
	db := s.DB.Model(&models.Game{})

	if q.Search != "" {
		pattern := likePattern(q.Search)
		cond := "LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(short_description) LIKE ? ESCAPE '\\'"
		args := []interface{}{pattern, pattern}
		if q.Advanced {
			cond += " OR LOWER(developer) LIKE ? ESCAPE '\\' OR LOWER(publisher) LIKE ? ESCAPE '\\'"
			args = append(args, pattern, pattern)
		}
		db = db.Where(cond, args...)
	}

	if q.Genre != "" {
		db = db.Where("LOWER(genre) = ?", strings.ToLower(q.Genre))
	}
	if q.Platform != "" {
		db = db.Where("LOWER(platform) LIKE ? ESCAPE '\\'", likePattern(q.Platform))
	}

	for _, tag := range q.Tags {
		pattern := likePattern(tag)
		db = db.Where(
			"LOWER(genre) LIKE ? ESCAPE '\\' OR LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(short_description) LIKE ? ESCAPE '\\' OR LOWER(developer) LIKE ? ESCAPE '\\' OR LOWER(publisher) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	if q.MinRating != nil {
		db = db.Where("average_rating >= ?", *q.MinRating)
	}
	if q.MaxRating != nil {
		db = db.Where("average_rating <= ?", *q.MaxRating)
	}

	return db
}

func catalogOrder(sortBy string) string {
	switch sortBy {
	case "release-date":
		return "release_date DESC NULLS LAST"
	case "alphabetical":
		return "title ASC"
	case "rating":
		return "average_rating DESC, total_reviews DESC"
	default: // relevance — unknown keys fall back here too
		return "updated_at DESC"
	}
}

// GetGames is the catalog listing: filter, sort, paginate, with metadata
// computed from a parallel count of the same filter.
func (s *GameService) GetGames(c *fiber.Ctx) error {
	q := parseCatalogQuery(c)
	base := s.buildCatalogQuery(q)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		log.Printf("[GAME] count failed: %v", err)
		return utils.Internal(c)
	}

	games := []models.Game{}
	if err := base.Session(&gorm.Session{}).
		Order(catalogOrder(q.SortBy)).
		Limit(q.PageSize).
		Offset((q.Page - 1) * q.PageSize).
		Find(&games).Error; err != nil {
		log.Printf("[GAME] list failed: %v", err)
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{
		"games": games,
		"meta":  newPageMeta(q.Page, q.PageSize, total),
	})
}

// GetGameByID returns a single catalog entry.
func (s *GameService) GetGameByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var game models.Game
	if err := s.DB.First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "game not found")
		}
		log.Printf("[GAME] lookup failed: %v", err)
		return utils.Internal(c)
	}
	return c.JSON(game)
}

type gameInput struct {
	Title            string `json:"title" validate:"required,min=1,max=200"`
	Thumbnail        string `json:"thumbnail"`
	ShortDescription string `json:"short_description" validate:"max=2000"`
	GameURL          string `json:"game_url"`
	Genre            string `json:"genre"`
	Platform         string `json:"platform"`
	Publisher        string `json:"publisher"`
	Developer        string `json:"developer"`
	ReleaseDate      string `json:"release_date"` // YYYY-MM-DD
}

// releaseDate parses the optional YYYY-MM-DD field. A non-nil error is a
// validation message; the handler turns it into the 400 before touching
// the database.
func (in *gameInput) releaseDate() (*time.Time, error) {
	if in.ReleaseDate == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", in.ReleaseDate)
	if err != nil {
		return nil, fmt.Errorf("invalid release_date %q, use YYYY-MM-DD", in.ReleaseDate)
	}
	return &t, nil
}

// CreateGame is the admin-authored insert (no external id).
func (s *GameService) CreateGame(c *fiber.Ctx) error {
	var input gameInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid request body")
	}
	if err := s.validate.Struct(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "title is required (max 200 chars)")
	}
	releaseDate, err := input.releaseDate()
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, err.Error())
	}

	game := models.Game{
		ID:               uuid.NewString(),
		Title:            input.Title,
		Slug:             slug.Make(input.Title),
		Thumbnail:        input.Thumbnail,
		ShortDescription: input.ShortDescription,
		GameURL:          input.GameURL,
		Genre:            input.Genre,
		Platform:         input.Platform,
		Publisher:        input.Publisher,
		Developer:        input.Developer,
		ReleaseDate:      releaseDate,
	}
	if err := s.DB.Create(&game).Error; err != nil {
		log.Printf("[GAME] create failed: %v", err)
		return utils.Internal(c)
	}

	return c.Status(fiber.StatusCreated).JSON(game)
}

// UpdateGame edits descriptive fields. Rating columns stay untouched; they
// belong to the aggregator.
func (s *GameService) UpdateGame(c *fiber.Ctx) error {
	id := c.Params("id")

	var game models.Game
	if err := s.DB.First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "game not found")
		}
		log.Printf("[GAME] lookup failed: %v", err)
		return utils.Internal(c)
	}

	var input gameInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid request body")
	}
	if err := s.validate.Struct(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "title is required (max 200 chars)")
	}
	releaseDate, err := input.releaseDate()
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, err.Error())
	}

	game.Title = input.Title
	game.Slug = slug.Make(input.Title)
	game.Thumbnail = input.Thumbnail
	game.ShortDescription = input.ShortDescription
	game.GameURL = input.GameURL
	game.Genre = input.Genre
	game.Platform = input.Platform
	game.Publisher = input.Publisher
	game.Developer = input.Developer
	if releaseDate != nil {
		game.ReleaseDate = releaseDate
	}

	if err := s.DB.Save(&game).Error; err != nil {
		log.Printf("[GAME] update failed: %v", err)
		return utils.Internal(c)
	}
	return c.JSON(game)
}

// DeleteGame removes a game with its reviews and favorites in one
// transaction, keeping every edge pointed at a live game.
func (s *GameService) DeleteGame(c *fiber.Ctx) error {
	id := c.Params("id")

	var game models.Game
	if err := s.DB.First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "game not found")
		}
		log.Printf("[GAME] lookup failed: %v", err)
		return utils.Internal(c)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&game).Error
	})
	if err != nil {
		log.Printf("[GAME] delete failed for %s: %v", id, err)
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"message": "game deleted", "id": id})
}
