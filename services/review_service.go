package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/JakeNLelis/gamehub-server/models"
	"github.com/JakeNLelis/gamehub-server/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewService struct {
	DB       *gorm.DB
	Ratings  *RatingService
	validate *validator.Validate
}

func NewReviewService(db *gorm.DB, ratings *RatingService) *ReviewService {
	return &ReviewService{
		DB:       db,
		Ratings:  ratings,
		validate: validator.New(),
	}
}

type reviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// parseReviewInput parses and validates the body. The error it returns is a
// validation message for the caller to wrap in a 400 — never a written
// response, so a non-nil error always means "stop here".
func (s *ReviewService) parseReviewInput(c *fiber.Ctx) (*reviewInput, error) {
	var input reviewInput
	if err := c.BodyParser(&input); err != nil {
		return nil, errors.New("invalid request body")
	}
	if err := s.validate.Struct(&input); err != nil {
		return nil, fmt.Errorf("rating must be %d-%d and content 1-%d characters",
			models.ReviewRatingMin, models.ReviewRatingMax, models.ReviewContentMaxLen)
	}
	return &input, nil
}

// SubmitReview upserts the caller's review for a game: first submission
// creates (201), a second one for the same pair overwrites rating/content
// (200). Either way the game's aggregate is recomputed before responding.
func (s *ReviewService) SubmitReview(c *fiber.Ctx) error {
	gameID := c.Params("id")
	user := currentUser(c)

	input, err := s.parseReviewInput(c)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, err.Error())
	}

	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "game not found")
		}
		log.Printf("[REVIEW] game lookup failed: %v", err)
		return utils.Internal(c)
	}

	var review models.Review
	err = s.DB.Where("game_id = ? AND user_id = ?", gameID, user.ID).First(&review).Error
	created := false
	switch {
	case err == nil:
		// update path
		review.Rating = input.Rating
		review.Content = input.Content
		err = s.DB.Save(&review).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		// create path; a concurrent submit may win the unique index race,
		// in which case this caller falls back to the update path.
		created = true
		review = models.Review{
			ID:      uuid.NewString(),
			UserID:  user.ID,
			GameID:  gameID,
			Rating:  input.Rating,
			Content: input.Content,
		}
		err = s.DB.Create(&review).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			created = false
			if err = s.DB.Where("game_id = ? AND user_id = ?", gameID, user.ID).First(&review).Error; err == nil {
				review.Rating = input.Rating
				review.Content = input.Content
				err = s.DB.Save(&review).Error
			}
		}
	}
	if err != nil {
		log.Printf("[REVIEW] submit failed for game %s: %v", gameID, err)
		return utils.Internal(c)
	}

	// Synchronous, before the response flushes. Failure is logged, not
	// surfaced: the review write already committed.
	s.Ratings.RecomputeAfterWrite(gameID)

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"review":  review,
		"created": created,
	})
}

// UpdateReview edits an existing review. Owner only; anyone else gets an
// explicit 403.
func (s *ReviewService) UpdateReview(c *fiber.Ctx) error {
	reviewID := c.Params("review_id")
	user := currentUser(c)

	input, err := s.parseReviewInput(c)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, err.Error())
	}

	var review models.Review
	if err := s.DB.First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "review not found")
		}
		log.Printf("[REVIEW] lookup failed: %v", err)
		return utils.Internal(c)
	}

	if review.UserID != user.ID {
		return utils.Error(c, fiber.StatusForbidden, utils.CodeForbidden, "you can only edit your own review")
	}

	review.Rating = input.Rating
	review.Content = input.Content
	if err := s.DB.Save(&review).Error; err != nil {
		log.Printf("[REVIEW] update failed: %v", err)
		return utils.Internal(c)
	}

	s.Ratings.RecomputeAfterWrite(review.GameID)

	return c.JSON(fiber.Map{"review": review, "created": false})
}

// DeleteReview removes a review. Owner or moderator; everyone else gets the
// same 404 a missing review gets, so existence is not leaked.
func (s *ReviewService) DeleteReview(c *fiber.Ctx) error {
	reviewID := c.Params("review_id")
	user := currentUser(c)

	var review models.Review
	if err := s.DB.First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "review not found")
		}
		log.Printf("[REVIEW] lookup failed: %v", err)
		return utils.Internal(c)
	}

	if review.UserID != user.ID && !user.IsModerator() {
		return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "review not found")
	}

	gameID := review.GameID
	if err := s.DB.Delete(&review).Error; err != nil {
		log.Printf("[REVIEW] delete failed: %v", err)
		return utils.Internal(c)
	}

	s.Ratings.RecomputeAfterWrite(gameID)

	return c.JSON(fiber.Map{"message": "review deleted"})
}

// GetReviewsByGame lists a game's reviews newest-first. If the caller is
// authenticated and has a review here, theirs is moved to the front —
// display priority, not storage order.
func (s *ReviewService) GetReviewsByGame(c *fiber.Ctx) error {
	gameID := c.Params("id")

	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "game not found")
		}
		log.Printf("[REVIEW] game lookup failed: %v", err)
		return utils.Internal(c)
	}

	var reviews []models.Review
	if err := s.DB.Preload("User").
		Where("game_id = ?", gameID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		log.Printf("[REVIEW] list failed for game %s: %v", gameID, err)
		return utils.Internal(c)
	}

	if user := currentUser(c); user != nil {
		for i, r := range reviews {
			if r.UserID == user.ID && i > 0 {
				mine := reviews[i]
				copy(reviews[1:i+1], reviews[:i])
				reviews[0] = mine
				break
			}
		}
	}

	if reviews == nil {
		reviews = []models.Review{}
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}

// GetMyReviews lists the caller's reviews, paginated, newest-first.
func (s *ReviewService) GetMyReviews(c *fiber.Ctx) error {
	user := currentUser(c)
	page, pageSize := parsePageParams(c)

	var total int64
	if err := s.DB.Model(&models.Review{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		log.Printf("[REVIEW] count failed: %v", err)
		return utils.Internal(c)
	}

	reviews := []models.Review{}
	if err := s.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&reviews).Error; err != nil {
		log.Printf("[REVIEW] list failed: %v", err)
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{
		"reviews": reviews,
		"meta":    newPageMeta(page, pageSize, total),
	})
}
