package services

import (
	"errors"
	"log"
	"path/filepath"
	"strings"

	"github.com/JakeNLelis/gamehub-server/models"
	"github.com/JakeNLelis/gamehub-server/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxAvatarSize = 5 * 1024 * 1024 // 5MB

type UserService struct {
	DB       *gorm.DB
	Ratings  *RatingService
	validate *validator.Validate
}

func NewUserService(db *gorm.DB, ratings *RatingService) *UserService {
	return &UserService{DB: db, Ratings: ratings, validate: validator.New()}
}

type profileInput struct {
	Name     string `json:"name" validate:"omitempty,min=1,max=100"`
	Username string `json:"username" validate:"omitempty,min=3,max=30,alphanum"`
}

// UpdateProfile changes display name and/or handle. Handles are stored
// lowercase so uniqueness is case-insensitive.
func (s *UserService) UpdateProfile(c *fiber.Ctx) error {
	user := currentUser(c)

	var input profileInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid request body")
	}
	if err := s.validate.Struct(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed,
			"name must be 1-100 chars, username 3-30 alphanumeric chars")
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Username != "" {
		username := strings.ToLower(input.Username)
		user.Username = &username
	}

	if err := s.DB.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Error(c, fiber.StatusConflict, utils.CodeConflict, "username is already taken")
		}
		log.Printf("[USER] profile update failed: %v", err)
		return utils.Internal(c)
	}
	return c.JSON(user)
}

// UploadAvatar stores the image in R2 and saves its public URL. The old
// object is removed best-effort.
func (s *UserService) UploadAvatar(c *fiber.Ctx) error {
	user := currentUser(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "avatar file is required")
	}
	if file.Size > maxAvatarSize {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "avatar too large (max 5MB)")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "avatar must be png, jpg, gif or webp")
	}

	key := "avatars/" + uuid.NewString() + ext
	url, err := utils.UploadFileToR2(file, key)
	if err != nil {
		log.Printf("[USER] avatar upload failed: %v", err)
		return utils.Internal(c)
	}

	oldURL := user.AvatarURL
	user.AvatarURL = &url
	if err := s.DB.Save(user).Error; err != nil {
		log.Printf("[USER] avatar save failed: %v", err)
		return utils.Internal(c)
	}

	if oldURL != nil {
		if i := strings.Index(*oldURL, "/avatars/"); i >= 0 {
			if err := utils.DeleteFileFromR2((*oldURL)[i+1:]); err != nil {
				log.Printf("[USER] old avatar cleanup failed: %v", err)
			}
		}
	}

	return c.JSON(user)
}

// DeleteAccount removes the user with every review and favorite they own,
// then re-aggregates each game their reviews touched.
func (s *UserService) DeleteAccount(c *fiber.Ctx) error {
	user := currentUser(c)

	// The game-ID scan runs inside the transaction so a review submitted
	// concurrently is either deleted with the account or left untouched,
	// never dropped from the recompute list.
	var touchedGameIDs []string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Review{}).
			Where("user_id = ?", user.ID).
			Distinct().
			Pluck("game_id", &touchedGameIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", user.ID).Error
	})
	if err != nil {
		log.Printf("[USER] account deletion failed for %s: %v", user.ID, err)
		return utils.Internal(c)
	}

	// Cascade committed; stale aggregates self-heal on the next review
	// write even if a recompute fails here.
	s.Ratings.RecomputeAll(touchedGameIDs)

	return c.JSON(fiber.Map{"message": "account deleted"})
}
