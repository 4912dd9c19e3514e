package services_test

import (
	"testing"

	"github.com/JakeNLelis/gamehub-server/models"
	"github.com/JakeNLelis/gamehub-server/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedReview(t *testing.T, db *gorm.DB, userID, gameID string, rating int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Review{
		ID:      uuid.NewString(),
		UserID:  userID,
		GameID:  gameID,
		Rating:  rating,
		Content: "seeded",
	}).Error)
}

func TestRecomputeEmptyGame(t *testing.T) {
	db := newTestDB(t)
	ratings := services.NewRatingService(db)
	game := createTestGame(t, db, "Empty Game")

	require.NoError(t, ratings.Recompute(db, game.ID))

	got := reloadGame(t, db, game.ID)
	assert.Equal(t, float64(0), got.AverageRating)
	assert.Equal(t, int64(0), got.TotalReviews)
}

func TestRecomputeMeanAndCount(t *testing.T) {
	db := newTestDB(t)
	ratings := services.NewRatingService(db)
	game := createTestGame(t, db, "Rated Game")
	a := createTestUser(t, db, "alice", models.RoleUser)
	b := createTestUser(t, db, "bob", models.RoleUser)

	seedReview(t, db, a.ID, game.ID, 5)
	require.NoError(t, ratings.Recompute(db, game.ID))
	got := reloadGame(t, db, game.ID)
	assert.Equal(t, 5.0, got.AverageRating)
	assert.Equal(t, int64(1), got.TotalReviews)

	seedReview(t, db, b.ID, game.ID, 3)
	require.NoError(t, ratings.Recompute(db, game.ID))
	got = reloadGame(t, db, game.ID)
	assert.Equal(t, 4.0, got.AverageRating)
	assert.Equal(t, int64(2), got.TotalReviews)
}

func TestRecomputeRoundsToOneDecimal(t *testing.T) {
	db := newTestDB(t)
	ratings := services.NewRatingService(db)
	game := createTestGame(t, db, "Rounded Game")

	// 5, 4, 4 → mean 4.333… → 4.3
	for _, rating := range []int{5, 4, 4} {
		u := createTestUser(t, db, "reviewer", models.RoleUser)
		seedReview(t, db, u.ID, game.ID, rating)
	}
	require.NoError(t, ratings.Recompute(db, game.ID))

	got := reloadGame(t, db, game.ID)
	assert.Equal(t, 4.3, got.AverageRating)
	assert.Equal(t, int64(3), got.TotalReviews)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ratings := services.NewRatingService(db)
	game := createTestGame(t, db, "Stable Game")
	u := createTestUser(t, db, "carol", models.RoleUser)
	seedReview(t, db, u.ID, game.ID, 4)

	require.NoError(t, ratings.Recompute(db, game.ID))
	first := reloadGame(t, db, game.ID)

	require.NoError(t, ratings.Recompute(db, game.ID))
	second := reloadGame(t, db, game.ID)

	assert.Equal(t, first.AverageRating, second.AverageRating)
	assert.Equal(t, first.TotalReviews, second.TotalReviews)
}

func TestRecomputeAfterReviewRemoval(t *testing.T) {
	db := newTestDB(t)
	ratings := services.NewRatingService(db)
	game := createTestGame(t, db, "Shrinking Game")
	a := createTestUser(t, db, "alice", models.RoleUser)
	b := createTestUser(t, db, "bob", models.RoleUser)
	seedReview(t, db, a.ID, game.ID, 5)
	seedReview(t, db, b.ID, game.ID, 1)
	require.NoError(t, ratings.Recompute(db, game.ID))

	require.NoError(t, db.Where("user_id = ?", b.ID).Delete(&models.Review{}).Error)
	require.NoError(t, ratings.Recompute(db, game.ID))

	got := reloadGame(t, db, game.ID)
	assert.Equal(t, 5.0, got.AverageRating)
	assert.Equal(t, int64(1), got.TotalReviews)

	require.NoError(t, db.Where("user_id = ?", a.ID).Delete(&models.Review{}).Error)
	require.NoError(t, ratings.Recompute(db, game.ID))

	got = reloadGame(t, db, game.ID)
	assert.Equal(t, 0.0, got.AverageRating)
	assert.Equal(t, int64(0), got.TotalReviews)
}
