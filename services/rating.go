package services

import (
	"log"
	"math"

	"github.com/JakeNLelis/gamehub-server/models"
	"gorm.io/gorm"
)

// RatingService keeps Game.AverageRating/TotalReviews consistent with the
// live review set. Full recomputation every time: O(reviews-per-game) per
// write, but immune to drift and safe to re-run after any failure.
type RatingService struct {
	DB *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{DB: db}
}

// Recompute reads every review for gameID and writes count and mean back to
// the game row. The average is rounded to ONE decimal here and nowhere else.
// Idempotent: rerunning with no intervening review change is a no-op.
func (s *RatingService) Recompute(db *gorm.DB, gameID string) error {
	var agg struct {
		Total int64
		Avg   float64
	}
	err := db.Model(&models.Review{}).
		Where("game_id = ?", gameID).
		Select("COUNT(*) AS total, COALESCE(AVG(rating), 0) AS avg").
		Scan(&agg).Error
	if err != nil {
		return err
	}

	avg := math.Round(agg.Avg*10) / 10
	if agg.Total == 0 {
		avg = 0
	}

	return db.Model(&models.Game{}).
		Where("id = ?", gameID).
		Updates(map[string]interface{}{
			"average_rating": avg,
			"total_reviews":  agg.Total,
		}).Error
}

// RecomputeAfterWrite is the post-commit call site: the triggering write
// already succeeded, so a recompute failure is logged and swallowed — the
// request must still report success, and a later recompute corrects it.
func (s *RatingService) RecomputeAfterWrite(gameID string) {
	if err := s.Recompute(s.DB, gameID); err != nil {
		log.Printf("⚠️  [RATING] recompute failed for game %s (aggregate stale until next review write): %v", gameID, err)
	}
}

// RecomputeAll re-aggregates a set of games, e.g. every game touched by an
// account deletion.
func (s *RatingService) RecomputeAll(gameIDs []string) {
	for _, id := range gameIDs {
		s.RecomputeAfterWrite(id)
	}
}
