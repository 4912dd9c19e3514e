package models

import (
	"time"
)

type Game struct {
	ID string `json:"id" gorm:"primaryKey;type:uuid"`

	// ExternalID links a game to the external catalog feed. Admin-authored
	// games have none.
	ExternalID *int `json:"external_id,omitempty" gorm:"uniqueIndex"`

	Title            string `json:"title" gorm:"not null"`
	Slug             string `json:"slug" gorm:"index"`
	Thumbnail        string `json:"thumbnail"`
	ShortDescription string `json:"short_description"`
	GameURL          string `json:"game_url"`
	Genre            string `json:"genre"`
	Platform         string `json:"platform"`
	Publisher        string `json:"publisher"`
	Developer        string `json:"developer"`
	ReleaseDate      *time.Time `json:"release_date,omitempty"`

	// Denormalized review aggregate, owned by services.RatingService.
	// average_rating is rounded to 1 decimal; 0 when there are no reviews.
	AverageRating float64 `json:"average_rating" gorm:"default:0"`
	TotalReviews  int64   `json:"total_reviews" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
