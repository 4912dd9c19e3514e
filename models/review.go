package models

import (
	"time"
)

const (
	ReviewRatingMin     = 1
	ReviewRatingMax     = 5
	ReviewContentMaxLen = 1000
)

// Review is one user's opinion of one game. The composite unique index is
// what actually enforces one-review-per-user-per-game; the application-level
// existence check only picks the create vs. update path.
type Review struct {
	ID      string `json:"id" gorm:"primaryKey;type:uuid"`
	UserID  string `json:"user_id" gorm:"uniqueIndex:idx_reviews_user_game;not null"`
	GameID  string `json:"game_id" gorm:"uniqueIndex:idx_reviews_user_game;index;not null"`
	Rating  int    `json:"rating" gorm:"check:rating >= 1 AND rating <= 5"`
	Content string `json:"content"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
