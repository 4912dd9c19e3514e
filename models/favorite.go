package models

import (
	"time"
)

// Favorite is a bookmark edge from a user to a game. Present or absent,
// nothing to update; duplicates are rejected by the composite unique index.
type Favorite struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_favorites_user_game;not null"`
	GameID    string    `json:"game_id" gorm:"uniqueIndex:idx_favorites_user_game;index;not null"`
	CreatedAt time.Time `json:"created_at"`

	Game *Game `json:"game,omitempty" gorm:"foreignKey:GameID"`
}
