package models

import (
	"time"
)

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// User is one authenticated person, upserted by GoogleID on first login.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	GoogleID  string    `json:"-" gorm:"uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"` // stored lowercase
	Name      string    `json:"name"`
	Username  *string   `json:"username,omitempty" gorm:"uniqueIndex"` // stored lowercase, optional
	Role      string    `json:"role" gorm:"default:'user'"` // user | admin | superadmin
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsModerator reports whether the user may moderate reviews and manage the catalog.
func (u *User) IsModerator() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperadmin
}
