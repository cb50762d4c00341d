package models

import "time"

// User is the login account linked to at most one member.
//
// IsActive mirrors the owning member's derived activation status and is
// maintained by the membership activation policy, not edited directly.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	Email        string `gorm:"type:text;not null;uniqueIndex" json:"email"` // Login email.
	PasswordHash string `gorm:"type:text;not null" json:"-"`                 // bcrypt password hash.
	DisplayName  string `gorm:"type:text" json:"display_name"`               // Name shown in the UI.

	IsActive bool `gorm:"not null;default:true" json:"is_active"` // Login allowed flag.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"` // Last update timestamp.
}
