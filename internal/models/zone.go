package models

import "time"

// Zone groups chapters under one regional umbrella.
type Zone struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	Name     string `gorm:"type:text;not null;uniqueIndex" json:"name"` // Zone display name.
	City     string `gorm:"type:text" json:"city"`                      // City the zone operates in.
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`     // Whether the zone is operational.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"` // Last update timestamp.
}
