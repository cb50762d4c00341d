package models

import "time"

// Visitor is a guest attending a chapter meeting, invited by a member.
type Visitor struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	ChapterID uint64   `gorm:"not null;index" json:"chapter_id"` // Visited chapter.
	Chapter   *Chapter `gorm:"foreignKey:ChapterID" json:"chapter,omitempty"`

	InvitedByID *uint64 `gorm:"index" json:"invited_by_id,omitempty"` // Inviting member, if any.
	InvitedBy   *Member `gorm:"foreignKey:InvitedByID" json:"invited_by,omitempty"`

	Name        string    `gorm:"type:text;not null" json:"name"` // Visitor name.
	CompanyName string    `gorm:"type:text" json:"company_name"`  // Visitor business.
	Phone       string    `gorm:"type:text" json:"phone"`         // Contact number.
	Email       string    `gorm:"type:text" json:"email"`         // Contact email.
	VisitDate   time.Time `gorm:"not null" json:"visit_date"`     // Meeting date attended.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"` // Last update timestamp.
}
