package models

import (
	"time"

	"github.com/google/uuid"
)

// Member is a person or organization enrolled in a chapter.
//
// The two expiry columns are independent membership tracks: HOExpiryDate
// covers head-office fees and VenueExpiryDate covers venue fees. Both are
// mutated only by the membership lifecycle engine. IsActive is derived
// from the two dates (both set, at least one in the future) and kept in
// sync with the linked user account.
type Member struct {
	ID  uint64    `gorm:"primaryKey;autoIncrement" json:"id"`            // Primary key.
	UID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"uid"` // Stable business key.

	ChapterID uint64   `gorm:"not null;index" json:"chapter_id"` // Home chapter.
	Chapter   *Chapter `gorm:"foreignKey:ChapterID" json:"chapter,omitempty"`

	UserID *uint64 `gorm:"uniqueIndex" json:"user_id,omitempty"` // Linked login account, if any.
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	FirstName   string `gorm:"type:text;not null" json:"first_name"` // Given name.
	LastName    string `gorm:"type:text" json:"last_name"`           // Family name.
	CompanyName string `gorm:"type:text" json:"company_name"`        // Represented business.
	Category    string `gorm:"type:text" json:"category"`            // Business category slot.
	Phone       string `gorm:"type:text" json:"phone"`               // Contact number.
	Email       string `gorm:"type:text" json:"email"`               // Contact email.

	HOExpiryDate    *time.Time `gorm:"column:ho_expiry_date" json:"ho_expiry_date,omitempty"`       // Head-office track expiry.
	VenueExpiryDate *time.Time `gorm:"column:venue_expiry_date" json:"venue_expiry_date,omitempty"` // Venue-fee track expiry.

	IsActive bool       `gorm:"not null;default:false" json:"is_active"` // Derived activation status.
	JoinedAt *time.Time `json:"joined_at,omitempty"`                     // Enrollment date.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"` // Last update timestamp.
}

// ExpiryFor returns the expiry date of the requested track.
func (m *Member) ExpiryFor(venueFee bool) *time.Time {
	if venueFee {
		return m.VenueExpiryDate
	}
	return m.HOExpiryDate
}
