package models

import "time"

// Referral is a thank-you slip: one member crediting another for closed
// business.
type Referral struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	GiverID    uint64  `gorm:"not null;index" json:"giver_id"` // Member filing the slip.
	Giver      *Member `gorm:"foreignKey:GiverID" json:"giver,omitempty"`
	ReceiverID uint64  `gorm:"not null;index" json:"receiver_id"` // Member being thanked.
	Receiver   *Member `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`

	Date           time.Time `gorm:"not null" json:"date"`                                // Slip date.
	BusinessAmount float64   `gorm:"type:decimal(14,2);not null;default:0" json:"business_amount"` // Closed business value.
	Comments       string    `gorm:"type:text" json:"comments"`                           // Free-form comments.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"` // Last update timestamp.
}
