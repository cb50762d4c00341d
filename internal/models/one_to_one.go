package models

import "time"

// OneToOne records a one-to-one meeting between two members.
type OneToOne struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	InitiatorID uint64  `gorm:"not null;index" json:"initiator_id"` // Member who set up the meeting.
	Initiator   *Member `gorm:"foreignKey:InitiatorID" json:"initiator,omitempty"`
	InviteeID   uint64  `gorm:"not null;index" json:"invitee_id"` // Member who was invited.
	Invitee     *Member `gorm:"foreignKey:InviteeID" json:"invitee,omitempty"`

	Date     time.Time `gorm:"not null" json:"date"`        // Meeting date.
	Location string    `gorm:"type:text" json:"location"`   // Where the meeting happened.
	Notes    string    `gorm:"type:text" json:"notes"`      // Free-form notes.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"` // Last update timestamp.
}
