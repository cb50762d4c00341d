package models

import "time"

// Training is an organization-wide training event members can attend.
type Training struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	Title string    `gorm:"type:text;not null" json:"title"` // Training title.
	Date  time.Time `gorm:"not null" json:"date"`            // Scheduled date.
	Venue string    `gorm:"type:text" json:"venue"`          // Training venue.
	Fees  float64   `gorm:"type:decimal(12,2);not null;default:0" json:"fees"` // Attendance fees.

	IsActive bool `gorm:"not null;default:true" json:"is_active"` // Whether registrations are open.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"` // Last update timestamp.
}

// TrainingAttendance links one member to one training session.
type TrainingAttendance struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	TrainingID uint64    `gorm:"not null;index:idx_training_member,unique" json:"training_id"` // Attended training.
	Training   *Training `gorm:"foreignKey:TrainingID" json:"training,omitempty"`
	MemberID   uint64    `gorm:"not null;index:idx_training_member,unique" json:"member_id"` // Attending member.
	Member     *Member   `gorm:"foreignKey:MemberID" json:"member,omitempty"`

	FeesPaid bool `gorm:"not null;default:false" json:"fees_paid"` // Whether attendance fees were settled.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"` // Creation timestamp.
}
