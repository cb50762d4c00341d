package models

import "time"

// Package is a purchasable membership plan definition. Reference data:
// created and updated by administrators, read-only for the lifecycle
// engine.
//
// PeriodMonths is informational once financial-year snapping applies: a
// purchased package always expires at the financial-year end regardless
// of its nominal duration.
type Package struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	Name         string  `gorm:"type:text;not null;uniqueIndex" json:"name"` // Plan display name.
	PeriodMonths int     `gorm:"not null;default:12" json:"period_months"`   // Nominal duration in months.
	IsVenueFee   bool    `gorm:"not null;default:false" json:"is_venue_fee"` // Which member expiry track the plan affects.
	HSNCode      string  `gorm:"type:text" json:"hsn_code"`                  // GST HSN/SAC tax code.
	DefaultFees  float64 `gorm:"type:decimal(12,2);not null;default:0" json:"default_fees"` // Suggested basic fees.

	IsActive bool `gorm:"not null;default:true" json:"is_active"` // Whether the plan can be purchased.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"` // Last update timestamp.
}
