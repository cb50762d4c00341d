package models

import "time"

// Chapter is a local meeting group of members inside a zone.
//
// The four balance columns form the chapter ledger: closing balances are
// always recomputed as opening + sum(credits) - sum(debits) over all of
// the chapter's transactions of the matching account type, never adjusted
// incrementally.
type Chapter struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	ZoneID uint64 `gorm:"not null;index" json:"zone_id"` // Owning zone.
	Zone   *Zone  `gorm:"foreignKey:ZoneID" json:"zone,omitempty"`

	Name         string `gorm:"type:text;not null" json:"name"`    // Chapter display name.
	MeetingDay   string `gorm:"type:text" json:"meeting_day"`      // Weekly meeting day.
	MeetingVenue string `gorm:"type:text" json:"meeting_venue"`    // Meeting venue address.

	BankOpeningBalance float64 `gorm:"type:decimal(14,2);not null;default:0" json:"bank_opening_balance"` // Bank account opening balance.
	BankClosingBalance float64 `gorm:"type:decimal(14,2);not null;default:0" json:"bank_closing_balance"` // Derived bank running balance.
	CashOpeningBalance float64 `gorm:"type:decimal(14,2);not null;default:0" json:"cash_opening_balance"` // Cash box opening balance.
	CashClosingBalance float64 `gorm:"type:decimal(14,2);not null;default:0" json:"cash_closing_balance"` // Derived cash running balance.

	IsActive bool `gorm:"not null;default:true" json:"is_active"` // Whether the chapter is operational.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"` // Last update timestamp.
}
