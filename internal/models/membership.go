package models

import (
	"time"

	"gorm.io/datatypes"
)

// Membership is one purchase event: a member buying one package.
//
// InvoiceNumber follows the literal format YYSS-NNNNN where YYSS is the
// financial-year code and NNNNN a zero-padded per-year sequence, e.g.
// 2324-00001. PackageEndDate is always the financial-year end computed
// from PackageStartDate. TotalFees is derived: BasicFees plus all
// computed tax amounts.
type Membership struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	MemberID uint64   `gorm:"not null;index" json:"member_id"` // Purchasing member. Immutable after creation.
	Member   *Member  `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	PackageID uint64  `gorm:"not null;index" json:"package_id"` // Purchased plan. Immutable after creation.
	Package  *Package `gorm:"foreignKey:PackageID" json:"package,omitempty"`

	InvoiceNumber string    `gorm:"type:text;not null;uniqueIndex" json:"invoice_number"` // Financial-year scoped invoice number.
	InvoiceDate   time.Time `gorm:"not null" json:"invoice_date"`                         // Invoice issue date.

	PackageStartDate time.Time `gorm:"not null" json:"package_start_date"` // Coverage start.
	PackageEndDate   time.Time `gorm:"not null" json:"package_end_date"`   // Coverage end, snapped to financial-year end.

	BasicFees float64 `gorm:"type:decimal(12,2);not null" json:"basic_fees"` // Fees before tax.

	CGSTRate   *float64 `gorm:"type:decimal(5,2)" json:"cgst_rate,omitempty"`                // Central GST percentage.
	SGSTRate   *float64 `gorm:"type:decimal(5,2)" json:"sgst_rate,omitempty"`                // State GST percentage.
	IGSTRate   *float64 `gorm:"type:decimal(5,2)" json:"igst_rate,omitempty"`                // Integrated GST percentage.
	CGSTAmount float64  `gorm:"type:decimal(12,2);not null;default:0" json:"cgst_amount"`    // Computed CGST amount.
	SGSTAmount float64  `gorm:"type:decimal(12,2);not null;default:0" json:"sgst_amount"`    // Computed SGST amount.
	IGSTAmount float64  `gorm:"type:decimal(12,2);not null;default:0" json:"igst_amount"`    // Computed IGST amount.
	TotalFees  float64  `gorm:"type:decimal(12,2);not null" json:"total_fees"`               // BasicFees + all tax amounts.

	PaymentDetail datatypes.JSON `gorm:"type:jsonb" json:"payment_detail,omitempty"` // Payment mode/reference metadata.

	IsActive bool `gorm:"not null;default:true" json:"is_active"` // Whether the purchase still counts toward expiry.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"` // Last update timestamp.
}
