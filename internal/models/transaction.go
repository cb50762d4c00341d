package models

import "time"

// AccountType selects which chapter account a transaction moves.
type AccountType string

// TransactionType distinguishes money in from money out.
type TransactionType string

// Account and transaction type vocabulary.
const (
	AccountTypeCash AccountType = "cash"
	AccountTypeBank AccountType = "bank"

	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// Valid reports whether the account type is part of the vocabulary.
func (a AccountType) Valid() bool {
	return a == AccountTypeCash || a == AccountTypeBank
}

// Valid reports whether the transaction type is part of the vocabulary.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

// Transaction is one ledger entry against a chapter account.
type Transaction struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	ChapterID uint64   `gorm:"not null;index" json:"chapter_id"` // Ledger owner.
	Chapter   *Chapter `gorm:"foreignKey:ChapterID" json:"chapter,omitempty"`

	Date            time.Time       `gorm:"not null;index" json:"date"`        // Value date of the entry.
	AccountType     AccountType     `gorm:"type:text;not null" json:"account_type"`     // cash or bank.
	TransactionType TransactionType `gorm:"type:text;not null" json:"transaction_type"` // credit or debit.
	Amount          float64         `gorm:"type:decimal(14,2);not null" json:"amount"`  // Always positive.

	InvoiceNumber string `gorm:"type:text" json:"invoice_number,omitempty"` // Related invoice, if any.
	Particulars   string `gorm:"type:text" json:"particulars,omitempty"`    // Free-form narration.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"` // Last update timestamp.
}
