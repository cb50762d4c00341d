// Package ledger maintains chapter cash and bank running balances over
// their transaction history.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chapterworks/memberdesk/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// editWindow is how far back a transaction stays editable. Entries older
// than one calendar month are locked.
const editWindowMonths = 1

// Balancer errors mapped by the HTTP layer onto the client-facing taxonomy.
var (
	ErrChapterNotFound     = errors.New("chapter not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInsufficientBalance = errors.New("debit exceeds available balance")
	ErrAgedTransaction     = errors.New("transaction is older than one month and locked")
)

// Balancer applies ledger mutations and recomputes chapter balances.
type Balancer struct {
	db *gorm.DB // Database handle.
}

// NewBalancer wires a balancer with its database dependency.
func NewBalancer(db *gorm.DB) *Balancer {
	return &Balancer{db: db}
}

// CreateParams carries the inputs for a new ledger entry.
type CreateParams struct {
	ChapterID       uint64
	Date            time.Time
	AccountType     models.AccountType
	TransactionType models.TransactionType
	Amount          float64
	InvoiceNumber   string
	Particulars     string
}

// Create validates and persists a ledger entry, then recomputes the
// chapter's closing balance for the affected account type. A debit that
// would drive the currently stored closing balance negative is rejected
// before anything is written; the guard reads the stored value, not a
// fresh recomputation.
func (b *Balancer) Create(ctx context.Context, params CreateParams) (*models.Transaction, error) {
	if params.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if !params.AccountType.Valid() {
		return nil, fmt.Errorf("%w: account type must be cash or bank", ErrInvalidInput)
	}
	if !params.TransactionType.Valid() {
		return nil, fmt.Errorf("%w: transaction type must be credit or debit", ErrInvalidInput)
	}

	var chapter models.Chapter
	if errFind := b.db.WithContext(ctx).First(&chapter, params.ChapterID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, errFind
	}

	if params.TransactionType == models.TransactionTypeDebit {
		stored := chapter.CashClosingBalance
		if params.AccountType == models.AccountTypeBank {
			stored = chapter.BankClosingBalance
		}
		if stored-params.Amount < 0 {
			return nil, ErrInsufficientBalance
		}
	}

	row := models.Transaction{
		ChapterID:       chapter.ID,
		Date:            params.Date,
		AccountType:     params.AccountType,
		TransactionType: params.TransactionType,
		Amount:          params.Amount,
		InvoiceNumber:   params.InvoiceNumber,
		Particulars:     params.Particulars,
	}

	errTx := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errCreate := tx.Create(&row).Error; errCreate != nil {
			return errCreate
		}
		return recomputeClosing(ctx, tx, chapter.ID, params.AccountType)
	})
	if errTx != nil {
		return nil, errTx
	}
	return &row, nil
}

// UpdateParams carries the mutable fields of a ledger entry.
type UpdateParams struct {
	Date            *time.Time
	AccountType     *models.AccountType
	TransactionType *models.TransactionType
	Amount          *float64
	InvoiceNumber   *string
	Particulars     *string
}

// Update edits a ledger entry and recomputes both cash and bank closing
// balances in the same database transaction. Entries older than one
// calendar month are immutable. No negative-balance check is re-applied
// for historical edits; the full recomputation keeps the stored balances
// truthful either way.
func (b *Balancer) Update(ctx context.Context, id uint64, params UpdateParams) (*models.Transaction, error) {
	if params.Amount != nil && *params.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if params.AccountType != nil && !params.AccountType.Valid() {
		return nil, fmt.Errorf("%w: account type must be cash or bank", ErrInvalidInput)
	}
	if params.TransactionType != nil && !params.TransactionType.Valid() {
		return nil, fmt.Errorf("%w: transaction type must be credit or debit", ErrInvalidInput)
	}

	var row models.Transaction
	if errFind := b.db.WithContext(ctx).First(&row, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, errFind
	}
	if aged(row.Date) {
		return nil, ErrAgedTransaction
	}

	if params.Date != nil {
		row.Date = *params.Date
	}
	if params.AccountType != nil {
		row.AccountType = *params.AccountType
	}
	if params.TransactionType != nil {
		row.TransactionType = *params.TransactionType
	}
	if params.Amount != nil {
		row.Amount = *params.Amount
	}
	if params.InvoiceNumber != nil {
		row.InvoiceNumber = *params.InvoiceNumber
	}
	if params.Particulars != nil {
		row.Particulars = *params.Particulars
	}

	errTx := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errSave := tx.Save(&row).Error; errSave != nil {
			return errSave
		}
		return recomputeBoth(ctx, tx, row.ChapterID)
	})
	if errTx != nil {
		return nil, errTx
	}
	return &row, nil
}

// Delete removes a ledger entry and recomputes both closing balances in
// the same database transaction. The one-month aging lock applies.
func (b *Balancer) Delete(ctx context.Context, id uint64) error {
	var row models.Transaction
	if errFind := b.db.WithContext(ctx).First(&row, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		return errFind
	}
	if aged(row.Date) {
		return ErrAgedTransaction
	}

	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errDelete := tx.Delete(&models.Transaction{}, row.ID).Error; errDelete != nil {
			return errDelete
		}
		return recomputeBoth(ctx, tx, row.ChapterID)
	})
}

// Recompute rebuilds both closing balances of one chapter from scratch.
// Safe to run at any time: the computation is a pure function of the
// opening balances and the full transaction history.
func (b *Balancer) Recompute(ctx context.Context, chapterID uint64) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return recomputeBoth(ctx, tx, chapterID)
	})
}

// aged reports whether a value date falls outside the edit window.
func aged(date time.Time) bool {
	cutoff := time.Now().UTC().AddDate(0, -editWindowMonths, 0)
	return date.Before(cutoff)
}

// recomputeBoth recomputes the cash and bank closing balances.
func recomputeBoth(ctx context.Context, tx *gorm.DB, chapterID uint64) error {
	if errCash := recomputeClosing(ctx, tx, chapterID, models.AccountTypeCash); errCash != nil {
		return errCash
	}
	return recomputeClosing(ctx, tx, chapterID, models.AccountTypeBank)
}

// recomputeClosing rebuilds one closing balance as
// opening + sum(credits) - sum(debits) over every transaction of the
// account type. Always a full pass, never a delta: the recomputation is
// idempotent and self-heals after partial failures.
func recomputeClosing(ctx context.Context, tx *gorm.DB, chapterID uint64, account models.AccountType) error {
	var chapter models.Chapter
	if errFind := tx.WithContext(ctx).First(&chapter, chapterID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return ErrChapterNotFound
		}
		return errFind
	}

	var rows []models.Transaction
	if errFind := tx.WithContext(ctx).
		Select("transaction_type", "amount").
		Where("chapter_id = ? AND account_type = ?", chapterID, account).
		Find(&rows).Error; errFind != nil {
		return errFind
	}

	opening := chapter.CashOpeningBalance
	column := "cash_closing_balance"
	if account == models.AccountTypeBank {
		opening = chapter.BankOpeningBalance
		column = "bank_closing_balance"
	}

	closing := decimal.NewFromFloat(opening)
	for _, row := range rows {
		amount := decimal.NewFromFloat(row.Amount)
		if row.TransactionType == models.TransactionTypeDebit {
			closing = closing.Sub(amount)
		} else {
			closing = closing.Add(amount)
		}
	}

	value, _ := closing.Round(2).Float64()
	return tx.WithContext(ctx).Model(&models.Chapter{}).
		Where("id = ?", chapterID).
		Update(column, value).Error
}
