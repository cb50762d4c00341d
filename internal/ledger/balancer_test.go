package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/chapterworks/memberdesk/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:ledger_%s?mode=memory&cache=shared", uuid.NewString())
	db, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.AutoMigrate(&models.Zone{}, &models.Chapter{}, &models.Transaction{}); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return db
}

func seedChapterWithBalances(t *testing.T, db *gorm.DB, cashOpening, bankOpening float64) *models.Chapter {
	t.Helper()
	zone := models.Zone{Name: "Zone " + uuid.NewString(), IsActive: true}
	if errCreate := db.Create(&zone).Error; errCreate != nil {
		t.Fatalf("seed zone: %v", errCreate)
	}
	chapter := models.Chapter{
		ZoneID:             zone.ID,
		Name:               "Ledger Chapter",
		CashOpeningBalance: cashOpening,
		CashClosingBalance: cashOpening,
		BankOpeningBalance: bankOpening,
		BankClosingBalance: bankOpening,
		IsActive:           true,
	}
	if errCreate := db.Create(&chapter).Error; errCreate != nil {
		t.Fatalf("seed chapter: %v", errCreate)
	}
	return &chapter
}

func closeTo(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func reloadChapter(t *testing.T, db *gorm.DB, id uint64) *models.Chapter {
	t.Helper()
	var chapter models.Chapter
	if errFind := db.First(&chapter, id).Error; errFind != nil {
		t.Fatalf("reload chapter: %v", errFind)
	}
	return &chapter
}

func TestCreateCreditUpdatesClosingBalance(t *testing.T) {
	t.Parallel()

	db := setupLedgerTestDB(t)
	chapter := seedChapterWithBalances(t, db, 1000, 5000)
	balancer := NewBalancer(db)

	if _, errCreate := balancer.Create(context.Background(), CreateParams{
		ChapterID:       chapter.ID,
		Date:            time.Now().UTC(),
		AccountType:     models.AccountTypeCash,
		TransactionType: models.TransactionTypeCredit,
		Amount:          250,
	}); errCreate != nil {
		t.Fatalf("Create: %v", errCreate)
	}

	got := reloadChapter(t, db, chapter.ID)
	if !closeTo(got.CashClosingBalance, 1250) {
		t.Fatalf("cash closing = %.2f, want 1250", got.CashClosingBalance)
	}
	if !closeTo(got.BankClosingBalance, 5000) {
		t.Fatalf("bank closing = %.2f, want untouched 5000", got.BankClosingBalance)
	}
}

func TestCreateDebitGuardRejectsOverdraw(t *testing.T) {
	t.Parallel()

	db := setupLedgerTestDB(t)
	chapter := seedChapterWithBalances(t, db, 100, 0)
	balancer := NewBalancer(db)

	_, errCreate := balancer.Create(context.Background(), CreateParams{
		ChapterID:       chapter.ID,
		Date:            time.Now().UTC(),
		AccountType:     models.AccountTypeCash,
		TransactionType: models.TransactionTypeDebit,
		Amount:          150,
	})
	if !errors.Is(errCreate, ErrInsufficientBalance) {
		t.Fatalf("overdraw err = %v, want ErrInsufficientBalance", errCreate)
	}

	// No state change: the balance and the transaction table are intact.
	got := reloadChapter(t, db, chapter.ID)
	if !closeTo(got.CashClosingBalance, 100) {
		t.Fatalf("cash closing = %.2f, want unchanged 100", got.CashClosingBalance)
	}
	var count int64
	if errCount := db.Model(&models.Transaction{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count transactions: %v", errCount)
	}
	if count != 0 {
		t.Fatalf("transaction persisted despite rejected debit")
	}
}

func TestCreateDebitExactBalanceAllowed(t *testing.T) {
	t.Parallel()

	db := setupLedgerTestDB(t)
	chapter := seedChapterWithBalances(t, db, 100, 0)
	balancer := NewBalancer(db)

	if _, errCreate := balancer.Create(context.Background(), CreateParams{
		ChapterID:       chapter.ID,
		Date:            time.Now().UTC(),
		AccountType:     models.AccountTypeCash,
		TransactionType: models.TransactionTypeDebit,
		Amount:          100,
	}); errCreate != nil {
		t.Fatalf("debit to zero: %v", errCreate)
	}

	got := reloadChapter(t, db, chapter.ID)
	if !closeTo(got.CashClosingBalance, 0) {
		t.Fatalf("cash closing = %.2f, want 0", got.CashClosingBalance)
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	db := setupLedgerTestDB(t)
	chapter := seedChapterWithBalances(t, db, 100, 100)
	balancer := NewBalancer(db)
	now := time.Now().UTC()

	cases := []struct {
		name   string
		params CreateParams
		want   error
	}{
		{"zero amount", CreateParams{ChapterID: chapter.ID, Date: now, AccountType: models.AccountTypeCash, TransactionType: models.TransactionTypeCredit, Amount: 0}, ErrInvalidInput},
		{"bad account", CreateParams{ChapterID: chapter.ID, Date: now, AccountType: "wallet", TransactionType: models.TransactionTypeCredit, Amount: 10}, ErrInvalidInput},
		{"bad type", CreateParams{ChapterID: chapter.ID, Date: now, AccountType: models.AccountTypeCash, TransactionType: "transfer", Amount: 10}, ErrInvalidInput},
		{"missing chapter", CreateParams{ChapterID: 9999, Date: now, AccountType: models.AccountTypeCash, TransactionType: models.TransactionTypeCredit, Amount: 10}, ErrChapterNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, errCreate := balancer.Create(context.Background(), tc.params); !errors.Is(errCreate, tc.want) {
				t.Fatalf("err = %v, want %v", errCreate, tc.want)
			}
		})
	}
}

func TestUpdateRecomputesBothAccounts(t *testing.T) {
	t.Parallel()

	db := setupLedgerTestDB(t)
	chapter := seedChapterWithBalances(t, db, 1000, 1000)
	balancer := NewBalancer(db)
	now := time.Now().UTC()

	row, errCreate := balancer.Create(context.Background(), CreateParams{
		ChapterID:       chapter.ID,
		Date:            now,
		AccountType:     models.AccountTypeCash,
		TransactionType: models.TransactionTypeCredit,
		Amount:          200,
	})
	if errCreate != nil {
		t.Fatalf("Create: %v", errCreate)
	}

	// Move the entry from cash to bank; both balances must be rebuilt.
	bank := models.AccountTypeBank
	if _, errUpdate := balancer.Update(context.Background(), row.ID, UpdateParams{
		AccountType: &bank,
	}); errUpdate != nil {
		t.Fatalf("Update: %v", errUpdate)
	}

	got := reloadChapter(t, db, chapter.ID)
	if !closeTo(got.CashClosingBalance, 1000) {
		t.Fatalf("cash closing = %.2f, want 1000 after move", got.CashClosingBalance)
	}
	if !closeTo(got.BankClosingBalance, 1200) {
		t.Fatalf("bank closing = %.2f, want 1200 after move", got.BankClosingBalance)
	}
}

func TestUpdateAgedTransactionRejected(t *testing.T) {
	t.Parallel()

	db := setupLedgerTestDB(t)
	chapter := seedChapterWithBalances(t, db, 1000, 0)
	balancer := NewBalancer(db)

	old := time.Now().UTC().AddDate(0, -2, 0)
	row, errCreate := balancer.Create(context.Background(), CreateParams{
		ChapterID:       chapter.ID,
		Date:            old,
		AccountType:     models.AccountTypeCash,
		TransactionType: models.TransactionTypeCredit,
		Amount:          50,
	})
	if errCreate != nil {
		t.Fatalf("Create: %v", errCreate)
	}

	amount := 75.0
	if _, errUpdate := balancer.Update(context.Background(), row.ID, UpdateParams{
		Amount: &amount,
	}); !errors.Is(errUpdate, ErrAgedTransaction) {
		t.Fatalf("aged update err = %v, want ErrAgedTransaction", errUpdate)
	}
	if errDelete := balancer.Delete(context.Background(), row.ID); !errors.Is(errDelete, ErrAgedTransaction) {
		t.Fatalf("aged delete err = %v, want ErrAgedTransaction", errDelete)
	}
}

func TestDeleteRecomputesBalances(t *testing.T) {
	t.Parallel()

	db := setupLedgerTestDB(t)
	chapter := seedChapterWithBalances(t, db, 500, 0)
	balancer := NewBalancer(db)
	now := time.Now().UTC()

	row, errCreate := balancer.Create(context.Background(), CreateParams{
		ChapterID:       chapter.ID,
		Date:            now,
		AccountType:     models.AccountTypeCash,
		TransactionType: models.TransactionTypeCredit,
		Amount:          300,
	})
	if errCreate != nil {
		t.Fatalf("Create: %v", errCreate)
	}
	if errDelete := balancer.Delete(context.Background(), row.ID); errDelete != nil {
		t.Fatalf("Delete: %v", errDelete)
	}

	got := reloadChapter(t, db, chapter.ID)
	if !closeTo(got.CashClosingBalance, 500) {
		t.Fatalf("cash closing = %.2f, want 500 after delete", got.CashClosingBalance)
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	t.Parallel()

	db := setupLedgerTestDB(t)
	chapter := seedChapterWithBalances(t, db, 100, 1000)
	balancer := NewBalancer(db)
	now := time.Now().UTC()

	for _, p := range []CreateParams{
		{ChapterID: chapter.ID, Date: now, AccountType: models.AccountTypeBank, TransactionType: models.TransactionTypeCredit, Amount: 400},
		{ChapterID: chapter.ID, Date: now, AccountType: models.AccountTypeBank, TransactionType: models.TransactionTypeDebit, Amount: 150},
		{ChapterID: chapter.ID, Date: now, AccountType: models.AccountTypeCash, TransactionType: models.TransactionTypeCredit, Amount: 25.5},
	} {
		if _, errCreate := balancer.Create(context.Background(), p); errCreate != nil {
			t.Fatalf("Create: %v", errCreate)
		}
	}

	if errRecompute := balancer.Recompute(context.Background(), chapter.ID); errRecompute != nil {
		t.Fatalf("first recompute: %v", errRecompute)
	}
	first := reloadChapter(t, db, chapter.ID)
	if errRecompute := balancer.Recompute(context.Background(), chapter.ID); errRecompute != nil {
		t.Fatalf("second recompute: %v", errRecompute)
	}
	second := reloadChapter(t, db, chapter.ID)

	if !closeTo(first.BankClosingBalance, second.BankClosingBalance) || !closeTo(first.CashClosingBalance, second.CashClosingBalance) {
		t.Fatalf("recompute not idempotent: %.2f/%.2f then %.2f/%.2f",
			first.BankClosingBalance, first.CashClosingBalance,
			second.BankClosingBalance, second.CashClosingBalance)
	}
	if !closeTo(second.BankClosingBalance, 1250) {
		t.Fatalf("bank closing = %.2f, want 1000+400-150=1250", second.BankClosingBalance)
	}
	if !closeTo(second.CashClosingBalance, 125.5) {
		t.Fatalf("cash closing = %.2f, want 100+25.5=125.5", second.CashClosingBalance)
	}
}

func TestRecomputeHealsManuallyCorruptedBalance(t *testing.T) {
	t.Parallel()

	db := setupLedgerTestDB(t)
	chapter := seedChapterWithBalances(t, db, 100, 0)
	balancer := NewBalancer(db)

	if _, errCreate := balancer.Create(context.Background(), CreateParams{
		ChapterID:       chapter.ID,
		Date:            time.Now().UTC(),
		AccountType:     models.AccountTypeCash,
		TransactionType: models.TransactionTypeCredit,
		Amount:          60,
	}); errCreate != nil {
		t.Fatalf("Create: %v", errCreate)
	}

	// Simulate a stale stored balance left behind by a crash.
	if errCorrupt := db.Model(&models.Chapter{}).
		Where("id = ?", chapter.ID).
		Update("cash_closing_balance", 9999).Error; errCorrupt != nil {
		t.Fatalf("corrupt balance: %v", errCorrupt)
	}

	if errRecompute := balancer.Recompute(context.Background(), chapter.ID); errRecompute != nil {
		t.Fatalf("Recompute: %v", errRecompute)
	}
	got := reloadChapter(t, db, chapter.ID)
	if !closeTo(got.CashClosingBalance, 160) {
		t.Fatalf("cash closing = %.2f, want healed 160", got.CashClosingBalance)
	}
}
