package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/chapterworks/memberdesk/internal/models"
)

func TestRecordCreditUpdatesClosingBalance(t *testing.T) {
	t.Parallel()

	db, router := setupHandlerTest(t)
	chapter, _ := seedDirectory(t, db)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/chapters/%d/transactions", chapter.ID), map[string]any{
		"date":             time.Now().UTC().Format(time.RFC3339),
		"account_type":     "cash",
		"transaction_type": "credit",
		"amount":           750.25,
		"particulars":      "meeting fees",
	})
	wantStatus(t, rec, http.StatusCreated)

	var gotChapter models.Chapter
	if errFind := db.First(&gotChapter, chapter.ID).Error; errFind != nil {
		t.Fatalf("reload chapter: %v", errFind)
	}
	if gotChapter.CashClosingBalance != 750.25 {
		t.Fatalf("cash closing = %.2f, want 750.25", gotChapter.CashClosingBalance)
	}
	if gotChapter.BankClosingBalance != 0 {
		t.Fatalf("bank closing = %.2f, want 0", gotChapter.BankClosingBalance)
	}
}

func TestRecordDebitRejectsOverdraw(t *testing.T) {
	t.Parallel()

	db, router := setupHandlerTest(t)
	chapter, _ := seedDirectory(t, db)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/chapters/%d/transactions", chapter.ID), map[string]any{
		"date":             time.Now().UTC().Format(time.RFC3339),
		"account_type":     "bank",
		"transaction_type": "debit",
		"amount":           100,
	})
	wantStatus(t, rec, http.StatusBadRequest)

	var count int64
	if errCount := db.Model(&models.Transaction{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count transactions: %v", errCount)
	}
	if count != 0 {
		t.Fatalf("transactions stored = %d after rejected debit, want 0", count)
	}
}

func TestRecordTransactionRejectsBadVocabulary(t *testing.T) {
	t.Parallel()

	db, router := setupHandlerTest(t)
	chapter, _ := seedDirectory(t, db)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/chapters/%d/transactions", chapter.ID), map[string]any{
		"date":             time.Now().UTC().Format(time.RFC3339),
		"account_type":     "wallet",
		"transaction_type": "credit",
		"amount":           50,
	})
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestListTransactionsReturnsBalances(t *testing.T) {
	t.Parallel()

	db, router := setupHandlerTest(t)
	chapter, _ := seedDirectory(t, db)

	for _, amount := range []float64{400, 100} {
		rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/chapters/%d/transactions", chapter.ID), map[string]any{
			"date":             time.Now().UTC().Format(time.RFC3339),
			"account_type":     "cash",
			"transaction_type": "credit",
			"amount":           amount,
		})
		wantStatus(t, rec, http.StatusCreated)
	}

	rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/chapters/%d/transactions", chapter.ID), nil)
	wantStatus(t, rec, http.StatusOK)

	body := decodeBody(t, rec)
	if got := body["cash_closing_balance"].(float64); got != 500 {
		t.Fatalf("cash_closing_balance = %v, want 500", got)
	}
	rows := body["transactions"].([]any)
	if len(rows) != 2 {
		t.Fatalf("transactions = %d rows, want 2", len(rows))
	}
}

func TestUpdateAgedTransactionForbidden(t *testing.T) {
	t.Parallel()

	db, router := setupHandlerTest(t)
	chapter, _ := seedDirectory(t, db)

	old := models.Transaction{
		ChapterID:       chapter.ID,
		Date:            time.Now().UTC().AddDate(0, -2, 0),
		AccountType:     models.AccountTypeCash,
		TransactionType: models.TransactionTypeCredit,
		Amount:          200,
	}
	if errCreate := db.Create(&old).Error; errCreate != nil {
		t.Fatalf("seed transaction: %v", errCreate)
	}

	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/transactions/%d", old.ID), map[string]any{
		"amount": 250,
	})
	wantStatus(t, rec, http.StatusForbidden)

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/transactions/%d", old.ID), nil)
	wantStatus(t, rec, http.StatusForbidden)
}
