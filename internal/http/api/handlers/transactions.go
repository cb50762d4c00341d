package handlers

import (
	"net/http"
	"time"

	"github.com/chapterworks/memberdesk/internal/ledger"
	"github.com/chapterworks/memberdesk/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TransactionHandler exposes chapter ledger entries over HTTP.
type TransactionHandler struct {
	db       *gorm.DB         // Database handle for read paths.
	balancer *ledger.Balancer // Balancer for mutations.
}

// NewTransactionHandler wires a transaction handler with its dependencies.
func NewTransactionHandler(db *gorm.DB, balancer *ledger.Balancer) *TransactionHandler {
	return &TransactionHandler{db: db, balancer: balancer}
}

// createTransactionRequest captures the payload for a ledger entry.
type createTransactionRequest struct {
	Date            time.Time `json:"date"`             // Value date.
	AccountType     string    `json:"account_type"`     // cash or bank.
	TransactionType string    `json:"transaction_type"` // credit or debit.
	Amount          float64   `json:"amount"`           // Positive amount.
	InvoiceNumber   string    `json:"invoice_number"`   // Optional related invoice.
	Particulars     string    `json:"particulars"`      // Optional narration.
}

// Create records a ledger entry against a chapter and rebuilds its
// closing balance.
func (h *TransactionHandler) Create(c *gin.Context) {
	chapterID, ok := pathID(c, "chapterId")
	if !ok {
		return
	}
	var body createTransactionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Date.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing date"})
		return
	}

	row, errCreate := h.balancer.Create(c.Request.Context(), ledger.CreateParams{
		ChapterID:       chapterID,
		Date:            body.Date,
		AccountType:     models.AccountType(body.AccountType),
		TransactionType: models.TransactionType(body.TransactionType),
		Amount:          body.Amount,
		InvoiceNumber:   body.InvoiceNumber,
		Particulars:     body.Particulars,
	})
	if errCreate != nil {
		writeDomainError(c, errCreate)
		return
	}
	c.JSON(http.StatusCreated, row)
}

// updateTransactionRequest captures a partial ledger entry update.
type updateTransactionRequest struct {
	Date            *time.Time `json:"date"`
	AccountType     *string    `json:"account_type"`
	TransactionType *string    `json:"transaction_type"`
	Amount          *float64   `json:"amount"`
	InvoiceNumber   *string    `json:"invoice_number"`
	Particulars     *string    `json:"particulars"`
}

// Update edits a ledger entry inside the one-month window.
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body updateTransactionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	params := ledger.UpdateParams{
		Date:          body.Date,
		Amount:        body.Amount,
		InvoiceNumber: body.InvoiceNumber,
		Particulars:   body.Particulars,
	}
	if body.AccountType != nil {
		account := models.AccountType(*body.AccountType)
		params.AccountType = &account
	}
	if body.TransactionType != nil {
		kind := models.TransactionType(*body.TransactionType)
		params.TransactionType = &kind
	}

	row, errUpdate := h.balancer.Update(c.Request.Context(), id, params)
	if errUpdate != nil {
		writeDomainError(c, errUpdate)
		return
	}
	c.JSON(http.StatusOK, row)
}

// Delete removes a ledger entry inside the one-month window.
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if errDelete := h.balancer.Delete(c.Request.Context(), id); errDelete != nil {
		writeDomainError(c, errDelete)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted"})
}

// ListByChapter returns a chapter's ledger entries together with the
// current stored balances.
func (h *TransactionHandler) ListByChapter(c *gin.Context) {
	chapterID, ok := pathID(c, "chapterId")
	if !ok {
		return
	}
	var chapter models.Chapter
	if !firstOrNotFound(c, h.db, &chapter, chapterID, "chapter") {
		return
	}

	var rows []models.Transaction
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("chapter_id = ?", chapterID).
		Order("date DESC, id DESC").
		Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list transactions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transactions":         rows,
		"cash_closing_balance": chapter.CashClosingBalance,
		"bank_closing_balance": chapter.BankClosingBalance,
	})
}
