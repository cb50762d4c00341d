package handlers

import (
	"net/http"
	"strings"

	"github.com/chapterworks/memberdesk/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ChapterHandler exposes chapter administration over HTTP.
type ChapterHandler struct {
	db *gorm.DB // Database handle.
}

// NewChapterHandler wires a chapter handler with its database dependency.
func NewChapterHandler(db *gorm.DB) *ChapterHandler {
	return &ChapterHandler{db: db}
}

// createChapterRequest captures the payload for creating a chapter.
type createChapterRequest struct {
	ZoneID             uint64  `json:"zone_id"`              // Owning zone.
	Name               string  `json:"name"`                 // Chapter display name.
	MeetingDay         string  `json:"meeting_day"`          // Weekly meeting day.
	MeetingVenue       string  `json:"meeting_venue"`        // Meeting venue.
	BankOpeningBalance float64 `json:"bank_opening_balance"` // Initial bank balance.
	CashOpeningBalance float64 `json:"cash_opening_balance"` // Initial cash balance.
}

// Create validates input and persists a chapter. Closing balances start
// equal to the opening balances.
func (h *ChapterHandler) Create(c *gin.Context) {
	var body createChapterRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}
	if body.ZoneID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing zone_id"})
		return
	}
	if body.BankOpeningBalance < 0 || body.CashOpeningBalance < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "opening balances cannot be negative"})
		return
	}

	var zone models.Zone
	if !firstOrNotFound(c, h.db, &zone, body.ZoneID, "zone") {
		return
	}

	chapter := models.Chapter{
		ZoneID:             zone.ID,
		Name:               name,
		MeetingDay:         strings.TrimSpace(body.MeetingDay),
		MeetingVenue:       strings.TrimSpace(body.MeetingVenue),
		BankOpeningBalance: body.BankOpeningBalance,
		BankClosingBalance: body.BankOpeningBalance,
		CashOpeningBalance: body.CashOpeningBalance,
		CashClosingBalance: body.CashOpeningBalance,
		IsActive:           true,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&chapter).Error; errCreate != nil {
		log.WithError(errCreate).Error("create chapter failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, chapter)
}

// Get returns one chapter with its zone.
func (h *ChapterHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "chapterId")
	if !ok {
		return
	}
	var chapter models.Chapter
	if errFind := h.db.WithContext(c.Request.Context()).
		Preload("Zone").
		First(&chapter, id).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chapter not found"})
		return
	}
	c.JSON(http.StatusOK, chapter)
}

// List returns chapters, optionally filtered by zone.
func (h *ChapterHandler) List(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Model(&models.Chapter{}).Preload("Zone")
	if raw := strings.TrimSpace(c.Query("zone_id")); raw != "" {
		zoneID, ok := pathIDFromQuery(c, raw, "zone_id")
		if !ok {
			return
		}
		query = query.Where("zone_id = ?", zoneID)
	}

	var rows []models.Chapter
	if errFind := query.Order("name ASC").Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list chapters failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// updateChapterRequest captures the editable chapter fields. Closing
// balances are absent on purpose: only the ledger balancer writes them.
type updateChapterRequest struct {
	Name         *string `json:"name"`
	MeetingDay   *string `json:"meeting_day"`
	MeetingVenue *string `json:"meeting_venue"`
	IsActive     *bool   `json:"is_active"`
}

// Update edits a chapter's directory fields.
func (h *ChapterHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "chapterId")
	if !ok {
		return
	}
	var body updateChapterRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var chapter models.Chapter
	if !firstOrNotFound(c, h.db, &chapter, id, "chapter") {
		return
	}

	if body.Name != nil {
		trimmed := strings.TrimSpace(*body.Name)
		if trimmed == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
			return
		}
		chapter.Name = trimmed
	}
	if body.MeetingDay != nil {
		chapter.MeetingDay = strings.TrimSpace(*body.MeetingDay)
	}
	if body.MeetingVenue != nil {
		chapter.MeetingVenue = strings.TrimSpace(*body.MeetingVenue)
	}
	if body.IsActive != nil {
		chapter.IsActive = *body.IsActive
	}

	if errSave := h.db.WithContext(c.Request.Context()).Save(&chapter).Error; errSave != nil {
		log.WithError(errSave).Error("update chapter failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, chapter)
}

// Balances returns the chapter's four stored balance fields.
func (h *ChapterHandler) Balances(c *gin.Context) {
	id, ok := pathID(c, "chapterId")
	if !ok {
		return
	}
	var chapter models.Chapter
	if !firstOrNotFound(c, h.db, &chapter, id, "chapter") {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bank_opening_balance": chapter.BankOpeningBalance,
		"bank_closing_balance": chapter.BankClosingBalance,
		"cash_opening_balance": chapter.CashOpeningBalance,
		"cash_closing_balance": chapter.CashClosingBalance,
	})
}
