package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/chapterworks/memberdesk/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// VisitorHandler records chapter meeting guests.
type VisitorHandler struct {
	db *gorm.DB // Database handle.
}

// NewVisitorHandler wires a visitor handler with its database dependency.
func NewVisitorHandler(db *gorm.DB) *VisitorHandler {
	return &VisitorHandler{db: db}
}

type visitorRequest struct {
	ChapterID   *uint64    `json:"chapter_id"`
	InvitedByID *uint64    `json:"invited_by_id"`
	Name        *string    `json:"name"`
	CompanyName *string    `json:"company_name"`
	Phone       *string    `json:"phone"`
	Email       *string    `json:"email"`
	VisitDate   *time.Time `json:"visit_date"`
}

// Create validates chapter and optional inviter, then records the visit.
func (h *VisitorHandler) Create(c *gin.Context) {
	var body visitorRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.ChapterID == nil || *body.ChapterID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing chapter_id"})
		return
	}
	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}
	if body.VisitDate == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing visit_date"})
		return
	}

	var chapter models.Chapter
	if !firstOrNotFound(c, h.db, &chapter, *body.ChapterID, "chapter") {
		return
	}
	if body.InvitedByID != nil {
		var inviter models.Member
		if !firstOrNotFound(c, h.db, &inviter, *body.InvitedByID, "inviting member") {
			return
		}
	}

	visitor := models.Visitor{
		ChapterID:   *body.ChapterID,
		InvitedByID: body.InvitedByID,
		Name:        strings.TrimSpace(*body.Name),
		VisitDate:   *body.VisitDate,
	}
	if body.CompanyName != nil {
		visitor.CompanyName = strings.TrimSpace(*body.CompanyName)
	}
	if body.Phone != nil {
		visitor.Phone = strings.TrimSpace(*body.Phone)
	}
	if body.Email != nil {
		visitor.Email = strings.TrimSpace(*body.Email)
	}

	if errCreate := h.db.WithContext(c.Request.Context()).Create(&visitor).Error; errCreate != nil {
		log.WithError(errCreate).Error("create visitor failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, visitor)
}

// Get returns one visitor with chapter and inviter preloaded.
func (h *VisitorHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var visitor models.Visitor
	errFind := h.db.WithContext(c.Request.Context()).
		Preload("Chapter").
		Preload("InvitedBy").
		First(&visitor, id).Error
	if errFind != nil {
		if errFind == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "visitor not found"})
			return
		}
		log.WithError(errFind).Error("load visitor failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, visitor)
}

// List returns visitors, filterable by chapter_id.
func (h *VisitorHandler) List(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Model(&models.Visitor{})
	if raw := c.Query("chapter_id"); raw != "" {
		id, ok := parseUint(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter_id"})
			return
		}
		query = query.Where("chapter_id = ?", id)
	}

	var rows []models.Visitor
	if errFind := query.Order("visit_date DESC").Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list visitors failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Update edits visitor contact details or the visit date.
func (h *VisitorHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body visitorRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var visitor models.Visitor
	if !firstOrNotFound(c, h.db, &visitor, id, "visitor") {
		return
	}

	if body.Name != nil {
		trimmed := strings.TrimSpace(*body.Name)
		if trimmed == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
			return
		}
		visitor.Name = trimmed
	}
	if body.InvitedByID != nil {
		var inviter models.Member
		if !firstOrNotFound(c, h.db, &inviter, *body.InvitedByID, "inviting member") {
			return
		}
		visitor.InvitedByID = body.InvitedByID
	}
	if body.CompanyName != nil {
		visitor.CompanyName = strings.TrimSpace(*body.CompanyName)
	}
	if body.Phone != nil {
		visitor.Phone = strings.TrimSpace(*body.Phone)
	}
	if body.Email != nil {
		visitor.Email = strings.TrimSpace(*body.Email)
	}
	if body.VisitDate != nil {
		visitor.VisitDate = *body.VisitDate
	}

	if errSave := h.db.WithContext(c.Request.Context()).Save(&visitor).Error; errSave != nil {
		log.WithError(errSave).Error("update visitor failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, visitor)
}

// Delete removes a visitor record.
func (h *VisitorHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var visitor models.Visitor
	if !firstOrNotFound(c, h.db, &visitor, id, "visitor") {
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&visitor).Error; errDelete != nil {
		log.WithError(errDelete).Error("delete visitor failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
