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

// OneToOneHandler records one-to-one meetings between members.
type OneToOneHandler struct {
	db *gorm.DB // Database handle.
}

// NewOneToOneHandler wires a one-to-one handler with its database dependency.
func NewOneToOneHandler(db *gorm.DB) *OneToOneHandler {
	return &OneToOneHandler{db: db}
}

type oneToOneRequest struct {
	InitiatorID *uint64    `json:"initiator_id"`
	InviteeID   *uint64    `json:"invitee_id"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location"`
	Notes       *string    `json:"notes"`
}

// Create validates both participants and records the meeting.
func (h *OneToOneHandler) Create(c *gin.Context) {
	var body oneToOneRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.InitiatorID == nil || *body.InitiatorID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing initiator_id"})
		return
	}
	if body.InviteeID == nil || *body.InviteeID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing invitee_id"})
		return
	}
	if *body.InitiatorID == *body.InviteeID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a member cannot meet themselves"})
		return
	}
	if body.Date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing date"})
		return
	}

	var initiator, invitee models.Member
	if !firstOrNotFound(c, h.db, &initiator, *body.InitiatorID, "initiator member") {
		return
	}
	if !firstOrNotFound(c, h.db, &invitee, *body.InviteeID, "invitee member") {
		return
	}

	meeting := models.OneToOne{
		InitiatorID: *body.InitiatorID,
		InviteeID:   *body.InviteeID,
		Date:        *body.Date,
	}
	if body.Location != nil {
		meeting.Location = strings.TrimSpace(*body.Location)
	}
	if body.Notes != nil {
		meeting.Notes = strings.TrimSpace(*body.Notes)
	}

	if errCreate := h.db.WithContext(c.Request.Context()).Create(&meeting).Error; errCreate != nil {
		log.WithError(errCreate).Error("create one-to-one failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, meeting)
}

// Get returns one meeting with both participants preloaded.
func (h *OneToOneHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var meeting models.OneToOne
	errFind := h.db.WithContext(c.Request.Context()).
		Preload("Initiator").
		Preload("Invitee").
		First(&meeting, id).Error
	if errFind != nil {
		if errFind == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "one-to-one not found"})
			return
		}
		log.WithError(errFind).Error("load one-to-one failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, meeting)
}

// List returns meetings, optionally filtered to one participant via the
// member_id query parameter (either side of the meeting).
func (h *OneToOneHandler) List(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Model(&models.OneToOne{})
	if raw := c.Query("member_id"); raw != "" {
		id, ok := parseUint(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member_id"})
			return
		}
		query = query.Where("initiator_id = ? OR invitee_id = ?", id, id)
	}

	var rows []models.OneToOne
	if errFind := query.Order("date DESC").Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list one-to-ones failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Update edits date, location or notes. Participants are fixed once the
// meeting is recorded.
func (h *OneToOneHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body oneToOneRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.InitiatorID != nil || body.InviteeID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "participants cannot change"})
		return
	}

	var meeting models.OneToOne
	if !firstOrNotFound(c, h.db, &meeting, id, "one-to-one") {
		return
	}
	if body.Date != nil {
		meeting.Date = *body.Date
	}
	if body.Location != nil {
		meeting.Location = strings.TrimSpace(*body.Location)
	}
	if body.Notes != nil {
		meeting.Notes = strings.TrimSpace(*body.Notes)
	}

	if errSave := h.db.WithContext(c.Request.Context()).Save(&meeting).Error; errSave != nil {
		log.WithError(errSave).Error("update one-to-one failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, meeting)
}

// Delete removes a meeting record.
func (h *OneToOneHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var meeting models.OneToOne
	if !firstOrNotFound(c, h.db, &meeting, id, "one-to-one") {
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&meeting).Error; errDelete != nil {
		log.WithError(errDelete).Error("delete one-to-one failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
