package handlers

import (
	"net/http"
	"strings"

	"github.com/chapterworks/memberdesk/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ZoneHandler exposes zone administration over HTTP.
type ZoneHandler struct {
	db *gorm.DB // Database handle.
}

// NewZoneHandler wires a zone handler with its database dependency.
func NewZoneHandler(db *gorm.DB) *ZoneHandler {
	return &ZoneHandler{db: db}
}

// zoneRequest captures the zone payload for create and update.
type zoneRequest struct {
	Name     *string `json:"name"`
	City     *string `json:"city"`
	IsActive *bool   `json:"is_active"`
}

// Create validates input and persists a zone.
func (h *ZoneHandler) Create(c *gin.Context) {
	var body zoneRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}

	zone := models.Zone{Name: strings.TrimSpace(*body.Name), IsActive: true}
	if body.City != nil {
		zone.City = strings.TrimSpace(*body.City)
	}
	if body.IsActive != nil {
		zone.IsActive = *body.IsActive
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&zone).Error; errCreate != nil {
		if isUniqueViolation(errCreate) {
			c.JSON(http.StatusConflict, gin.H{"error": "duplicate value for a unique field (name)"})
			return
		}
		log.WithError(errCreate).Error("create zone failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, zone)
}

// Get returns one zone.
func (h *ZoneHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var zone models.Zone
	if !firstOrNotFound(c, h.db, &zone, id, "zone") {
		return
	}
	c.JSON(http.StatusOK, zone)
}

// List returns all zones.
func (h *ZoneHandler) List(c *gin.Context) {
	var rows []models.Zone
	if errFind := h.db.WithContext(c.Request.Context()).
		Order("name ASC").
		Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list zones failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Update edits a zone.
func (h *ZoneHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body zoneRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var zone models.Zone
	if !firstOrNotFound(c, h.db, &zone, id, "zone") {
		return
	}
	if body.Name != nil {
		trimmed := strings.TrimSpace(*body.Name)
		if trimmed == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
			return
		}
		zone.Name = trimmed
	}
	if body.City != nil {
		zone.City = strings.TrimSpace(*body.City)
	}
	if body.IsActive != nil {
		zone.IsActive = *body.IsActive
	}

	if errSave := h.db.WithContext(c.Request.Context()).Save(&zone).Error; errSave != nil {
		log.WithError(errSave).Error("update zone failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, zone)
}

// Delete removes a zone without chapters.
func (h *ZoneHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var zone models.Zone
	if !firstOrNotFound(c, h.db, &zone, id, "zone") {
		return
	}

	var chapterCount int64
	if errCount := h.db.WithContext(c.Request.Context()).
		Model(&models.Chapter{}).
		Where("zone_id = ?", id).
		Count(&chapterCount).Error; errCount != nil {
		log.WithError(errCount).Error("count zone chapters failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if chapterCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "zone still has chapters"})
		return
	}

	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&models.Zone{}, id).Error; errDelete != nil {
		log.WithError(errDelete).Error("delete zone failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "zone deleted"})
}
