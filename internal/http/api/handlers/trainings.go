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

// TrainingHandler manages training events and their attendance records.
type TrainingHandler struct {
	db *gorm.DB // Database handle.
}

// NewTrainingHandler wires a training handler with its database dependency.
func NewTrainingHandler(db *gorm.DB) *TrainingHandler {
	return &TrainingHandler{db: db}
}

type trainingRequest struct {
	Title    *string    `json:"title"`
	Date     *time.Time `json:"date"`
	Venue    *string    `json:"venue"`
	Fees     *float64   `json:"fees"`
	IsActive *bool      `json:"is_active"`
}

// Create validates input and persists a training event.
func (h *TrainingHandler) Create(c *gin.Context) {
	var body trainingRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Title == nil || strings.TrimSpace(*body.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing title"})
		return
	}
	if body.Date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing date"})
		return
	}
	if body.Fees != nil && *body.Fees < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fees cannot be negative"})
		return
	}

	training := models.Training{
		Title:    strings.TrimSpace(*body.Title),
		Date:     *body.Date,
		IsActive: true,
	}
	if body.Venue != nil {
		training.Venue = strings.TrimSpace(*body.Venue)
	}
	if body.Fees != nil {
		training.Fees = *body.Fees
	}
	if body.IsActive != nil {
		training.IsActive = *body.IsActive
	}

	if errCreate := h.db.WithContext(c.Request.Context()).Create(&training).Error; errCreate != nil {
		log.WithError(errCreate).Error("create training failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, training)
}

// Get returns one training event.
func (h *TrainingHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var training models.Training
	if !firstOrNotFound(c, h.db, &training, id, "training") {
		return
	}
	c.JSON(http.StatusOK, training)
}

// List returns all training events, newest first.
func (h *TrainingHandler) List(c *gin.Context) {
	var rows []models.Training
	if errFind := h.db.WithContext(c.Request.Context()).
		Order("date DESC").
		Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list trainings failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Update edits a training event.
func (h *TrainingHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body trainingRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var training models.Training
	if !firstOrNotFound(c, h.db, &training, id, "training") {
		return
	}
	if body.Title != nil {
		trimmed := strings.TrimSpace(*body.Title)
		if trimmed == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
			return
		}
		training.Title = trimmed
	}
	if body.Date != nil {
		training.Date = *body.Date
	}
	if body.Venue != nil {
		training.Venue = strings.TrimSpace(*body.Venue)
	}
	if body.Fees != nil {
		if *body.Fees < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fees cannot be negative"})
			return
		}
		training.Fees = *body.Fees
	}
	if body.IsActive != nil {
		training.IsActive = *body.IsActive
	}

	if errSave := h.db.WithContext(c.Request.Context()).Save(&training).Error; errSave != nil {
		log.WithError(errSave).Error("update training failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, training)
}

type attendanceRequest struct {
	MemberID *uint64 `json:"member_id"`
	FeesPaid *bool   `json:"fees_paid"`
}

// RecordAttendance registers a member for a training. Re-registering the
// same member answers 409 through the composite unique index.
func (h *TrainingHandler) RecordAttendance(c *gin.Context) {
	trainingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body attendanceRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.MemberID == nil || *body.MemberID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing member_id"})
		return
	}

	var training models.Training
	if !firstOrNotFound(c, h.db, &training, trainingID, "training") {
		return
	}
	if !training.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "training registrations are closed"})
		return
	}
	var member models.Member
	if !firstOrNotFound(c, h.db, &member, *body.MemberID, "member") {
		return
	}

	attendance := models.TrainingAttendance{
		TrainingID: trainingID,
		MemberID:   *body.MemberID,
	}
	if body.FeesPaid != nil {
		attendance.FeesPaid = *body.FeesPaid
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&attendance).Error; errCreate != nil {
		if isUniqueViolation(errCreate) {
			c.JSON(http.StatusConflict, gin.H{"error": "member already registered for this training"})
			return
		}
		log.WithError(errCreate).Error("record training attendance failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, attendance)
}

// ListAttendance returns the attendance roll of one training.
func (h *TrainingHandler) ListAttendance(c *gin.Context) {
	trainingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var training models.Training
	if !firstOrNotFound(c, h.db, &training, trainingID, "training") {
		return
	}
	var rows []models.TrainingAttendance
	if errFind := h.db.WithContext(c.Request.Context()).
		Preload("Member").
		Where("training_id = ?", trainingID).
		Order("id ASC").
		Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list training attendance failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
