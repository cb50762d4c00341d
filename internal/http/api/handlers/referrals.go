package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/chapterworks/memberdesk/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReferralHandler records thank-you slips between members.
type ReferralHandler struct {
	db *gorm.DB // Database handle.
}

// NewReferralHandler wires a referral handler with its database dependency.
func NewReferralHandler(db *gorm.DB) *ReferralHandler {
	return &ReferralHandler{db: db}
}

type referralRequest struct {
	GiverID        *uint64    `json:"giver_id"`
	ReceiverID     *uint64    `json:"receiver_id"`
	Date           *time.Time `json:"date"`
	BusinessAmount *float64   `json:"business_amount"`
	Comments       *string    `json:"comments"`
}

// Create validates both members and records the slip.
func (h *ReferralHandler) Create(c *gin.Context) {
	var body referralRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.GiverID == nil || *body.GiverID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing giver_id"})
		return
	}
	if body.ReceiverID == nil || *body.ReceiverID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing receiver_id"})
		return
	}
	if *body.GiverID == *body.ReceiverID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "giver and receiver must differ"})
		return
	}
	if body.Date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing date"})
		return
	}
	if body.BusinessAmount != nil && *body.BusinessAmount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "business_amount cannot be negative"})
		return
	}

	var giver, receiver models.Member
	if !firstOrNotFound(c, h.db, &giver, *body.GiverID, "giver member") {
		return
	}
	if !firstOrNotFound(c, h.db, &receiver, *body.ReceiverID, "receiver member") {
		return
	}

	slip := models.Referral{
		GiverID:    *body.GiverID,
		ReceiverID: *body.ReceiverID,
		Date:       *body.Date,
	}
	if body.BusinessAmount != nil {
		slip.BusinessAmount = *body.BusinessAmount
	}
	if body.Comments != nil {
		slip.Comments = strings.TrimSpace(*body.Comments)
	}

	if errCreate := h.db.WithContext(c.Request.Context()).Create(&slip).Error; errCreate != nil {
		log.WithError(errCreate).Error("create referral failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, slip)
}

// Get returns one slip with both members preloaded.
func (h *ReferralHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var slip models.Referral
	errFind := h.db.WithContext(c.Request.Context()).
		Preload("Giver").
		Preload("Receiver").
		First(&slip, id).Error
	if errFind != nil {
		if errFind == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "referral not found"})
			return
		}
		log.WithError(errFind).Error("load referral failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, slip)
}

// List returns slips, filterable by giver_id or receiver_id, with the
// summed business amount of the result set.
func (h *ReferralHandler) List(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Model(&models.Referral{})
	if raw := c.Query("giver_id"); raw != "" {
		id, ok := parseUint(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid giver_id"})
			return
		}
		query = query.Where("giver_id = ?", id)
	}
	if raw := c.Query("receiver_id"); raw != "" {
		id, ok := parseUint(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid receiver_id"})
			return
		}
		query = query.Where("receiver_id = ?", id)
	}

	var rows []models.Referral
	if errFind := query.Order("date DESC").Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list referrals failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(decimal.NewFromFloat(row.BusinessAmount))
	}
	totalAmount, _ := total.Round(2).Float64()
	c.JSON(http.StatusOK, gin.H{
		"referrals":             rows,
		"total_business_amount": totalAmount,
	})
}

// Update edits date, amount or comments. Giver and receiver are fixed.
func (h *ReferralHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body referralRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.GiverID != nil || body.ReceiverID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "giver and receiver cannot change"})
		return
	}
	if body.BusinessAmount != nil && *body.BusinessAmount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "business_amount cannot be negative"})
		return
	}

	var slip models.Referral
	if !firstOrNotFound(c, h.db, &slip, id, "referral") {
		return
	}
	if body.Date != nil {
		slip.Date = *body.Date
	}
	if body.BusinessAmount != nil {
		slip.BusinessAmount = *body.BusinessAmount
	}
	if body.Comments != nil {
		slip.Comments = strings.TrimSpace(*body.Comments)
	}

	if errSave := h.db.WithContext(c.Request.Context()).Save(&slip).Error; errSave != nil {
		log.WithError(errSave).Error("update referral failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, slip)
}

// Delete removes a slip.
func (h *ReferralHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var slip models.Referral
	if !firstOrNotFound(c, h.db, &slip, id, "referral") {
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&slip).Error; errDelete != nil {
		log.WithError(errDelete).Error("delete referral failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
