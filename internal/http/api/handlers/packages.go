package handlers

import (
	"net/http"
	"strings"

	"github.com/chapterworks/memberdesk/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PackageHandler exposes plan reference data administration.
type PackageHandler struct {
	db *gorm.DB // Database handle.
}

// NewPackageHandler wires a package handler with its database dependency.
func NewPackageHandler(db *gorm.DB) *PackageHandler {
	return &PackageHandler{db: db}
}

// packageRequest captures the plan payload for create and update.
type packageRequest struct {
	Name         *string  `json:"name"`
	PeriodMonths *int     `json:"period_months"` // Informational; expiry snaps to FY end.
	IsVenueFee   *bool    `json:"is_venue_fee"`
	HSNCode      *string  `json:"hsn_code"`
	DefaultFees  *float64 `json:"default_fees"`
	IsActive     *bool    `json:"is_active"`
}

// Create validates input and persists a plan.
func (h *PackageHandler) Create(c *gin.Context) {
	var body packageRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}
	if body.PeriodMonths != nil && *body.PeriodMonths <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period_months must be positive"})
		return
	}
	if body.DefaultFees != nil && *body.DefaultFees < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "default_fees cannot be negative"})
		return
	}

	pkg := models.Package{
		Name:         strings.TrimSpace(*body.Name),
		PeriodMonths: 12,
		IsActive:     true,
	}
	if body.PeriodMonths != nil {
		pkg.PeriodMonths = *body.PeriodMonths
	}
	if body.IsVenueFee != nil {
		pkg.IsVenueFee = *body.IsVenueFee
	}
	if body.HSNCode != nil {
		pkg.HSNCode = strings.TrimSpace(*body.HSNCode)
	}
	if body.DefaultFees != nil {
		pkg.DefaultFees = *body.DefaultFees
	}
	if body.IsActive != nil {
		pkg.IsActive = *body.IsActive
	}

	if errCreate := h.db.WithContext(c.Request.Context()).Create(&pkg).Error; errCreate != nil {
		if isUniqueViolation(errCreate) {
			c.JSON(http.StatusConflict, gin.H{"error": "duplicate value for a unique field (name)"})
			return
		}
		log.WithError(errCreate).Error("create package failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, pkg)
}

// Get returns one plan.
func (h *PackageHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var pkg models.Package
	if !firstOrNotFound(c, h.db, &pkg, id, "package") {
		return
	}
	c.JSON(http.StatusOK, pkg)
}

// List returns all plans.
func (h *PackageHandler) List(c *gin.Context) {
	var rows []models.Package
	if errFind := h.db.WithContext(c.Request.Context()).
		Order("name ASC").
		Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list packages failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Update edits a plan. IsVenueFee is immutable once any membership
// references the plan: flipping it would silently re-route future expiry
// updates to the other track.
func (h *PackageHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body packageRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var pkg models.Package
	if !firstOrNotFound(c, h.db, &pkg, id, "package") {
		return
	}

	if body.IsVenueFee != nil && *body.IsVenueFee != pkg.IsVenueFee {
		var used int64
		if errCount := h.db.WithContext(c.Request.Context()).
			Model(&models.Membership{}).
			Where("package_id = ?", id).
			Count(&used).Error; errCount != nil {
			log.WithError(errCount).Error("count package usage failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if used > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "is_venue_fee cannot change once the package is purchased"})
			return
		}
		pkg.IsVenueFee = *body.IsVenueFee
	}
	if body.Name != nil {
		trimmed := strings.TrimSpace(*body.Name)
		if trimmed == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
			return
		}
		pkg.Name = trimmed
	}
	if body.PeriodMonths != nil {
		if *body.PeriodMonths <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "period_months must be positive"})
			return
		}
		pkg.PeriodMonths = *body.PeriodMonths
	}
	if body.HSNCode != nil {
		pkg.HSNCode = strings.TrimSpace(*body.HSNCode)
	}
	if body.DefaultFees != nil {
		if *body.DefaultFees < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "default_fees cannot be negative"})
			return
		}
		pkg.DefaultFees = *body.DefaultFees
	}
	if body.IsActive != nil {
		pkg.IsActive = *body.IsActive
	}

	if errSave := h.db.WithContext(c.Request.Context()).Save(&pkg).Error; errSave != nil {
		log.WithError(errSave).Error("update package failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, pkg)
}
