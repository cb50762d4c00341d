package handlers

import (
	"net/http"
	"time"

	"github.com/chapterworks/memberdesk/internal/membership"
	"github.com/chapterworks/memberdesk/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MembershipHandler exposes membership purchases over HTTP.
type MembershipHandler struct {
	db     *gorm.DB           // Database handle for read paths.
	engine *membership.Engine // Lifecycle engine for mutations.
}

// NewMembershipHandler wires a membership handler with its dependencies.
func NewMembershipHandler(db *gorm.DB, engine *membership.Engine) *MembershipHandler {
	return &MembershipHandler{db: db, engine: engine}
}

// createMembershipRequest captures the payload for a package purchase.
type createMembershipRequest struct {
	MemberID         uint64         `json:"member_id"`          // Purchasing member.
	PackageID        uint64         `json:"package_id"`         // Purchased plan.
	InvoiceDate      time.Time      `json:"invoice_date"`       // Invoice issue date.
	PackageStartDate *time.Time     `json:"package_start_date"` // Optional explicit coverage start.
	BasicFees        float64        `json:"basic_fees"`         // Fees before tax.
	CGSTRate         *float64       `json:"cgst_rate"`          // Optional CGST percentage.
	SGSTRate         *float64       `json:"sgst_rate"`          // Optional SGST percentage.
	IGSTRate         *float64       `json:"igst_rate"`          // Optional IGST percentage.
	PaymentDetail    datatypes.JSON `json:"payment_detail"`     // Optional payment metadata.
}

// Create validates input and runs the purchase through the lifecycle
// engine.
func (h *MembershipHandler) Create(c *gin.Context) {
	var body createMembershipRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.MemberID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing member_id"})
		return
	}
	if body.PackageID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing package_id"})
		return
	}
	if body.InvoiceDate.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing invoice_date"})
		return
	}

	row, errCreate := h.engine.Create(c.Request.Context(), membership.CreateParams{
		MemberID:         body.MemberID,
		PackageID:        body.PackageID,
		InvoiceDate:      body.InvoiceDate,
		PackageStartDate: body.PackageStartDate,
		BasicFees:        body.BasicFees,
		CGSTRate:         body.CGSTRate,
		SGSTRate:         body.SGSTRate,
		IGSTRate:         body.IGSTRate,
		PaymentDetail:    body.PaymentDetail,
	})
	if errCreate != nil {
		writeDomainError(c, errCreate)
		return
	}
	c.JSON(http.StatusCreated, row)
}

// updateMembershipRequest captures the restricted mutable field set.
type updateMembershipRequest struct {
	BasicFees     *float64       `json:"basic_fees"`
	CGSTRate      *float64       `json:"cgst_rate"`
	SGSTRate      *float64       `json:"sgst_rate"`
	IGSTRate      *float64       `json:"igst_rate"`
	PaymentDetail datatypes.JSON `json:"payment_detail"`
	IsActive      *bool          `json:"is_active"`
}

// Update applies a partial update through the lifecycle engine.
func (h *MembershipHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body updateMembershipRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	row, errUpdate := h.engine.Update(c.Request.Context(), id, membership.UpdateParams{
		BasicFees:     body.BasicFees,
		CGSTRate:      body.CGSTRate,
		SGSTRate:      body.SGSTRate,
		IGSTRate:      body.IGSTRate,
		PaymentDetail: body.PaymentDetail,
		IsActive:      body.IsActive,
	})
	if errUpdate != nil {
		writeDomainError(c, errUpdate)
		return
	}
	c.JSON(http.StatusOK, row)
}

// Delete removes a purchase and rolls the member's expiry back.
func (h *MembershipHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if errDelete := h.engine.Delete(c.Request.Context(), id); errDelete != nil {
		writeDomainError(c, errDelete)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "membership deleted"})
}

// Get returns one membership with its member and package.
func (h *MembershipHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var row models.Membership
	if errFind := h.db.WithContext(c.Request.Context()).
		Preload("Member").
		Preload("Package").
		First(&row, id).Error; errFind != nil {
		writeDomainError(c, membership.ErrMembershipNotFound)
		return
	}
	c.JSON(http.StatusOK, row)
}

// List returns memberships, newest invoice first.
func (h *MembershipHandler) List(c *gin.Context) {
	var rows []models.Membership
	if errFind := h.db.WithContext(c.Request.Context()).
		Preload("Package").
		Order("invoice_date DESC, id DESC").
		Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list memberships failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ListByMember returns one member's purchase history.
func (h *MembershipHandler) ListByMember(c *gin.Context) {
	memberID, ok := pathID(c, "memberId")
	if !ok {
		return
	}
	var member models.Member
	if !firstOrNotFound(c, h.db, &member, memberID, "member") {
		return
	}

	var rows []models.Membership
	if errFind := h.db.WithContext(c.Request.Context()).
		Preload("Package").
		Where("member_id = ?", memberID).
		Order("invoice_date DESC, id DESC").
		Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list member memberships failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
