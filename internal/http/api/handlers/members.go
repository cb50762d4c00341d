package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	dbutil "github.com/chapterworks/memberdesk/internal/db"
	"github.com/chapterworks/memberdesk/internal/membership"
	"github.com/chapterworks/memberdesk/internal/models"
	"github.com/chapterworks/memberdesk/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MemberHandler exposes member enrollment and directory operations.
type MemberHandler struct {
	db *gorm.DB // Database handle.
}

// NewMemberHandler wires a member handler with its database dependency.
func NewMemberHandler(db *gorm.DB) *MemberHandler {
	return &MemberHandler{db: db}
}

// createMemberRequest captures the enrollment payload. When an email and
// password are supplied, a linked login account is created alongside.
type createMemberRequest struct {
	ChapterID   uint64     `json:"chapter_id"`   // Home chapter.
	FirstName   string     `json:"first_name"`   // Given name.
	LastName    string     `json:"last_name"`    // Family name.
	CompanyName string     `json:"company_name"` // Represented business.
	Category    string     `json:"category"`     // Business category slot.
	Phone       string     `json:"phone"`        // Contact number.
	Email       string     `json:"email"`        // Contact/login email.
	Password    string     `json:"password"`     // Login password; requires email.
	JoinedAt    *time.Time `json:"joined_at"`    // Enrollment date, defaults to now.
}

// Create enrolls a member, optionally creating the linked user account in
// the same transaction.
func (h *MemberHandler) Create(c *gin.Context) {
	var body createMemberRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	firstName := strings.TrimSpace(body.FirstName)
	if firstName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing first_name"})
		return
	}
	if body.ChapterID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing chapter_id"})
		return
	}
	email := strings.TrimSpace(strings.ToLower(body.Email))
	password := strings.TrimSpace(body.Password)
	if password != "" && email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password requires email"})
		return
	}

	var chapter models.Chapter
	if !firstOrNotFound(c, h.db, &chapter, body.ChapterID, "chapter") {
		return
	}

	joined := time.Now().UTC()
	if body.JoinedAt != nil {
		joined = *body.JoinedAt
	}
	member := models.Member{
		UID:         uuid.New(),
		ChapterID:   chapter.ID,
		FirstName:   firstName,
		LastName:    strings.TrimSpace(body.LastName),
		CompanyName: strings.TrimSpace(body.CompanyName),
		Category:    strings.TrimSpace(body.Category),
		Phone:       strings.TrimSpace(body.Phone),
		Email:       email,
		JoinedAt:    &joined,
	}

	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if email != "" && password != "" {
			hash, errHash := security.HashPassword(password)
			if errHash != nil {
				return errHash
			}
			user := models.User{
				Email:        email,
				PasswordHash: hash,
				DisplayName:  strings.TrimSpace(firstName + " " + member.LastName),
				// New accounts start inactive; the activation policy
				// flips them once both fee tracks are purchased.
				IsActive: false,
			}
			if errUser := tx.Create(&user).Error; errUser != nil {
				return errUser
			}
			member.UserID = &user.ID
		}
		return tx.Create(&member).Error
	})
	if errTx != nil {
		if errors.Is(errTx, security.ErrPasswordTooShort) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
			return
		}
		if isUniqueViolation(errTx) {
			c.JSON(http.StatusConflict, gin.H{"error": "duplicate value for a unique field (email)"})
			return
		}
		log.WithError(errTx).Error("create member failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, member)
}

// Get returns one member. The activation status is re-derived in the
// background; the response may not reflect it yet.
func (h *MemberHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var member models.Member
	if errFind := h.db.WithContext(c.Request.Context()).
		Preload("Chapter").
		Preload("User").
		First(&member, id).Error; errFind != nil {
		writeDomainError(c, membership.ErrMemberNotFound)
		return
	}

	go membership.RecomputeActivationBestEffort(context.Background(), h.db, member.ID)

	c.JSON(http.StatusOK, member)
}

// List returns members, optionally filtered by chapter and a
// case-insensitive name/company search.
func (h *MemberHandler) List(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Model(&models.Member{}).Preload("Chapter")

	if raw := strings.TrimSpace(c.Query("chapter_id")); raw != "" {
		chapterID, ok := pathIDFromQuery(c, raw, "chapter_id")
		if !ok {
			return
		}
		query = query.Where("chapter_id = ?", chapterID)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+q+"%")
		query = query.Where(
			h.db.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "first_name"), pattern).
				Or(dbutil.CaseInsensitiveLikeExpr(h.db, "last_name"), pattern).
				Or(dbutil.CaseInsensitiveLikeExpr(h.db, "company_name"), pattern),
		)
	}

	var rows []models.Member
	if errFind := query.Order("first_name ASC, id ASC").Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list members failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// updateMemberRequest captures the directly editable member fields.
// Expiry dates are deliberately absent: only the lifecycle engine moves
// them.
type updateMemberRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	CompanyName *string `json:"company_name"`
	Category    *string `json:"category"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
}

// Update edits the member's directory fields.
func (h *MemberHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body updateMemberRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var member models.Member
	if !firstOrNotFound(c, h.db, &member, id, "member") {
		return
	}

	if body.FirstName != nil {
		trimmed := strings.TrimSpace(*body.FirstName)
		if trimmed == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "first_name cannot be empty"})
			return
		}
		member.FirstName = trimmed
	}
	if body.LastName != nil {
		member.LastName = strings.TrimSpace(*body.LastName)
	}
	if body.CompanyName != nil {
		member.CompanyName = strings.TrimSpace(*body.CompanyName)
	}
	if body.Category != nil {
		member.Category = strings.TrimSpace(*body.Category)
	}
	if body.Phone != nil {
		member.Phone = strings.TrimSpace(*body.Phone)
	}
	if body.Email != nil {
		member.Email = strings.TrimSpace(strings.ToLower(*body.Email))
	}

	if errSave := h.db.WithContext(c.Request.Context()).Save(&member).Error; errSave != nil {
		log.WithError(errSave).Error("update member failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, member)
}

// Delete removes a member as an aggregate root: memberships, role
// assignments, meetings, referrals, training attendance and the linked
// user account all go in one transaction, so a new related entity type
// missed here fails loudly via foreign keys instead of leaking rows.
func (h *MemberHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var member models.Member
	if !firstOrNotFound(c, h.db, &member, id, "member") {
		return
	}

	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if errDel := tx.Where("member_id = ?", id).Delete(&models.Membership{}).Error; errDel != nil {
			return errDel
		}
		if errDel := tx.Where("member_id = ?", id).Delete(&models.RoleAssignment{}).Error; errDel != nil {
			return errDel
		}
		if errDel := tx.Where("initiator_id = ? OR invitee_id = ?", id, id).Delete(&models.OneToOne{}).Error; errDel != nil {
			return errDel
		}
		if errDel := tx.Where("giver_id = ? OR receiver_id = ?", id, id).Delete(&models.Referral{}).Error; errDel != nil {
			return errDel
		}
		if errDel := tx.Where("member_id = ?", id).Delete(&models.TrainingAttendance{}).Error; errDel != nil {
			return errDel
		}
		if errDel := tx.Model(&models.Visitor{}).
			Where("invited_by_id = ?", id).
			Update("invited_by_id", nil).Error; errDel != nil {
			return errDel
		}
		if errDel := tx.Delete(&models.Member{}, id).Error; errDel != nil {
			return errDel
		}
		if member.UserID != nil {
			return tx.Delete(&models.User{}, *member.UserID).Error
		}
		return nil
	})
	if errTx != nil {
		log.WithError(errTx).Error("delete member failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member deleted"})
}

// pathIDFromQuery parses a numeric query value, writing a 400 response
// when it is malformed.
func pathIDFromQuery(c *gin.Context, raw, name string) (uint64, bool) {
	id, ok := parseUint(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
