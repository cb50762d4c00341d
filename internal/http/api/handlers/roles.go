package handlers

import (
	"net/http"

	"github.com/chapterworks/memberdesk/internal/models"
	"github.com/chapterworks/memberdesk/internal/roles"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RoleHandler manages role assignments and resolves role-based chapter
// visibility.
type RoleHandler struct {
	db *gorm.DB // Database handle.
}

// NewRoleHandler wires a role handler with its database dependency.
func NewRoleHandler(db *gorm.DB) *RoleHandler {
	return &RoleHandler{db: db}
}

type roleAssignmentRequest struct {
	MemberID  *uint64          `json:"member_id"`
	Role      *models.RoleType `json:"role"`
	ChapterID *uint64          `json:"chapter_id"`
	ZoneID    *uint64          `json:"zone_id"`
	IsActive  *bool            `json:"is_active"`
}

// validateScope enforces the scope rules of the role vocabulary: zone roles
// carry a zone, office-bearer roles carry a chapter, plain member roles carry
// neither.
func validateScope(role models.RoleType, chapterID, zoneID *uint64) string {
	switch {
	case role.ZoneScoped():
		if zoneID == nil {
			return "zone-scoped role requires zone_id"
		}
		if chapterID != nil {
			return "zone-scoped role must not carry chapter_id"
		}
	case role.OfficeBearer():
		if chapterID == nil {
			return "office-bearer role requires chapter_id"
		}
		if zoneID != nil {
			return "office-bearer role must not carry zone_id"
		}
	default:
		if chapterID != nil || zoneID != nil {
			return "member role carries no scope"
		}
	}
	return ""
}

// Create validates scope rules and persists a role assignment.
func (h *RoleHandler) Create(c *gin.Context) {
	var body roleAssignmentRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.MemberID == nil || *body.MemberID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing member_id"})
		return
	}
	if body.Role == nil || !body.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}
	if msg := validateScope(*body.Role, body.ChapterID, body.ZoneID); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	ctx := c.Request.Context()
	var member models.Member
	if !firstOrNotFound(c, h.db, &member, *body.MemberID, "member") {
		return
	}
	if body.ChapterID != nil {
		var chapter models.Chapter
		if !firstOrNotFound(c, h.db, &chapter, *body.ChapterID, "chapter") {
			return
		}
	}
	if body.ZoneID != nil {
		var zone models.Zone
		if !firstOrNotFound(c, h.db, &zone, *body.ZoneID, "zone") {
			return
		}
	}

	assignment := models.RoleAssignment{
		MemberID:  *body.MemberID,
		Role:      *body.Role,
		ChapterID: body.ChapterID,
		ZoneID:    body.ZoneID,
		IsActive:  true,
	}
	if body.IsActive != nil {
		assignment.IsActive = *body.IsActive
	}
	if errCreate := h.db.WithContext(ctx).Create(&assignment).Error; errCreate != nil {
		log.WithError(errCreate).Error("create role assignment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// Get returns one role assignment with its member preloaded.
func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var assignment models.RoleAssignment
	errFind := h.db.WithContext(c.Request.Context()).
		Preload("Member").
		First(&assignment, id).Error
	if errFind != nil {
		if errFind == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "role assignment not found"})
			return
		}
		log.WithError(errFind).Error("load role assignment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// List returns role assignments, optionally filtered by member_id or
// chapter_id query parameters.
func (h *RoleHandler) List(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Model(&models.RoleAssignment{})
	if raw := c.Query("member_id"); raw != "" {
		id, ok := parseUint(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member_id"})
			return
		}
		query = query.Where("member_id = ?", id)
	}
	if raw := c.Query("chapter_id"); raw != "" {
		id, ok := parseUint(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter_id"})
			return
		}
		query = query.Where("chapter_id = ?", id)
	}

	var rows []models.RoleAssignment
	if errFind := query.Order("id ASC").Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list role assignments failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Update toggles activity or re-scopes an assignment.
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body roleAssignmentRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var assignment models.RoleAssignment
	if !firstOrNotFound(c, h.db, &assignment, id, "role assignment") {
		return
	}

	if body.Role != nil {
		if !body.Role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}
		assignment.Role = *body.Role
	}
	if body.ChapterID != nil {
		assignment.ChapterID = body.ChapterID
	}
	if body.ZoneID != nil {
		assignment.ZoneID = body.ZoneID
	}
	if msg := validateScope(assignment.Role, assignment.ChapterID, assignment.ZoneID); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if body.IsActive != nil {
		assignment.IsActive = *body.IsActive
	}

	if errSave := h.db.WithContext(c.Request.Context()).Save(&assignment).Error; errSave != nil {
		log.WithError(errSave).Error("update role assignment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// Delete removes an assignment.
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var assignment models.RoleAssignment
	if !firstOrNotFound(c, h.db, &assignment, id, "role assignment") {
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&assignment).Error; errDelete != nil {
		log.WithError(errDelete).Error("delete role assignment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// AccessibleChapters resolves the chapter set a member may see through their
// own chapter plus active role scopes.
func (h *RoleHandler) AccessibleChapters(c *gin.Context) {
	memberID, ok := pathID(c, "memberId")
	if !ok {
		return
	}
	ids, errResolve := roles.AccessibleChapterIDs(c.Request.Context(), h.db, memberID)
	if errResolve != nil {
		writeDomainError(c, errResolve)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member_id": memberID, "chapter_ids": ids})
}
