// Package handlers implements the HTTP surface of the API.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/chapterworks/memberdesk/internal/ledger"
	"github.com/chapterworks/memberdesk/internal/membership"
	"github.com/chapterworks/memberdesk/internal/roles"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// pathID parses a numeric path parameter, writing a 400 response when it
// is malformed.
func pathID(c *gin.Context, name string) (uint64, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, errParse := strconv.ParseUint(raw, 10, 64)
	if errParse != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// parseUint parses a positive numeric identifier.
func parseUint(raw string) (uint64, bool) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if errParse != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// isUniqueViolation reports whether an error is a database uniqueness
// conflict. The invoice-number race surfaces here: no retry, the caller
// gets a conflict response.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// writeDomainError maps engine and balancer errors onto the client-facing
// taxonomy. Anything unclassified is logged and answered with a generic
// 500.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, membership.ErrMemberNotFound),
		errors.Is(err, membership.ErrPackageNotFound),
		errors.Is(err, membership.ErrMembershipNotFound),
		errors.Is(err, ledger.ErrChapterNotFound),
		errors.Is(err, ledger.ErrTransactionNotFound),
		errors.Is(err, roles.ErrMemberNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, membership.ErrInvalidInput),
		errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, ledger.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrAgedTransaction):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case isUniqueViolation(err):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate value for a unique field (invoice_number)"})
	default:
		log.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// firstOrNotFound loads one record by primary key, answering 404 when it
// does not exist and 500 on other failures. Reports whether the caller
// should continue.
func firstOrNotFound(c *gin.Context, db *gorm.DB, dest interface{}, id uint64, label string) bool {
	errFind := db.WithContext(c.Request.Context()).First(dest, id).Error
	if errFind == nil {
		return true
	}
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": label + " not found"})
		return false
	}
	log.WithError(errFind).Errorf("load %s failed", label)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	return false
}
