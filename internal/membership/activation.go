package membership

import (
	"context"
	"errors"
	"time"

	"github.com/chapterworks/memberdesk/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DeriveActiveStatus computes a member's activation status from the two
// expiry tracks. A member is active only when BOTH expiry dates are set
// AND at least one of them lies in the future. A missing date on either
// track makes the member inactive regardless of the other. The "both set,
// either future" asymmetry is deliberate: a member who never bought one
// of the two fee tracks is not considered enrolled.
func DeriveActiveStatus(m *models.Member, now time.Time) bool {
	if m == nil || m.HOExpiryDate == nil || m.VenueExpiryDate == nil {
		return false
	}
	return m.HOExpiryDate.After(now) || m.VenueExpiryDate.After(now)
}

// RecomputeActivation re-derives the member's activation status and, when
// it changed, persists it on the member row and the linked user account.
// Write paths await this call; read paths go through
// RecomputeActivationBestEffort instead.
func RecomputeActivation(ctx context.Context, db *gorm.DB, memberID uint64) error {
	var member models.Member
	if errFind := db.WithContext(ctx).First(&member, memberID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return errFind
	}

	active := DeriveActiveStatus(&member, time.Now().UTC())
	if active == member.IsActive {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errMember := tx.Model(&models.Member{}).
			Where("id = ?", member.ID).
			Update("is_active", active).Error; errMember != nil {
			return errMember
		}
		if member.UserID == nil {
			return nil
		}
		return tx.Model(&models.User{}).
			Where("id = ?", *member.UserID).
			Update("is_active", active).Error
	})
}

// RecomputeActivationBestEffort runs the recomputation for a read path,
// logging failures instead of surfacing them.
func RecomputeActivationBestEffort(ctx context.Context, db *gorm.DB, memberID uint64) {
	if errRecompute := RecomputeActivation(ctx, db, memberID); errRecompute != nil {
		log.WithError(errRecompute).Warnf("activation recompute failed for member %d", memberID)
	}
}
