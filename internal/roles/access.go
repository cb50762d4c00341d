// Package roles resolves which chapters a member can administer based on
// the static role vocabulary.
package roles

import (
	"context"
	"errors"
	"sort"

	"github.com/chapterworks/memberdesk/internal/models"
	"gorm.io/gorm"
)

// ErrMemberNotFound is returned when the member does not exist.
var ErrMemberNotFound = errors.New("member not found")

// AccessibleChapterIDs returns the chapters a member may administer,
// sorted ascending. Zone-scoped roles grant every chapter of their zone,
// office-bearer roles grant their single chapter, and every member always
// sees their own home chapter.
func AccessibleChapterIDs(ctx context.Context, db *gorm.DB, memberID uint64) ([]uint64, error) {
	var member models.Member
	if errFind := db.WithContext(ctx).First(&member, memberID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, errFind
	}

	var assignments []models.RoleAssignment
	if errFind := db.WithContext(ctx).
		Where("member_id = ? AND is_active = ?", memberID, true).
		Find(&assignments).Error; errFind != nil {
		return nil, errFind
	}

	seen := map[uint64]struct{}{member.ChapterID: {}}
	var zoneIDs []uint64
	for _, assignment := range assignments {
		if !assignment.Role.Valid() {
			continue
		}
		switch {
		case assignment.Role.ZoneScoped() && assignment.ZoneID != nil:
			zoneIDs = append(zoneIDs, *assignment.ZoneID)
		case assignment.Role.OfficeBearer() && assignment.ChapterID != nil:
			seen[*assignment.ChapterID] = struct{}{}
		}
	}

	if len(zoneIDs) > 0 {
		var chapterIDs []uint64
		if errFind := db.WithContext(ctx).
			Model(&models.Chapter{}).
			Where("zone_id IN ?", zoneIDs).
			Pluck("id", &chapterIDs).Error; errFind != nil {
			return nil, errFind
		}
		for _, id := range chapterIDs {
			seen[id] = struct{}{}
		}
	}

	out := make([]uint64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
