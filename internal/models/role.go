package models

import "time"

// RoleType is the static role vocabulary used for chapter and zone access
// resolution.
type RoleType string

// Role vocabulary. Zone-scoped roles see every chapter of their zone,
// chapter-scoped office bearers see their own chapter.
const (
	RoleAreaDirector RoleType = "areaDirector"
	RoleChapterHead  RoleType = "chapterHead"
	RoleSecretary    RoleType = "secretary"
	RoleTreasurer    RoleType = "treasurer"
	RoleMember       RoleType = "member"
)

// Valid reports whether the role type is part of the vocabulary.
func (r RoleType) Valid() bool {
	switch r {
	case RoleAreaDirector, RoleChapterHead, RoleSecretary, RoleTreasurer, RoleMember:
		return true
	}
	return false
}

// ZoneScoped reports whether the role grants zone-wide access.
func (r RoleType) ZoneScoped() bool {
	return r == RoleAreaDirector
}

// OfficeBearer reports whether the role is a chapter office-bearer role.
func (r RoleType) OfficeBearer() bool {
	return r == RoleChapterHead || r == RoleSecretary || r == RoleTreasurer
}

// RoleAssignment grants one member one role within a chapter or zone.
type RoleAssignment struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	MemberID uint64  `gorm:"not null;index" json:"member_id"` // Role holder.
	Member   *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`

	Role RoleType `gorm:"type:text;not null" json:"role"` // Role from the static vocabulary.

	ChapterID *uint64 `gorm:"index" json:"chapter_id,omitempty"` // Chapter scope for OB roles.
	ZoneID    *uint64 `gorm:"index" json:"zone_id,omitempty"`    // Zone scope for zone roles.

	IsActive bool `gorm:"not null;default:true" json:"is_active"` // Whether the assignment is in force.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"` // Last update timestamp.
}
