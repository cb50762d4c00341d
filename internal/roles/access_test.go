package roles

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/chapterworks/memberdesk/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupRolesTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:roles_%s?mode=memory&cache=shared", uuid.NewString())
	db, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.AutoMigrate(
		&models.Zone{}, &models.Chapter{}, &models.Member{}, &models.RoleAssignment{},
	); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return db
}

func seedZoneWithChapters(t *testing.T, db *gorm.DB, chapters int) (*models.Zone, []models.Chapter) {
	t.Helper()
	zone := models.Zone{Name: "Zone " + uuid.NewString(), IsActive: true}
	if errCreate := db.Create(&zone).Error; errCreate != nil {
		t.Fatalf("seed zone: %v", errCreate)
	}
	out := make([]models.Chapter, 0, chapters)
	for i := 0; i < chapters; i++ {
		chapter := models.Chapter{ZoneID: zone.ID, Name: fmt.Sprintf("Chapter %d", i+1), IsActive: true}
		if errCreate := db.Create(&chapter).Error; errCreate != nil {
			t.Fatalf("seed chapter: %v", errCreate)
		}
		out = append(out, chapter)
	}
	return &zone, out
}

func seedRoleMember(t *testing.T, db *gorm.DB, chapterID uint64) *models.Member {
	t.Helper()
	member := models.Member{UID: uuid.New(), ChapterID: chapterID, FirstName: "Ravi"}
	if errCreate := db.Create(&member).Error; errCreate != nil {
		t.Fatalf("seed member: %v", errCreate)
	}
	return &member
}

func TestAccessiblePlainMemberSeesOwnChapter(t *testing.T) {
	t.Parallel()

	db := setupRolesTestDB(t)
	_, chapters := seedZoneWithChapters(t, db, 2)
	member := seedRoleMember(t, db, chapters[0].ID)

	got, errAccess := AccessibleChapterIDs(context.Background(), db, member.ID)
	if errAccess != nil {
		t.Fatalf("AccessibleChapterIDs: %v", errAccess)
	}
	if want := []uint64{chapters[0].ID}; !reflect.DeepEqual(got, want) {
		t.Fatalf("chapters = %v, want %v", got, want)
	}
}

func TestAccessibleOfficeBearerGainsScopedChapter(t *testing.T) {
	t.Parallel()

	db := setupRolesTestDB(t)
	_, chapters := seedZoneWithChapters(t, db, 3)
	member := seedRoleMember(t, db, chapters[0].ID)

	assignment := models.RoleAssignment{
		MemberID:  member.ID,
		Role:      models.RoleTreasurer,
		ChapterID: &chapters[1].ID,
		IsActive:  true,
	}
	if errCreate := db.Create(&assignment).Error; errCreate != nil {
		t.Fatalf("seed assignment: %v", errCreate)
	}

	got, errAccess := AccessibleChapterIDs(context.Background(), db, member.ID)
	if errAccess != nil {
		t.Fatalf("AccessibleChapterIDs: %v", errAccess)
	}
	if want := []uint64{chapters[0].ID, chapters[1].ID}; !reflect.DeepEqual(got, want) {
		t.Fatalf("chapters = %v, want %v", got, want)
	}
}

func TestAccessibleZoneRoleGrantsWholeZone(t *testing.T) {
	t.Parallel()

	db := setupRolesTestDB(t)
	zone, chapters := seedZoneWithChapters(t, db, 3)
	otherZone, otherChapters := seedZoneWithChapters(t, db, 1)
	_ = otherZone
	member := seedRoleMember(t, db, chapters[0].ID)

	assignment := models.RoleAssignment{
		MemberID: member.ID,
		Role:     models.RoleAreaDirector,
		ZoneID:   &zone.ID,
		IsActive: true,
	}
	if errCreate := db.Create(&assignment).Error; errCreate != nil {
		t.Fatalf("seed assignment: %v", errCreate)
	}

	got, errAccess := AccessibleChapterIDs(context.Background(), db, member.ID)
	if errAccess != nil {
		t.Fatalf("AccessibleChapterIDs: %v", errAccess)
	}
	want := []uint64{chapters[0].ID, chapters[1].ID, chapters[2].ID}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("chapters = %v, want %v", got, want)
	}
	for _, id := range got {
		if id == otherChapters[0].ID {
			t.Fatalf("zone role leaked into foreign zone chapter %d", id)
		}
	}
}

func TestAccessibleInactiveAssignmentIgnored(t *testing.T) {
	t.Parallel()

	db := setupRolesTestDB(t)
	_, chapters := seedZoneWithChapters(t, db, 2)
	member := seedRoleMember(t, db, chapters[0].ID)

	assignment := models.RoleAssignment{
		MemberID:  member.ID,
		Role:      models.RoleChapterHead,
		ChapterID: &chapters[1].ID,
		IsActive:  false,
	}
	if errCreate := db.Create(&assignment).Error; errCreate != nil {
		t.Fatalf("seed assignment: %v", errCreate)
	}

	got, errAccess := AccessibleChapterIDs(context.Background(), db, member.ID)
	if errAccess != nil {
		t.Fatalf("AccessibleChapterIDs: %v", errAccess)
	}
	if want := []uint64{chapters[0].ID}; !reflect.DeepEqual(got, want) {
		t.Fatalf("chapters = %v, want %v", got, want)
	}
}

func TestAccessibleMissingMember(t *testing.T) {
	t.Parallel()

	db := setupRolesTestDB(t)
	if _, errAccess := AccessibleChapterIDs(context.Background(), db, 12345); !errors.Is(errAccess, ErrMemberNotFound) {
		t.Fatalf("err = %v, want ErrMemberNotFound", errAccess)
	}
}
