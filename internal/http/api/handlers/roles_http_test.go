package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/chapterworks/memberdesk/internal/models"
)

func TestAssignZoneRoleAndResolveChapters(t *testing.T) {
	t.Parallel()

	db, router := setupHandlerTest(t)
	chapter, member := seedDirectory(t, db)

	sibling := models.Chapter{ZoneID: chapter.ZoneID, Name: "Second Chapter", IsActive: true}
	if errCreate := db.Create(&sibling).Error; errCreate != nil {
		t.Fatalf("seed sibling chapter: %v", errCreate)
	}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/roles", map[string]any{
		"member_id": member.ID,
		"role":      "areaDirector",
		"zone_id":   chapter.ZoneID,
	})
	wantStatus(t, rec, http.StatusCreated)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/roles/member/%d/chapters", member.ID), nil)
	wantStatus(t, rec, http.StatusOK)

	body := decodeBody(t, rec)
	ids := body["chapter_ids"].([]any)
	if len(ids) != 2 {
		t.Fatalf("chapter_ids = %v, want both chapters of the zone", ids)
	}
}

func TestAssignRoleRejectsWrongScope(t *testing.T) {
	t.Parallel()

	db, router := setupHandlerTest(t)
	chapter, member := seedDirectory(t, db)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/roles", map[string]any{
		"member_id":  member.ID,
		"role":       "areaDirector",
		"chapter_id": chapter.ID,
	})
	wantStatus(t, rec, http.StatusBadRequest)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/roles", map[string]any{
		"member_id": member.ID,
		"role":      "treasurer",
	})
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestTrainingAttendanceDuplicateConflict(t *testing.T) {
	t.Parallel()

	db, router := setupHandlerTest(t)
	_, member := seedDirectory(t, db)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/trainings", map[string]any{
		"title": "Networking Fundamentals",
		"date":  "2026-10-01T09:00:00Z",
		"venue": "City Hall",
	})
	wantStatus(t, rec, http.StatusCreated)
	trainingID := uint64(decodeBody(t, rec)["id"].(float64))

	payload := map[string]any{"member_id": member.ID}
	path := fmt.Sprintf("/api/v1/trainings/%d/attendance", trainingID)
	wantStatus(t, doJSON(t, router, http.MethodPost, path, payload), http.StatusCreated)
	wantStatus(t, doJSON(t, router, http.MethodPost, path, payload), http.StatusConflict)
}

func TestVisitorLifecycle(t *testing.T) {
	t.Parallel()

	db, router := setupHandlerTest(t)
	chapter, member := seedDirectory(t, db)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/visitors", map[string]any{
		"chapter_id":    chapter.ID,
		"invited_by_id": member.ID,
		"name":          "Guest One",
		"visit_date":    "2026-09-10T10:00:00Z",
	})
	wantStatus(t, rec, http.StatusCreated)
	visitorID := uint64(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/visitors/%d", visitorID), map[string]any{
		"company_name": "Guest Trading Co",
	})
	wantStatus(t, rec, http.StatusOK)

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/visitors/%d", visitorID), nil)
	wantStatus(t, rec, http.StatusOK)

	var count int64
	if errCount := db.Model(&models.Visitor{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count visitors: %v", errCount)
	}
	if count != 0 {
		t.Fatalf("visitors remaining = %d, want 0", count)
	}
}
