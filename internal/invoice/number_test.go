package invoice

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/chapterworks/memberdesk/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupInvoiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:invoice_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.AutoMigrate(&models.Membership{}); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return db
}

func seedMembership(t *testing.T, db *gorm.DB, invoiceNumber string, invoiceDate time.Time) {
	t.Helper()
	row := models.Membership{
		MemberID:         1,
		PackageID:        1,
		InvoiceNumber:    invoiceNumber,
		InvoiceDate:      invoiceDate,
		PackageStartDate: invoiceDate,
		PackageEndDate:   invoiceDate.AddDate(1, 0, 0),
		BasicFees:        100,
		TotalFees:        100,
		IsActive:         true,
	}
	if errCreate := db.Create(&row).Error; errCreate != nil {
		t.Fatalf("seed membership %s: %v", invoiceNumber, errCreate)
	}
}

func TestNextNumberFirstOfYear(t *testing.T) {
	t.Parallel()

	db := setupInvoiceTestDB(t)
	date := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)

	got, errNext := NextNumber(context.Background(), db, date)
	if errNext != nil {
		t.Fatalf("NextNumber: %v", errNext)
	}
	if got != "2324-00001" {
		t.Fatalf("NextNumber = %q, want %q", got, "2324-00001")
	}
}

func TestNextNumberIncrementsHighestSequence(t *testing.T) {
	t.Parallel()

	db := setupInvoiceTestDB(t)
	date := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	seedMembership(t, db, "2324-00001", date)
	seedMembership(t, db, "2324-00007", date)
	seedMembership(t, db, "2324-00003", date)

	got, errNext := NextNumber(context.Background(), db, date)
	if errNext != nil {
		t.Fatalf("NextNumber: %v", errNext)
	}
	if got != "2324-00008" {
		t.Fatalf("NextNumber = %q, want %q", got, "2324-00008")
	}
}

func TestNextNumberScopedToFinancialYear(t *testing.T) {
	t.Parallel()

	db := setupInvoiceTestDB(t)
	prevYear := time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC)
	seedMembership(t, db, "2223-00042", prevYear)

	got, errNext := NextNumber(context.Background(), db, time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC))
	if errNext != nil {
		t.Fatalf("NextNumber: %v", errNext)
	}
	if got != "2324-00001" {
		t.Fatalf("NextNumber = %q, want %q", got, "2324-00001")
	}
}

func TestNextNumberIgnoresMalformedSuffixes(t *testing.T) {
	t.Parallel()

	db := setupInvoiceTestDB(t)
	date := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	seedMembership(t, db, "2324-LEGACY", date)
	seedMembership(t, db, "2324-00002", date)

	got, errNext := NextNumber(context.Background(), db, date)
	if errNext != nil {
		t.Fatalf("NextNumber: %v", errNext)
	}
	if got != "2324-00003" {
		t.Fatalf("NextNumber = %q, want %q", got, "2324-00003")
	}
}

func TestNextNumberSequential(t *testing.T) {
	t.Parallel()

	db := setupInvoiceTestDB(t)
	date := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)

	for i, want := range []string{"2425-00001", "2425-00002", "2425-00003"} {
		got, errNext := NextNumber(context.Background(), db, date)
		if errNext != nil {
			t.Fatalf("NextNumber #%d: %v", i+1, errNext)
		}
		if got != want {
			t.Fatalf("NextNumber #%d = %q, want %q", i+1, got, want)
		}
		seedMembership(t, db, got, date)
	}
}
