// Package invoice generates financial-year-scoped invoice numbers and
// renders invoice documents.
package invoice

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chapterworks/memberdesk/internal/fiscal"
	"gorm.io/gorm"
)

// sequenceWidth is the zero-padded width of the per-year sequence.
const sequenceWidth = 5

// NextNumber returns the next invoice number for the financial year of
// invoiceDate, formatted as "<fyCode>-<sequence>" with a five-digit
// zero-padded sequence, e.g. "2324-00001".
//
// The scan-then-increment is not atomic: two concurrent creations in the
// same financial year can compute the same sequence, in which case the
// unique index on invoice_number rejects the second insert. That conflict
// is surfaced to the caller; no retry is attempted.
func NextNumber(ctx context.Context, db *gorm.DB, invoiceDate time.Time) (string, error) {
	code := fiscal.YearCode(invoiceDate)
	prefix := code + "-"

	var existing []string
	if errFind := db.WithContext(ctx).
		Table("memberships").
		Where("invoice_number LIKE ?", prefix+"%").
		Pluck("invoice_number", &existing).Error; errFind != nil {
		return "", fmt.Errorf("invoice: scan existing numbers: %w", errFind)
	}

	max := 0
	for _, number := range existing {
		suffix := strings.TrimPrefix(number, prefix)
		seq, errParse := strconv.Atoi(suffix)
		if errParse != nil {
			continue
		}
		if seq > max {
			max = seq
		}
	}

	return fmt.Sprintf("%s-%0*d", code, sequenceWidth, max+1), nil
}
