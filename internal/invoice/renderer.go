package invoice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Document carries the fields printed on an invoice.
type Document struct {
	InvoiceNumber string    // Financial-year scoped number.
	InvoiceDate   time.Time // Issue date.
	MemberName    string    // Billed member.
	CompanyName   string    // Member's business name.
	PackageName   string    // Purchased plan.
	PeriodStart   time.Time // Coverage start.
	PeriodEnd     time.Time // Coverage end.
	BasicFees     float64   // Fees before tax.
	CGSTAmount    float64   // Central GST.
	SGSTAmount    float64   // State GST.
	IGSTAmount    float64   // Integrated GST.
	TotalFees     float64   // Grand total.
}

// Renderer turns an invoice document into a file on durable storage.
// Rendering is best-effort from the membership write path: failures are
// logged by the caller, never rolled back into the purchase.
type Renderer interface {
	Render(ctx context.Context, doc Document) (path string, err error)
}

// FileRenderer writes invoice documents as plain files under a fixed
// output directory, one file per invoice with a uuid-based name.
type FileRenderer struct {
	dir string // Output directory.
}

// NewFileRenderer creates a renderer writing under dir.
func NewFileRenderer(dir string) *FileRenderer {
	return &FileRenderer{dir: dir}
}

// Render writes the invoice document and returns its path.
func (r *FileRenderer) Render(_ context.Context, doc Document) (string, error) {
	if r == nil || r.dir == "" {
		return "", fmt.Errorf("invoice: renderer not configured")
	}
	if errMkdir := os.MkdirAll(r.dir, 0755); errMkdir != nil {
		return "", fmt.Errorf("invoice: create output dir: %w", errMkdir)
	}

	name := fmt.Sprintf("invoice-%s-%s.txt", doc.InvoiceNumber, uuid.NewString())
	path := filepath.Join(r.dir, name)

	body := fmt.Sprintf(
		"Invoice %s\nDate: %s\nBilled to: %s (%s)\nPackage: %s\nPeriod: %s - %s\nBasic fees: %.2f\nCGST: %.2f\nSGST: %.2f\nIGST: %.2f\nTotal: %.2f\n",
		doc.InvoiceNumber,
		doc.InvoiceDate.Format("2006-01-02"),
		doc.MemberName,
		doc.CompanyName,
		doc.PackageName,
		doc.PeriodStart.Format("2006-01-02"),
		doc.PeriodEnd.Format("2006-01-02"),
		doc.BasicFees,
		doc.CGSTAmount,
		doc.SGSTAmount,
		doc.IGSTAmount,
		doc.TotalFees,
	)
	if errWrite := os.WriteFile(path, []byte(body), 0644); errWrite != nil {
		return "", fmt.Errorf("invoice: write document: %w", errWrite)
	}
	return path, nil
}

// NopRenderer discards invoice documents. Used when no output directory
// is configured and in tests.
type NopRenderer struct{}

// Render does nothing and reports success.
func (NopRenderer) Render(context.Context, Document) (string, error) { return "", nil }
