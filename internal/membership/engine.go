// Package membership implements the membership lifecycle engine: package
// purchases, invoice assignment, member expiry propagation and the
// derived activation policy.
package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chapterworks/memberdesk/internal/fiscal"
	"github.com/chapterworks/memberdesk/internal/invoice"
	"github.com/chapterworks/memberdesk/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Engine errors mapped by the HTTP layer onto the client-facing taxonomy.
var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrPackageNotFound    = errors.New("package not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrInvalidInput       = errors.New("invalid input")
)

// Engine runs membership purchases against the database. The invoice
// renderer is a best-effort collaborator: rendering failures are logged
// and never roll back a purchase.
type Engine struct {
	db       *gorm.DB         // Database handle.
	renderer invoice.Renderer // Invoice document sink.
}

// NewEngine wires a lifecycle engine with its dependencies.
func NewEngine(db *gorm.DB, renderer invoice.Renderer) *Engine {
	if renderer == nil {
		renderer = invoice.NopRenderer{}
	}
	return &Engine{db: db, renderer: renderer}
}

// CreateParams carries the inputs for a membership purchase.
type CreateParams struct {
	MemberID         uint64
	PackageID        uint64
	InvoiceDate      time.Time
	PackageStartDate *time.Time // Optional explicit coverage start.
	BasicFees        float64
	CGSTRate         *float64
	SGSTRate         *float64
	IGSTRate         *float64
	PaymentDetail    datatypes.JSON
}

// packageEndDate is the expiry rule for every purchased package: coverage
// always ends at the financial-year boundary of its start date. The
// package's nominal PeriodMonths is deliberately ignored here and kept
// purely informational.
func packageEndDate(start time.Time) time.Time {
	return fiscal.YearEndDate(start)
}

// taxAmount computes one GST component from an optional percentage rate.
func taxAmount(basicFees float64, rate *float64) float64 {
	if rate == nil {
		return 0
	}
	return basicFees * *rate / 100
}

// validateRates rejects negative tax percentages.
func validateRates(rates ...*float64) error {
	for _, rate := range rates {
		if rate != nil && *rate < 0 {
			return fmt.Errorf("%w: tax rates cannot be negative", ErrInvalidInput)
		}
	}
	return nil
}

// Create purchases a package for a member: it resolves the coverage
// window, computes taxes and totals, assigns the next invoice number,
// advances the member's matching expiry track and recomputes the derived
// activation status. Invoice document rendering happens after commit,
// best-effort.
func (e *Engine) Create(ctx context.Context, params CreateParams) (*models.Membership, error) {
	if params.BasicFees <= 0 {
		return nil, fmt.Errorf("%w: basic fees must be positive", ErrInvalidInput)
	}
	if errRates := validateRates(params.CGSTRate, params.SGSTRate, params.IGSTRate); errRates != nil {
		return nil, errRates
	}

	var member models.Member
	if errFind := e.db.WithContext(ctx).First(&member, params.MemberID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, errFind
	}
	var pkg models.Package
	if errFind := e.db.WithContext(ctx).First(&pkg, params.PackageID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, errFind
	}

	now := time.Now().UTC()
	start := now
	if params.PackageStartDate != nil {
		start = *params.PackageStartDate
	} else if current := member.ExpiryFor(pkg.IsVenueFee); current != nil && current.After(now) {
		// Renewal: extend from the running expiry instead of restarting
		// coverage from today.
		start = *current
	}
	end := packageEndDate(start)

	cgst := taxAmount(params.BasicFees, params.CGSTRate)
	sgst := taxAmount(params.BasicFees, params.SGSTRate)
	igst := taxAmount(params.BasicFees, params.IGSTRate)

	row := models.Membership{
		MemberID:         member.ID,
		PackageID:        pkg.ID,
		InvoiceDate:      params.InvoiceDate,
		PackageStartDate: start,
		PackageEndDate:   end,
		BasicFees:        params.BasicFees,
		CGSTRate:         params.CGSTRate,
		SGSTRate:         params.SGSTRate,
		IGSTRate:         params.IGSTRate,
		CGSTAmount:       cgst,
		SGSTAmount:       sgst,
		IGSTAmount:       igst,
		TotalFees:        params.BasicFees + cgst + sgst + igst,
		PaymentDetail:    params.PaymentDetail,
		IsActive:         true,
	}

	errTx := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, errNumber := invoice.NextNumber(ctx, tx, params.InvoiceDate)
		if errNumber != nil {
			return errNumber
		}
		row.InvoiceNumber = number

		if errCreate := tx.Create(&row).Error; errCreate != nil {
			return errCreate
		}

		// A new purchase always advances its track's expiry; no
		// comparison against the prior value on the write side.
		return tx.Model(&models.Member{}).
			Where("id = ?", member.ID).
			Update(expiryColumn(pkg.IsVenueFee), end).Error
	})
	if errTx != nil {
		return nil, errTx
	}

	if errRecompute := RecomputeActivation(ctx, e.db, member.ID); errRecompute != nil {
		return nil, errRecompute
	}

	e.renderInvoice(ctx, &row, &member, &pkg)

	return &row, nil
}

// renderInvoice hands the purchase to the document renderer. Failures are
// logged only.
func (e *Engine) renderInvoice(ctx context.Context, row *models.Membership, member *models.Member, pkg *models.Package) {
	doc := invoice.Document{
		InvoiceNumber: row.InvoiceNumber,
		InvoiceDate:   row.InvoiceDate,
		MemberName:    member.FirstName + " " + member.LastName,
		CompanyName:   member.CompanyName,
		PackageName:   pkg.Name,
		PeriodStart:   row.PackageStartDate,
		PeriodEnd:     row.PackageEndDate,
		BasicFees:     row.BasicFees,
		CGSTAmount:    row.CGSTAmount,
		SGSTAmount:    row.SGSTAmount,
		IGSTAmount:    row.IGSTAmount,
		TotalFees:     row.TotalFees,
	}
	if _, errRender := e.renderer.Render(ctx, doc); errRender != nil {
		log.WithError(errRender).Warnf("invoice render failed for %s", row.InvoiceNumber)
	}
}

// UpdateParams carries the mutable fields of a membership. MemberID and
// PackageID are immutable after creation: changing them would invalidate
// the expiry linkage already applied to the member.
type UpdateParams struct {
	BasicFees     *float64
	CGSTRate      *float64
	SGSTRate      *float64
	IGSTRate      *float64
	PaymentDetail datatypes.JSON
	IsActive      *bool
}

// feesChanged reports whether any fee or rate field is present.
func (p UpdateParams) feesChanged() bool {
	return p.BasicFees != nil || p.CGSTRate != nil || p.SGSTRate != nil || p.IGSTRate != nil
}

// Update applies a partial update to a membership. Fee or rate changes
// recompute the tax amounts and total from the merged values. An active
// toggle rolls the member's matching expiry track back or forward per the
// lifecycle rules, then the derived activation status is recomputed.
func (e *Engine) Update(ctx context.Context, id uint64, params UpdateParams) (*models.Membership, error) {
	if params.BasicFees != nil && *params.BasicFees <= 0 {
		return nil, fmt.Errorf("%w: basic fees must be positive", ErrInvalidInput)
	}
	if errRates := validateRates(params.CGSTRate, params.SGSTRate, params.IGSTRate); errRates != nil {
		return nil, errRates
	}

	var row models.Membership
	if errFind := e.db.WithContext(ctx).Preload("Package").First(&row, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, errFind
	}
	if row.Package == nil {
		return nil, ErrPackageNotFound
	}

	wasActive := row.IsActive

	if params.BasicFees != nil {
		row.BasicFees = *params.BasicFees
	}
	if params.CGSTRate != nil {
		row.CGSTRate = params.CGSTRate
	}
	if params.SGSTRate != nil {
		row.SGSTRate = params.SGSTRate
	}
	if params.IGSTRate != nil {
		row.IGSTRate = params.IGSTRate
	}
	if params.feesChanged() {
		row.CGSTAmount = taxAmount(row.BasicFees, row.CGSTRate)
		row.SGSTAmount = taxAmount(row.BasicFees, row.SGSTRate)
		row.IGSTAmount = taxAmount(row.BasicFees, row.IGSTRate)
		row.TotalFees = row.BasicFees + row.CGSTAmount + row.SGSTAmount + row.IGSTAmount
	}
	if params.PaymentDetail != nil {
		row.PaymentDetail = params.PaymentDetail
	}
	if params.IsActive != nil {
		row.IsActive = *params.IsActive
	}

	errTx := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errSave := tx.Save(&row).Error; errSave != nil {
			return errSave
		}
		if params.IsActive == nil || *params.IsActive == wasActive {
			return nil
		}
		if wasActive && !*params.IsActive {
			return e.rollbackExpiryOnDeactivate(ctx, tx, &row)
		}
		return e.advanceExpiryOnReactivate(ctx, tx, &row)
	})
	if errTx != nil {
		return nil, errTx
	}

	if errRecompute := RecomputeActivation(ctx, e.db, row.MemberID); errRecompute != nil {
		return nil, errRecompute
	}
	return &row, nil
}

// rollbackExpiryOnDeactivate handles the active->inactive transition: when
// the deactivated purchase was the one backing the member's stored expiry
// for its track, the expiry falls back to the next most recent other
// active purchase of the same track, or null.
func (e *Engine) rollbackExpiryOnDeactivate(ctx context.Context, tx *gorm.DB, row *models.Membership) error {
	var member models.Member
	if errFind := tx.First(&member, row.MemberID).Error; errFind != nil {
		return errFind
	}

	stored := member.ExpiryFor(row.Package.IsVenueFee)
	if stored == nil || !stored.Equal(row.PackageEndDate) {
		return nil
	}

	fallback, errFallback := latestOtherActiveEnd(ctx, tx, row)
	if errFallback != nil {
		return errFallback
	}
	return tx.Model(&models.Member{}).
		Where("id = ?", member.ID).
		Update(expiryColumn(row.Package.IsVenueFee), fallback).Error
}

// advanceExpiryOnReactivate handles the inactive->active transition: the
// stored expiry moves forward when this purchase ends later than it, or
// when no expiry is stored at all.
func (e *Engine) advanceExpiryOnReactivate(ctx context.Context, tx *gorm.DB, row *models.Membership) error {
	var member models.Member
	if errFind := tx.First(&member, row.MemberID).Error; errFind != nil {
		return errFind
	}

	stored := member.ExpiryFor(row.Package.IsVenueFee)
	if stored != nil && !row.PackageEndDate.After(*stored) {
		return nil
	}
	return tx.Model(&models.Member{}).
		Where("id = ?", member.ID).
		Update(expiryColumn(row.Package.IsVenueFee), row.PackageEndDate).Error
}

// Delete removes a membership, rolling the member's stored expiry back to
// the next most recent other active purchase of the same track (or null)
// when the deleted purchase was backing it. The expiry update and the
// deletion commit together or not at all.
func (e *Engine) Delete(ctx context.Context, id uint64) error {
	var row models.Membership
	if errFind := e.db.WithContext(ctx).Preload("Package").First(&row, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return errFind
	}
	if row.Package == nil {
		return ErrPackageNotFound
	}

	errTx := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member models.Member
		if errMember := tx.First(&member, row.MemberID).Error; errMember != nil {
			return errMember
		}

		stored := member.ExpiryFor(row.Package.IsVenueFee)
		if stored != nil && stored.Equal(row.PackageEndDate) {
			fallback, errFallback := latestOtherActiveEnd(ctx, tx, &row)
			if errFallback != nil {
				return errFallback
			}
			if errUpdate := tx.Model(&models.Member{}).
				Where("id = ?", member.ID).
				Update(expiryColumn(row.Package.IsVenueFee), fallback).Error; errUpdate != nil {
				return errUpdate
			}
		}

		return tx.Delete(&models.Membership{}, row.ID).Error
	})
	if errTx != nil {
		return errTx
	}

	return RecomputeActivation(ctx, e.db, row.MemberID)
}

// latestOtherActiveEnd finds the end date of the member's most recent
// other active membership on the same fee track, or nil when none exists.
func latestOtherActiveEnd(ctx context.Context, tx *gorm.DB, row *models.Membership) (*time.Time, error) {
	var other models.Membership
	errFind := tx.WithContext(ctx).
		Joins("JOIN packages ON packages.id = memberships.package_id").
		Where("memberships.member_id = ?", row.MemberID).
		Where("memberships.id <> ?", row.ID).
		Where("memberships.is_active = ?", true).
		Where("packages.is_venue_fee = ?", row.Package.IsVenueFee).
		Order("memberships.package_end_date DESC").
		First(&other).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errFind
	}
	return &other.PackageEndDate, nil
}

// expiryColumn returns the member column name for a fee track.
func expiryColumn(venueFee bool) string {
	if venueFee {
		return "venue_expiry_date"
	}
	return "ho_expiry_date"
}
