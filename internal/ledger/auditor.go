package ledger

import (
	"context"
	"time"

	"github.com/chapterworks/memberdesk/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// defaultAuditInterval is how often the auditor sweeps all chapters.
const defaultAuditInterval = 6 * time.Hour

// BalanceAuditor periodically recomputes every chapter's closing balances
// from scratch. Because recomputation is idempotent, the sweep repairs
// stored balances left stale by a crash between a transaction write and
// its balance update.
type BalanceAuditor struct {
	db       *gorm.DB
	balancer *Balancer
	interval time.Duration
}

// NewBalanceAuditor builds an auditor. A non-positive interval falls back
// to the default.
func NewBalanceAuditor(db *gorm.DB, interval time.Duration) *BalanceAuditor {
	if db == nil {
		return nil
	}
	if interval <= 0 {
		interval = defaultAuditInterval
	}
	return &BalanceAuditor{
		db:       db,
		balancer: NewBalancer(db),
		interval: interval,
	}
}

// Start launches the sweep loop in a background goroutine.
func (a *BalanceAuditor) Start(ctx context.Context) {
	if a == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go a.run(ctx)
	log.Infof("balance auditor started (interval=%s)", a.interval)
}

func (a *BalanceAuditor) run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.sweepOnce(ctx)
		}
	}
}

// sweepOnce recomputes balances for all chapters, logging and continuing
// on per-chapter failures.
func (a *BalanceAuditor) sweepOnce(ctx context.Context) {
	var ids []uint64
	if errFind := a.db.WithContext(ctx).
		Model(&models.Chapter{}).
		Pluck("id", &ids).Error; errFind != nil {
		log.WithError(errFind).Warn("balance audit: list chapters failed")
		return
	}
	for _, id := range ids {
		if errRecompute := a.balancer.Recompute(ctx, id); errRecompute != nil {
			log.WithError(errRecompute).Warnf("balance audit: recompute failed for chapter %d", id)
		}
	}
}
