package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/events"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/observability"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/repository"
)

// AnnouncementGuard deduplicates expiring announcements per item and day.
type AnnouncementGuard interface {
	Claim(ctx context.Context, evidenceID string, at time.Time) (bool, error)
}

// ExpiryWorker periodically counts deadlines and announces items that are
// about to expire.
type ExpiryWorker struct {
	evidence   repository.EvidenceRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	interval   time.Duration
	window     int
	guard      AnnouncementGuard
	now        func() time.Time
}

// NewExpiryWorker builds the worker. windowDays bounds which items are
// announced.
func NewExpiryWorker(evidence repository.EvidenceRepository, dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger, interval time.Duration, windowDays int) *ExpiryWorker {
	if windowDays <= 0 {
		windowDays = domain.ExpiringSoonWindowDays
	}
	return &ExpiryWorker{
		evidence:   evidence,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
		interval:   interval,
		window:     windowDays,
		now:        time.Now,
	}
}

// WithAnnouncementGuard limits announcements to one per item and day.
func (w *ExpiryWorker) WithAnnouncementGuard(guard AnnouncementGuard) *ExpiryWorker {
	w.guard = guard
	return w
}

// Run scans once immediately and then on every tick until ctx is done.
func (w *ExpiryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.Scan(ctx); err != nil && ctx.Err() == nil {
			w.logger.Error("expiry scan failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ScanResult summarises one pass.
type ScanResult struct {
	Expiring  int
	Expired   int
	Announced int
}

// Scan updates the deadline gauges and publishes an expiring event for every
// active item due within the window that was not yet announced today.
func (w *ExpiryWorker) Scan(ctx context.Context) (ScanResult, error) {
	now := w.now()
	active := domain.EvidenceStatusActive

	var res ScanResult
	var err error
	for state, dst := range map[domain.ExpiryState]*int{
		domain.ExpiryExpiringSoon: &res.Expiring,
		domain.ExpiryExpired:      &res.Expired,
	} {
		state := state
		*dst, err = w.evidence.Count(ctx, domain.EvidenceFilter{Status: &active, Expiry: &state, Now: now})
		if err != nil {
			return res, err
		}
	}
	w.metrics.SetExpiryGauges(res.Expiring, res.Expired)

	due, err := w.evidence.ListExpiring(ctx, now.Add(-time.Nanosecond), now.Add(time.Duration(w.window)*24*time.Hour), nil)
	if err != nil {
		return res, err
	}
	for _, ev := range due {
		if ev.ExpiryDate == nil || ev.ExpiryDate.Before(now) {
			continue
		}
		if !w.claim(ctx, ev.ID, now) {
			continue
		}
		w.publish(ctx, ev, now)
		res.Announced++
	}

	w.logger.Info("expiry scan finished",
		zap.Int("expiring", res.Expiring),
		zap.Int("expired", res.Expired),
		zap.Int("announced", res.Announced))
	return res, nil
}

func (w *ExpiryWorker) claim(ctx context.Context, id string, now time.Time) bool {
	if w.guard == nil {
		return true
	}
	ok, err := w.guard.Claim(ctx, id, now)
	if err != nil {
		w.logger.Warn("announcement dedup unavailable", zap.String("evidence_id", id), zap.Error(err))
		return true
	}
	return ok
}

func (w *ExpiryWorker) publish(ctx context.Context, ev domain.Evidence, now time.Time) {
	if w.dispatcher == nil {
		return
	}
	_ = w.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       events.EventEvidenceExpiring,
		EvidenceID: ev.ID,
		Timestamp:  now,
		Payload: events.EvidenceExpiringPayload{
			Name:       ev.Name,
			CaseNumber: ev.CaseNumber,
			EnteredBy:  ev.EnteredBy,
			ExpiryDate: *ev.ExpiryDate,
			DaysLeft:   domain.DaysUntil(*ev.ExpiryDate, now),
		},
	})
}
