package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joblane/joblane/internal/auth"
	"github.com/joblane/joblane/internal/models"
)

// dedupWindow is the trailing window within which repeat views from the
// same dedup key are collapsed into one event.
const dedupWindow = time.Hour

// fallbackIP stands in when no forwarded address is available for an
// anonymous viewer.
const fallbackIP = "127.0.0.1"

// ViewTrackingService records a job-view event at most once per viewer per
// rolling window. The check-then-insert is deliberately not exclusive: two
// near-simultaneous views can over-count by one, an accepted cosmetic error
// for an advisory metric that is not worth a distributed lock.
type ViewTrackingService struct {
	jobs  JobStore
	views ViewStore
	log   *zap.SugaredLogger
	now   Clock
}

func NewViewTrackingService(jobs JobStore, views ViewStore, log *zap.SugaredLogger) *ViewTrackingService {
	return &ViewTrackingService{
		jobs:  jobs,
		views: views,
		log:   log,
		now:   RealClock,
	}
}

// RecordView notes one view of jobID. The dedup key is the authenticated
// actor when present, the source IP otherwise; exactly one of the two is
// stored on the event. A view of a nonexistent job returns NotFound, which
// callers are expected to swallow.
func (s *ViewTrackingService) RecordView(ctx context.Context, actor *auth.Actor, sourceIP, jobID string) error {
	if _, err := s.jobs.FindJob(ctx, jobID); err != nil {
		return err
	}

	var viewerID, viewerIP *string
	if actor != nil {
		viewerID = &actor.ID
	} else {
		ip := sourceIP
		if ip == "" {
			ip = fallbackIP
		}
		viewerIP = &ip
	}

	now := s.now()
	seen, err := s.views.HasRecentView(ctx, jobID, viewerID, viewerIP, now.Add(-dedupWindow))
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	view := &models.JobView{
		ID:       uuid.NewString(),
		JobID:    jobID,
		ViewerID: viewerID,
		ViewerIP: viewerIP,
		ViewedAt: now,
	}
	if err := s.views.CreateView(ctx, view); err != nil {
		return err
	}

	// Advisory counter; a missed increment is cosmetic.
	if err := s.jobs.IncrementViewCount(ctx, jobID); err != nil {
		s.log.Warnw("Failed to bump view count", "job_id", jobID, "error", err)
	}
	return nil
}
