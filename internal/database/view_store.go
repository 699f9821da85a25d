package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/joblane/joblane/internal/models"
)

// ViewStore is the gorm-backed record store for job-view events. Rows are
// append-only; nothing mutates or deletes them.
type ViewStore struct {
	DB *gorm.DB
}

func NewViewStore(db *gorm.DB) *ViewStore {
	return &ViewStore{DB: db}
}

// HasRecentView reports whether the dedup key already produced a view for
// this job after the window cutoff. Exactly one of viewerID or viewerIP is
// non-nil, matching the event rows themselves.
func (s *ViewStore) HasRecentView(ctx context.Context, jobID string, viewerID, viewerIP *string, since time.Time) (bool, error) {
	q := s.DB.WithContext(ctx).
		Model(&models.JobView{}).
		Where("job_id = ? AND viewed_at > ?", jobID, since)
	if viewerID != nil {
		q = q.Where("viewer_id = ?", *viewerID)
	} else {
		q = q.Where("viewer_ip = ?", *viewerIP)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, classify(err, "failed to check recent views")
	}
	return count > 0, nil
}

func (s *ViewStore) CreateView(ctx context.Context, view *models.JobView) error {
	if err := s.DB.WithContext(ctx).Create(view).Error; err != nil {
		return classify(err, "failed to record view")
	}
	return nil
}
