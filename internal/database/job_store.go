package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/joblane/joblane/internal/models"
)

// JobStore is the gorm-backed record store for job postings. The intake and
// view services only read jobs and bump their advisory counters; posting
// CRUD lives elsewhere.
type JobStore struct {
	DB *gorm.DB
}

func NewJobStore(db *gorm.DB) *JobStore {
	return &JobStore{DB: db}
}

func (s *JobStore) FindJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := s.DB.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, classify(err, "failed to load job")
	}
	return &job, nil
}

// FindJobs batch-loads job summaries for the applicant's list view.
func (s *JobStore) FindJobs(ctx context.Context, ids []string) (map[string]models.Job, error) {
	if len(ids) == 0 {
		return map[string]models.Job{}, nil
	}
	var jobs []models.Job
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&jobs).Error; err != nil {
		return nil, classify(err, "failed to load jobs")
	}
	byID := make(map[string]models.Job, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}
	return byID, nil
}

// IncrementApplicationCount bumps the advisory counter. Callers treat a
// failure as cosmetic.
func (s *JobStore) IncrementApplicationCount(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ?", id).
		UpdateColumn("application_count", gorm.Expr("application_count + 1")).Error
}

// IncrementViewCount bumps the advisory counter. Callers treat a failure as
// cosmetic.
func (s *JobStore) IncrementViewCount(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
