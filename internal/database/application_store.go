package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/joblane/joblane/internal/apperr"
	"github.com/joblane/joblane/internal/models"
)

// ApplicationStore is the gorm-backed record store for applications and the
// applicant profiles joined onto review reads.
type ApplicationStore struct {
	DB *gorm.DB
}

func NewApplicationStore(db *gorm.DB) *ApplicationStore {
	return &ApplicationStore{DB: db}
}

// CreateApplication inserts the record, surfacing a uniqueness-constraint
// violation on (job_id, applicant_id) as ErrConflict so a lost duplicate
// race still reports "already applied" rather than a storage error.
func (s *ApplicationStore) CreateApplication(ctx context.Context, app *models.Application) error {
	if err := s.DB.WithContext(ctx).Create(app).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.Wrap(apperr.ErrConflict, "application already exists")
		}
		return classify(err, "failed to create application")
	}
	return nil
}

// HasApplied is the intake pre-check for a prior application by the same
// actor; best-effort, the unique index is the authoritative backstop.
func (s *ApplicationStore) HasApplied(ctx context.Context, jobID, applicantID string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&models.Application{}).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		Count(&count).Error
	if err != nil {
		return false, classify(err, "failed to check existing application")
	}
	return count > 0, nil
}

// FindApplication looks up by id scoped to the job, so a wrong pairing
// reads as absent.
func (s *ApplicationStore) FindApplication(ctx context.Context, jobID, applicationID string) (*models.Application, error) {
	var app models.Application
	err := s.DB.WithContext(ctx).
		Where("id = ? AND job_id = ?", applicationID, jobID).
		First(&app).Error
	if err != nil {
		return nil, classify(err, "failed to load application")
	}
	return &app, nil
}

// UpdateApplicationStatus performs the single atomic mutation of status and
// updated_at. No other field changes.
func (s *ApplicationStore) UpdateApplicationStatus(ctx context.Context, jobID, applicationID string, status models.ApplicationStatus, updatedAt time.Time) error {
	res := s.DB.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND job_id = ?", applicationID, jobID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": updatedAt,
		})
	if res.Error != nil {
		return classify(res.Error, "failed to update application status")
	}
	if res.RowsAffected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "application")
	}
	return nil
}

// ListByJob returns every application for the job, most recent first.
func (s *ApplicationStore) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	var apps []models.Application
	err := s.DB.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("submitted_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, classify(err, "failed to list applications for job")
	}
	return apps, nil
}

// ListByApplicant returns the actor's applications across all jobs, most
// recent first.
func (s *ApplicationStore) ListByApplicant(ctx context.Context, applicantID string) ([]models.Application, error) {
	var apps []models.Application
	err := s.DB.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("submitted_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, classify(err, "failed to list applications for applicant")
	}
	return apps, nil
}

// FindProfiles batch-loads applicant profiles for the review read-side join.
func (s *ApplicationStore) FindProfiles(ctx context.Context, ids []string) (map[string]models.Profile, error) {
	if len(ids) == 0 {
		return map[string]models.Profile{}, nil
	}
	var profiles []models.Profile
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, classify(err, "failed to load applicant profiles")
	}
	byID := make(map[string]models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	return byID, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// classify maps storage errors onto the shared taxonomy: missing rows to
// ErrNotFound, timeouts to ErrTransient, anything else wrapped as-is.
func classify(err error, msg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.ErrNotFound, msg)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperr.Wrap(apperr.ErrTransient, msg)
	default:
		return apperr.Wrap(err, msg)
	}
}
