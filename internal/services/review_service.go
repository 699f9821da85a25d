package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/joblane/joblane/internal/apperr"
	"github.com/joblane/joblane/internal/auth"
	"github.com/joblane/joblane/internal/dtos"
	"github.com/joblane/joblane/internal/models"
	"github.com/joblane/joblane/internal/notify"
)

// ReviewService enforces ownership and the status workflow on existing
// applications. Only the job owner mutates; the applicant never
// self-approves.
type ReviewService struct {
	jobs   JobStore
	apps   ApplicationStore
	events EventPublisher
	log    *zap.SugaredLogger
	now    Clock
}

func NewReviewService(jobs JobStore, apps ApplicationStore, events EventPublisher, log *zap.SugaredLogger) *ReviewService {
	return &ReviewService{
		jobs:   jobs,
		apps:   apps,
		events: events,
		log:    log,
		now:    RealClock,
	}
}

// UpdateStatus moves an application to newStatus in one atomic mutation of
// status and updated_at. There is no transition table; any of the four
// values may follow any other.
func (s *ReviewService) UpdateStatus(ctx context.Context, actor auth.Actor, jobID, applicationID, newStatus string) (*models.Application, error) {
	job, err := s.jobs.FindJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	// Ownership mismatch reads as Forbidden here: the actor is managing the
	// job, so its existence is already known to them.
	if job.UserID != actor.ID {
		return nil, apperr.Wrap(apperr.ErrForbidden, "only the job owner may review applications")
	}

	status := models.ApplicationStatus(newStatus)
	if !status.Valid() {
		return nil, apperr.NewValidation(map[string]string{
			"status": "Status must be one of pending, reviewed, accepted, rejected",
		})
	}

	app, err := s.apps.FindApplication(ctx, jobID, applicationID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.apps.UpdateApplicationStatus(ctx, jobID, applicationID, status, now); err != nil {
		return nil, err
	}
	app.Status = status
	app.UpdatedAt = now

	if err := s.events.Publish(ctx, notify.ApplicationEvent{
		Kind:          notify.EventStatusChanged,
		JobID:         jobID,
		ApplicationID: app.ID,
		ApplicantID:   app.ApplicantID,
		Status:        string(status),
		OccurredAt:    now,
	}); err != nil {
		s.log.Warnw("Failed to publish status change event", "application_id", app.ID, "error", err)
	}

	return app, nil
}

// Get returns one application to the job owner or the original applicant.
// Anyone else gets NotFound, the same answer as a missing application, so
// the call never leaks whether the id pair exists.
func (s *ReviewService) Get(ctx context.Context, actor auth.Actor, jobID, applicationID string) (*dtos.ApplicationDetail, error) {
	app, err := s.apps.FindApplication(ctx, jobID, applicationID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.FindJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	isOwner := job.UserID == actor.ID
	isApplicant := app.ApplicantID == actor.ID
	if !isOwner && !isApplicant {
		return nil, apperr.Wrap(apperr.ErrNotFound, "application")
	}

	detail := &dtos.ApplicationDetail{
		Application: *app,
		Job:         jobSummary(job),
	}
	profiles, err := s.apps.FindProfiles(ctx, []string{app.ApplicantID})
	if err != nil {
		return nil, err
	}
	if p, ok := profiles[app.ApplicantID]; ok {
		detail.Applicant = &dtos.ProfileSummary{FullName: p.FullName, Email: p.Email}
	}
	return detail, nil
}

// ListForJob returns every application for the job, most recent first, each
// paired with the applicant's profile fields. Owner only.
func (s *ReviewService) ListForJob(ctx context.Context, actor auth.Actor, jobID string) ([]dtos.ApplicationWithApplicant, error) {
	job, err := s.jobs.FindJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != actor.ID {
		return nil, apperr.Wrap(apperr.ErrForbidden, "only the job owner may list applications")
	}

	apps, err := s.apps.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.ApplicantID)
	}
	profiles, err := s.apps.FindProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.ApplicationWithApplicant, 0, len(apps))
	for _, a := range apps {
		row := dtos.ApplicationWithApplicant{Application: a}
		if p, ok := profiles[a.ApplicantID]; ok {
			row.Applicant = &dtos.ProfileSummary{FullName: p.FullName, Email: p.Email}
		}
		out = append(out, row)
	}
	return out, nil
}

// ListForApplicant returns the actor's own applications across all jobs,
// most recent first, each paired with the referenced posting's summary.
func (s *ReviewService) ListForApplicant(ctx context.Context, actor auth.Actor) ([]dtos.ApplicationWithJob, error) {
	apps, err := s.apps.ListByApplicant(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.JobID)
	}
	jobs, err := s.jobs.FindJobs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.ApplicationWithJob, 0, len(apps))
	for _, a := range apps {
		row := dtos.ApplicationWithJob{Application: a}
		if j, ok := jobs[a.JobID]; ok {
			row.Job = jobSummary(&j)
		}
		out = append(out, row)
	}
	return out, nil
}

func jobSummary(j *models.Job) *dtos.JobSummary {
	return &dtos.JobSummary{
		ID:          j.ID,
		Title:       j.Title,
		CompanyName: j.CompanyName,
		Location:    j.Location,
		JobType:     j.JobType,
		CreatedAt:   j.CreatedAt,
	}
}
