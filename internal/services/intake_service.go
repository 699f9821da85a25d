package services

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joblane/joblane/internal/apperr"
	"github.com/joblane/joblane/internal/auth"
	"github.com/joblane/joblane/internal/models"
	"github.com/joblane/joblane/internal/notify"
	"github.com/joblane/joblane/internal/storage"
	"github.com/joblane/joblane/internal/validation"
)

// IntakeService accepts a candidate's application exactly once per job,
// reconciling the record store and the document store. The two stores share
// no transaction: the document goes in first and a failed record write
// triggers a compensating delete, so the stored record and stored file
// never diverge.
type IntakeService struct {
	jobs   JobStore
	apps   ApplicationStore
	docs   storage.DocumentStore
	events EventPublisher
	log    *zap.SugaredLogger
	now    Clock
}

func NewIntakeService(jobs JobStore, apps ApplicationStore, docs storage.DocumentStore, events EventPublisher, log *zap.SugaredLogger) *IntakeService {
	return &IntakeService{
		jobs:   jobs,
		apps:   apps,
		docs:   docs,
		events: events,
		log:    log,
		now:    RealClock,
	}
}

// SubmitInput is the candidate's submission. Resume is read only when the
// validated metadata says a document was supplied.
type SubmitInput struct {
	validation.SubmitApplicationInput

	Resume io.Reader
}

// Submit runs the intake preconditions in order, stores the optional
// document, writes the application record, and bumps the advisory counter.
//
// Precondition order is significant: each failure kind is distinct and
// nothing is written until all checks pass. The prior-application check is
// best-effort; the storage unique index settles concurrent duplicates.
func (s *IntakeService) Submit(ctx context.Context, actor auth.Actor, jobID string, in SubmitInput) (*models.Application, error) {
	job, err := s.jobs.FindJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.UserID == actor.ID {
		return nil, apperr.Wrap(apperr.ErrInvalidOperation, "cannot apply to own posting")
	}

	applied, err := s.apps.HasApplied(ctx, jobID, actor.ID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, apperr.Wrap(apperr.ErrConflict, "already applied")
	}

	if fields := validation.Check(in.SubmitApplicationInput); len(fields) > 0 {
		return nil, apperr.NewValidation(fields)
	}

	now := s.now()

	// Document first, record second. The key embeds the submission
	// timestamp so a retry after a failed record write never collides with
	// the file it may have orphaned.
	var resumeKey, resumeURL string
	if in.HasResume() {
		resumeKey = fmt.Sprintf("%s/%s/%d-%s", actor.ID, jobID, now.UnixMilli(), path.Base(in.ResumeFilename))
		resumeURL, err = s.docs.Put(ctx, resumeKey, in.ResumeContentType, in.Resume)
		if err != nil {
			return nil, apperr.Wrap(err, "failed to store resume")
		}
	}

	app := &models.Application{
		ID:             uuid.NewString(),
		JobID:          jobID,
		ApplicantID:    actor.ID,
		ApplicantName:  in.ApplicantName,
		ApplicantEmail: in.ApplicantEmail,
		CoverLetter:    in.CoverLetter,
		ResumeURL:      resumeURL,
		Status:         models.StatusPending,
		SubmittedAt:    now,
		UpdatedAt:      now,
	}

	if err := s.apps.CreateApplication(ctx, app); err != nil {
		// Compensating delete: the record write failed, so the document
		// just stored must not outlive it. Attempted once; its own failure
		// is logged and the caller still sees the record-write error.
		if resumeKey != "" {
			if delErr := s.docs.Delete(ctx, resumeKey); delErr != nil {
				s.log.Errorw("Failed to clean up resume after record write failure",
					"job_id", jobID, "applicant_id", actor.ID, "key", resumeKey, "error", delErr)
			}
		}
		return nil, err
	}

	// Advisory counter; a missed increment is cosmetic.
	if err := s.jobs.IncrementApplicationCount(ctx, jobID); err != nil {
		s.log.Warnw("Failed to bump application count", "job_id", jobID, "error", err)
	}

	if err := s.events.Publish(ctx, notify.ApplicationEvent{
		Kind:          notify.EventApplicationSubmitted,
		JobID:         jobID,
		ApplicationID: app.ID,
		ApplicantID:   actor.ID,
		Status:        string(app.Status),
		OccurredAt:    now,
	}); err != nil {
		s.log.Warnw("Failed to publish submission event", "application_id", app.ID, "error", err)
	}

	return app, nil
}
