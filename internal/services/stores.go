package services

import (
	"context"
	"time"

	"github.com/joblane/joblane/internal/models"
	"github.com/joblane/joblane/internal/notify"
)

// The services are constructed against these narrow store interfaces so
// tests can substitute in-memory fakes for postgres and the document store.
// The gorm implementations live in internal/database.

type JobStore interface {
	FindJob(ctx context.Context, id string) (*models.Job, error)
	FindJobs(ctx context.Context, ids []string) (map[string]models.Job, error)
	IncrementApplicationCount(ctx context.Context, id string) error
	IncrementViewCount(ctx context.Context, id string) error
}

type ApplicationStore interface {
	CreateApplication(ctx context.Context, app *models.Application) error
	HasApplied(ctx context.Context, jobID, applicantID string) (bool, error)
	FindApplication(ctx context.Context, jobID, applicationID string) (*models.Application, error)
	UpdateApplicationStatus(ctx context.Context, jobID, applicationID string, status models.ApplicationStatus, updatedAt time.Time) error
	ListByJob(ctx context.Context, jobID string) ([]models.Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]models.Application, error)
	FindProfiles(ctx context.Context, ids []string) (map[string]models.Profile, error)
}

type ViewStore interface {
	HasRecentView(ctx context.Context, jobID string, viewerID, viewerIP *string, since time.Time) (bool, error)
	CreateView(ctx context.Context, view *models.JobView) error
}

// EventPublisher lets the services announce lifecycle events without
// depending on the broker directly. Failures are always best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, event notify.ApplicationEvent) error
}
