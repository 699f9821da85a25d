package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joblane/joblane/internal/apperr"
	"github.com/joblane/joblane/internal/auth"
	"github.com/joblane/joblane/internal/models"
	"github.com/joblane/joblane/internal/notify"
	"github.com/joblane/joblane/internal/validation"
)

func testJob(id, ownerID string) *models.Job {
	return &models.Job{
		ID:          id,
		UserID:      ownerID,
		Title:       "Backend Engineer",
		CompanyName: "Acme",
		Location:    "Remote",
		JobType:     "Full-Time",
	}
}

func validSubmission() SubmitInput {
	return SubmitInput{
		SubmitApplicationInput: validation.SubmitApplicationInput{
			ApplicantName:  "Jane Doe",
			ApplicantEmail: "jane@example.com",
			CoverLetter:    longCoverLetter,
		},
	}
}

func resumeSubmission(content string) SubmitInput {
	in := validSubmission()
	in.ResumeFilename = "resume.pdf"
	in.ResumeSize = int64(len(content))
	in.ResumeContentType = "application/pdf"
	in.Resume = strings.NewReader(content)
	return in
}

func TestSubmitCreatesPendingApplication(t *testing.T) {
	jobs := newFakeJobStore(testJob("job-1", "owner-b"))
	apps := newFakeApplicationStore()
	docs := newFakeDocStore()
	events := &fakeEvents{}
	svc := NewIntakeService(jobs, apps, docs, events, zap.NewNop().Sugar())

	app, err := svc.Submit(context.Background(), auth.Actor{ID: "actor-a"}, "job-1", validSubmission())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, app.Status)
	assert.Equal(t, "job-1", app.JobID)
	assert.Equal(t, "actor-a", app.ApplicantID)
	assert.Equal(t, "Jane Doe", app.ApplicantName)
	assert.NotEmpty(t, app.ID)
	assert.False(t, app.SubmittedAt.IsZero())

	assert.Equal(t, 1, jobs.appCountBumps["job-1"])
	require.Len(t, events.published, 1)
	assert.Equal(t, notify.EventApplicationSubmitted, events.published[0].Kind)
}

func TestSubmitUnknownJob(t *testing.T) {
	svc := NewIntakeService(newFakeJobStore(), newFakeApplicationStore(), newFakeDocStore(), &fakeEvents{}, zap.NewNop().Sugar())

	_, err := svc.Submit(context.Background(), auth.Actor{ID: "actor-a"}, "missing", validSubmission())
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
}

func TestSubmitToOwnJob(t *testing.T) {
	jobs := newFakeJobStore(testJob("job-1", "owner-b"))
	svc := NewIntakeService(jobs, newFakeApplicationStore(), newFakeDocStore(), &fakeEvents{}, zap.NewNop().Sugar())

	_, err := svc.Submit(context.Background(), auth.Actor{ID: "owner-b"}, "job-1", validSubmission())
	assert.True(t, apperr.Is(err, apperr.ErrInvalidOperation))
}

func TestSubmitTwiceConflicts(t *testing.T) {
	jobs := newFakeJobStore(testJob("job-1", "owner-b"))
	apps := newFakeApplicationStore()
	docs := newFakeDocStore()
	svc := NewIntakeService(jobs, apps, docs, &fakeEvents{}, zap.NewNop().Sugar())
	actor := auth.Actor{ID: "actor-a"}

	_, err := svc.Submit(context.Background(), actor, "job-1", resumeSubmission("first resume"))
	require.NoError(t, err)
	require.Equal(t, 1, docs.puts)

	_, err = svc.Submit(context.Background(), actor, "job-1", resumeSubmission("second resume"))
	assert.True(t, apperr.Is(err, apperr.ErrConflict))

	// The duplicate is rejected before any side effect: no second document.
	assert.Equal(t, 1, docs.puts)
	assert.Len(t, apps.apps, 1)
	assert.Equal(t, 1, jobs.appCountBumps["job-1"])
}

func TestSubmitConflictFromStorageBackstop(t *testing.T) {
	// The pre-check passes but the storage unique index rejects the insert,
	// as happens when two duplicate submissions race. The caller still sees
	// Conflict, and the stored document is cleaned up.
	jobs := newFakeJobStore(testJob("job-1", "owner-b"))
	apps := newFakeApplicationStore()
	apps.createErr = apperr.Wrap(apperr.ErrConflict, "application already exists")
	docs := newFakeDocStore()
	svc := NewIntakeService(jobs, apps, docs, &fakeEvents{}, zap.NewNop().Sugar())

	_, err := svc.Submit(context.Background(), auth.Actor{ID: "actor-a"}, "job-1", resumeSubmission("resume"))
	assert.True(t, apperr.Is(err, apperr.ErrConflict))
	assert.Len(t, docs.deletes, 1)
	assert.Empty(t, docs.stored)
}

func TestSubmitShortCoverLetter(t *testing.T) {
	jobs := newFakeJobStore(testJob("job-1", "owner-b"))
	apps := newFakeApplicationStore()
	svc := NewIntakeService(jobs, apps, newFakeDocStore(), &fakeEvents{}, zap.NewNop().Sugar())

	in := validSubmission()
	in.CoverLetter = "Too short."

	_, err := svc.Submit(context.Background(), auth.Actor{ID: "actor-a"}, "job-1", in)
	ve, ok := apperr.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Cover letter must be at least 50 characters", ve.Fields["cover_letter"])
	assert.Empty(t, apps.apps)
}

func TestSubmitReportsAllFieldErrors(t *testing.T) {
	jobs := newFakeJobStore(testJob("job-1", "owner-b"))
	svc := NewIntakeService(jobs, newFakeApplicationStore(), newFakeDocStore(), &fakeEvents{}, zap.NewNop().Sugar())

	in := SubmitInput{
		SubmitApplicationInput: validation.SubmitApplicationInput{
			ApplicantName:  "J",
			ApplicantEmail: "not-an-email",
			CoverLetter:    "short",
		},
	}

	_, err := svc.Submit(context.Background(), auth.Actor{ID: "actor-a"}, "job-1", in)
	ve, ok := apperr.IsValidation(err)
	require.True(t, ok)
	assert.Len(t, ve.Fields, 3)
	assert.Contains(t, ve.Fields, "applicant_name")
	assert.Contains(t, ve.Fields, "applicant_email")
	assert.Contains(t, ve.Fields, "cover_letter")
}

func TestSubmitRejectsOversizedResume(t *testing.T) {
	jobs := newFakeJobStore(testJob("job-1", "owner-b"))
	docs := newFakeDocStore()
	svc := NewIntakeService(jobs, newFakeApplicationStore(), docs, &fakeEvents{}, zap.NewNop().Sugar())

	in := validSubmission()
	in.ResumeFilename = "huge.pdf"
	in.ResumeSize = validation.MaxResumeSize + 1
	in.ResumeContentType = "application/pdf"

	_, err := svc.Submit(context.Background(), auth.Actor{ID: "actor-a"}, "job-1", in)
	ve, ok := apperr.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "File size must be less than 5MB", ve.Fields["resume"])
	assert.Zero(t, docs.puts)
}

func TestSubmitRejectsDisallowedResumeType(t *testing.T) {
	jobs := newFakeJobStore(testJob("job-1", "owner-b"))
	docs := newFakeDocStore()
	svc := NewIntakeService(jobs, newFakeApplicationStore(), docs, &fakeEvents{}, zap.NewNop().Sugar())

	in := validSubmission()
	in.ResumeFilename = "resume.exe"
	in.ResumeSize = 128
	in.ResumeContentType = "application/octet-stream"

	_, err := svc.Submit(context.Background(), auth.Actor{ID: "actor-a"}, "job-1", in)
	ve, ok := apperr.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Only PDF, DOC, and DOCX files are allowed", ve.Fields["resume"])
	assert.Zero(t, docs.puts)
}

func TestSubmitCompensatesAfterRecordWriteFailure(t *testing.T) {
	jobs := newFakeJobStore(testJob("job-1", "owner-b"))
	apps := newFakeApplicationStore()
	writeErr := apperr.New("insert failed")
	apps.createErr = writeErr
	docs := newFakeDocStore()
	svc := NewIntakeService(jobs, apps, docs, &fakeEvents{}, zap.NewNop().Sugar())

	_, err := svc.Submit(context.Background(), auth.Actor{ID: "actor-a"}, "job-1", resumeSubmission("my resume"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, writeErr))

	// Exactly one upload and one cleanup; nothing left behind.
	assert.Equal(t, 1, docs.puts)
	require.Len(t, docs.deletes, 1)
	assert.Empty(t, docs.stored)
	assert.Empty(t, apps.apps)
	assert.Zero(t, jobs.appCountBumps["job-1"])
}

func TestSubmitCleanupFailureDoesNotMaskWriteError(t *testing.T) {
	jobs := newFakeJobStore(testJob("job-1", "owner-b"))
	apps := newFakeApplicationStore()
	writeErr := apperr.New("insert failed")
	apps.createErr = writeErr
	docs := newFakeDocStore()
	docs.delErr = apperr.New("delete failed")
	svc := NewIntakeService(jobs, apps, docs, &fakeEvents{}, zap.NewNop().Sugar())

	_, err := svc.Submit(context.Background(), auth.Actor{ID: "actor-a"}, "job-1", resumeSubmission("my resume"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, writeErr))
	assert.Len(t, docs.deletes, 1)
}

func TestSubmitDocumentStoreFailure(t *testing.T) {
	jobs := newFakeJobStore(testJob("job-1", "owner-b"))
	apps := newFakeApplicationStore()
	docs := newFakeDocStore()
	docs.putErr = apperr.New("upload failed")
	svc := NewIntakeService(jobs, apps, docs, &fakeEvents{}, zap.NewNop().Sugar())

	_, err := svc.Submit(context.Background(), auth.Actor{ID: "actor-a"}, "job-1", resumeSubmission("my resume"))
	require.Error(t, err)
	assert.Empty(t, apps.apps)
}

func TestSubmitStoresResumeUnderTimestampedKey(t *testing.T) {
	jobs := newFakeJobStore(testJob("job-1", "owner-b"))
	apps := newFakeApplicationStore()
	docs := newFakeDocStore()
	svc := NewIntakeService(jobs, apps, docs, &fakeEvents{}, zap.NewNop().Sugar())

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock, _ := fixedClock(at)
	svc.WithClock(clock)

	app, err := svc.Submit(context.Background(), auth.Actor{ID: "actor-a"}, "job-1", resumeSubmission("my resume"))
	require.NoError(t, err)

	key := "actor-a/job-1/1748779200000-resume.pdf"
	assert.Contains(t, docs.stored, key)
	assert.Equal(t, "http://localhost:8080/files/"+key, app.ResumeURL)
	assert.Equal(t, at, app.SubmittedAt)
}

func TestSubmitCounterFailureIsCosmetic(t *testing.T) {
	jobs := newFakeJobStore(testJob("job-1", "owner-b"))
	jobs.bumpErr = apperr.New("counter update failed")
	apps := newFakeApplicationStore()
	svc := NewIntakeService(jobs, apps, newFakeDocStore(), &fakeEvents{}, zap.NewNop().Sugar())

	app, err := svc.Submit(context.Background(), auth.Actor{ID: "actor-a"}, "job-1", validSubmission())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Len(t, apps.apps, 1)
}
