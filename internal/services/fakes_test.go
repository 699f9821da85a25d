package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/joblane/joblane/internal/apperr"
	"github.com/joblane/joblane/internal/models"
	"github.com/joblane/joblane/internal/notify"
)

// In-memory stand-ins for the postgres stores, the document store and the
// event publisher. Each fake lets a test inject one failure to exercise
// the compensation paths.

type fakeJobStore struct {
	jobs map[string]*models.Job

	appCountBumps  map[string]int
	viewCountBumps map[string]int
	bumpErr        error
}

func newFakeJobStore(jobs ...*models.Job) *fakeJobStore {
	s := &fakeJobStore{
		jobs:           map[string]*models.Job{},
		appCountBumps:  map[string]int{},
		viewCountBumps: map[string]int{},
	}
	for _, j := range jobs {
		s.jobs[j.ID] = j
	}
	return s
}

func (s *fakeJobStore) FindJob(ctx context.Context, id string) (*models.Job, error) {
	j, ok := s.jobs[id]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "job")
	}
	cp := *j
	return &cp, nil
}

func (s *fakeJobStore) FindJobs(ctx context.Context, ids []string) (map[string]models.Job, error) {
	out := map[string]models.Job{}
	for _, id := range ids {
		if j, ok := s.jobs[id]; ok {
			out[id] = *j
		}
	}
	return out, nil
}

func (s *fakeJobStore) IncrementApplicationCount(ctx context.Context, id string) error {
	if s.bumpErr != nil {
		return s.bumpErr
	}
	s.appCountBumps[id]++
	if j, ok := s.jobs[id]; ok {
		j.ApplicationCount++
	}
	return nil
}

func (s *fakeJobStore) IncrementViewCount(ctx context.Context, id string) error {
	if s.bumpErr != nil {
		return s.bumpErr
	}
	s.viewCountBumps[id]++
	if j, ok := s.jobs[id]; ok {
		j.ViewCount++
	}
	return nil
}

type fakeApplicationStore struct {
	apps      map[string]*models.Application
	profiles  map[string]models.Profile
	createErr error
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{
		apps:     map[string]*models.Application{},
		profiles: map[string]models.Profile{},
	}
}

func (s *fakeApplicationStore) CreateApplication(ctx context.Context, app *models.Application) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.apps {
		if existing.JobID == app.JobID && existing.ApplicantID == app.ApplicantID {
			return apperr.Wrap(apperr.ErrConflict, "application already exists")
		}
	}
	cp := *app
	s.apps[app.ID] = &cp
	return nil
}

func (s *fakeApplicationStore) HasApplied(ctx context.Context, jobID, applicantID string) (bool, error) {
	for _, a := range s.apps {
		if a.JobID == jobID && a.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeApplicationStore) FindApplication(ctx context.Context, jobID, applicationID string) (*models.Application, error) {
	a, ok := s.apps[applicationID]
	if !ok || a.JobID != jobID {
		return nil, apperr.Wrap(apperr.ErrNotFound, "application")
	}
	cp := *a
	return &cp, nil
}

func (s *fakeApplicationStore) UpdateApplicationStatus(ctx context.Context, jobID, applicationID string, status models.ApplicationStatus, updatedAt time.Time) error {
	a, ok := s.apps[applicationID]
	if !ok || a.JobID != jobID {
		return apperr.Wrap(apperr.ErrNotFound, "application")
	}
	a.Status = status
	a.UpdatedAt = updatedAt
	return nil
}

func (s *fakeApplicationStore) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	var out []models.Application
	for _, a := range s.apps {
		if a.JobID == jobID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (s *fakeApplicationStore) ListByApplicant(ctx context.Context, applicantID string) ([]models.Application, error) {
	var out []models.Application
	for _, a := range s.apps {
		if a.ApplicantID == applicantID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (s *fakeApplicationStore) FindProfiles(ctx context.Context, ids []string) (map[string]models.Profile, error) {
	out := map[string]models.Profile{}
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeViewStore struct {
	views     []models.JobView
	createErr error
}

func (s *fakeViewStore) HasRecentView(ctx context.Context, jobID string, viewerID, viewerIP *string, since time.Time) (bool, error) {
	for _, v := range s.views {
		if v.JobID != jobID || !v.ViewedAt.After(since) {
			continue
		}
		if viewerID != nil && v.ViewerID != nil && *v.ViewerID == *viewerID {
			return true, nil
		}
		if viewerIP != nil && v.ViewerIP != nil && *v.ViewerIP == *viewerIP {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeViewStore) CreateView(ctx context.Context, view *models.JobView) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.views = append(s.views, *view)
	return nil
}

type fakeDocStore struct {
	stored  map[string]string // key -> content
	puts    int
	deletes []string
	putErr  error
	delErr  error
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{stored: map[string]string{}}
}

func (s *fakeDocStore) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	s.puts++
	if s.putErr != nil {
		return "", s.putErr
	}
	if _, exists := s.stored[key]; exists {
		return "", apperr.Wrap(apperr.ErrConflict, "document already stored")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.stored[key] = string(b)
	return "http://localhost:8080/files/" + key, nil
}

func (s *fakeDocStore) Delete(ctx context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.stored, key)
	return nil
}

type fakeEvents struct {
	published []notify.ApplicationEvent
	err       error
}

func (e *fakeEvents) Publish(ctx context.Context, event notify.ApplicationEvent) error {
	if e.err != nil {
		return e.err
	}
	e.published = append(e.published, event)
	return nil
}

// fixedClock returns a Clock pinned at t, advanced by calling the returned
// shift function.
func fixedClock(t time.Time) (Clock, func(d time.Duration)) {
	current := t
	return func() time.Time { return current }, func(d time.Duration) { current = current.Add(d) }
}

var longCoverLetter = strings.Repeat("I am a strong fit for this role. ", 3)
