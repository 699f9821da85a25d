package dtos

import (
	"time"

	"github.com/joblane/joblane/internal/models"
)

// SubmitApplicationResponse is the created-application summary returned to
// the applicant.
type SubmitApplicationResponse struct {
	ID          string                   `json:"id"`
	Status      models.ApplicationStatus `json:"status"`
	SubmittedAt time.Time                `json:"submitted_at"`
}

// StatusUpdateRequest carries the employer's review action.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// StatusUpdateResponse is the post-update summary.
type StatusUpdateResponse struct {
	ID        string                   `json:"id"`
	Status    models.ApplicationStatus `json:"status"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// ProfileSummary is the minimal applicant profile paired with applications
// on the employer's list view.
type ProfileSummary struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// JobSummary is the posting context paired with applications on the
// applicant's list view.
type JobSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	CompanyName string    `json:"company_name"`
	Location    string    `json:"location"`
	JobType     string    `json:"job_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// ApplicationWithApplicant is a review read: the application plus the
// applicant's current profile fields.
type ApplicationWithApplicant struct {
	models.Application
	Applicant *ProfileSummary `json:"profile,omitempty"`
}

// ApplicationWithJob is an applicant read: the application plus the
// referenced posting's summary.
type ApplicationWithJob struct {
	models.Application
	Job *JobSummary `json:"job,omitempty"`
}

// ApplicationDetail is the single-application read, joined both ways.
type ApplicationDetail struct {
	models.Application
	Job       *JobSummary     `json:"job,omitempty"`
	Applicant *ProfileSummary `json:"profile,omitempty"`
}
