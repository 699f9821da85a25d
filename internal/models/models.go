package models

import (
	"time"
)

// ApplicationStatus is the review workflow state of an application.
// Any status may follow any other; creation always starts at pending.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusReviewed ApplicationStatus = "reviewed"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// Valid reports whether s is one of the four defined workflow values.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

type Profile struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Job struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string `gorm:"type:uuid;index;not null" json:"user_id"`
	Title       string `gorm:"not null" json:"title"`
	CompanyName string `gorm:"not null" json:"company_name"`
	Description string `gorm:"type:text" json:"description"`
	Location    string `json:"location"`
	JobType     string `json:"job_type"`

	// Advisory display counters, bumped best-effort by the services.
	ApplicationCount int `gorm:"default:0" json:"application_count"`
	ViewCount        int `gorm:"default:0" json:"view_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Application struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	JobID       string `gorm:"type:uuid;uniqueIndex:idx_job_applicant;not null" json:"job_id"`
	ApplicantID string `gorm:"type:uuid;uniqueIndex:idx_job_applicant;not null" json:"applicant_id"`

	// Snapshot of the applicant's details at submission time, independent
	// of later profile edits.
	ApplicantName  string `gorm:"not null" json:"applicant_name"`
	ApplicantEmail string `gorm:"not null" json:"applicant_email"`

	CoverLetter string            `gorm:"type:text" json:"cover_letter,omitempty"`
	ResumeURL   string            `json:"resume_url,omitempty"`
	Status      ApplicationStatus `gorm:"type:varchar(16);default:'pending'" json:"status"`

	SubmittedAt time.Time `gorm:"index" json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobView is an append-only engagement event. Exactly one of ViewerID or
// ViewerIP is set, never both.
type JobView struct {
	ID       string  `gorm:"type:uuid;primaryKey" json:"id"`
	JobID    string  `gorm:"type:uuid;index;not null" json:"job_id"`
	ViewerID *string `gorm:"type:uuid;index" json:"viewer_id,omitempty"`
	ViewerIP *string `gorm:"index" json:"viewer_ip,omitempty"`

	ViewedAt time.Time `gorm:"index" json:"viewed_at"`
}
