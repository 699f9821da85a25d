// Package validation holds the submission rules for application intake.
// Violations are reported as the full set of field-level messages, not just
// the first one hit.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// MaxResumeSize caps uploaded documents at 5MB.
const MaxResumeSize = 5 << 20

// AllowedResumeTypes is the fixed set of document MIME types accepted for a
// resume upload.
var AllowedResumeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var nameRe = regexp.MustCompile(`^[a-zA-Z\s\-'.]+$`)

var validate = func() *validator.Validate {
	v := validator.New()
	// Letters, spaces, hyphen, apostrophe, period only.
	_ = v.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		return nameRe.MatchString(fl.Field().String())
	})
	return v
}()

// SubmitApplicationInput is the validated portion of an intake submission.
type SubmitApplicationInput struct {
	ApplicantName  string `validate:"required,min=2,max=100,person_name"`
	ApplicantEmail string `validate:"required,email,max=254"`
	CoverLetter    string `validate:"omitempty,min=50,max=2000"`

	// Resume metadata; zero values mean no document was supplied.
	ResumeFilename    string
	ResumeSize        int64
	ResumeContentType string
}

// HasResume reports whether a document was supplied with the submission.
func (in SubmitApplicationInput) HasResume() bool {
	return in.ResumeFilename != ""
}

// Check validates the submission and returns every field problem found.
// An empty map means the input is valid.
func Check(in SubmitApplicationInput) map[string]string {
	fields := map[string]string{}

	if err := validate.Struct(in); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			switch fe.Field() {
			case "ApplicantName":
				fields["applicant_name"] = nameMessage(fe)
			case "ApplicantEmail":
				fields["applicant_email"] = emailMessage(fe)
			case "CoverLetter":
				fields["cover_letter"] = coverLetterMessage(fe)
			}
		}
	}

	if in.HasResume() {
		if in.ResumeSize > MaxResumeSize {
			fields["resume"] = "File size must be less than 5MB"
		} else if !AllowedResumeTypes[in.ResumeContentType] {
			fields["resume"] = "Only PDF, DOC, and DOCX files are allowed"
		}
	}

	return fields
}

func nameMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Name is required"
	case "min":
		return "Name must be at least 2 characters"
	case "max":
		return "Name must not exceed 100 characters"
	default:
		return "Name contains invalid characters"
	}
}

func emailMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Email is required"
	case "max":
		return "Email too long"
	default:
		return "Invalid email address"
	}
}

func coverLetterMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "Cover letter must be at least 50 characters"
	case "max":
		return "Cover letter must not exceed 2000 characters"
	default:
		return "Invalid cover letter"
	}
}
