// Package apperr defines the error taxonomy shared by the services and the
// HTTP layer. Services wrap these sentinels with context; handlers map them
// to status codes with errors.Is, so no layer inspects error strings.
package apperr

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrUnauthorized indicates no actor where one is required.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the actor lacks rights over the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the referenced job or application does not exist,
	// or the id pairing does not match.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a duplicate application for the same job.
	ErrConflict = errors.New("already exists")

	// ErrInvalidOperation indicates a semantically disallowed action, such as
	// applying to one's own job posting.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrTransient indicates storage timeout or unavailability; safe to retry.
	ErrTransient = errors.New("temporarily unavailable")

	// ErrInternal indicates an unexpected failure.
	ErrInternal = errors.New("internal error")
)

// ValidationError carries the full set of field-level problems from input
// validation, not just the first.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// NewValidation builds a ValidationError from field -> message pairs.
func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// IsValidation reports whether err is or wraps a ValidationError, returning
// it when so.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Wrap and Wrapf re-export cockroachdb/errors wrapping so callers annotate
// errors without importing two error packages.
var (
	Wrap  = errors.Wrap
	Wrapf = errors.Wrapf
	Is    = errors.Is
	As    = errors.As
	New   = errors.New
	Newf  = errors.Newf
)
