// Package apperr defines the failures returned by the parish services.
//
// Validation failures are reported before anything is persisted. Business
// outcomes such as an auto-rejected submission are not errors at all; they are
// stored on the request and surfaced as its admin notes.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidContact        = &ValidationError{Field: "contactInfo", Message: "Enter a valid email or PH mobile (+63 or 09 followed by 9 digits)."}
	ErrReissueReasonRequired = &ValidationError{Field: "reissueReason", Message: "A reason is required when requesting another copy of this certificate."}
	ErrTerminalState         = errors.New("request is already completed or rejected and cannot change status")
	ErrRecordAlreadyLinked   = errors.New("a sacrament record is already linked to this request")
	ErrInvalidBirthDate      = &ValidationError{Field: "birthDate", Message: "Birth date cannot be later than the sacrament date."}
	ErrAlreadyIssued         = errors.New("certificate already issued for this request")
	ErrNoMatchingRecord      = errors.New("no sacrament record found for this certificate request")
	ErrFileNotAvailable      = errors.New("certificate file not available")
	ErrCompleteViaIssuance   = &ValidationError{Field: "status", Message: "Certificate requests are completed by issuing the certificate."}
	ErrInvalidTransition     = errors.New("status transition not allowed")
	ErrNoGenerator           = errors.New("no generator available for this certificate type")
	ErrInvalidCredentials    = errors.New("invalid username or password")
)

// ValidationError is a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Required builds the error for a missing field.
func Required(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Invalid builds the error for a malformed field.
func Invalid(field string, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// NoRecordLinkedError means certificate generation could not resolve the
// sacrament record backing the certificate.
type NoRecordLinkedError struct {
	Type string // BAPTISM, CONFIRMATION, MARRIAGE or FUNERAL
}

func (e *NoRecordLinkedError) Error() string {
	return fmt.Sprintf("No %s record linked to this certificate.", strings.ToLower(e.Type))
}

// NoRecordLinked returns the generation failure for the given sacrament type.
func NoRecordLinked(sacramentType string) error {
	return &NoRecordLinkedError{Type: sacramentType}
}

// Guidance maps issuance and generation failures to text an admin can act on.
func Guidance(err error) string {
	var noRecord *NoRecordLinkedError
	var validation *ValidationError
	switch {
	case errors.As(err, &noRecord):
		name := strings.ToLower(noRecord.Type)
		action := "link or create the " + name + " record for this person"
		if noRecord.Type == "CONFIRMATION" || noRecord.Type == "FUNERAL" {
			action = "complete the " + name + " record"
		}
		return fmt.Sprintf("Cannot generate: no %s record is linked to this certificate. Please %s and retry.", name, action)
	case errors.Is(err, ErrNoMatchingRecord):
		return "Cannot issue: no active sacrament record matches this request. Create or unarchive the record, then issue again."
	case errors.Is(err, ErrAlreadyIssued):
		return "A certificate was already issued for this request. Ask the requester to submit a reissue request instead."
	case errors.Is(err, ErrTerminalState):
		return "This request is closed and cannot be changed."
	case errors.Is(err, ErrFileNotAvailable):
		return "The certificate PDF has not been generated or uploaded yet."
	case errors.Is(err, ErrNoGenerator):
		return "This certificate type cannot be generated automatically. Upload the prepared file instead."
	case errors.Is(err, ErrNotFound):
		return "The requested item no longer exists."
	case errors.As(err, &validation):
		return validation.Message
	default:
		return "Unable to complete the operation right now. Please verify the linked sacrament record and try again."
	}
}
