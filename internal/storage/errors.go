package storage

import (
	"errors"
	"fmt"
	"strings"
)

// StorageError marks a failure of the database itself rather than of a
// single row. Ingest handlers answer it with 503 so the exporter retries.
type StorageError struct {
	Message string
	Cause   error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewInfrastructureError creates a retryable storage error.
func NewInfrastructureError(message string, cause error) *StorageError {
	return &StorageError{Message: message, Cause: cause}
}

// IsInfrastructure reports whether err is or wraps a StorageError.
func IsInfrastructure(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// maxReportedErrors caps the row errors echoed back in a partial success.
const maxReportedErrors = 3

// StoreResult is the outcome of a batch insert, reported to OTLP clients
// as partial success.
type StoreResult struct {
	Accepted int
	Rejected int
	Errors   []string
}

// AddError records a rejected row.
func (r *StoreResult) AddError(msg string) {
	r.Rejected++
	r.Errors = append(r.Errors, msg)
}

func (r *StoreResult) HasRejections() bool {
	return r.Rejected > 0
}

// ErrorMessage summarizes the rejections for the export response.
func (r *StoreResult) ErrorMessage() string {
	switch len(r.Errors) {
	case 0:
		return ""
	case 1:
		return r.Errors[0]
	}
	shown := r.Errors
	if len(shown) > maxReportedErrors {
		shown = shown[:maxReportedErrors]
	}
	return fmt.Sprintf("%d errors: %s", len(r.Errors), strings.Join(shown, "; "))
}
