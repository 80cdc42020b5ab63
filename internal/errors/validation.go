package errors

import (
	"errors"
	"fmt"
)

// ValidationError is a field-scoped validation failure. It wraps
// ErrValidation so callers can categorize it with errors.Is() while
// still reporting which input field was rejected.
type ValidationError struct {
	// Field is the name of the rejected input field.
	Field string
	// Reason explains why the value was rejected.
	Reason string
}

// NewValidationError creates a field-scoped validation error.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// Unwrap links the error to the ErrValidation sentinel.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// IsValidationError checks whether err carries a field-scoped validation failure.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}
