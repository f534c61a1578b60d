package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("generation not found")
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError rejects a request at the boundary, before any record is
// written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
