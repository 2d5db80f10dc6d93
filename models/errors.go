package models

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a lookup for a record that does not exist.
var ErrNotFound = errors.New("record not found")

// ErrInvalidCredentials covers both unknown email and wrong password, so a
// caller cannot probe which one it was.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrDataIntegrity marks stored state that contradicts an invariant
// (e.g. longest_streak < current_streak). Requests abort on it; nothing
// repairs it silently.
var ErrDataIntegrity = errors.New("data integrity fault")

// ValidationError reports a rejected input and the field at fault.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
