package domain

import (
	"errors"
	"strings"
)

var (
	ErrDuplicateEmail     = errors.New("email already exists")            // 409
	ErrInvalidCredentials = errors.New("invalid email or password")       // 401
	ErrUnauthorized       = errors.New("missing or invalid bearer token") // 401
	ErrForbidden          = errors.New("not allowed")                     // 403
	ErrNotFound           = errors.New("not found")                       // 404
	ErrPersistence        = errors.New("persistence failure")             // 500
)

type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every rule an input broke.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError returns nil when there is nothing to report.
func NewValidationError(vs []Violation) error {
	if len(vs) == 0 {
		return nil
	}
	return &ValidationError{Violations: vs}
}
