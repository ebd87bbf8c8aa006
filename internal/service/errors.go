package service

import (
	"errors"
	"fmt"

	"github.com/RileyK05/basic-crm/internal/repository"
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ConflictError represents a conflict error (e.g., duplicate)
type ConflictError struct {
	Resource string
	Message  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict with %s: %s", e.Resource, e.Message)
}

// UnauthorizedError is returned for bad credentials or a missing session
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Message)
}

// lookupError converts a repository lookup failure into a NotFoundError when
// the row is missing and wraps it otherwise.
func lookupError(err error, resource string, id int) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return fmt.Errorf("failed to get %s: %w", resource, err)
}

// writeError converts a repository write failure, mapping duplicates to a
// ConflictError, missing rows to a NotFoundError and oversized numbers to a
// ValidationError.
func writeError(err error, resource string, id int, action string) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return &ConflictError{Resource: resource, Message: fmt.Sprintf("%s already exists", resource)}
	case errors.Is(err, repository.ErrNotFound):
		return &NotFoundError{Resource: resource, ID: id}
	case errors.Is(err, repository.ErrOutOfRange):
		return &ValidationError{Message: fmt.Sprintf("%s has a numeric value too large for its field", resource)}
	}
	return fmt.Errorf("failed to %s %s: %w", action, resource, err)
}
