package services

import (
	"errors"
	"fmt"

	"blogsite/internal/repositories"
)

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = repositories.ErrNotFound
	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned for duplicate reviews.
	ErrConflict = errors.New("conflict")
	// ErrSelfReview is returned when an author reviews their own blog.
	ErrSelfReview = fmt.Errorf("you cannot review your own blog: %w", ErrForbidden)
	// ErrNoChanges is returned when an update carries no fields.
	ErrNoChanges = errors.New("no changes made to the blog")
	// ErrInvalidToken is returned when a bearer token fails verification.
	ErrInvalidToken = errors.New("invalid token")
)

// NotFoundError names the kind of document that was missing.
type NotFoundError = repositories.NotFoundError

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
