// Package apperror defines the domain error types shared by every layer.
//
// The service layer returns these instead of HTTP status codes, and the
// handler layer translates them at the edge (NotFound → 404, Validation →
// re-rendered form, Conflict → 409). Sentinel errors + errors.Is keep that
// translation in exactly one place.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

// AppError carries a sentinel (for errors.Is), a human-readable message,
// and optionally the form field the error belongs to.
type AppError struct {
	Err     error  // sentinel, drives errors.Is matching
	Message string // human-readable error message
	Field   string // optional: form field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that no resource exists for the given key. Ownership
// failures use this too — a note belonging to someone else must be
// indistinguishable from a note that doesn't exist.
func NotFound(resource, key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, key),
	}
}

// ValidationFailed reports a field-level validation error. The Field lets
// the form layer attach the message to the right input when re-rendering.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation on the given field (duplicate
// slug, taken username).
func Conflict(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// Note-scoped operations never return this (they use NotFound instead);
// it exists for surfaces where hiding existence isn't a goal.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}
