// Package apperr holds the error kinds shared by every domain package.
// Callers check them with errors.Is; the HTTP layer maps them to status codes.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrReferenced = errors.New("still referenced by transactions")
	ErrDuplicate  = errors.New("already exists")
	ErrConflict   = errors.New("concurrent update conflict")

	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid returns a *ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Code is the machine-readable kind reported to API clients.
type Code string

const (
	CodeUnknown    Code = "UNKNOWN"
	CodeNotFound   Code = "NOT_FOUND"
	CodeValidation Code = "VALIDATION"
	CodeReferenced Code = "REFERENCED"
	CodeDuplicate  Code = "DUPLICATE"
	CodeConflict   Code = "CONFLICT"

	CodeUnauthorized Code = "UNAUTHORIZED"
)

// CodeOf classifies err into one of the known codes.
func CodeOf(err error) Code {
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrReferenced):
		return CodeReferenced
	case errors.Is(err, ErrDuplicate):
		return CodeDuplicate
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	}

	return CodeUnknown
}
