package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrResultNotFound = fmt.Errorf("%w: result", ErrNotFound)

	// Input errors
	ErrMissingField     = errors.New("missing required field")
	ErrRowCountMismatch = errors.New("row count mismatch")
	ErrMalformedResult  = errors.New("malformed result document")

	// Output selection errors
	ErrUnknownFlavor = errors.New("unknown table flavor")
	ErrUnknownFormat = errors.New("unknown output format")
	ErrUnknownKind   = errors.New("unknown table kind")
)

// MissingFieldError reports a required result field that was read but never set.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// Error constructors with context
func NewMissingFieldError(field string) error {
	return &MissingFieldError{Field: field}
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewResultNotFoundError(id ResultID) error {
	return fmt.Errorf("%w: id %s", ErrResultNotFound, id)
}

func NewRowCountError(what string, got, want int) error {
	return fmt.Errorf("%w: %s has %d rows, expected %d", ErrRowCountMismatch, what, got, want)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsMissingFieldError(err error) bool {
	return errors.Is(err, ErrMissingField)
}

// IsInputError reports errors caused by what the caller supplied rather than by the system.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrRowCountMismatch) ||
		errors.Is(err, ErrMalformedResult) ||
		errors.Is(err, ErrUnknownFlavor) ||
		errors.Is(err, ErrUnknownFormat) ||
		errors.Is(err, ErrUnknownKind)
}
