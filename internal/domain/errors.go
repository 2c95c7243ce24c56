package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers missing readers, staff, books and borrow records.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when an actor acts on a record it does not own.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports malformed input shape (empty book list, too many
// books, bad dates). Surfaced as HTTP 400 with field detail.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// BusinessError reports a circulation rule violation with a human-readable
// reason. Surfaced as HTTP 400; the message string is the contract.
type BusinessError struct {
	Reason string
}

func (e *BusinessError) Error() string {
	return e.Reason
}

// Businessf builds a BusinessError from a format string.
func Businessf(format string, args ...any) error {
	return &BusinessError{Reason: fmt.Sprintf(format, args...)}
}
