/*
errors.go - Centralized error types for the mission engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages should wrap these errors with additional context.

ERROR CATEGORIES:
  1. Lookup errors - Missing users, natures, missions, expenses
  2. Validation errors - Business rule violations
  3. Auth errors - Credential and token failures

USAGE:
  Domain packages wrap the sentinels:

    if errors.Is(err, core.ErrNotFound) {
        // surface as HTTP 404
    }

SEE ALSO:
  - api/handlers.go: Maps these errors to HTTP statuses
  - store/sqlite/sqlite.go: Returns them from lookups
*/
package core

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidCredentials is returned when email/password verification fails.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailExists is returned when registering an already-used email.
	ErrEmailExists = errors.New("email already registered")

	// ErrWeakPassword is returned when a password fails the minimum policy.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrInvalidToken is returned for malformed, forged, or expired tokens.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrMissingToken is returned when the Authorization header is absent.
	ErrMissingToken = errors.New("authorization token required")

	// ErrForbidden is returned when the caller's role is insufficient.
	ErrForbidden = errors.New("insufficient role")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError identifies which record a lookup missed.
type NotFoundError struct {
	Kind string // "user", "nature", "mission", "expense"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFound builds a NotFoundError for the given record kind and id.
func NewNotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrEmailExists)
}
