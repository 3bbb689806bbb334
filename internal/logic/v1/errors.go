// Package v1 provides account and task business logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors that represent the caller-visible
// failure taxonomy. Business logic wraps them with context using
// fmt.Errorf("%w"); handlers map them to HTTP status codes with errors.Is.
// Anything outside this taxonomy collapses into an operation-specific
// generic error before it leaves the package — internal detail is logged,
// never returned.
package v1

import "errors"

// Sentinel errors for account and task operations.
var (
	// ErrValidation indicates missing or malformed caller input.
	// HTTP Status: 400 Bad Request
	ErrValidation = errors.New("invalid input")

	// ErrInvalidCredentials indicates a failed login. Every login failure
	// branch collapses to this error, so callers cannot distinguish an
	// unknown email from a wrong password.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound indicates the user does not exist for an id-keyed
	// operation.
	// HTTP Status: 404 Not Found
	ErrUserNotFound = errors.New("user not found")

	// ErrTaskNotFound indicates the task does not exist for an id-keyed
	// operation.
	// HTTP Status: 404 Not Found
	ErrTaskNotFound = errors.New("task not found")

	// ErrEmailTaken indicates the store rejected a duplicate email.
	// Uniqueness is never pre-checked; this surfaces the unique violation.
	// HTTP Status: 409 Conflict
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidToken indicates a bearer token that failed verification.
	// HTTP Status: 401 Unauthorized
	ErrInvalidToken = errors.New("invalid token")

	// ErrInternal indicates an unexpected store or runtime failure whose
	// detail must not reach the caller.
	// HTTP Status: 500 Internal Server Error
	ErrInternal = errors.New("internal error")
)
