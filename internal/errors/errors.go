package errors

import (
	"errors"
	"net/http"
)

// HTTPError is a domain error carrying the HTTP status it maps to.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// New creates an HTTPError with an explicit status code.
func New(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// Validation creates a 400 error for malformed or missing input.
func Validation(message string) *HTTPError {
	return New(http.StatusBadRequest, message)
}

// Unauthorized creates a 401 error for missing or bad credentials.
func Unauthorized(message string) *HTTPError {
	return New(http.StatusUnauthorized, message)
}

// Forbidden creates a 403 error for failed role or ownership checks.
func Forbidden(message string) *HTTPError {
	return New(http.StatusForbidden, message)
}

// NotFound creates a 404 error for an absent entity.
func NotFound(message string) *HTTPError {
	return New(http.StatusNotFound, message)
}

// Conflict creates a 409 error for uniqueness or referential violations.
func Conflict(message string) *HTTPError {
	return New(http.StatusConflict, message)
}

var (
	// ErrInvalidCredentials deliberately uses one message for unknown
	// email, deactivated account, and wrong password so that login
	// cannot be used to enumerate users.
	ErrInvalidCredentials = Unauthorized("invalid email or password")
	// ErrInvalidToken is returned when a bearer token fails signature
	// or expiry checks.
	ErrInvalidToken = Unauthorized("invalid or expired token")
	// ErrAuthRequired is returned when no identity is attached to a
	// protected request.
	ErrAuthRequired = Unauthorized("authentication required")
	// ErrInsufficientPermissions is returned when the caller's roles do
	// not satisfy a route's required role set.
	ErrInsufficientPermissions = Forbidden("insufficient permissions")
	// ErrNotAssignedReviewer is returned when a reviewer touches an
	// application assigned to someone else.
	ErrNotAssignedReviewer = Forbidden("not the assigned reviewer for this application")

	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = NotFound("user not found")
	// ErrScholarshipNotFound is returned when a scholarship is not found.
	ErrScholarshipNotFound = NotFound("scholarship not found")
	// ErrApplicationNotFound is returned when an application is not found.
	ErrApplicationNotFound = NotFound("application not found")

	// ErrEmailTaken is returned when registering an already-used email.
	ErrEmailTaken = Conflict("email already registered")
	// ErrDuplicateApplication is returned on a second application by
	// the same student to the same scholarship.
	ErrDuplicateApplication = Conflict("application already submitted for this scholarship")
	// ErrScholarshipHasApplications blocks deletion while applications
	// still reference the scheme.
	ErrScholarshipHasApplications = Conflict("scholarship has existing applications")

	// ErrDeadlinePassed is returned when applying after the deadline.
	ErrDeadlinePassed = Validation("application deadline has passed")
	// ErrScholarshipNotActive is returned when applying to an inactive
	// or closed scheme.
	ErrScholarshipNotActive = Validation("scholarship is not accepting applications")
	// ErrScholarshipFull is returned when the application cap is reached.
	ErrScholarshipFull = Conflict("scholarship has reached its application limit")
)

// FromError maps any error to an HTTPError. Unknown errors become a
// 500 with a generic message; the underlying detail is for server-side
// logs only, never the client.
func FromError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return New(http.StatusInternalServerError, "internal server error")
}

// Is reports whether err matches target, following wrapped errors.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
