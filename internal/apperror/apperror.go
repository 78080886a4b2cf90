// Package apperror defines the operational error type handlers funnel into
// the centralized JSON error responder. An operational error carries its own
// HTTP status and a message safe to show to clients; any other error is
// treated as unexpected and reported generically outside development mode.
package apperror

import "net/http"

// Error is an operational error with an explicit HTTP status code.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an operational error with an explicit status code.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// BadRequest creates a 400 operational error.
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Unauthorized creates a 401 operational error.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// NotFound creates a 404 operational error.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Internal creates a 500 operational error whose message is still safe to
// show to clients.
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}
