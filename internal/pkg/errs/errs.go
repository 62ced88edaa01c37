/*
Package errs defines the HTTP error type consumed by the terminal error renderer.

Handlers that cannot complete a request wrap the failure in an HTTPError carrying
the status code and a user-facing message; the underlying cause is kept for
logging and for the development error page, never for production output.
*/
package errs

import (
	"fmt"
	"net/http"
)

// HTTPError is the error structure handlers forward to the error renderer.
type HTTPError struct {
	// Status is the HTTP status code for the response. Zero defaults to 500.
	Status int

	// Message is the user-facing error description shown on the error page.
	Message string

	// Err is the underlying cause, if any. It is logged and shown only in development.
	Err error
}

// Error implements the standard Go error interface.
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %s: %v", e.StatusCode(), e.Message, e.Err)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode(), e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status, defaulting to 500 when unset.
func (e *HTTPError) StatusCode() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// New constructs an HTTPError with the given status and message.
func New(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// Wrap constructs an HTTPError that records err as the underlying cause.
func Wrap(status int, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Message: message, Err: err}
}

// NotFound is the error produced for unmatched routes.
func NotFound() *HTTPError {
	return New(http.StatusNotFound, "Not Found")
}
