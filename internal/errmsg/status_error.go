// Package errmsg holds every error message the API shows to clients.
package errmsg

import "errors"

var EmptyStatusError = NewStatusError(0, "")

// StatusError pairs an HTTP status with the fixed message sent to the caller.
type StatusError struct {
	StatusCode int
	Message    string
}

func NewStatusError(statusCode int, message string) StatusError {
	return StatusError{
		StatusCode: statusCode,
		Message:    message,
	}
}

func (se StatusError) Error() string {
	return se.Message
}

// From maps err onto a StatusError, falling back to InternalServerError for
// anything that is not one already.
func From(err error) StatusError {
	var se StatusError
	if errors.As(err, &se) {
		return se
	}

	return InternalServerError
}
