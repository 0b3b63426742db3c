package apperr

import (
	"errors"
	"net/http"
)

// Error is the taxonomy surfaced at the HTTP boundary: every failure a
// handler reports is one of these, carrying the status code to map to.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// ValidationUnprocessable is used where a required field is missing
// entirely rather than malformed (422 instead of 400).
func ValidationUnprocessable(msg string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Message: msg}
}

func Authentication(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

func Authorization(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

func Upstream(msg string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// From normalizes any error into an *Error, wrapping unexpected ones
// as 500s so handlers never leak raw failures.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Status: http.StatusInternalServerError, Message: "internal server error", Err: err}
}
