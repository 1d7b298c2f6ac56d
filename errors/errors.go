package errors

import (
	"errors"
	"net/http"
)

// Error is the application error type surfaced to API clients. Message is
// safe to return to the caller; Status is the HTTP status it maps to.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

var (
	ErrNotFound            = New("not found", http.StatusBadRequest)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrConflict            = New("conflict", http.StatusConflict)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
)

// New creates an Error. Status is optional and defaults to 500.
func New(message string, status ...int) *Error {
	code := http.StatusInternalServerError
	if len(status) > 0 {
		code = status[0]
	}
	return &Error{
		Message: message,
		Status:  code,
	}
}

func (e *Error) Error() string {
	return e.Message
}

// NotFound builds a 400 error naming the missing entity, worded for the
// API surface ("The user doesn't exist" etc.).
func NotFound(description string) *Error {
	return New(description, http.StatusBadRequest)
}

// Conflict builds a 409 error for uniqueness violations.
func Conflict(description string) *Error {
	return New(description, http.StatusConflict)
}

// As extracts an *Error from err if there is one.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
