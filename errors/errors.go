package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// Error is the type for API errors that are sent back to the client
// with a matching HTTP status code.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

var (
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrNotFound            = New("resource not found", http.StatusNotFound)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrInvalidPassword     = New("invalid email or password", http.StatusUnauthorized)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	InActiveUserError      = New("user account is not active", http.StatusUnauthorized)
)

// New creates a new Error with the given message and status code
func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("error: message: %s", e.Message)
}

// GetUniqueContraintError maps a database unique constraint violation
// to a client friendly error
func GetUniqueContraintError(err error) *Error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "email"):
		return New("user with this email already exists", http.StatusConflict)
	case strings.Contains(msg, "username"):
		return New("user with this username already exists", http.StatusConflict)
	default:
		return New("record already exists", http.StatusConflict)
	}
}
