package errors

import (
	"fmt"
	"net/http"
)

// Sentinel failures of the chat core. Callers match with errors.Is.
var (
	ErrAuthRejected   = fmt.Errorf("authentication rejected")
	ErrStorageWrite   = fmt.Errorf("storage write failed")
	ErrStorageRead    = fmt.Errorf("storage read failed")
	ErrProjection     = fmt.Errorf("record projection failed")
	InActiveUserError = fmt.Errorf("user is inactive")
)

var (
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
)

// Error carries a message plus the HTTP status handlers respond with.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func New(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

func Wrap(err error, message string, status int) *Error {
	return &Error{Message: message, Status: status, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }
