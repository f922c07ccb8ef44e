package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an HTTP-facing failure. Messages are returned to the mobile client
// verbatim in the envelope's errors list.
type Error struct {
	Status   int
	Code     string
	Messages []string
	Err      error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Messages) > 0 {
		return e.Messages[0]
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error, messages ...string) *Error {
	return &Error{Status: status, Code: code, Err: err, Messages: messages}
}

func BadRequest(err error, messages ...string) *Error {
	return New(http.StatusBadRequest, "validation", err, messages...)
}

// Gone is what the mobile app expects for an unknown survey or participant.
func Gone(err error, messages ...string) *Error {
	return New(http.StatusGone, "not_found", err, messages...)
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "internal", err, "Internal server error.")
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
