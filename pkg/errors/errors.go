package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code, so clones compare equal to their template.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// ErrAuthContextMissing means a protected handler ran without an authenticated actor.
	// It points at a middleware wiring bug and always fails closed.
	ErrAuthContextMissing = New("AUTH_CONTEXT_MISSING", http.StatusUnauthorized, "authentication context missing")
	// ErrSourceFetch reports that one calendar source could not be read.
	ErrSourceFetch = New("SOURCE_FETCH_FAILED", http.StatusInternalServerError, "failed to load calendar sources")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Public returns the client-safe view of err. Server errors keep only their code's generic message.
func Public(err error) *Error {
	appErr := FromError(err)
	if appErr == nil {
		return nil
	}
	public := &Error{Code: appErr.Code, Status: appErr.Status, Message: appErr.Message}
	if public.Status >= http.StatusInternalServerError {
		switch public.Code {
		case ErrSourceFetch.Code:
			public.Message = ErrSourceFetch.Message
		default:
			public.Code = ErrInternal.Code
			public.Message = ErrInternal.Message
		}
	}
	return public
}
