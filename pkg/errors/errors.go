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

// Is matches errors sharing the same code so clones and wraps compare equal to
// the predefined values.
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
	ErrNotFound         = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrInvalidInput     = New("INVALID_INPUT", http.StatusBadRequest, "invalid input")
	ErrDuplicateKey     = New("DUPLICATE_KEY", http.StatusConflict, "a record with the same key already exists")
	ErrStoreUnavailable = New("STORE_UNAVAILABLE", http.StatusServiceUnavailable, "record store unavailable")
	ErrInternal         = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// ErrCacheMiss never leaves the process; cache layers return it on absent keys.
	ErrCacheMiss = New("CACHE_MISS", http.StatusNotFound, "cache miss")
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

// Unavailable wraps a record store failure.
func Unavailable(err error, message string) *Error {
	return Wrap(err, ErrStoreUnavailable.Code, ErrStoreUnavailable.Status, message)
}

// Invalid wraps a validation failure.
func Invalid(err error, message string) *Error {
	return Wrap(err, ErrInvalidInput.Code, ErrInvalidInput.Status, message)
}
