package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures so callers can map them to transport
// responses without inspecting messages.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindNotFound    ErrorKind = "not_found"
	KindConflict    ErrorKind = "conflict"
	KindPersistence ErrorKind = "persistence"
)

// Error carries a kind plus a short user-facing message. Internal detail
// stays in the wrapped error and is not exposed past the engine boundary.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Validationf builds a validation error
func Validationf(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a not-found error
func NotFoundf(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds a concurrency conflict error; callers should retry
func Conflictf(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// PersistenceErr wraps a store failure
func PersistenceErr(err error, message string) error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

// KindOf extracts the kind from err, defaulting to persistence for unknown
// errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// MessageOf returns the short user-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
