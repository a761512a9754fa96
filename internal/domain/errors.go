package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorKind classifies client-side failures.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation_error"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindRequestFailed   ErrorKind = "request_failed"
	KindNetwork         ErrorKind = "network_error"
	KindNotFound        ErrorKind = "not_found"
)

// FieldErrors maps a form field name to a human readable problem.
type FieldErrors map[string]string

// Error is the single error type surfaced to views. Status is the HTTP status
// when one was received; Fields is only set for validation errors.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Fields  FieldErrors
	Err     error
}

func (e *Error) Error() string {
	if e.Kind == KindValidation && len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		return fmt.Sprintf("%s: %s", e.Kind, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(fields FieldErrors) *Error {
	return &Error{Kind: KindValidation, Message: "invalid input", Fields: fields}
}

func NewUnauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

func NewUnauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Status: 401, Message: msg}
}

func NewRequestFailed(status int, msg string) *Error {
	return &Error{Kind: KindRequestFailed, Status: status, Message: msg}
}

func NewNetworkError(err error) *Error {
	msg := "network error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindNetwork, Message: msg, Err: err}
}

func NewNotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Status: 404, Message: what + " not found"}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind checks if err carries an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
