// Package apperr defines the application error taxonomy. Services return
// *Error values; the HTTP layer maps them to status codes and never leaks
// raw store errors to clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	Internal Kind = iota
	// Validation marks malformed or out-of-range input; Field names the
	// offending field.
	Validation
	// NotFound marks a referenced entity that does not exist.
	NotFound
	// Conflict marks a uniqueness violation (duplicate username, slug,
	// embed id, or engagement pair).
	Conflict
	// Unauthenticated marks a missing or invalid credential.
	Unauthenticated
	// Forbidden marks a valid identity with insufficient rights.
	Forbidden
	// LookupUnavailable marks an external metadata lookup failure. Callers
	// swallow it into an empty result; it never surfaces to clients.
	LookupUnavailable
)

type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode maps the error kind to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case LookupUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Validationf builds a Validation error naming the offending field.
func Validationf(field, format string, args ...any) *Error {
	return &Error{Kind: Validation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: Conflict, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticatedf(format string, args ...any) *Error {
	return &Error{Kind: Unauthenticated, Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...any) *Error {
	return &Error{Kind: Forbidden, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Internalf builds an Internal error wrapping err.
func Internalf(err error, format string, args ...any) *Error {
	return &Error{Kind: Internal, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or Internal for non-taxonomy errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

func IsValidation(err error) bool      { return is(err, Validation) }
func IsNotFound(err error) bool        { return is(err, NotFound) }
func IsConflict(err error) bool        { return is(err, Conflict) }
func IsUnauthenticated(err error) bool { return is(err, Unauthenticated) }
func IsForbidden(err error) bool       { return is(err, Forbidden) }

func is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
