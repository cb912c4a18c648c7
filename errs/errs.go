// Package errs holds the error taxonomy shared by the domain packages.
//
// Every failure the service reports on purpose is an *Error whose Unwrap
// returns one of the sentinels below, so callers classify with errors.Is
// and only the HTTP layer decides on status codes.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthenticated marks a request that carries no usable identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredential marks a credential that was presented but did not verify.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrAuthorization marks a known identity without the needed privilege.
	ErrAuthorization = errors.New("not authorized")
	// ErrNotFound marks a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a valid request against an entity in the wrong state.
	ErrConflict = errors.New("conflict")
)

// Error is a classified failure with a client-safe message.
type Error struct {
	Sentinel error
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Sentinel
}

func newError(sentinel error, format string, args ...any) *Error {
	return &Error{Sentinel: sentinel, Message: fmt.Sprintf(format, args...)}
}

// WithCause attaches the underlying error without exposing it in Message.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

func Validation(format string, args ...any) *Error {
	return newError(ErrValidation, format, args...)
}

func Unauthenticated(format string, args ...any) *Error {
	return newError(ErrUnauthenticated, format, args...)
}

func InvalidCredential(format string, args ...any) *Error {
	return newError(ErrInvalidCredential, format, args...)
}

func Authorization(format string, args ...any) *Error {
	return newError(ErrAuthorization, format, args...)
}

// NotFound reports that no entity of the given kind has id.
func NotFound(entity string, id any) *Error {
	return newError(ErrNotFound, "%s not found: %v", entity, id)
}

func Conflict(format string, args ...any) *Error {
	return newError(ErrConflict, format, args...)
}

// Message returns the client-safe message of err, or "" when err is not an *Error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
