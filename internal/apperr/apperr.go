// Package apperr defines the error kinds shared by the auth core and the feature services.
// Services return these kinds; only the HTTP layer maps them to status codes.
package apperr

import (
	"errors"

	"github.com/samber/oops"
)

// Error kinds. Match with errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInternal           = errors.New("internal error")
)

// Error is a client-safe error: Error() is the message shown to callers and Unwrap yields the kind.
type Error struct {
	kind    error
	message string
}

// New returns an error of the given kind carrying message.
func New(kind error, message string) *Error {
	return &Error{kind: kind, message: message}
}

func (e *Error) Error() string { return e.message }

func (e *Error) Unwrap() error { return e.kind }

// Internal wraps an unexpected failure so callers only see ErrInternal while the cause,
// code and context stay available to operators through oops.
func Internal(code string, cause error, kv ...any) error {
	b := oops.Code(code)
	if len(kv) > 0 {
		b = b.With(kv...)
	}
	return b.Wrap(errors.Join(ErrInternal, cause))
}

// Kind returns the kind err belongs to. Anything unrecognised is ErrInternal.
func Kind(err error) error {
	if errors.Is(err, ErrInternal) {
		return ErrInternal
	}
	for _, k := range []error{ErrInvalidInput, ErrNotFound, ErrInvalidCredentials, ErrAlreadyExists, ErrUnauthorized} {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrInternal
}

// Message returns the client-safe message for err. Internal errors never expose their cause.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && !errors.Is(err, ErrInternal) {
		return e.message
	}
	switch k := Kind(err); k {
	case ErrInternal:
		return "Internal Server Error"
	default:
		return k.Error()
	}
}
