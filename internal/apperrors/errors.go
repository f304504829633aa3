// Package apperrors defines the error taxonomy shared by services and
// handlers. Services return these typed errors; handlers translate them
// to HTTP statuses without inspecting error text.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthenticated
	KindAuthorization
	KindNotFound
	KindInvalidState
	KindTimeout
	KindInternal
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindAuthorization:
		return "authorization_error"
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindTimeout:
		return "timeout"
	case KindInternal:
		return "internal_error"
	default:
		return "unknown_error"
	}
}

// Error is the structured error returned by the service layer.
type Error struct {
	parent     error
	kind       Kind
	msg        string
	violations []string
}

// New initializes an Error of the given kind.
func New(parent error, kind Kind, msg string) Error {
	return Error{
		parent: parent,
		kind:   kind,
		msg:    msg,
	}
}

// Error returns the error message.
func (e Error) Error() string {
	if e.parent != nil {
		return fmt.Sprintf("Kind=%s, Msg=%s, Parent=(%v)", e.kind, e.msg, e.parent)
	}
	return fmt.Sprintf("Kind=%s, Msg=%s", e.kind, e.msg)
}

// WrapParent attaches an underlying error to an existing Error.
func (e Error) WrapParent(parent error) Error {
	if parent == nil {
		return e
	}
	e.parent = parent
	return e
}

// Unwrap returns the underlying error.
func (e Error) Unwrap() error {
	return e.parent
}

// Kind returns the classification of the error.
func (e Error) Kind() Kind {
	return e.kind
}

// Msg returns the human-readable message.
func (e Error) Msg() string {
	return e.msg
}

// Violations returns the rule violations carried by a validation error.
func (e Error) Violations() []string {
	return e.violations
}

// WithViolations attaches the full list of broken rules so callers can
// report every problem at once.
func (e Error) WithViolations(violations []string) Error {
	e.violations = violations
	return e
}

func NewValidation(msg string) Error {
	return New(nil, KindValidation, msg)
}

func NewUnauthenticated(msg string) Error {
	return New(nil, KindUnauthenticated, msg)
}

func NewAuthorization(msg string) Error {
	return New(nil, KindAuthorization, msg)
}

func NewNotFound(msg string) Error {
	return New(nil, KindNotFound, msg)
}

func NewInvalidState(msg string) Error {
	return New(nil, KindInvalidState, msg)
}

func NewTimeout(msg string) Error {
	return New(nil, KindTimeout, msg)
}

func NewInternal(parent error, msg string) Error {
	return New(parent, KindInternal, msg)
}

// KindOf extracts the Kind from err, or KindUnknown when err is not an
// apperrors.Error.
func KindOf(err error) Kind {
	var appErr Error
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return KindUnknown
}

// HTTPStatus maps an error to the HTTP status a handler should return.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusConflict
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
