package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of the transport.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindInvalidTime  Kind = "invalid_time"
	KindConflict     Kind = "conflict"
	KindInvalidInput Kind = "invalid_input"
)

// Status returns the HTTP status code used for the kind.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidTime, KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// AppError is a custom error type that includes a kind, an HTTP status code and an optional underlying error.
type AppError struct {
	Kind    Kind
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError of the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    kind.Status(),
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    kind.Status(),
		Message: message,
		Err:     err,
	}
}

// KindOf reports the kind of the first AppError in err's chain.
func KindOf(err error) (Kind, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
