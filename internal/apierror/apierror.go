// Package apierror defines the error taxonomy shared by every mutating
// operation in the core. Services never no-op silently: a failed operation
// returns an *Error carrying one of the kinds below, and handlers map the
// kind to an HTTP status without leaking internal details.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for both callers and the HTTP layer.
type Kind int

const (
	// KindInternal is the fallback for unexpected failures.
	KindInternal Kind = iota
	// KindNotFound — a referenced document, account, session or product is absent.
	KindNotFound
	// KindInvalidState — the operation is forbidden by current status
	// (posting to a closed session, opening while one is open, paying a
	// settled document).
	KindInvalidState
	// KindInsufficientStock — a transfer exceeds the available quantity.
	KindInsufficientStock
	// KindValidation — malformed input: non-positive quantity or amount,
	// missing required linkage.
	KindValidation
)

// Error is the canonical error type for the core. It satisfies the error
// interface and supports errors.As / errors.Is via Kind sentinels.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// Is lets callers match against the exported sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Detail == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is checks. Never returned directly — use the
// constructors so every error carries a caller-facing detail message.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidState      = &Error{Kind: KindInvalidState}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrInternal          = &Error{Kind: KindInternal}
)

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Detail: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Detail: fmt.Sprintf(format, args...)}
}

func InsufficientStock(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInsufficientStock, Detail: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Detail: fmt.Sprintf(format, args...)}
}

func Internal(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Detail: fmt.Sprintf(format, args...)}
}

// Status maps an error to the HTTP status code handlers should write.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState, KindInsufficientStock:
		return http.StatusConflict
	case KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// APIError is the JSON error envelope for all 4xx/5xx responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}
