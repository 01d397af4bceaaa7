// Package domainerrors carries failure categories from services to the
// transport layer without either knowing about HTTP.
package domainerrors

import "errors"

type Code string

const (
	CodeNotFound        Code = "not_found"
	CodeBadRequest      Code = "bad_request"
	CodeValidation      Code = "validation_failed"
	CodeInternal        Code = "internal_error"
	CodeConflict        Code = "conflict"
	CodeUnauthorized    Code = "unauthorized"
	CodePolicyViolation Code = "policy_violation"
	CodeInvalidState    Code = "invalid_state"
)

// Error is a coded failure. Message is safe to show to clients unless Code
// is CodeInternal; Err keeps the underlying cause for logs.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so errors.Is(err,
// &Error{Code: CodeConflict}) works through wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches msg to err. A code already carried by err wins over code.
func Wrap(err error, code Code, msg string) error {
	return &Error{Code: CodeOr(err, code), Message: msg, Err: err}
}

func HasCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// CodeOf is CodeOr(err, CodeInternal).
func CodeOf(err error) Code {
	return CodeOr(err, CodeInternal)
}

// CodeOr returns the code carried by err, or fallback when err is not a
// domain error.
func CodeOr(err error, fallback Code) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return fallback
}
