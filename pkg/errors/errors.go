package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the structured error type used across the project. The code is
// compulsory; the cause may be nil.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Context map[string]string
}

// New creates an Error with the given code, message and optional cause.
func New(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Newf creates an Error with a formatted message and no cause.
func Newf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// AddContext attaches a key/value pair to the error and returns it for chaining.
func (e *Error) AddContext(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// GetCode returns the code string of err, or "common.internal" for errors
// that did not originate from this package.
func GetCode(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code.String()
	}
	return CommonInternal.String()
}

// HasCode reports whether err (or any error in its chain) carries code.
func HasCode(err error, code Code) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code.Equals(code)
	}
	return false
}

// AsError converts any error to the internal Error format, wrapping foreign
// errors under common.internal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return New(CommonInternal, err.Error(), err)
}
