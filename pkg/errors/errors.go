// Package errors provides structured application errors for CivicLens.
// Every error carries a typed ErrorCode so callers can branch on the
// condition and the HTTP layer can map it to a status code without
// string matching.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// AppError
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the structured error type used across the codebase.
type AppError struct {
	// Code identifies the error condition.
	Code ErrorCode `json:"code"`

	// Message is a human-readable summary.
	Message string `json:"message"`

	// Detail carries optional context for operators.
	Detail string `json:"detail,omitempty"`

	// Cause is the wrapped underlying error, if any.
	Cause error `json:"-"`

	// Stack is the captured call stack at construction time.
	Stack string `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Detail != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Detail)
		sb.WriteString(")")
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the wrapped cause for errors.Is / errors.As chains.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a copy of the error with Detail set.
func (e *AppError) WithDetail(format string, args ...interface{}) *AppError {
	clone := *e
	clone.Detail = fmt.Sprintf(format, args...)
	return &clone
}

// WithCause returns a copy of the error wrapping cause.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// HTTPStatus returns the HTTP status code for the error.
func (e *AppError) HTTPStatus() int {
	return HTTPStatusForCode(e.Code)
}

// captureStack records up to 16 frames above the errors package.
func captureStack() string {
	const depth = 16
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if strings.Contains(frame.File, "pkg/errors") {
			if !more {
				break
			}
			continue
		}
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// Constructors
// ─────────────────────────────────────────────────────────────────────────────

// New creates an AppError with the given code and message.
func New(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(),
	}
}

// Wrap wraps an existing error with a code and message. A nil err yields nil.
func Wrap(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
		Stack:   captureStack(),
	}
}

// NotFound creates a resource-not-found error.
func NotFound(format string, args ...interface{}) *AppError {
	return New(CodeNotFound, format, args...)
}

// InvalidParam creates a bad-parameter error.
func InvalidParam(format string, args ...interface{}) *AppError {
	return New(CodeInvalidParam, format, args...)
}

// InvalidState creates a conflict error for operations attempted in the
// wrong state.
func InvalidState(format string, args ...interface{}) *AppError {
	return New(CodeConflict, format, args...)
}

// InvalidTransition creates a status-machine violation error naming both
// endpoints of the rejected transition.
func InvalidTransition(from, to string) *AppError {
	return New(ErrCodeInvalidTransition, "cannot transition from %q to %q", from, to)
}

// Internal creates an internal server error.
func Internal(format string, args ...interface{}) *AppError {
	return New(CodeInternal, format, args...)
}

// Conflict creates a resource conflict error.
func Conflict(format string, args ...interface{}) *AppError {
	return New(CodeConflict, format, args...)
}

// Unauthorized creates an authentication error.
func Unauthorized(format string, args ...interface{}) *AppError {
	return New(CodeUnauthorized, format, args...)
}

// Forbidden creates an authorization error.
func Forbidden(format string, args ...interface{}) *AppError {
	return New(CodeForbidden, format, args...)
}

// ─────────────────────────────────────────────────────────────────────────────
// Inspection
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in the chain carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	for errors.As(err, &appErr) {
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
		appErr = nil
	}
	return false
}

// IsNotFound reports whether the error chain represents a missing resource.
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound) ||
		IsCode(err, ErrCodeComplaintNotFound) ||
		IsCode(err, ErrCodeGeoUnitNotFound)
}

// IsInvalidTransition reports whether the error chain is a status-machine
// violation.
func IsInvalidTransition(err error) bool {
	return IsCode(err, ErrCodeInvalidTransition)
}

// GetCode returns the code of the outermost AppError in the chain, or
// CodeUnknown when none is present.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// As is a convenience wrapper extracting the outermost AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}
