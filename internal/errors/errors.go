// Package errors defines the application error taxonomy. Every failure that
// crosses the service boundary is translated into one of these codes; raw
// driver and library errors never escape untranslated.
package errors

import (
	"errors"
	"fmt"
)

// Code categorizes an application error.
type Code string

const (
	// CodeUnauthenticated covers missing, invalid, expired, superseded, and
	// blacklisted tokens, and bad login credentials.
	CodeUnauthenticated Code = "unauthenticated"
	// CodeForbidden covers disabled accounts and role denials.
	CodeForbidden Code = "forbidden"
	// CodeConflict covers duplicate username/email/phone at registration.
	CodeConflict Code = "conflict"
	// CodeValidation covers malformed request input.
	CodeValidation Code = "validation"
	// CodeNotFound covers missing resources (e.g. no published terms).
	CodeNotFound Code = "not_found"
	// CodeUnavailable covers session-store and database failures; the only
	// transient code. Callers may retry the whole operation; the service
	// never retries internally.
	CodeUnavailable Code = "unavailable"
	// CodeInternal covers everything else.
	CodeInternal Code = "internal"
)

// AppError is a structured application error with a code, a caller-safe
// message, and an optional wrapped cause. It supports errors.Is/As.
type AppError struct {
	Code    Code
	Message string
	Cause   error
	// Field names the offending field for validation and conflict errors.
	Field string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error { return e.Cause }

// Unauthenticated creates an unauthenticated error.
func Unauthenticated(message string) *AppError {
	return &AppError{Code: CodeUnauthenticated, Message: message}
}

// Forbidden creates a forbidden error.
func Forbidden(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

// Conflict creates a conflict error for the given field.
func Conflict(field, message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message, Field: field}
}

// Validation creates a validation error.
func Validation(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// ValidationField creates a validation error naming the offending field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Field: field}
}

// NotFound creates a not-found error.
func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

// Unavailable wraps a dependency failure (store, database) as unavailable.
func Unavailable(message string, cause error) *AppError {
	return &AppError{Code: CodeUnavailable, Message: message, Cause: cause}
}

// Internal wraps an unexpected failure.
func Internal(message string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Cause: cause}
}

func isCode(err error, code Code) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsUnauthenticated reports whether err carries CodeUnauthenticated.
func IsUnauthenticated(err error) bool { return isCode(err, CodeUnauthenticated) }

// IsForbidden reports whether err carries CodeForbidden.
func IsForbidden(err error) bool { return isCode(err, CodeForbidden) }

// IsConflict reports whether err carries CodeConflict.
func IsConflict(err error) bool { return isCode(err, CodeConflict) }

// IsValidation reports whether err carries CodeValidation.
func IsValidation(err error) bool { return isCode(err, CodeValidation) }

// IsNotFound reports whether err carries CodeNotFound.
func IsNotFound(err error) bool { return isCode(err, CodeNotFound) }

// IsUnavailable reports whether err carries CodeUnavailable.
func IsUnavailable(err error) bool { return isCode(err, CodeUnavailable) }

// GetCode returns the Code carried by err, or CodeInternal when err is not an
// AppError. Returns empty string for nil.
func GetCode(err error) Code {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// GetField returns the Field carried by err, or "" when absent.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
