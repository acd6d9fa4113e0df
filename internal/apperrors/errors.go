// Package apperrors provides typed error handling for the webutils helpers.
// It uses struct-based errors with separate user-safe and internal messages.
package apperrors

import (
	"errors"
	"fmt"
)

// Code categorizes errors for consistent handling across the application.
type Code int

// Error codes for categorizing application errors.
const (
	// CodeUnknown indicates an unspecified error type
	CodeUnknown Code = iota
	// CodeNotFound indicates a requested file or entry does not exist
	CodeNotFound
	// CodeDuplicate indicates a name collision the caller asked to reject
	CodeDuplicate
	// CodeInvalidInput indicates malformed or invalid input
	CodeInvalidInput
	// CodeStorage indicates a filesystem operation failure
	CodeStorage
	// CodeArchive indicates a zip read or write failure
	CodeArchive
	// CodeSerialization indicates a JSON encode, decode or patch failure
	CodeSerialization
)

// Error represents a domain error with separate user-safe and internal messages.
// The Message field is always safe to expose to clients.
// The Internal field contains debugging details and should only be logged.
type Error struct {
	Code     Code   // Error category for handler mapping
	Message  string // User-safe message (always exposable)
	Internal string // Internal details (for logging only)
	Field    string // Optional: which parameter caused the error
	Err      error  // Wrapped underlying error
}

// Error implements the error interface.
// Returns the user-safe message, prefixed with the field when present.
func (e *Error) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithInternal adds internal debugging details to the error.
func (e *Error) WithInternal(format string, args ...any) *Error {
	e.Internal = fmt.Sprintf(format, args...)
	return e
}

// WithField adds field information to the error.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// Wrap wraps an underlying error.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// String returns the string representation of the error code.
func (c Code) String() string {
	switch c {
	case CodeUnknown:
		return "unknown"
	case CodeNotFound:
		return "not_found"
	case CodeDuplicate:
		return "duplicate"
	case CodeInvalidInput:
		return "invalid_input"
	case CodeStorage:
		return "storage"
	case CodeArchive:
		return "archive"
	case CodeSerialization:
		return "serialization"
	default:
		return fmt.Sprintf("unknown_code_%d", c)
	}
}

// Is reports whether target matches this error's code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// CodeOf returns the code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

func newError(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NotFound creates a new not found error with the given message.
func NotFound(message string) *Error {
	return newError(CodeNotFound, message)
}

// Duplicate creates a new duplicate error with the given message.
func Duplicate(message string) *Error {
	return newError(CodeDuplicate, message)
}

// InvalidInput creates a new invalid input error with the given message.
func InvalidInput(message string) *Error {
	return newError(CodeInvalidInput, message)
}

// Storage creates a new filesystem error with the given message.
func Storage(message string) *Error {
	return newError(CodeStorage, message)
}

// Archive creates a new zip error with the given message.
func Archive(message string) *Error {
	return newError(CodeArchive, message)
}

// Serialization creates a new JSON error with the given message.
func Serialization(message string) *Error {
	return newError(CodeSerialization, message)
}
