// Package errors provides structured error types for the supply chain engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI, and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Classes
//
// The engine distinguishes:
//   - data integrity problems, which are tolerated and never surface as errors
//   - layout aborts ([ErrCodeLayoutAborted], [ErrCodeLayoutSuperseded]), which
//     are expected outcomes and are logged rather than propagated
//   - export failures ([ErrCodeExport]), which are returned to the caller
//   - contract violations ([ErrCodeContract]), which are caller bugs and fail fast
//
// # Usage
//
//	err := errors.New(errors.ErrCodeContract, "print requires a printer")
//	if errors.Is(err, errors.ErrCodeContract) {
//	    // Handle caller bug
//	}
//
//	err := errors.Wrap(errors.ErrCodeExport, origErr, "convert to %s", format)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidSource Code = "INVALID_SOURCE"

	// Caller bugs: operation used outside its contract
	ErrCodeContract Code = "CONTRACT_VIOLATION"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeItemNotFound Code = "ITEM_NOT_FOUND"

	// Layout outcomes
	ErrCodeLayoutAborted    Code = "LAYOUT_ABORTED"
	ErrCodeLayoutSuperseded Code = "LAYOUT_SUPERSEDED"
	ErrCodeLayoutFailed     Code = "LAYOUT_FAILED"

	// Export and print failures
	ErrCodeExport Code = "EXPORT_FAILED"

	// Data source and transport errors
	ErrCodeSource  Code = "SOURCE_ERROR"
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsContract reports whether err is a contract violation.
func IsContract(err error) bool { return Is(err, ErrCodeContract) }

// HTTPStatus maps an error code to the HTTP status the API responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidSource:
		return 400
	case ErrCodeNotFound, ErrCodeItemNotFound:
		return 404
	case ErrCodeContract, ErrCodeUnsupported:
		return 422
	case ErrCodeLayoutSuperseded:
		return 409
	case ErrCodeTimeout, ErrCodeLayoutAborted:
		return 504
	}
	return 500
}
