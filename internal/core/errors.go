// internal/core/errors.go
package core

import (
	"errors"
	"fmt"
)

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// HTTPStatusError reports a non-success HTTP status from the backend.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// UserMessage returns the text shown to a user for err: the innermost
// cause of a coded error, or the error text itself.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var coreErr *Error
	if errors.As(err, &coreErr) {
		if coreErr.Cause != nil {
			return UserMessage(coreErr.Cause)
		}
		return coreErr.Message
	}
	return err.Error()
}

// Predefined errors
var (
	// Backend errors
	ErrNetwork     = &Error{Code: "NETWORK_FAILURE", Message: "backend request failed"}
	ErrApplication = &Error{Code: "APPLICATION_FAILURE", Message: "backend reported failure"}

	// Workflow errors
	ErrScanInProgress = &Error{Code: "SCAN_IN_PROGRESS", Message: "Scan already in progress"}
	ErrSymbolNotFound = &Error{Code: "SYMBOL_NOT_FOUND", Message: "symbol not found"}
	ErrNoSymbol       = &Error{Code: "NO_SYMBOL", Message: "no symbol selected"}
	ErrNotFound       = &Error{Code: "NOT_FOUND", Message: "not found"}

	// API errors
	ErrUnauthorized = &Error{Code: "UNAUTHORIZED", Message: "missing API key"}
	ErrForbidden    = &Error{Code: "FORBIDDEN", Message: "invalid API key"}

	// Archive errors
	ErrArchiveFailed = &Error{Code: "ARCHIVE_FAILED", Message: "archive write failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
