package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Catalog errors
	ErrCatalogLoad  ErrorCode = "CATALOG_LOAD"
	ErrCatalogValid ErrorCode = "CATALOG_INVALID"

	// Policy errors
	ErrUnknownRule    ErrorCode = "UNKNOWN_RULE"
	ErrInvalidPattern ErrorCode = "INVALID_PATTERN"
)

// ScopeError represents a structured error with code and details
type ScopeError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ScopeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ScopeError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ScopeError) Is(target error) bool {
	var targetErr *ScopeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ScopeError with the given code and message
func New(code ErrorCode, message string) *ScopeError {
	return &ScopeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ScopeError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ScopeError {
	return &ScopeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ScopeError
func Wrap(err error, code ErrorCode, message string) *ScopeError {
	if err == nil {
		return nil
	}
	return &ScopeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ScopeError {
	if err == nil {
		return nil
	}
	return &ScopeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ScopeError) WithDetail(key string, value interface{}) *ScopeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var scopeErr *ScopeError
	if errors.As(err, &scopeErr) {
		return scopeErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ScopeError
func GetErrorCode(err error) ErrorCode {
	var scopeErr *ScopeError
	if errors.As(err, &scopeErr) {
		return scopeErr.Code
	}
	return ErrUnknown
}

// IsConfigError reports whether err belongs to the configuration error
// family: anything policy or settings loading is allowed to fail with.
func IsConfigError(err error) bool {
	switch GetErrorCode(err) {
	case ErrConfigLoad, ErrConfigParse, ErrConfigValid,
		ErrCatalogLoad, ErrCatalogValid,
		ErrUnknownRule, ErrInvalidPattern:
		return true
	}
	return false
}
