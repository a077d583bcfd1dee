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
	ErrConfigWrite ErrorCode = "CONFIG_WRITE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Manifest errors
	ErrManifestLoad  ErrorCode = "MANIFEST_LOAD"
	ErrManifestValid ErrorCode = "MANIFEST_INVALID"

	// Reconciliation errors
	ErrProbe   ErrorCode = "PROBE"
	ErrFetch   ErrorCode = "FETCH"
	ErrUpgrade ErrorCode = "UPGRADE"

	// Command execution errors
	ErrCommandStart ErrorCode = "COMMAND_START"
	ErrCommandRun   ErrorCode = "COMMAND_RUN"

	// Capture errors
	ErrCaptureCreate ErrorCode = "CAPTURE_CREATE"
	ErrCaptureRead   ErrorCode = "CAPTURE_READ"
)

// FranklinError represents a structured error with code and details
type FranklinError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *FranklinError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *FranklinError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *FranklinError) Is(target error) bool {
	var targetErr *FranklinError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new FranklinError with the given code and message
func New(code ErrorCode, message string) *FranklinError {
	return &FranklinError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new FranklinError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *FranklinError {
	return &FranklinError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a FranklinError
func Wrap(err error, code ErrorCode, message string) *FranklinError {
	if err == nil {
		return nil
	}
	return &FranklinError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *FranklinError {
	if err == nil {
		return nil
	}
	return &FranklinError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *FranklinError) WithDetail(key string, value interface{}) *FranklinError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var franklinErr *FranklinError
	if errors.As(err, &franklinErr) {
		return franklinErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a FranklinError
func GetErrorCode(err error) ErrorCode {
	var franklinErr *FranklinError
	if errors.As(err, &franklinErr) {
		return franklinErr.Code
	}
	return ErrUnknown
}
