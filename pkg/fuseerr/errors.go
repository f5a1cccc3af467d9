package fuseerr

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"

	// Document errors
	ErrMalformedDocument ErrorCode = "MALFORMED_DOCUMENT"
	ErrSanitizeCollision ErrorCode = "SANITIZE_COLLISION"
	ErrNotATable         ErrorCode = "NOT_A_TABLE"

	// Rule errors
	ErrInvalidPattern  ErrorCode = "INVALID_PATTERN"
	ErrInvalidRule     ErrorCode = "INVALID_RULE"
	ErrUnresolvedAlias ErrorCode = "UNRESOLVED_ALIAS"

	// Binding errors
	ErrNameCollision      ErrorCode = "NAME_COLLISION"
	ErrAmbiguousBinding   ErrorCode = "AMBIGUOUS_BINDING"
	ErrHeterogeneousArray ErrorCode = "HETEROGENEOUS_ARRAY"

	// Tooling errors
	ErrConfigLoad       ErrorCode = "CONFIG_LOAD"
	ErrFileNotFound     ErrorCode = "FILE_NOT_FOUND"
	ErrManifestNotFound ErrorCode = "MANIFEST_NOT_FOUND"
	ErrEmitFailed       ErrorCode = "EMIT_FAILED"
)

// FuseError represents a structured error with code and details
type FuseError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *FuseError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *FuseError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *FuseError) Is(target error) bool {
	var targetErr *FuseError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new FuseError with the given code and message
func New(code ErrorCode, message string) *FuseError {
	return &FuseError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new FuseError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *FuseError {
	return &FuseError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a FuseError
func Wrap(err error, code ErrorCode, message string) *FuseError {
	if err == nil {
		return nil
	}
	return &FuseError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *FuseError {
	if err == nil {
		return nil
	}
	return &FuseError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *FuseError) WithDetail(key string, value interface{}) *FuseError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithBlock records the namespace block the error occurred in
func (e *FuseError) WithBlock(name string) *FuseError {
	return e.WithDetail("block", name)
}

// WithPath records the document path involved in the error
func (e *FuseError) WithPath(path string) *FuseError {
	return e.WithDetail("path", path)
}

// WithPattern records the pattern text involved in the error
func (e *FuseError) WithPattern(pattern string) *FuseError {
	return e.WithDetail("pattern", pattern)
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	var fuseErr *FuseError
	if errors.As(err, &fuseErr) {
		return fuseErr.Code == code
	}
	return false
}

// CodeOf returns the error code from an error, or ErrUnknown if not a FuseError
func CodeOf(err error) ErrorCode {
	var fuseErr *FuseError
	if errors.As(err, &fuseErr) {
		return fuseErr.Code
	}
	return ErrUnknown
}

// DetailsOf returns the details from an error, or nil if not a FuseError
func DetailsOf(err error) map[string]interface{} {
	var fuseErr *FuseError
	if errors.As(err, &fuseErr) {
		return fuseErr.Details
	}
	return nil
}
