// Package errors provides structured error types for traitforge.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the generation engine and the renderer
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input and configuration validation failures (pre-flight, fatal)
//   - *_EXCEEDS_* / *_EXHAUSTED: Unsatisfiable generation requests (fatal)
//   - FILE_NOT_FOUND, DECODE_FAILED, DIMENSION_MISMATCH, SKIPPED_ALL_LAYERS:
//     per-token rendering failures (recoverable, reported at the end of a run)
//   - CANCELED: the run was interrupted before a task started
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidWeights, "layer %q: all weights are zero", name)
//	if errors.Is(err, errors.ErrCodeInvalidWeights) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDecodeFailed, origErr, "decode %s", path)
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
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidWeights Code = "INVALID_WEIGHTS"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Unsatisfiable generation requests
	ErrCodeAmountExceedsCapacity Code = "AMOUNT_EXCEEDS_CAPACITY"
	ErrCodeConstraintExhausted   Code = "CONSTRAINT_EXHAUSTED"

	// Per-token rendering errors
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"
	ErrCodeDecodeFailed      Code = "DECODE_FAILED"
	ErrCodeDimensionMismatch Code = "DIMENSION_MISMATCH"
	ErrCodeSkippedAllLayers  Code = "SKIPPED_ALL_LAYERS"
	ErrCodeRenderPanic       Code = "RENDER_PANIC"

	// Run control
	ErrCodeCanceled Code = "CANCELED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
// The outermost *Error wins, so a wrapped cause with a different code does not match.
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

// IsFatal reports whether err aborts a generation run rather than a single token.
// Rendering failures are recoverable; everything else is treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch GetCode(err) {
	case ErrCodeFileNotFound, ErrCodeDecodeFailed, ErrCodeDimensionMismatch,
		ErrCodeSkippedAllLayers, ErrCodeRenderPanic:
		return false
	}
	return true
}
