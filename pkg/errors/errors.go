// Package errors provides structured error types for sastopo2svg.
//
// Every failure in the pipeline aborts the run, so errors carry a
// machine-readable code plus enough context (the offending node's textual
// form, or the missing FMRI) to diagnose a bad snapshot without re-running
// under a debugger.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedInput, "propgroup has no name: %s", nvl)
//	if errors.Is(err, errors.ErrCodeMalformedInput) {
//	    // schema violation in the snapshot
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIOFailure, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different failure categories.
const (
	// ErrCodeMalformedInput covers snapshot schema violations: missing
	// required fields, unexpected nvpair names, unparsable numeric text,
	// or an unrecognized vertex kind.
	ErrCodeMalformedInput Code = "MALFORMED_INPUT"

	// ErrCodeLookupFailure means an edge or initiator references an FMRI
	// that is absent from the digraph's vertex map.
	ErrCodeLookupFailure Code = "LOOKUP_FAILURE"

	// ErrCodeCycleDetected means the layering walk revisited a vertex on
	// its own active path. The snapshot is not the DAG it claims to be.
	ErrCodeCycleDetected Code = "CYCLE_DETECTED"

	// ErrCodeIOFailure covers filesystem read/write/copy failures.
	ErrCodeIOFailure Code = "IO_FAILURE"

	// ErrCodeInvalidInput covers bad command-line or config values.
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// ErrCodeInternal covers unexpected internal errors.
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
