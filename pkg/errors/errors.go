// Package errors provides structured error types for boxarrow.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the library
//   - Machine-readable error codes for programmatic handling
//   - Precise locations (offending node ID and kind) for input errors
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Structural errors in the input tree are fatal and reported before any
// geometry is computed:
//   - DUPLICATE_ID: two nodes share an ID
//   - UNKNOWN_ID: a link references an ID that does not exist
//   - CYCLIC_STRUCTURE: a node contains itself
//   - INVALID_ANCHOR_REFERENCE: a link names a position an item does not define
//
// ROUTING_UNREACHABLE is recoverable: the router falls back to a straight
// path and surfaces the error as a warning.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateID, "id %q is declared twice", id).At(id, "box")
//	if errors.Is(err, errors.ErrCodeDuplicateID) {
//	    // Handle duplicate
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural errors in the schematic tree
	ErrCodeDuplicateID            Code = "DUPLICATE_ID"
	ErrCodeUnknownID              Code = "UNKNOWN_ID"
	ErrCodeCyclicStructure        Code = "CYCLIC_STRUCTURE"
	ErrCodeInvalidAnchorReference Code = "INVALID_ANCHOR_REFERENCE"

	// Recoverable routing errors
	ErrCodeRoutingUnreachable Code = "ROUTING_UNREACHABLE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidID     Code = "INVALID_ID"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code, an optional location and an optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	ID      string // Offending node ID (optional)
	Kind    string // Offending node kind, e.g. "box" or "link" (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Kind != "" || e.ID != "" {
		msg += fmt.Sprintf(" (%s)", e.location())
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *Error) location() string {
	switch {
	case e.Kind != "" && e.ID != "":
		return fmt.Sprintf("%s %q", e.Kind, e.ID)
	case e.ID != "":
		return fmt.Sprintf("id %q", e.ID)
	default:
		return e.Kind
	}
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// At records the offending node ID and kind and returns e for chaining.
func (e *Error) At(id, kind string) *Error {
	e.ID = id
	e.Kind = kind
	return e
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

// Location returns the offending node ID and kind recorded on err, if any.
func Location(err error) (id, kind string) {
	var e *Error
	if errors.As(err, &e) {
		return e.ID, e.Kind
	}
	return "", ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.ID != "" || e.Kind != "" {
			return fmt.Sprintf("%s (%s)", e.Message, e.location())
		}
		return e.Message
	}
	return err.Error()
}

// IsFatal reports whether err must abort resolution. Every error is fatal
// except ROUTING_UNREACHABLE, which only degrades a single link.
func IsFatal(err error) bool {
	return err != nil && !Is(err, ErrCodeRoutingUnreachable)
}
