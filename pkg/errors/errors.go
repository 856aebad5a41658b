// Package errors provides structured error types for the badgeboard editor.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the editor core, CLI and HTTP boundary
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages for toasts and status lines
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (the document is left untouched)
//   - *NOT_FOUND: Resource not found
//   - MISSING_ATTRIBUTE: Missing attendee data (degraded, never fatal)
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSelection, "grouping needs at least 2 elements, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidSelection) {
//	    // Report to the user, keep editing
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidDocument, origErr, "element %s", id)
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
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidElement   Code = "INVALID_ELEMENT"
	ErrCodeInvalidKind      Code = "INVALID_KIND"
	ErrCodeInvalidColor     Code = "INVALID_COLOR"
	ErrCodeInvalidSelection Code = "INVALID_SELECTION"
	ErrCodeInvalidDocument  Code = "INVALID_DOCUMENT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeDuplicateID      Code = "DUPLICATE_ID"
	ErrCodeGroupMember      Code = "GROUP_MEMBER"
	ErrCodeUnknownField     Code = "UNKNOWN_FIELD"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeElementNotFound  Code = "ELEMENT_NOT_FOUND"
	ErrCodeTemplateNotFound Code = "TEMPLATE_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

	// Missing-data conditions
	ErrCodeMissingAttribute Code = "MISSING_ATTRIBUTE"

	// Session lifecycle errors
	ErrCodeSessionClosed Code = "SESSION_CLOSED"

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

// IsValidation reports whether err is one of the INVALID_* family or another
// condition that leaves the document in its last-known-good state.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidElement, ErrCodeInvalidKind,
		ErrCodeInvalidColor, ErrCodeInvalidSelection, ErrCodeInvalidDocument,
		ErrCodeInvalidFormat, ErrCodeInvalidPath, ErrCodeDuplicateID,
		ErrCodeGroupMember, ErrCodeUnknownField, ErrCodeElementNotFound:
		return true
	}
	return false
}
