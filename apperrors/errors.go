// Package apperrors provides the coded errors surfaced by the generation pipeline.
//
// Structural problems (empty input, missing placeholders, mismatched list
// lengths) abort a batch before any document is rendered. Integrity mismatches
// are collected per row and abort the batch only in strict mode.
//
// Usage:
//
//	if errors.Is(err, apperrors.ErrMissingPlaceholder) {
//	    var appErr *apperrors.Error
//	    errors.As(err, &appErr)
//	    missing := appErr.Details.([]string)
//	}
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is = errors.Is
	As = errors.As
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the pipeline.
const (
	CodeEmptyInput          Code = "EMPTY_INPUT"
	CodeMissingPlaceholder  Code = "MISSING_PLACEHOLDER"
	CodeInvalidPlaceholder  Code = "INVALID_PLACEHOLDER"
	CodeBatchLengthMismatch Code = "BATCH_LENGTH_MISMATCH"
	CodeIntegrityMismatch   Code = "INTEGRITY_MISMATCH"
	CodeMalformedLink       Code = "MALFORMED_LINK"
	CodeInvalidConfig       Code = "INVALID_CONFIG"
	CodeValidation          Code = "VALIDATION_ERROR"
	CodeNotFound            Code = "NOT_FOUND"
	CodeInternal            Code = "INTERNAL"
)

// HTTPStatus returns the HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeEmptyInput, CodeMissingPlaceholder, CodeInvalidPlaceholder,
		CodeBatchLengthMismatch, CodeMalformedLink, CodeInvalidConfig, CodeValidation:
		return http.StatusBadRequest
	case CodeIntegrityMismatch:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a pipeline error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy of the error carrying details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// WithCause returns a copy of the error wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

// Sentinel errors for use with errors.Is().
var (
	ErrEmptyInput          = &Error{Code: CodeEmptyInput, Message: "empty input"}
	ErrMissingPlaceholder  = &Error{Code: CodeMissingPlaceholder, Message: "placeholder missing from template"}
	ErrInvalidPlaceholder  = &Error{Code: CodeInvalidPlaceholder, Message: "invalid placeholder"}
	ErrBatchLengthMismatch = &Error{Code: CodeBatchLengthMismatch, Message: "batch length mismatch"}
	ErrIntegrityMismatch   = &Error{Code: CodeIntegrityMismatch, Message: "integrity mismatch"}
	ErrMalformedLink       = &Error{Code: CodeMalformedLink, Message: "malformed link"}
	ErrInvalidConfig       = &Error{Code: CodeInvalidConfig, Message: "invalid configuration"}
	ErrValidation          = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrNotFound            = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInternal            = &Error{Code: CodeInternal, Message: "internal error"}
)

// EmptyInput creates an empty input error.
func EmptyInput(msg string) *Error {
	return &Error{Code: CodeEmptyInput, Message: msg}
}

// MissingPlaceholders creates an error listing every placeholder absent from a template.
func MissingPlaceholders(missing []string) *Error {
	return &Error{
		Code:    CodeMissingPlaceholder,
		Message: fmt.Sprintf("placeholders not found in template: %v", missing),
		Details: missing,
	}
}

// InvalidPlaceholder creates an invalid placeholder error.
func InvalidPlaceholder(msg string) *Error {
	return &Error{Code: CodeInvalidPlaceholder, Message: msg}
}

// ListLength is the length of one named input list.
type ListLength struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
}

// BatchLengthMismatch creates an error reporting every list's length.
func BatchLengthMismatch(lengths []ListLength) *Error {
	msg := "row counts differ:"
	for i, l := range lengths {
		if i > 0 {
			msg += ","
		}
		msg += fmt.Sprintf(" %s=%d", l.Name, l.Length)
	}
	return &Error{Code: CodeBatchLengthMismatch, Message: msg, Details: lengths}
}

// IntegrityMismatch creates an integrity error for the given 1-based rows.
func IntegrityMismatch(rows []int, details any) *Error {
	return &Error{
		Code:    CodeIntegrityMismatch,
		Message: fmt.Sprintf("integrity check failed on %d document(s): rows %v", len(rows), rows),
		Details: details,
	}
}

// MalformedLink creates a malformed link error.
func MalformedLink(link string, cause error) *Error {
	return &Error{Code: CodeMalformedLink, Message: fmt.Sprintf("cannot derive filename from link %q", link), cause: cause}
}

// InvalidConfig creates a configuration error with field details.
func InvalidConfig(msg string, details any) *Error {
	return &Error{Code: CodeInvalidConfig, Message: msg, Details: details}
}

// Validation creates a request validation error with per-field messages.
func Validation(msg string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: fields}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Internal creates an internal error wrapping cause.
func Internal(msg string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: msg, cause: cause}
}

// CodeOf extracts the code from err, or CodeInternal when err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
