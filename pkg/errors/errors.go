// Package errors provides structured error types for TurtlyScope.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages with source positions for Turtle input
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration validation failures
//   - SYNTAX_ERROR: Malformed Turtle input (see [SyntaxError])
//   - SIZE_LIMIT: Input or graph exceeds a configured guard (see [SizeLimitError])
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "no Turtle content provided")
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Typed errors carry positions and limits
//	var se *errors.SyntaxError
//	if stderrors.As(err, &se) {
//	    fmt.Println(se.Line, se.Column)
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidOption Code = "INVALID_OPTION"

	// Turtle and graph errors
	ErrCodeSyntax    Code = "SYNTAX_ERROR"
	ErrCodeSizeLimit Code = "SIZE_LIMIT"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeCanceled Code = "CANCELED"

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

// coder is implemented by typed errors that carry their own code.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a typed error with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no coded error is found in the chain.
func GetCode(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
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

// HTTPStatus maps an error to the HTTP status code the server responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeSyntax, ErrCodeInvalidFormat, ErrCodeInvalidOption:
		return http.StatusBadRequest
	case ErrCodeInvalidInput:
		return http.StatusUnprocessableEntity
	case ErrCodeSizeLimit:
		return http.StatusRequestEntityTooLarge
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeCanceled:
		return http.StatusServiceUnavailable
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// SyntaxError reports malformed Turtle input at a 1-based source position.
// The whole parse is rejected when it is returned; no partial triples exist.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Code returns the error code for this error type.
func (e *SyntaxError) Code() Code {
	return ErrCodeSyntax
}

// Size limit kinds.
const (
	LimitNodes   = "nodes"
	LimitEdges   = "edges"
	LimitInput   = "input"
	LimitTriples = "triples"
)

// SizeLimitError reports that an input or graph exceeded a configured guard.
type SizeLimitError struct {
	Kind   string // "nodes", "edges", "input" or "triples"
	Limit  int
	Actual int
}

// Error implements the error interface.
func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("%s limit exceeded: %d > %d", e.Kind, e.Actual, e.Limit)
}

// Code returns the error code for this error type.
func (e *SizeLimitError) Code() Code {
	return ErrCodeSizeLimit
}
