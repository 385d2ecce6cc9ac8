// Package errors provides structured error types for keygrid.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the resolution engine and the CLI
//   - Machine-readable error codes for programmatic handling
//   - Breadcrumb paths (such as "points.thumb.shift") attached to every error
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The resolution engine reports configuration errors only; none of them are
// transient and none should be retried:
//   - INVALID_EXPRESSION: an expression fails to parse
//   - UNKNOWN_VARIABLE: an expression references an undefined unit
//   - EVAL_ERROR: an expression parses but cannot be evaluated
//   - UNITS_VALUE_TYPE: a units/variables entry is neither number nor string
//   - INVALID_ANCHOR: a structurally invalid anchor configuration
//   - UNKNOWN_POINT_REF: an anchor references a point that is not resolved yet
//
// # Usage
//
//	err := errors.UnknownVariable("units.gap", "kx")
//	if errors.Is(err, errors.ErrCodeUnknownVariable) {
//	    // Handle missing variable
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
	// Expression and units errors
	ErrCodeInvalidExpression Code = "INVALID_EXPRESSION"
	ErrCodeUnknownVariable   Code = "UNKNOWN_VARIABLE"
	ErrCodeEval              Code = "EVAL_ERROR"
	ErrCodeUnitsValueType    Code = "UNITS_VALUE_TYPE"

	// Anchor errors
	ErrCodeInvalidAnchor   Code = "INVALID_ANCHOR"
	ErrCodeUnknownPointRef Code = "UNKNOWN_POINT_REF"

	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidName   Code = "INVALID_NAME"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Key     string // Config path the error belongs to (optional)
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Key != "" {
		msg = fmt.Sprintf("%s: %s", e.Key, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
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

// At creates a new Error attached to a config path.
func At(code Code, key string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Key:     key,
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

// InvalidExpression reports an expression that does not parse.
func InvalidExpression(key, expr string, cause error) *Error {
	return &Error{
		Code:    ErrCodeInvalidExpression,
		Key:     key,
		Message: fmt.Sprintf("invalid expression %q", expr),
		Cause:   cause,
	}
}

// UnknownVariable reports a reference to an undefined unit.
func UnknownVariable(key, name string) *Error {
	return At(ErrCodeUnknownVariable, key, "unknown variable %q", name)
}

// Eval reports an expression that parsed but could not be evaluated.
func Eval(key, message string) *Error {
	return At(ErrCodeEval, key, "%s", message)
}

// UnitsValueType reports a units entry that is neither a number nor a string.
func UnitsValueType(key string) *Error {
	return At(ErrCodeUnitsValueType, key, "value must be a number or an expression string")
}

// InvalidAnchor reports a structural anchor problem.
func InvalidAnchor(at, format string, args ...any) *Error {
	return At(ErrCodeInvalidAnchor, at, format, args...)
}

// UnknownPointRef reports a reference to a point that is not resolved.
func UnknownPointRef(name, at string) *Error {
	return At(ErrCodeUnknownPointRef, at, "unknown point reference %q", name)
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
// For *Error types, returns the path and message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Key != "" {
			return e.Key + ": " + e.Message
		}
		return e.Message
	}
	return err.Error()
}
