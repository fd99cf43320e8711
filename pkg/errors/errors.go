// Package errors provides structured error types for standardize.
//
// This package defines error codes and types that enable:
//   - Telling configuration errors apart from I/O errors and rule failures
//   - Machine-readable error codes in structured reports
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration validation failures
//   - RULE_*, UNKNOWN_RULE: Rule definition and verification errors
//   - IO_ERROR, GIT_ERROR: Failures of external collaborators
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownRule, "rule %s depends on unknown rule %s", name, dep)
//	if errors.Is(err, errors.ErrCodeUnknownRule) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "could not read file %q", path)
package errors

import (
	"errors"
	"fmt"
	"syscall"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidRepository Code = "INVALID_REPOSITORY"
	ErrCodeInvalidJSON       Code = "INVALID_JSON"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	// Rule configuration and execution errors
	ErrCodeRuleCycle   Code = "RULE_CYCLE"
	ErrCodeUnknownRule Code = "UNKNOWN_RULE"
	ErrCodeRuleVerify  Code = "RULE_VERIFY"

	// External collaborator errors
	ErrCodeIO  Code = "IO_ERROR"
	ErrCodeGit Code = "GIT_ERROR"

	// A rule broke its contract, e.g. returned neither a result nor an error
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

// errnoNames maps the errno values worth reporting to their POSIX names.
var errnoNames = map[syscall.Errno]string{
	syscall.ENOENT:  "ENOENT",
	syscall.EACCES:  "EACCES",
	syscall.EPERM:   "EPERM",
	syscall.ENOTDIR: "ENOTDIR",
	syscall.EISDIR:  "EISDIR",
	syscall.EEXIST:  "EEXIST",
	syscall.EMFILE:  "EMFILE",
}

// IOCode returns the POSIX name of the system error at the root of err
// (for example "ENOENT"), or an empty string if err carries no errno.
// Wrapping an error with [Wrap] keeps the code reachable.
func IOCode(err error) string {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return ""
	}
	if name, ok := errnoNames[errno]; ok {
		return name
	}
	return fmt.Sprintf("E%d", int(errno))
}
