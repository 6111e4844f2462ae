// Package errors provides structured error types and exit codes for mimic harnesses.
package errors

import (
	"errors"
	"fmt"
)

// Process exit codes. ExitTestsFailed follows the libtest convention.
const (
	ExitSuccess          = 0   // Success
	ExitRuntimeError     = 1   // Runtime error (command failed, unreadable input, etc.)
	ExitConfigError      = 2   // Usage or configuration error (bad flag, invalid manifest, etc.)
	ExitEnvironmentError = 3   // Environment error (log file not writable, etc.)
	ExitTestsFailed      = 101 // At least one case failed
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindValidation
	KindEnvironment
)

// MimicError is the base error type for mimic.
type MimicError struct {
	Kind    ErrorKind
	Message string
	Case    string // Case name if applicable
	Cause   error  // Underlying error
}

func (e *MimicError) Error() string {
	msg := e.Message
	if e.Case != "" {
		msg = fmt.Sprintf("[%s] %s", e.Case, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *MimicError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *MimicError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *MimicError {
	return &MimicError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *MimicError {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *MimicError {
	return &MimicError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *MimicError {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string, cause error) *MimicError {
	return &MimicError{
		Kind:    KindEnvironment,
		Message: message,
		Cause:   cause,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(cause error, format string, args ...interface{}) *MimicError {
	return Environment(fmt.Sprintf(format, args...), cause)
}

// Validation creates a new validation error wrapping cause.
func Validation(message string, cause error) *MimicError {
	return &MimicError{
		Kind:    KindValidation,
		Message: message,
		Cause:   cause,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *MimicError {
	return &MimicError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// CaseError creates an error attributed to a single case.
func CaseError(name, message string) *MimicError {
	return &MimicError{
		Kind:    KindRuntime,
		Case:    name,
		Message: message,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *MimicError {
	return &MimicError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var me *MimicError
	if errors.As(err, &me) {
		return me.ExitCode()
	}
	return ExitRuntimeError
}
