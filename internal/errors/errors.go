// Package errors provides structured error types and exit codes for relpack.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes form the CLI's stable contract with CI wrappers.
const (
	ExitSuccess          = 0 // Success
	ExitRuntimeError     = 1 // Runtime error (stamping, archiving, or publishing failed)
	ExitConfigError      = 2 // Configuration error (invalid config, bad flags, etc.)
	ExitEnvironmentError = 3 // Environment error (missing token, git unavailable, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindValidation
	KindEnvironment
	KindPublish
)

// RelpackError is the base error type for relpack.
type RelpackError struct {
	Kind    ErrorKind
	Message string
	Step    string // Pipeline step name if applicable (stamp, archive, publish)
	Cause   error  // Underlying error
}

func (e *RelpackError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("[%s] %s", e.Step, e.Message)
	}
	return e.Message
}

func (e *RelpackError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *RelpackError) ExitCode() int {
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
func New(message string) *RelpackError {
	return &RelpackError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *RelpackError {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *RelpackError {
	return &RelpackError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *RelpackError {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string) *RelpackError {
	return &RelpackError{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *RelpackError {
	return Environment(fmt.Sprintf(format, args...))
}

// Publish creates a new publish error. Publish errors are fatal to the
// publish step but do not roll back earlier pipeline steps.
func Publish(message string, cause error) *RelpackError {
	return &RelpackError{
		Kind:    KindPublish,
		Message: message,
		Step:    "publish",
		Cause:   cause,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *RelpackError {
	return &RelpackError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// StepError creates an error for a specific pipeline step.
func StepError(step, message string, cause error) *RelpackError {
	return &RelpackError{
		Kind:    KindRuntime,
		Step:    step,
		Message: message,
		Cause:   cause,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *RelpackError {
	return &RelpackError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// GetExitCode returns the exit code for an error. Wrapped errors are
// unwrapped; any error exposing an ExitCode method (such as the config
// package's validation errors) keeps its own mapping.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var re *RelpackError
	if errors.As(err, &re) {
		return re.ExitCode()
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return ExitRuntimeError
}
