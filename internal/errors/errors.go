// Package errors provides structured error handling for the relnotes CLI.
// It includes categorized errors with actionable remediation guidance.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the type of error that occurred.
type ErrorCategory int

const (
	// Argument errors are caused by invalid or missing command arguments.
	Argument ErrorCategory = iota
	// Configuration errors are caused by an invalid config file or environment.
	Configuration
	// Repository errors occur when git history cannot be read.
	Repository
	// Runtime errors occur while reading or writing artifacts.
	Runtime
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Repository:
		return "Repository Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is a structured error with category and remediation guidance.
type CLIError struct {
	// Category is the type of error (Argument, Repository, etc.)
	Category ErrorCategory
	// Message is a human-readable description of what went wrong.
	Message string
	// Remediation is a list of actionable steps to resolve the error.
	Remediation []string
	// Usage shows the correct command syntax (optional, for argument errors).
	Usage string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewArgumentError creates a new argument error with the given message and remediation steps.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Argument,
		Message:     message,
		Remediation: remediation,
	}
}

// NewArgumentErrorWithUsage creates a new argument error that includes correct usage syntax.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Argument,
		Message:     message,
		Usage:       usage,
		Remediation: remediation,
	}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Configuration,
		Message:     message,
		Remediation: remediation,
	}
}

// NewRepositoryError creates a new repository error.
func NewRepositoryError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Repository,
		Message:     message,
		Remediation: remediation,
	}
}

// NewRuntimeError creates a new runtime error.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Runtime,
		Message:     message,
		Remediation: remediation,
	}
}

// Wrap wraps an existing error with a CLIError, preserving the original message.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     err.Error(),
		Remediation: remediation,
		Err:         err,
	}
}

// WrapWithMessage wraps an error with a custom message and category.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
		Err:         err,
	}
}

// IsCLIError checks if an error is, or wraps, a CLIError.
func IsCLIError(err error) bool {
	return AsCLIError(err) != nil
}

// AsCLIError finds the first CLIError in err's chain.
// Returns nil if there is none.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
