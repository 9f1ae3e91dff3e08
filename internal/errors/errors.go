// Package errors provides structured error handling for the autorelease CLI.
// It includes categorized errors with actionable remediation guidance.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory groups errors by the exit code and remediation they need.
type ErrorCategory int

const (
	Argument      ErrorCategory = iota // bad flags or arguments
	Configuration                      // config or changelog location problems
	History                            // commits or tags could not be read
	Write                              // the changelog could not be persisted
	Publish                            // tag or release creation failed
)

var categoryNames = [...]string{
	Argument:      "Argument Error",
	Configuration: "Configuration Error",
	History:       "History Error",
	Write:         "Write Error",
	Publish:       "Publish Error",
}

func (c ErrorCategory) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Error"
	}
	return categoryNames[c]
}

// CLIError carries a user-facing message plus the steps that fix it.
// Usage is set for argument errors that should repeat the command syntax.
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Remediation []string
	Usage       string
	Cause       error
}

func (e *CLIError) Error() string { return e.Message }

func (e *CLIError) Unwrap() error { return e.Cause }

func newError(category ErrorCategory, message string, remediation []string) *CLIError {
	return &CLIError{
		Category:    category,
		Message:     message,
		Remediation: remediation,
	}
}

// NewArgumentError creates a new argument error with the given message and remediation steps.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return newError(Argument, message, remediation)
}

// NewArgumentErrorWithUsage creates a new argument error that includes correct usage syntax.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	err := newError(Argument, message, remediation)
	err.Usage = usage
	return err
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, remediation ...string) *CLIError {
	return newError(Configuration, message, remediation)
}

// Wrap wraps an existing error with a CLIError, preserving the original message.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := newError(category, err.Error(), remediation)
	e.Cause = err
	return e
}

// WrapWithMessage wraps an error with a custom message and category.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := newError(category, fmt.Sprintf("%s: %v", message, err), remediation)
	e.Cause = err
	return e
}

// IsCLIError checks if an error is, or wraps, a CLIError.
func IsCLIError(err error) bool {
	return AsCLIError(err) != nil
}

// AsCLIError attempts to convert an error to a CLIError.
// Returns nil if the error is not a CLIError.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
