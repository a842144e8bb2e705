// Package errors provides categorized CLI errors with usage hints and
// remediation steps, rendered consistently by the command layer.
package errors

import (
	stderrors "errors"
)

// ErrorCategory classifies a CLIError and selects its exit code.
type ErrorCategory int

const (
	// Argument errors come from bad flags or positional arguments.
	Argument ErrorCategory = iota
	// Configuration errors come from config files or environment overrides.
	Configuration
	// Prerequisite errors mean something the command needs does not exist yet.
	Prerequisite
	// Runtime errors happen while the command is doing its work.
	Runtime
)

func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is an error meant to be shown to a person at a terminal.
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Usage       string
	Remediation []string
	cause       error
}

func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the error this CLIError was built from, if any.
func (e *CLIError) Unwrap() error {
	return e.cause
}

func NewArgumentError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Remediation: remediation}
}

func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Usage: usage, Remediation: remediation}
}

func NewConfigError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Configuration, Message: message, Remediation: remediation}
}

func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Prerequisite, Message: message, Remediation: remediation}
}

func NewRuntimeError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Runtime, Message: message, Remediation: remediation}
}

// Wrap converts err into a CLIError of the given category. The original
// error stays reachable through errors.Is and errors.As.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{Category: category, Message: err.Error(), Remediation: remediation, cause: err}
}

// WrapWithMessage is Wrap with a "message: err" prefix.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     message + ": " + err.Error(),
		Remediation: remediation,
		cause:       err,
	}
}

// IsCLIError reports whether err is or wraps a CLIError.
func IsCLIError(err error) bool {
	return AsCLIError(err) != nil
}

// AsCLIError returns the first CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
