package cli

import (
	"fmt"

	clierrors "github.com/carecompass/funnelkit/internal/errors"
)

// Exit codes for the funnelkit CLI
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0
	// ExitValidationFailed indicates an artifact or stored version failed validation
	ExitValidationFailed = 1
	// ExitInvalidArguments indicates invalid flags, arguments or configuration
	ExitInvalidArguments = 3
	// ExitNotFound indicates a funnel, version, patient or file does not exist
	ExitNotFound = 4
	// ExitRuntime indicates a store or other runtime failure
	ExitRuntime = 5
)

// exitError carries an exit code for failures whose report was already written.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates a new exit error with the given code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if e, ok := err.(*exitError); ok {
		return e.code
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument, clierrors.Configuration:
			return ExitInvalidArguments
		case clierrors.Prerequisite:
			return ExitNotFound
		}
	}
	return ExitRuntime
}
