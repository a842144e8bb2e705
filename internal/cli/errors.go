package cli

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	clierrors "github.com/carecompass/funnelkit/internal/errors"
	"github.com/carecompass/funnelkit/internal/publish"
	"github.com/carecompass/funnelkit/internal/resolver"
	"github.com/carecompass/funnelkit/internal/store"
)

// classify maps an error returned by a command onto a CLIError whose
// category selects the exit code. Exit errors pass through untouched since
// their report was already written.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var (
		funnelNotFound  *resolver.FunnelNotFoundError
		versionNotFound *resolver.FunnelVersionNotFoundError
		invalidFields   validator.ValidationErrors
	)
	switch {
	case errors.As(err, &funnelNotFound):
		return clierrors.FunnelNotFound(funnelNotFound.Slug)
	case errors.As(err, &versionNotFound):
		if versionNotFound.VersionID == "" {
			return clierrors.NoPublishedVersion(versionNotFound.Slug)
		}
		return clierrors.Wrap(err, clierrors.Prerequisite,
			"List versions with: funnelkit versions "+versionNotFound.Slug)
	case errors.Is(err, store.ErrPatientNotFound):
		return clierrors.Wrap(err, clierrors.Prerequisite,
			"Create the profile with: funnelkit patient create <user-id>")
	case errors.Is(err, store.ErrAlreadyExists),
		errors.Is(err, store.ErrVersionMismatch),
		errors.Is(err, publish.ErrInvalidSemver),
		errors.Is(err, publish.ErrDuplicateSemver),
		errors.As(err, &invalidFields):
		return clierrors.Wrap(err, clierrors.Argument)
	case strings.HasPrefix(err.Error(), "unknown command"),
		strings.HasPrefix(err.Error(), "unknown flag"),
		strings.HasPrefix(err.Error(), "unknown shorthand flag"),
		strings.HasPrefix(err.Error(), "required flag"):
		return clierrors.Wrap(err, clierrors.Argument, "Run 'funnelkit --help' for usage")
	}
	return clierrors.Wrap(err, clierrors.Runtime)
}

// argsWithUsage turns a positional argument check failure into an argument
// error carrying the command's usage line.
func argsWithUsage(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
		}
		return nil
	}
}
