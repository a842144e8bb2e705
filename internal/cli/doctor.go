package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carecompass/funnelkit/internal/health"
)

func newDoctorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the database and that every funnel resolves",
		Long: `Check the database and that every funnel resolves.

Each catalog funnel is resolved for an anonymous viewer exactly as "funnelkit
resolve" would. A funnel fails when it has no default version or its default
version no longer passes validation.

Exit Codes:
  0 - All checks passed
  1 - At least one check failed`,
		Args: argsWithUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			report := health.RunHealthChecks(cmd.Context(), a.cfg.DBPath, a.logger)

			out := cmd.OutOrStdout()
			if a.jsonOutput(out) {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(out, health.FormatReport(report))
			}
			if !report.Passed {
				return NewExitError(ExitValidationFailed)
			}
			return nil
		},
	}
	cmd.GroupID = GroupConfiguration
	return cmd
}
