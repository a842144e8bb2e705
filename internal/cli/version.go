package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/carecompass/funnelkit/internal/build"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display version, commit, build date, and Go version information for funnelkit",
		Args:  argsWithUsage(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "funnelkit version %s\n", build.Version)
			fmt.Fprintf(out, "Built from commit: %s\n", build.Commit)
			fmt.Fprintf(out, "Build date: %s\n", build.BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			if build.IsDevBuild() {
				fmt.Fprintln(out, "Development build")
			}
		},
	}
	cmd.GroupID = GroupConfiguration
	return cmd
}
