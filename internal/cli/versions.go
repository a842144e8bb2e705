package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/carecompass/funnelkit/internal/publish"
	"github.com/carecompass/funnelkit/internal/resolver"
)

// versionView is a version row without its artifact blobs.
type versionView struct {
	ID                     string    `json:"id"`
	SemanticVersion        string    `json:"semanticVersion"`
	IsDefault              bool      `json:"isDefault"`
	RolloutPercent         int       `json:"rolloutPercent"`
	AlgorithmBundleVersion string    `json:"algorithmBundleVersion,omitempty"`
	PromptVersion          string    `json:"promptVersion,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
}

func newVersionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions <slug>",
		Short: "List a funnel's published versions by semantic version",
		Args:  argsWithUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.ListVersions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			publish.SortBySemver(rows)

			views := make([]versionView, len(rows))
			for i, r := range rows {
				views[i] = toVersionView(r)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput(out) {
				return writeJSON(out, views)
			}
			printVersions(out, views)
			return nil
		},
	}
	cmd.GroupID = GroupAuthoring
	return cmd
}

func toVersionView(r resolver.FunnelVersionRow) versionView {
	return versionView{
		ID:                     r.ID,
		SemanticVersion:        r.SemanticVersion,
		IsDefault:              r.IsDefault,
		RolloutPercent:         r.RolloutPercent,
		AlgorithmBundleVersion: r.AlgorithmBundleVersion,
		PromptVersion:          r.PromptVersion,
		CreatedAt:              r.CreatedAt,
	}
}

func printVersions(w io.Writer, views []versionView) {
	if len(views) == 0 {
		fmt.Fprintln(w, "No versions published.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tID\tDEFAULT\tROLLOUT\tALGORITHM\tPROMPT\tCREATED")
	for _, v := range views {
		def := ""
		if v.IsDefault {
			def = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d%%\t%s\t%s\t%s\n",
			v.SemanticVersion, v.ID, def, v.RolloutPercent,
			dash(v.AlgorithmBundleVersion), dash(v.PromptVersion),
			v.CreatedAt.Format(time.RFC3339))
	}
	tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
