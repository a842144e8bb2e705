package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carecompass/funnelkit/internal/resolver"
)

func newResolveCmd(a *app) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "resolve <slug>",
		Short: "Show the funnel version a viewer would receive",
		Long: `Show the funnel version a viewer would receive.

An authenticated viewer (--user) whose patient profile has an override for the
funnel gets the overridden version. Everyone else gets the catalog default.
The chosen version's artifacts are validated before they are returned; a
stored version that fails validation is never served.

Exit Codes:
  0 - Resolved
  1 - The chosen version failed validation
  4 - Funnel or version not found`,
		Example: `  funnelkit resolve stress-assessment
  funnelkit resolve stress-assessment --user user-42 -o json`,
		Args: argsWithUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runResolve(cmd, args[0], userID, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.GroupID = GroupRuntime
	cmd.Flags().StringVarP(&userID, "user", "u", "", "Authenticated user id (anonymous when empty)")
	return cmd
}

func (a *app) runResolve(cmd *cobra.Command, slug, userID string, out, errOut io.Writer) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var viewer *resolver.Viewer
	if userID != "" {
		viewer = &resolver.Viewer{UserID: userID}
	}

	manifest, err := resolver.New(s, a.logger).ResolveEffectiveVersion(cmd.Context(), slug, viewer)
	var invalid *resolver.ManifestValidationError
	if errors.As(err, &invalid) {
		c := newColors()
		fmt.Fprintf(errOut, "%s version %s of %s has an invalid %s\n\n",
			c.Red("✗"), invalid.VersionID, invalid.Slug, invalid.Artifact)
		for _, line := range strings.Split(invalid.Report(), "\n") {
			fmt.Fprintf(errOut, "  %s\n", line)
		}
		return NewExitError(ExitValidationFailed)
	}
	if err != nil {
		return err
	}

	if a.jsonOutput(out) {
		return writeJSON(out, manifest)
	}
	printManifest(out, manifest)
	return nil
}

func printManifest(out io.Writer, m *resolver.FunnelVersionManifest) {
	c := newColors()

	state := c.Green("active")
	if !m.IsActive {
		state = c.Yellow("inactive")
	}
	fmt.Fprintf(out, "%s %s (%s)\n", c.Cyan(m.Slug), m.Title, state)

	var tags []string
	if m.IsDefault {
		tags = append(tags, "default")
	}
	if m.OverrideApplied {
		tags = append(tags, "override")
	}
	version := m.SemanticVersion
	if len(tags) > 0 {
		version += " [" + strings.Join(tags, ", ") + "]"
	}
	fmt.Fprintf(out, "  Version:       %s\n", version)
	fmt.Fprintf(out, "  Version ID:    %s\n", m.VersionID)
	fmt.Fprintf(out, "  Rollout:       %d%%\n", m.RolloutPercent)
	if m.AlgorithmBundleVersion != "" {
		fmt.Fprintf(out, "  Algorithm:     %s\n", m.AlgorithmBundleVersion)
	}
	if m.PromptVersion != "" {
		fmt.Fprintf(out, "  Prompt:        %s\n", m.PromptVersion)
	}
	if q := m.Questionnaire; q != nil {
		fmt.Fprintf(out, "  Questionnaire: %d steps, %d questions\n", len(q.Steps), q.QuestionCount())
	}
	if content := m.Content; content != nil {
		sections := 0
		for _, p := range content.Pages {
			sections += len(p.Sections)
		}
		fmt.Fprintf(out, "  Content:       %d pages, %d sections, %d assets\n",
			len(content.Pages), sections, len(content.Assets))
	}
}
