package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carecompass/funnelkit/internal/resolver"
)

func newFunnelCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "funnel",
		Short: "Manage the funnel catalog",
	}
	cmd.GroupID = GroupAuthoring
	cmd.AddCommand(
		newFunnelCreateCmd(a),
		newFunnelListCmd(a),
		newFunnelDefaultCmd(a),
		newFunnelActiveCmd(a, "activate", true),
		newFunnelActiveCmd(a, "deactivate", false),
	)
	return cmd
}

func newFunnelCreateCmd(a *app) *cobra.Command {
	var (
		title    string
		id       string
		inactive bool
	)
	cmd := &cobra.Command{
		Use:   "create <slug>",
		Short: "Add a funnel to the catalog",
		Long: `Add a funnel to the catalog.

A new funnel has no default version; publish one with --default before it can
be resolved.`,
		Example: `  funnelkit funnel create stress-assessment --title "Stress Assessment"`,
		Args:    argsWithUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if id == "" {
				id = uuid.NewString()
			}
			entry := resolver.FunnelCatalogEntry{
				ID:       id,
				Slug:     strings.TrimSpace(args[0]),
				Title:    title,
				IsActive: !inactive,
			}
			if err := s.CreateFunnel(cmd.Context(), entry); err != nil {
				return err
			}
			a.logger.Info("Created funnel", zap.String("slug", entry.Slug), zap.String("funnel_id", entry.ID))

			out := cmd.OutOrStdout()
			if a.jsonOutput(out) {
				return writeJSON(out, entry)
			}
			fmt.Fprintf(out, "%s Created funnel %s (%s)\n", newColors().Green("✓"), entry.Slug, entry.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Display title")
	cmd.Flags().StringVar(&id, "id", "", "Funnel id (a random UUID when empty)")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Create the funnel as inactive")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newFunnelListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog funnels",
		Args:  argsWithUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			funnels, err := s.ListFunnels(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.jsonOutput(out) {
				if funnels == nil {
					funnels = []resolver.FunnelCatalogEntry{}
				}
				return writeJSON(out, funnels)
			}
			printFunnels(out, funnels)
			return nil
		},
	}
}

func printFunnels(w io.Writer, funnels []resolver.FunnelCatalogEntry) {
	if len(funnels) == 0 {
		fmt.Fprintln(w, "No funnels found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tTITLE\tACTIVE\tDEFAULT VERSION")
	for _, f := range funnels {
		def := f.DefaultVersionID
		if def == "" {
			def = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", f.Slug, f.Title, f.IsActive, def)
	}
	tw.Flush()
}

func newFunnelDefaultCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "default <slug> <version-id>",
		Short: "Point the catalog default at an existing version",
		Long: `Point the catalog default at an existing version.

Use this to roll every viewer without an override forward or back to a
version that was already published.`,
		Args: argsWithUsage(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			slug, versionID := args[0], args[1]
			if err := s.SetDefaultVersion(cmd.Context(), slug, versionID); err != nil {
				return err
			}
			a.logger.Info("Changed default version", zap.String("slug", slug), zap.String("version_id", versionID))

			out := cmd.OutOrStdout()
			if a.jsonOutput(out) {
				return writeJSON(out, map[string]string{"slug": slug, "defaultVersionId": versionID})
			}
			fmt.Fprintf(out, "%s %s now defaults to %s\n", newColors().Green("✓"), slug, versionID)
			return nil
		},
	}
}

func newFunnelActiveCmd(a *app, use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <slug>",
		Short: fmt.Sprintf("Mark a funnel as %sd", use),
		Args:  argsWithUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SetFunnelActive(cmd.Context(), args[0], active); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.jsonOutput(out) {
				return writeJSON(out, map[string]any{"slug": args[0], "isActive": active})
			}
			fmt.Fprintf(out, "%s %s %sd\n", newColors().Green("✓"), args[0], use)
			return nil
		},
	}
}
