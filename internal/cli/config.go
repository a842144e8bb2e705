package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carecompass/funnelkit/internal/config"
	clierrors "github.com/carecompass/funnelkit/internal/errors"
)

// configEntry is one row of "funnelkit config show".
type configEntry struct {
	Key         string `json:"key"`
	Value       any    `json:"value"`
	Default     any    `json:"default"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
		Long: `Show or change configuration.

Configuration is layered: environment variables (FUNNELKIT_ prefix) override
the project file (.funnelkit/config.json), which overrides the user file
(~/.funnelkit/config.json), which overrides built-in defaults.`,
	}
	cmd.GroupID = GroupConfiguration
	cmd.AddCommand(newConfigShowCmd(a), newConfigSetCmd(a))
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  argsWithUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := a.cfg.Values()
			entries := make([]configEntry, 0, len(config.KnownKeys))
			for _, key := range config.SortedKeys() {
				schema := config.KnownKeys[key]
				entries = append(entries, configEntry{
					Key:         key,
					Value:       values[key],
					Default:     schema.Default,
					Type:        schema.Type.String(),
					Description: schema.Description,
				})
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput(out) {
				return writeJSON(out, entries)
			}
			c := newColors()
			for _, e := range entries {
				fmt.Fprintf(out, "%-24s %v\n", e.Key, e.Value)
				fmt.Fprintf(out, "%-24s %s\n", "", c.Dim(fmt.Sprintf("%s (default %v)", e.Description, e.Default)))
			}
			return nil
		},
	}
}

func newConfigSetCmd(a *app) *cobra.Command {
	var global bool
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value in the project or user config file",
		Example: `  funnelkit config set log_level debug
  funnelkit config set db_path /var/lib/funnelkit/funnels.db --global`,
		Args: argsWithUsage(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if _, err := config.GetKeySchema(key); err != nil {
				return clierrors.NewArgumentError(err.Error(), "Run 'funnelkit config show' to list known keys")
			}

			path := a.configPath
			if global {
				p, err := config.GlobalConfigPath()
				if err != nil {
					return clierrors.Wrap(err, clierrors.Configuration)
				}
				path = p
			}
			if err := config.SetConfigValue(path, key, value); err != nil {
				return clierrors.Wrap(err, clierrors.Argument)
			}
			a.logger.Debug("Updated config", zap.String("file", path), zap.String("key", key))

			out := cmd.OutOrStdout()
			if a.jsonOutput(out) {
				return writeJSON(out, map[string]string{"file": path, "key": key, "value": value})
			}
			fmt.Fprintf(out, "%s Set %s = %s in %s\n", newColors().Green("✓"), key, value, path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&global, "global", "g", false, "Write to ~/.funnelkit/config.json instead of the project file")
	return cmd
}
