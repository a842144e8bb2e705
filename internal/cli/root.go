// Package cli provides the cobra command tree for funnelkit: artifact
// validation, version publishing and resolution, overrides and configuration.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carecompass/funnelkit/internal/config"
	clierrors "github.com/carecompass/funnelkit/internal/errors"
	"github.com/carecompass/funnelkit/internal/logging"
	"github.com/carecompass/funnelkit/internal/store"
)

// Command group IDs for organizing help output
const (
	GroupAuthoring     = "authoring"
	GroupRuntime       = "runtime"
	GroupConfiguration = "configuration"
)

// app holds state shared by every command of one invocation.
type app struct {
	configPath string
	dbPath     string
	logLevel   string
	format     string

	cfg    *config.Configuration
	logger *zap.Logger
}

// NewRootCommand builds the funnelkit command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "funnelkit",
		Short: "Validate, publish and resolve versioned assessment funnels",
		Long: `funnelkit manages versioned assessment funnels.

A funnel version pairs a questionnaire configuration with a content manifest.
Both are validated before they are published, and again whenever a version is
resolved for a viewer. Patients may be pinned to a specific version through an
override; everyone else sees the funnel's catalog default.`,
		Example: `  # Check an authored questionnaire
  funnelkit validate funnels/stress/questionnaire.json

  # Register a funnel and publish its first version as the default
  funnelkit funnel create stress-assessment --title "Stress Assessment"
  funnelkit publish stress-assessment --semver 1.0.0 --default \
    --questionnaire funnels/stress/questionnaire.json \
    --content funnels/stress/content.yaml

  # See which version a user would get
  funnelkit resolve stress-assessment --user user-42`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.AddGroup(&cobra.Group{ID: GroupAuthoring, Title: "Authoring:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupRuntime, Title: "Runtime:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})
	rootCmd.SetHelpCommandGroupID(GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.LocalConfigPath, "Path to config file")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "Funnel database path (overrides db_path)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides log_level)")
	rootCmd.PersistentFlags().StringVarP(&a.format, "format", "o", "", "Output format: auto, text, json (overrides output_format)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(), "Run '"+cmd.CommandPath()+" --help' for usage")
	})

	rootCmd.AddCommand(
		newValidateCmd(a),
		newPublishCmd(a),
		newFunnelCmd(a),
		newVersionsCmd(a),
		newResolveCmd(a),
		newPatientCmd(a),
		newOverrideCmd(a),
		newSchemaCmd(a),
		newConfigCmd(a),
		newDoctorCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI against the process arguments and returns the exit code.
func Execute() int {
	return Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the command tree with args and reports any failure on errOut.
func Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	err := classify(rootCmd.ExecuteContext(ctx))
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		clierrors.FprintError(errOut, cliErr)
	}
	return ExitCode(err)
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("config") {
		if _, err := os.Stat(a.configPath); err != nil {
			return clierrors.ConfigFileNotFound(a.configPath)
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return clierrors.ConfigParseError(a.configPath, err)
	}

	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if a.logLevel != "" {
		if _, err := logging.ParseLevel(a.logLevel); err != nil {
			return clierrors.NewArgumentError(err.Error(), "Valid levels: debug, info, warn, error")
		}
		cfg.LogLevel = a.logLevel
	}
	if a.format != "" {
		f, err := config.NormalizeOutputFormat(a.format)
		if err != nil {
			return clierrors.NewArgumentError(err.Error())
		}
		cfg.OutputFormat = string(f)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return clierrors.NewConfigError(err.Error())
	}

	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("Loaded configuration",
		zap.String("config", a.configPath),
		zap.String("db_path", cfg.DBPath),
		zap.String("output_format", cfg.OutputFormat))
	return nil
}

// openStore opens the funnel database. Callers close it.
func (a *app) openStore() (*store.Store, error) {
	s, err := store.Open(a.cfg.DBPath)
	if err != nil {
		return nil, clierrors.DatabaseUnavailable(a.cfg.DBPath, err)
	}
	return s, nil
}
