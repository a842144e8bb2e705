package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	clierrors "github.com/carecompass/funnelkit/internal/errors"
	"github.com/carecompass/funnelkit/internal/validation"
)

type validateOptions struct {
	schema  bool
	lenient bool
	details bool
}

func newValidateCmd(a *app) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [questionnaire|content] <file>",
		Short: "Validate a questionnaire configuration or content manifest",
		Long: `Validate a questionnaire configuration or content manifest.

Files may be JSON (.json) or YAML (.yaml, .yml). When only a path is given the
artifact type is inferred from the filename: questionnaire.json and
stress.questionnaire.yaml are questionnaires, content.json and
stress.content.yaml are content manifests.

Validation runs in two passes. The structural pass checks field types and the
closed registries; the integrity pass checks identifiers, empty containers and
conditional references. Every violation found is reported.

Exit Codes:
  0 - Artifact is valid
  1 - Validation failed
  3 - Invalid arguments
  4 - File not found`,
		Example: `  funnelkit validate funnels/stress/questionnaire.json
  funnelkit validate content funnels/stress/landing.yaml
  funnelkit validate questionnaire --schema
  funnelkit validate legacy.questionnaire.json --lenient -o json`,
		Args: argsWithUsage(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(args, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.GroupID = GroupAuthoring
	cmd.Flags().BoolVar(&opts.schema, "schema", false, "Print the expected schema for the artifact type")
	cmd.Flags().BoolVar(&opts.lenient, "lenient", false, "Default a missing schemaVersion to v1, as runtime resolution does")
	cmd.Flags().BoolVar(&opts.details, "details", false, "Show every error with its details")
	return cmd
}

// parseValidateArgs supports "<file>", "<type> <file>" and, with --schema, "<type>".
func parseValidateArgs(args []string, schemaOnly bool) (validation.ArtifactType, string, error) {
	const usage = "funnelkit validate [questionnaire|content] <file>"

	if len(args) == 2 {
		artType, err := validation.ParseArtifactType(args[0])
		if err != nil {
			return "", "", clierrors.UnknownArtifactType(args[0])
		}
		return artType, args[1], nil
	}

	arg := args[0]
	if artType, err := validation.ParseArtifactType(arg); err == nil {
		if schemaOnly {
			return artType, "", nil
		}
		return "", "", clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("missing file to validate as %s", artType), usage)
	}

	switch strings.ToLower(filepath.Ext(arg)) {
	case ".json", ".yaml", ".yml":
		artType, err := validation.InferArtifactTypeFromFilename(arg)
		if err != nil {
			return "", "", clierrors.ArtifactTypeNotInferred(arg)
		}
		return artType, arg, nil
	}
	return "", "", clierrors.UnknownArtifactType(arg)
}

func (a *app) runValidate(args []string, opts *validateOptions, out, errOut io.Writer) error {
	artType, path, err := parseValidateArgs(args, opts.schema)
	if err != nil {
		return err
	}

	if opts.schema {
		schema, err := validation.GetSchema(artType)
		if err != nil {
			return err
		}
		if a.jsonOutput(out) {
			return writeJSON(out, schema)
		}
		fmt.Fprint(out, validation.FormatSchema(schema))
		return nil
	}

	if info, err := os.Stat(path); err != nil {
		return clierrors.MissingArtifactFile(path)
	} else if info.IsDir() {
		return clierrors.NewArgumentError(
			fmt.Sprintf("path is a directory, not a file: %s", path),
			fmt.Sprintf("Specify the full path to the %s file", artType))
	}

	parse := validation.StrictParse
	if opts.lenient {
		parse = validation.LenientParse
	}
	result, err := validateFile(artType, path, parse)
	if err != nil {
		return err
	}

	a.logger.Debug("Validated artifact",
		zap.String("file", path),
		zap.String("type", string(artType)),
		zap.Bool("lenient", opts.lenient),
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)))

	if a.jsonOutput(out) {
		if err := writeJSON(out, fileReport{File: path, Type: artType, ValidationResult: result}); err != nil {
			return err
		}
	} else {
		printReport(out, errOut, path, result, opts.details)
	}

	if !result.Valid {
		return NewExitError(ExitValidationFailed)
	}
	return nil
}

// fileReport is the JSON shape of one validated file.
type fileReport struct {
	File string                  `json:"file"`
	Type validation.ArtifactType `json:"type"`
	*validation.ValidationResult
}

func validateFile(artType validation.ArtifactType, path string, parse validation.ParseOptions) (*validation.ValidationResult, error) {
	v, err := validation.NewArtifactValidator(artType, parse)
	if err != nil {
		return nil, err
	}
	return v.ValidateFile(path), nil
}

// printReport writes a human-readable validation report. Success goes to
// out, failures to errOut.
func printReport(out, errOut io.Writer, label string, result *validation.ValidationResult, details bool) {
	c := newColors()

	if result.Valid {
		fmt.Fprintf(out, "%s %s is valid\n", c.Green("✓"), label)
		if result.Summary != nil {
			keys := make([]string, 0, len(result.Summary.Counts))
			for k := range result.Summary.Counts {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, len(keys))
			for i, k := range keys {
				parts[i] = fmt.Sprintf("%d %s", result.Summary.Counts[k], k)
			}
			fmt.Fprintf(out, "  %s\n", c.Dim(strings.Join(parts, ", ")))
		}
		printWarnings(out, c, result.Warnings)
		return
	}

	fmt.Fprintf(errOut, "%s %s has %d error(s)\n\n", c.Red("✗"), label, len(result.Errors))
	if details {
		for i, e := range result.Errors {
			fmt.Fprintf(errOut, "Error %d:\n%s\n", i+1, e.FormatFull())
		}
	} else {
		for _, line := range strings.Split(validation.FormatValidationErrors(result.Errors), "\n") {
			fmt.Fprintf(errOut, "  %s\n", line)
		}
	}
	printWarnings(errOut, c, result.Warnings)
}

func printWarnings(w io.Writer, c *colors, warnings []*validation.ValidationError) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", c.Yellow(fmt.Sprintf("%d warning(s):", len(warnings))))
	for _, line := range strings.Split(validation.FormatValidationErrors(warnings), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}
