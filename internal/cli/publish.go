package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	clierrors "github.com/carecompass/funnelkit/internal/errors"
	"github.com/carecompass/funnelkit/internal/publish"
	"github.com/carecompass/funnelkit/internal/validation"
)

type publishOptions struct {
	questionnaire   string
	content         string
	semver          string
	makeDefault     bool
	rollout         int
	algorithmBundle string
	promptVersion   string
}

func newPublishCmd(a *app) *cobra.Command {
	opts := &publishOptions{}
	cmd := &cobra.Command{
		Use:   "publish <slug>",
		Short: "Validate and store a new version of a funnel",
		Long: `Validate and store a new version of a funnel.

Both artifacts are validated in strict mode and both reports are shown. Nothing
is stored unless both are valid. Version rows are immutable once published;
publish a new semantic version to change a funnel.

With --default the new version becomes the funnel's catalog default, which is
what every viewer without an override resolves to.`,
		Example: `  funnelkit publish stress-assessment --semver 1.1.0 --default \
    --questionnaire funnels/stress/questionnaire.json \
    --content funnels/stress/content.yaml \
    --algorithm-bundle risk-2026.1 --rollout 50`,
		Args: argsWithUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("rollout") {
				opts.rollout = a.cfg.DefaultRolloutPercent
			}
			return a.runPublish(cmd, args[0], opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.GroupID = GroupAuthoring
	cmd.Flags().StringVarP(&opts.questionnaire, "questionnaire", "q", "", "Questionnaire configuration file (JSON or YAML)")
	cmd.Flags().StringVar(&opts.content, "content", "", "Content manifest file (JSON or YAML)")
	cmd.Flags().StringVar(&opts.semver, "semver", "", "Semantic version of the new version, e.g. 1.2.0")
	cmd.Flags().BoolVar(&opts.makeDefault, "default", false, "Make the new version the funnel's catalog default")
	cmd.Flags().IntVar(&opts.rollout, "rollout", 100, "Rollout percent recorded on the version (defaults to default_rollout_percent)")
	cmd.Flags().StringVar(&opts.algorithmBundle, "algorithm-bundle", "", "Scoring algorithm bundle version")
	cmd.Flags().StringVar(&opts.promptVersion, "prompt-version", "", "Prompt version")
	_ = cmd.MarkFlagRequired("questionnaire")
	_ = cmd.MarkFlagRequired("content")
	_ = cmd.MarkFlagRequired("semver")
	return cmd
}

func (a *app) runPublish(cmd *cobra.Command, slug string, opts *publishOptions, out, errOut io.Writer) error {
	if opts.rollout < 0 || opts.rollout > 100 {
		return clierrors.InvalidRolloutPercent(opts.rollout)
	}

	questionnaire, qErr := decodeArtifact(opts.questionnaire)
	content, cErr := decodeArtifact(opts.content)
	var missing *clierrors.CLIError
	for _, err := range []error{qErr, cErr} {
		if errors.As(err, &missing) {
			return missing
		}
	}
	if qErr != nil || cErr != nil {
		// Report both artifacts even when only one failed to decode.
		rejected := &publish.RejectedError{
			Questionnaire: malformedOr(qErr, questionnaire, validation.ValidateQuestionnaireConfig),
			Content:       malformedOr(cErr, content, validation.ValidateContentManifest),
		}
		return a.reportRejected(rejected, opts, out, errOut)
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	published, err := publish.New(s, a.logger).Publish(cmd.Context(), publish.Candidate{
		Slug:                   slug,
		SemanticVersion:        opts.semver,
		Questionnaire:          questionnaire,
		Content:                content,
		AlgorithmBundleVersion: opts.algorithmBundle,
		PromptVersion:          opts.promptVersion,
		RolloutPercent:         opts.rollout,
		MakeDefault:            opts.makeDefault,
	})
	var rejected *publish.RejectedError
	if errors.As(err, &rejected) {
		return a.reportRejected(rejected, opts, out, errOut)
	}
	if err != nil {
		return err
	}

	if a.jsonOutput(out) {
		return writeJSON(out, published)
	}
	c := newColors()
	suffix := ""
	if published.MadeDefault {
		suffix = " " + c.Cyan("(default)")
	}
	fmt.Fprintf(out, "%s Published %s %s as %s%s\n", c.Green("✓"), slug, published.SemanticVersion, published.VersionID, suffix)
	printWarnings(out, c, published.Questionnaire.Warnings)
	printWarnings(out, c, published.Content.Warnings)
	return nil
}

// decodeArtifact reads an authoring file. A missing file is returned as a
// CLIError; a file that does not decode is returned as a plain error.
func decodeArtifact(path string) (any, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, clierrors.MissingArtifactFile(path)
	}
	return validation.DecodeFile(path)
}

func malformedOr(err error, raw any, validate func(any) *validation.ValidationResult) *validation.ValidationResult {
	if err != nil {
		return validation.MalformedResult(err)
	}
	return validate(raw)
}

func (a *app) reportRejected(rejected *publish.RejectedError, opts *publishOptions, out, errOut io.Writer) error {
	if a.jsonOutput(out) {
		if err := writeJSON(out, map[string]any{
			"published": false,
			"questionnaire": fileReport{
				File: opts.questionnaire, Type: validation.ArtifactTypeQuestionnaire, ValidationResult: rejected.Questionnaire,
			},
			"content": fileReport{
				File: opts.content, Type: validation.ArtifactTypeContent, ValidationResult: rejected.Content,
			},
		}); err != nil {
			return err
		}
		return NewExitError(ExitValidationFailed)
	}

	printReport(out, errOut, opts.questionnaire, rejected.Questionnaire, false)
	printReport(out, errOut, opts.content, rejected.Content, false)
	fmt.Fprintf(errOut, "\n%s\n", newColors().Red("Version not published."))
	return NewExitError(ExitValidationFailed)
}
