package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carecompass/funnelkit/internal/definition"
	clierrors "github.com/carecompass/funnelkit/internal/errors"
	"github.com/carecompass/funnelkit/internal/validation"
)

// registries is the JSON shape of "funnelkit schema".
type registries struct {
	SchemaVersions     []string          `json:"schemaVersions"`
	QuestionTypes      []string          `json:"questionTypes"`
	SectionTypes       []string          `json:"sectionTypes"`
	AssetTypes         []string          `json:"assetTypes"`
	LogicTypes         []string          `json:"logicTypes"`
	LogicOperators     []string          `json:"logicOperators"`
	ConditionOperators []string          `json:"conditionOperators"`
	Codes              []validation.Code `json:"codes"`
}

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema [questionnaire|content]",
		Short: "Print the closed registries, error codes or an artifact schema",
		Example: `  funnelkit schema
  funnelkit schema questionnaire
  funnelkit schema -o json`,
		Args: argsWithUsage(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				artType, err := validation.ParseArtifactType(args[0])
				if err != nil {
					return clierrors.UnknownArtifactType(args[0])
				}
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

			r := currentRegistries()
			if a.jsonOutput(out) {
				return writeJSON(out, r)
			}
			printRegistries(out, r)
			return nil
		},
	}
	cmd.GroupID = GroupAuthoring
	return cmd
}

func currentRegistries() registries {
	return registries{
		SchemaVersions:     []string{definition.SchemaVersionV1},
		QuestionTypes:      stringsOf(definition.QuestionTypes()),
		SectionTypes:       stringsOf(definition.SectionTypes()),
		AssetTypes:         stringsOf(definition.AssetTypes()),
		LogicTypes:         definition.LogicTypes(),
		LogicOperators:     definition.LogicOperators(),
		ConditionOperators: definition.ConditionOperators(),
		Codes:              validation.AllCodes(),
	}
}

func stringsOf[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

func printRegistries(w io.Writer, r registries) {
	c := newColors()
	line := func(name string, vals []string) {
		fmt.Fprintf(w, "%-20s %s\n", name+":", strings.Join(vals, ", "))
	}
	fmt.Fprintln(w, c.Cyan("Registries"))
	line("schemaVersion", r.SchemaVersions)
	line("question types", r.QuestionTypes)
	line("section types", r.SectionTypes)
	line("asset types", r.AssetTypes)
	line("logic types", r.LogicTypes)
	line("logic operators", r.LogicOperators)
	line("condition operators", r.ConditionOperators)

	fmt.Fprintf(w, "\n%s\n", c.Cyan("Error codes"))
	for _, code := range r.Codes {
		fmt.Fprintf(w, "  %s\n", code)
	}
}
