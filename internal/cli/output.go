package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"

	"github.com/carecompass/funnelkit/internal/config"
)

var outputJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// colors used by text output; fatih/color disables itself off a terminal.
type colors struct {
	Green  func(a ...interface{}) string
	Red    func(a ...interface{}) string
	Yellow func(a ...interface{}) string
	Cyan   func(a ...interface{}) string
	Dim    func(a ...interface{}) string
}

func newColors() *colors {
	return &colors{
		Green:  color.New(color.FgGreen).SprintFunc(),
		Red:    color.New(color.FgRed).SprintFunc(),
		Yellow: color.New(color.FgYellow).SprintFunc(),
		Cyan:   color.New(color.FgCyan, color.Bold).SprintFunc(),
		Dim:    color.New(color.Faint).SprintFunc(),
	}
}

// jsonOutput reports whether results written to w should be JSON.
func (a *app) jsonOutput(w io.Writer) bool {
	f, err := config.NormalizeOutputFormat(a.cfg.OutputFormat)
	if err != nil {
		f = config.OutputFormatAuto
	}
	return f.Resolve(config.IsTerminal(w)) == config.OutputFormatJSON
}

func writeJSON(w io.Writer, v any) error {
	data, err := outputJSON.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
