package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// OutputFormat selects how commands render their results.
type OutputFormat string

const (
	// OutputFormatAuto picks text on a terminal and json otherwise.
	OutputFormatAuto OutputFormat = "auto"
	// OutputFormatText renders colored, human-readable reports.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON renders machine-readable JSON.
	OutputFormatJSON OutputFormat = "json"
)

var validOutputFormats = map[OutputFormat]bool{
	OutputFormatAuto: true,
	OutputFormatText: true,
	OutputFormatJSON: true,
}

// ValidOutputFormatNames returns the valid format names for display.
func ValidOutputFormatNames() []string {
	return []string{"auto", "text", "json"}
}

// NormalizeOutputFormat normalizes and validates a format string, returning
// the canonical OutputFormat value. Returns OutputFormatAuto if empty.
func NormalizeOutputFormat(format string) (OutputFormat, error) {
	if format == "" {
		return OutputFormatAuto, nil
	}

	normalized := OutputFormat(strings.ToLower(strings.TrimSpace(format)))
	if !validOutputFormats[normalized] {
		return "", fmt.Errorf(
			"invalid output format %q; valid options: %s",
			format,
			strings.Join(ValidOutputFormatNames(), ", "),
		)
	}
	return normalized, nil
}

// Resolve replaces auto with a concrete format.
func (f OutputFormat) Resolve(isTerminal bool) OutputFormat {
	if f != OutputFormatAuto {
		return f
	}
	if isTerminal {
		return OutputFormatText
	}
	return OutputFormatJSON
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
