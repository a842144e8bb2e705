package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	headerColor = color.New(color.FgRed, color.Bold)
	usageColor  = color.New(color.FgCyan)
	fixColor    = color.New(color.FgYellow)
)

// FormatError renders err with colors when the terminal supports them.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return format(err, headerColor.SprintFunc(), usageColor.SprintFunc(), fixColor.SprintFunc())
}

// FormatErrorPlain renders err without ANSI escape codes.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	plain := func(a ...interface{}) string { return fmt.Sprint(a...) }
	return format(err, plain, plain, plain)
}

func format(err *CLIError, header, usage, fix func(a ...interface{}) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", header(err.Category.String()), err.Message)
	if err.Usage != "" {
		fmt.Fprintf(&b, "\n%s\n  %s\n", usage("Usage:"), err.Usage)
	}
	if len(err.Remediation) > 0 {
		fmt.Fprintf(&b, "\n%s\n", fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&b, "  - %s\n", step)
		}
	}
	return b.String()
}

// FprintError writes err to w. Colors are used only when w is a terminal.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	if isTerminal(w) {
		fmt.Fprint(w, FormatError(err))
		return
	}
	fmt.Fprint(w, FormatErrorPlain(err))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
