package validation

import "strings"

// FormatValidationErrors renders one "[CODE] path: message" line per error,
// in the order given. It never sorts or deduplicates, so the output mirrors
// the traversal order of the pass that produced the errors.
func FormatValidationErrors(errs []*ValidationError) string {
	if len(errs) == 0 {
		return ""
	}
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}
