package validation

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Path locates a value inside an artifact as ordered field-access tokens.
// Array positions are decimal tokens, so steps[0].id is {"steps", "0", "id"}.
type Path []string

// Key returns a new path extended by a field name.
func (p Path) Key(name string) Path {
	return append(slices.Clone(p), name)
}

// Index returns a new path extended by an array position.
func (p Path) Index(i int) Path {
	return append(slices.Clone(p), strconv.Itoa(i))
}

// String renders the path as steps[0].questions[1].key.
func (p Path) String() string {
	if len(p) == 0 {
		return "<root>"
	}
	var sb strings.Builder
	for i, tok := range p {
		if isIndexToken(tok) {
			sb.WriteString("[" + tok + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(tok)
	}
	return sb.String()
}

func isIndexToken(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidationError is a single structured violation.
type ValidationError struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Path    Path           `json:"path"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface as "[CODE] path: message".
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, e.Message)
}

// FormatFull returns a multi-line rendering including details.
func (e *ValidationError) FormatFull() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  Code: %s\n", e.Code))
	sb.WriteString(fmt.Sprintf("  Path: %s\n", e.Path))
	sb.WriteString(fmt.Sprintf("  Error: %s\n", e.Message))

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", k, e.Details[k]))
		}
	}
	return sb.String()
}

// ArtifactSummary contains counts about a validated artifact.
type ArtifactSummary struct {
	Type   ArtifactType   `json:"type"`
	Counts map[string]int `json:"counts"`
}

// ValidationResult is the outcome of validating one artifact. Errors is empty
// iff Valid is true.
type ValidationResult struct {
	Valid    bool               `json:"valid"`
	Errors   []*ValidationError `json:"errors"`
	Warnings []*ValidationError `json:"warnings,omitempty"`
	Summary  *ArtifactSummary   `json:"summary,omitempty"`
}

func newResult() *ValidationResult {
	return &ValidationResult{Valid: true, Errors: []*ValidationError{}}
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// AddError adds a validation error to the result.
func (r *ValidationResult) AddError(err *ValidationError) {
	r.Errors = append(r.Errors, err)
	r.Valid = false
}

// AddWarning records a non-fatal finding.
func (r *ValidationResult) AddWarning(w *ValidationError) {
	r.Warnings = append(r.Warnings, w)
}

// Codes returns the error codes in report order.
func (r *ValidationResult) Codes() []Code {
	codes := make([]Code, len(r.Errors))
	for i, e := range r.Errors {
		codes[i] = e.Code
	}
	return codes
}

// collector accumulates errors and warnings during one pass.
type collector struct {
	errs     []*ValidationError
	warnings []*ValidationError
}

func (c *collector) fail(code Code, path Path, msg string, details map[string]any) {
	c.errs = append(c.errs, &ValidationError{Code: code, Message: msg, Path: path, Details: details})
}

func (c *collector) warn(code Code, path Path, msg string, details map[string]any) {
	c.warnings = append(c.warnings, &ValidationError{Code: code, Message: msg, Path: path, Details: details})
}
