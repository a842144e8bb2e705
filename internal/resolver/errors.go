package resolver

import (
	"errors"
	"fmt"

	"github.com/carecompass/funnelkit/internal/validation"
)

var (
	// ErrFunnelNotFound matches any FunnelNotFoundError.
	ErrFunnelNotFound = errors.New("funnel not found")
	// ErrFunnelVersionNotFound matches any FunnelVersionNotFoundError.
	ErrFunnelVersionNotFound = errors.New("funnel version not found")
	// ErrManifestInvalid matches any ManifestValidationError.
	ErrManifestInvalid = errors.New("funnel manifest failed validation")
)

// FunnelNotFoundError is returned when no catalog entry has the slug.
type FunnelNotFoundError struct {
	Slug string
}

func (e *FunnelNotFoundError) Error() string {
	return fmt.Sprintf("funnel %q not found", e.Slug)
}

func (e *FunnelNotFoundError) Unwrap() error {
	return ErrFunnelNotFound
}

// FunnelVersionNotFoundError is returned when the selected version id has no
// stored row, or the funnel has no default and no override applies.
type FunnelVersionNotFoundError struct {
	Slug      string
	VersionID string
	// FromOverride reports whether the missing id came from a patient override.
	FromOverride bool
}

func (e *FunnelVersionNotFoundError) Error() string {
	if e.VersionID == "" {
		return fmt.Sprintf("funnel %q has no default version", e.Slug)
	}
	source := "default"
	if e.FromOverride {
		source = "override"
	}
	return fmt.Sprintf("version %q (%s) of funnel %q not found", e.VersionID, source, e.Slug)
}

func (e *FunnelVersionNotFoundError) Unwrap() error {
	return ErrFunnelVersionNotFound
}

// ManifestValidationError is returned when a stored artifact fails lenient
// validation. No manifest is returned alongside it.
type ManifestValidationError struct {
	Slug      string
	VersionID string
	Artifact  validation.ArtifactType
	Errors    []*validation.ValidationError
}

func (e *ManifestValidationError) Error() string {
	return fmt.Sprintf("%s of funnel %q version %q failed validation (%d errors)",
		e.Artifact, e.Slug, e.VersionID, len(e.Errors))
}

// Report renders the underlying errors one per line.
func (e *ManifestValidationError) Report() string {
	return validation.FormatValidationErrors(e.Errors)
}

func (e *ManifestValidationError) Unwrap() error {
	return ErrManifestInvalid
}
