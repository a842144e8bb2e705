// Package validation checks funnel artifacts in two passes. The structural
// pass turns untyped JSON into typed artifacts, checking field kinds and
// closed registries; the integrity pass looks for duplicate identifiers,
// missing content and dangling or forward conditional references. Both passes
// accumulate every violation instead of stopping at the first.
package validation

import (
	"github.com/carecompass/funnelkit/internal/definition"
)

// CompileQuestionnaire runs both passes and returns the typed config when the
// result is valid.
func CompileQuestionnaire(raw any, opts ParseOptions) (*definition.QuestionnaireConfig, *ValidationResult) {
	result := newResult()

	cfg, structural := ParseQuestionnaireConfig(raw, opts)
	if len(structural) > 0 {
		for _, e := range structural {
			result.AddError(e)
		}
		return nil, result
	}

	errs, warnings := CheckQuestionnaireIntegrity(cfg)
	for _, e := range errs {
		result.AddError(e)
	}
	for _, w := range warnings {
		result.AddWarning(w)
	}
	if result.HasErrors() {
		return nil, result
	}

	result.Summary = &ArtifactSummary{
		Type: ArtifactTypeQuestionnaire,
		Counts: map[string]int{
			"steps":     len(cfg.Steps),
			"questions": cfg.QuestionCount(),
		},
	}
	return cfg, result
}

// CompileContent runs both passes over a content manifest.
func CompileContent(raw any, opts ParseOptions) (*definition.ContentManifest, *ValidationResult) {
	result := newResult()

	m, structural := ParseContentManifest(raw, opts)
	if len(structural) > 0 {
		for _, e := range structural {
			result.AddError(e)
		}
		return nil, result
	}

	errs, warnings := CheckContentIntegrity(m)
	for _, e := range errs {
		result.AddError(e)
	}
	for _, w := range warnings {
		result.AddWarning(w)
	}
	if result.HasErrors() {
		return nil, result
	}

	sections := 0
	for _, p := range m.Pages {
		sections += len(p.Sections)
	}
	result.Summary = &ArtifactSummary{
		Type: ArtifactTypeContent,
		Counts: map[string]int{
			"pages":    len(m.Pages),
			"sections": sections,
			"assets":   len(m.Assets),
		},
	}
	return m, result
}

// ValidateQuestionnaireConfig validates an authored questionnaire in strict mode.
func ValidateQuestionnaireConfig(raw any) *ValidationResult {
	_, result := CompileQuestionnaire(raw, StrictParse)
	return result
}

// ValidateContentManifest validates an authored content manifest in strict mode.
func ValidateContentManifest(raw any) *ValidationResult {
	_, result := CompileContent(raw, StrictParse)
	return result
}

// ArtifactValidator validates one artifact type.
type ArtifactValidator interface {
	// Validate validates an already decoded document.
	Validate(raw any) *ValidationResult
	// ValidateFile decodes and validates the file at path.
	ValidateFile(path string) *ValidationResult
	// Type returns the artifact type this validator handles.
	Type() ArtifactType
}

// NewArtifactValidator creates a validator for the given artifact type.
// Authoring uses StrictParse; LenientParse matches runtime resolution.
func NewArtifactValidator(artifactType ArtifactType, opts ParseOptions) (ArtifactValidator, error) {
	switch artifactType {
	case ArtifactTypeQuestionnaire:
		return &artifactValidator{artifactType: artifactType, validate: func(raw any) *ValidationResult {
			_, result := CompileQuestionnaire(raw, opts)
			return result
		}}, nil
	case ArtifactTypeContent:
		return &artifactValidator{artifactType: artifactType, validate: func(raw any) *ValidationResult {
			_, result := CompileContent(raw, opts)
			return result
		}}, nil
	default:
		_, err := GetSchema(artifactType)
		return nil, err
	}
}

type artifactValidator struct {
	artifactType ArtifactType
	validate     func(raw any) *ValidationResult
}

func (v *artifactValidator) Type() ArtifactType {
	return v.artifactType
}

func (v *artifactValidator) Validate(raw any) *ValidationResult {
	return v.validate(raw)
}

func (v *artifactValidator) ValidateFile(path string) *ValidationResult {
	raw, err := DecodeFile(path)
	if err != nil {
		return MalformedResult(err)
	}
	return v.validate(raw)
}
