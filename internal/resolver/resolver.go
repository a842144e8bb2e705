// Package resolver picks the effective stored version of a funnel for a viewer
// and returns it only after both artifacts pass lenient validation.
//
// Precedence is fixed: a patient override wins when the viewer resolves to a
// patient profile that has one, otherwise the catalog default is used. There
// is no other source of version selection.
package resolver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/carecompass/funnelkit/internal/definition"
	"github.com/carecompass/funnelkit/internal/validation"
)

// Resolver resolves effective funnel versions. It holds no cache; every call
// reads current stored state.
type Resolver struct {
	store  Store
	logger *zap.Logger
}

// New creates a Resolver. A nil logger disables logging.
func New(store Store, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{store: store, logger: logger}
}

// ResolveEffectiveVersion returns the validated manifest of the version of
// slug that viewer should see. Errors are *FunnelNotFoundError,
// *FunnelVersionNotFoundError, *ManifestValidationError, or a wrapped store
// failure.
func (r *Resolver) ResolveEffectiveVersion(ctx context.Context, slug string, viewer *Viewer) (*FunnelVersionManifest, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	entry, err := r.store.GetFunnelBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("looking up funnel %q: %w", slug, err)
	}
	if entry == nil {
		return nil, &FunnelNotFoundError{Slug: slug}
	}

	versionID, fromOverride, err := r.selectVersion(ctx, entry, viewer)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Selected funnel version",
		zap.String("slug", slug),
		zap.String("version_id", versionID),
		zap.Bool("override", fromOverride))

	if versionID == "" {
		return nil, &FunnelVersionNotFoundError{Slug: slug}
	}
	row, err := r.store.GetFunnelVersionByID(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("loading version %q: %w", versionID, err)
	}
	if row == nil {
		return nil, &FunnelVersionNotFoundError{Slug: slug, VersionID: versionID, FromOverride: fromOverride}
	}

	questionnaire, content, err := r.compile(slug, row)
	if err != nil {
		return nil, err
	}

	return &FunnelVersionManifest{
		FunnelID:               entry.ID,
		Slug:                   entry.Slug,
		Title:                  entry.Title,
		IsActive:               entry.IsActive,
		VersionID:              row.ID,
		SemanticVersion:        row.SemanticVersion,
		AlgorithmBundleVersion: row.AlgorithmBundleVersion,
		PromptVersion:          row.PromptVersion,
		IsDefault:              row.IsDefault,
		RolloutPercent:         row.RolloutPercent,
		OverrideApplied:        fromOverride,
		Questionnaire:          questionnaire,
		Content:                content,
		CreatedAt:              row.CreatedAt,
		UpdatedAt:              row.UpdatedAt,
	}, nil
}

// selectVersion applies the precedence rule: override, then catalog default.
func (r *Resolver) selectVersion(ctx context.Context, entry *FunnelCatalogEntry, viewer *Viewer) (string, bool, error) {
	if !viewer.authenticated() {
		return entry.DefaultVersionID, false, nil
	}

	patientID, err := r.store.GetPatientProfileID(ctx, viewer.UserID)
	if err != nil {
		return "", false, fmt.Errorf("looking up patient profile: %w", err)
	}
	if patientID == "" {
		return entry.DefaultVersionID, false, nil
	}

	override, err := r.store.GetActiveVersionOverride(ctx, patientID, entry.ID)
	if err != nil {
		return "", false, fmt.Errorf("looking up version override: %w", err)
	}
	if override == nil || override.ActiveVersionID == "" {
		return entry.DefaultVersionID, false, nil
	}
	return override.ActiveVersionID, true, nil
}

// compile validates the questionnaire first, then the content manifest.
func (r *Resolver) compile(slug string, row *FunnelVersionRow) (*definition.QuestionnaireConfig, *definition.ContentManifest, error) {
	var questionnaire *definition.QuestionnaireConfig
	var result *validation.ValidationResult
	if raw, err := validation.DecodeJSON(row.QuestionnaireConfig); err != nil {
		result = validation.MalformedResult(err)
	} else {
		questionnaire, result = validation.CompileQuestionnaire(raw, validation.LenientParse)
	}
	if !result.Valid {
		return nil, nil, r.reject(slug, row.ID, validation.ArtifactTypeQuestionnaire, result)
	}

	var content *definition.ContentManifest
	if raw, err := validation.DecodeJSON(row.ContentManifest); err != nil {
		result = validation.MalformedResult(err)
	} else {
		content, result = validation.CompileContent(raw, validation.LenientParse)
	}
	if !result.Valid {
		return nil, nil, r.reject(slug, row.ID, validation.ArtifactTypeContent, result)
	}

	return questionnaire, content, nil
}

func (r *Resolver) reject(slug, versionID string, artifact validation.ArtifactType, result *validation.ValidationResult) error {
	err := &ManifestValidationError{
		Slug:      slug,
		VersionID: versionID,
		Artifact:  artifact,
		Errors:    result.Errors,
	}
	r.logger.Warn("Stored funnel version failed validation",
		zap.String("slug", slug),
		zap.String("version_id", versionID),
		zap.String("artifact", string(artifact)),
		zap.String("report", err.Report()))
	return err
}
