package resolver

import (
	"context"
	"time"

	"github.com/carecompass/funnelkit/internal/definition"
)

// FunnelCatalogEntry is the catalog row for one funnel.
type FunnelCatalogEntry struct {
	ID               string `json:"id"`
	Slug             string `json:"slug"`
	Title            string `json:"title"`
	IsActive         bool   `json:"isActive"`
	DefaultVersionID string `json:"defaultVersionId,omitempty"`
}

// FunnelVersionRow is a stored, immutable funnel version. The two artifacts
// are kept as raw JSON and only become typed after validation.
type FunnelVersionRow struct {
	ID                     string
	FunnelID               string
	SemanticVersion        string
	QuestionnaireConfig    []byte
	ContentManifest        []byte
	AlgorithmBundleVersion string
	PromptVersion          string
	IsDefault              bool
	RolloutPercent         int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// VersionOverride pins one patient to a specific version of a funnel.
type VersionOverride struct {
	PatientID       string
	FunnelID        string
	ActiveVersionID string
}

// Viewer identifies who is asking. A nil viewer or an empty UserID is anonymous.
type Viewer struct {
	UserID string
}

func (v *Viewer) authenticated() bool {
	return v != nil && v.UserID != ""
}

// FunnelVersionManifest is the effective, fully validated version of a funnel.
type FunnelVersionManifest struct {
	FunnelID               string                          `json:"funnelId"`
	Slug                   string                          `json:"slug"`
	Title                  string                          `json:"title"`
	IsActive               bool                            `json:"isActive"`
	VersionID              string                          `json:"versionId"`
	SemanticVersion        string                          `json:"semanticVersion"`
	AlgorithmBundleVersion string                          `json:"algorithmBundleVersion,omitempty"`
	PromptVersion          string                          `json:"promptVersion,omitempty"`
	IsDefault              bool                            `json:"isDefault"`
	RolloutPercent         int                             `json:"rolloutPercent"`
	OverrideApplied        bool                            `json:"overrideApplied"`
	Questionnaire          *definition.QuestionnaireConfig `json:"questionnaireConfig"`
	Content                *definition.ContentManifest     `json:"contentManifest"`
	CreatedAt              time.Time                       `json:"createdAt"`
	UpdatedAt              time.Time                       `json:"updatedAt"`
}

// CatalogLookup finds catalog entries. A nil entry with a nil error means the
// slug is unknown.
type CatalogLookup interface {
	GetFunnelBySlug(ctx context.Context, slug string) (*FunnelCatalogEntry, error)
}

// ProfileLookup maps an authenticated user to a patient profile. An empty id
// with a nil error means the user has no profile.
type ProfileLookup interface {
	GetPatientProfileID(ctx context.Context, userID string) (string, error)
}

// OverrideLookup finds a patient's version override for a funnel.
type OverrideLookup interface {
	GetActiveVersionOverride(ctx context.Context, patientID, funnelID string) (*VersionOverride, error)
}

// VersionLookup loads version rows by id.
type VersionLookup interface {
	GetFunnelVersionByID(ctx context.Context, id string) (*FunnelVersionRow, error)
}

// Store is the full set of reads the resolver performs.
type Store interface {
	CatalogLookup
	ProfileLookup
	OverrideLookup
	VersionLookup
}
