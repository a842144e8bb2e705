package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/carecompass/funnelkit/internal/resolver"
	"github.com/carecompass/funnelkit/internal/store"
)

// OpenTempStore opens a store in a fresh temporary directory and closes it on cleanup.
func OpenTempStore(t *testing.T) (*store.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "funnels.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

// SeedFunnel adds an active catalog entry whose id is "funnel-" + slug.
func SeedFunnel(t *testing.T, s *store.Store, slug string) resolver.FunnelCatalogEntry {
	t.Helper()

	entry := resolver.FunnelCatalogEntry{ID: "funnel-" + slug, Slug: slug, Title: slug, IsActive: true}
	if err := s.CreateFunnel(context.Background(), entry); err != nil {
		t.Fatalf("failed to create funnel %s: %v", slug, err)
	}
	return entry
}

// SeedVersion inserts a version row holding the given artifacts as JSON,
// bypassing publish validation. With makeDefault it becomes the catalog default.
func SeedVersion(t *testing.T, s *store.Store, f resolver.FunnelCatalogEntry, id, semver string, questionnaire, content any, makeDefault bool) {
	t.Helper()

	row := resolver.FunnelVersionRow{
		ID:                  id,
		FunnelID:            f.ID,
		SemanticVersion:     semver,
		QuestionnaireConfig: MustJSON(t, questionnaire),
		ContentManifest:     MustJSON(t, content),
		IsDefault:           makeDefault,
		RolloutPercent:      100,
		CreatedAt:           time.Now(),
	}
	if err := s.InsertVersion(context.Background(), row); err != nil {
		t.Fatalf("failed to insert version %s: %v", id, err)
	}
}
