package health

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carecompass/funnelkit/internal/resolver"
	"github.com/carecompass/funnelkit/internal/testutil"
	"github.com/carecompass/funnelkit/internal/validation"
)

func TestCheckDatabasePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := filepath.Join(dir, "funnels.db")
	require.NoError(t, os.WriteFile(existing, nil, 0o600))
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	tests := map[string]struct {
		path       string
		wantPassed bool
		wantMsg    string
	}{
		"existing file": {
			path:       existing,
			wantPassed: true,
			wantMsg:    "exists",
		},
		"missing file in existing dir": {
			path:       filepath.Join(dir, "new.db"),
			wantPassed: true,
			wantMsg:    "will be created",
		},
		"missing nested dirs": {
			path:       filepath.Join(dir, "a", "b", "new.db"),
			wantPassed: true,
			wantMsg:    "will be created",
		},
		"directory": {
			path:    dir,
			wantMsg: "is a directory",
		},
		"parent is a file": {
			path:    filepath.Join(blocker, "new.db"),
			wantMsg: "is not a directory",
		},
		"empty": {
			path:    "  ",
			wantMsg: "db_path is empty",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := CheckDatabasePath(tc.path)
			assert.Equal(t, "Database path", got.Name)
			assert.Equal(t, tc.wantPassed, got.Passed)
			assert.Contains(t, got.Message, tc.wantMsg)
		})
	}
}

type fakeCatalog struct {
	funnels []resolver.FunnelCatalogEntry
	err     error
}

func (f fakeCatalog) ListFunnels(context.Context) ([]resolver.FunnelCatalogEntry, error) {
	return f.funnels, f.err
}

type fakeResolver map[string]struct {
	manifest *resolver.FunnelVersionManifest
	err      error
}

func (f fakeResolver) ResolveEffectiveVersion(_ context.Context, slug string, viewer *resolver.Viewer) (*resolver.FunnelVersionManifest, error) {
	if viewer != nil {
		return nil, errors.New("expected an anonymous viewer")
	}
	r := f[slug]
	return r.manifest, r.err
}

func TestCheckFunnels(t *testing.T) {
	t.Parallel()

	catalog := fakeCatalog{funnels: []resolver.FunnelCatalogEntry{
		{Slug: "stress"}, {Slug: "sleep"}, {Slug: "broken"}, {Slug: "paused"},
	}}
	r := fakeResolver{
		"stress": {manifest: &resolver.FunnelVersionManifest{VersionID: "v1", SemanticVersion: "1.0.0", IsActive: true}},
		"sleep":  {err: &resolver.FunnelVersionNotFoundError{Slug: "sleep"}},
		"broken": {err: &resolver.ManifestValidationError{
			Slug: "broken", VersionID: "v7", Artifact: validation.ArtifactTypeContent,
			Errors: []*validation.ValidationError{{Code: validation.CodeEmptyPages}},
		}},
		"paused": {manifest: &resolver.FunnelVersionManifest{VersionID: "v2", SemanticVersion: "2.0.0"}},
	}

	results := CheckFunnels(context.Background(), catalog, r)
	require.Len(t, results, 4)

	assert.Equal(t, CheckResult{Name: "Funnel stress", Passed: true, Message: "resolves to 1.0.0 (v1)"}, results[0])
	assert.False(t, results[1].Passed)
	assert.Contains(t, results[1].Message, "has no default version")
	assert.Equal(t, CheckResult{Name: "Funnel broken", Passed: false, Message: "version v7 has an invalid content (1 errors)"}, results[2])
	assert.True(t, results[3].Passed)
	assert.Equal(t, "resolves to 2.0.0 (v2), inactive", results[3].Message)
}

func TestCheckFunnels_Catalog(t *testing.T) {
	t.Parallel()

	results := CheckFunnels(context.Background(), fakeCatalog{}, fakeResolver{})
	assert.Equal(t, []CheckResult{{Name: "Catalog", Passed: true, Message: "no funnels registered"}}, results)

	results = CheckFunnels(context.Background(), fakeCatalog{err: errors.New("disk I/O error")}, fakeResolver{})
	assert.Equal(t, []CheckResult{{Name: "Catalog", Passed: false, Message: "disk I/O error"}}, results)
}

func TestRunHealthChecks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, dbPath := testutil.OpenTempStore(t)
	stress := testutil.SeedFunnel(t, s, "stress")
	testutil.SeedFunnel(t, s, "sleep")
	testutil.SeedVersion(t, s, stress, "v1", "1.0.0", testutil.Questionnaire(), testutil.Content(), true)

	report := RunHealthChecks(ctx, dbPath, nil)
	require.Len(t, report.Checks, 4)
	assert.False(t, report.Passed, "sleep has no default version")

	names := make([]string, len(report.Checks))
	for i, c := range report.Checks {
		names[i] = c.Name
	}
	assert.ElementsMatch(t, []string{"Database path", "Database", "Funnel stress", "Funnel sleep"}, names)
	for _, c := range report.Checks {
		if c.Name == "Funnel sleep" {
			assert.False(t, c.Passed)
		} else {
			assert.True(t, c.Passed, c.Name)
		}
	}
}

func TestRunHealthChecks_BadPathStopsEarly(t *testing.T) {
	t.Parallel()

	report := RunHealthChecks(context.Background(), t.TempDir(), nil)
	require.Len(t, report.Checks, 1)
	assert.False(t, report.Passed)
	assert.Equal(t, "Database path", report.Checks[0].Name)
}

func TestFormatReport(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		report   *HealthReport
		expected []string
	}{
		"All checks pass": {
			report: &HealthReport{
				Checks: []CheckResult{
					{Name: "Database", Passed: true, Message: "opened funnels.db"},
					{Name: "Funnel stress", Passed: true, Message: "resolves to 1.0.0 (v1)"},
				},
				Passed: true,
			},
			expected: []string{
				"✓ Database: opened funnels.db",
				"✓ Funnel stress: resolves to 1.0.0 (v1)",
			},
		},
		"One check fails": {
			report: &HealthReport{
				Checks: []CheckResult{
					{Name: "Database", Passed: true, Message: "opened funnels.db"},
					{Name: "Funnel sleep", Passed: false, Message: `funnel "sleep" has no default version`},
				},
				Passed: false,
			},
			expected: []string{
				"✓ Database: opened funnels.db",
				`✗ Funnel sleep: funnel "sleep" has no default version`,
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			output := FormatReport(tt.report)
			for _, expected := range tt.expected {
				assert.Contains(t, output, expected, "Output should contain: %s", expected)
			}
			assert.Equal(t, len(tt.report.Checks), strings.Count(output, "\n"))
		})
	}
}
