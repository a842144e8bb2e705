// Package health runs the checks behind "funnelkit doctor": the database is
// usable and every catalog funnel resolves to a version that passes
// validation.
package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/carecompass/funnelkit/internal/resolver"
	"github.com/carecompass/funnelkit/internal/store"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult `json:"checks"`
	Passed bool          `json:"passed"`
}

func (r *HealthReport) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.Passed {
		r.Passed = false
	}
}

// Catalog lists the funnels to check.
type Catalog interface {
	ListFunnels(ctx context.Context) ([]resolver.FunnelCatalogEntry, error)
}

// VersionResolver resolves the version an anonymous viewer would receive.
type VersionResolver interface {
	ResolveEffectiveVersion(ctx context.Context, slug string, viewer *resolver.Viewer) (*resolver.FunnelVersionManifest, error)
}

// RunHealthChecks checks the database at dbPath, then resolves every funnel
// in its catalog.
func RunHealthChecks(ctx context.Context, dbPath string, logger *zap.Logger) *HealthReport {
	if logger == nil {
		logger = zap.NewNop()
	}
	report := &HealthReport{
		Checks: make([]CheckResult, 0),
		Passed: true,
	}

	pathCheck := CheckDatabasePath(dbPath)
	report.add(pathCheck)
	if !pathCheck.Passed {
		return report
	}

	s, err := store.Open(dbPath)
	if err != nil {
		report.add(CheckResult{Name: "Database", Passed: false, Message: err.Error()})
		return report
	}
	defer s.Close()
	report.add(CheckResult{Name: "Database", Passed: true, Message: "opened " + dbPath})

	for _, c := range CheckFunnels(ctx, s, resolver.New(s, logger)) {
		report.add(c)
	}
	return report
}

// CheckDatabasePath checks that path is a file, or that it can be created.
func CheckDatabasePath(path string) CheckResult {
	result := CheckResult{Name: "Database path"}
	p := strings.TrimSpace(path)
	if p == "" {
		result.Message = "db_path is empty"
		return result
	}

	info, err := os.Stat(p)
	switch {
	case err == nil && info.IsDir():
		result.Message = fmt.Sprintf("%s is a directory", p)
		return result
	case err == nil:
		result.Passed = true
		result.Message = p + " exists"
		return result
	case !errors.Is(err, os.ErrNotExist):
		result.Message = err.Error()
		return result
	}

	// Open creates missing directories, so look for the nearest existing ancestor.
	dir := filepath.Dir(p)
	for {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				result.Message = fmt.Sprintf("%s is not a directory", dir)
				return result
			}
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			result.Message = fmt.Sprintf("no existing parent directory for %s", p)
			return result
		}
		dir = parent
	}
	result.Passed = true
	result.Message = p + " will be created"
	return result
}

// CheckFunnels resolves each catalog funnel for an anonymous viewer. A funnel
// passes when its default version exists and both artifacts validate.
func CheckFunnels(ctx context.Context, catalog Catalog, r VersionResolver) []CheckResult {
	funnels, err := catalog.ListFunnels(ctx)
	if err != nil {
		return []CheckResult{{Name: "Catalog", Passed: false, Message: err.Error()}}
	}
	if len(funnels) == 0 {
		return []CheckResult{{Name: "Catalog", Passed: true, Message: "no funnels registered"}}
	}

	results := make([]CheckResult, 0, len(funnels))
	for _, f := range funnels {
		results = append(results, checkFunnel(ctx, f, r))
	}
	return results
}

func checkFunnel(ctx context.Context, f resolver.FunnelCatalogEntry, r VersionResolver) CheckResult {
	result := CheckResult{Name: "Funnel " + f.Slug}

	m, err := r.ResolveEffectiveVersion(ctx, f.Slug, nil)
	var invalid *resolver.ManifestValidationError
	switch {
	case errors.As(err, &invalid):
		result.Message = fmt.Sprintf("version %s has an invalid %s (%d errors)",
			invalid.VersionID, invalid.Artifact, len(invalid.Errors))
	case err != nil:
		result.Message = err.Error()
	default:
		result.Passed = true
		result.Message = fmt.Sprintf("resolves to %s (%s)", m.SemanticVersion, m.VersionID)
		if !m.IsActive {
			result.Message += ", inactive"
		}
	}
	return result
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var output string

	for _, check := range report.Checks {
		if check.Passed {
			output += fmt.Sprintf("✓ %s: %s\n", check.Name, check.Message)
		} else {
			output += fmt.Sprintf("✗ %s: %s\n", check.Name, check.Message)
		}
	}

	return output
}
