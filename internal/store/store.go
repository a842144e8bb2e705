// Package store persists the funnel catalog, immutable version rows, patient
// profiles and per-patient version overrides in a local SQLite database. It
// implements the lookups the resolver consumes.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/carecompass/funnelkit/internal/resolver"
)

var (
	// ErrAlreadyExists is returned when inserting a row whose id or unique
	// key is taken. Version rows are never overwritten.
	ErrAlreadyExists = errors.New("already exists")
	// ErrPatientNotFound is returned when writing an override for an unknown patient.
	ErrPatientNotFound = errors.New("patient profile not found")
	// ErrVersionMismatch is returned when a version belongs to a different funnel.
	ErrVersionMismatch = errors.New("version belongs to a different funnel")

	errNotInitialized = errors.New("store not initialized")
)

var _ resolver.Store = (*Store)(nil)

// Store is a SQLite-backed funnel store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and migrates it.
func Open(path string) (*Store, error) {
	p := filepath.Clean(strings.TrimSpace(path))
	if p == "" || p == "." {
		return nil, errors.New("missing database path")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	// Single-process local DB; one connection also keeps per-connection
	// pragmas such as foreign_keys in effect.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ready(ctx context.Context) (context.Context, error) {
	if s == nil || s.db == nil {
		return nil, errNotInitialized
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx, nil
}

// CreateFunnel adds a catalog entry. ID and Slug are required.
func (s *Store) CreateFunnel(ctx context.Context, f resolver.FunnelCatalogEntry) error {
	ctx, err := s.ready(ctx)
	if err != nil {
		return err
	}
	f.ID = strings.TrimSpace(f.ID)
	f.Slug = strings.TrimSpace(f.Slug)
	if f.ID == "" {
		return errors.New("missing funnel id")
	}
	if f.Slug == "" {
		return errors.New("missing funnel slug")
	}

	existing, err := s.GetFunnelBySlug(ctx, f.Slug)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("funnel %q: %w", f.Slug, ErrAlreadyExists)
	}

	now := time.Now().UnixMilli()
	_, err = s.db.ExecContext(ctx, `
INSERT INTO funnels_catalog(id, slug, title, is_active, default_version_id, created_at_unix_ms, updated_at_unix_ms)
VALUES(?, ?, ?, ?, ?, ?, ?)
`, f.ID, f.Slug, strings.TrimSpace(f.Title), boolToInt(f.IsActive), f.DefaultVersionID, now, now)
	return err
}

// GetFunnelBySlug returns the catalog entry for slug, or nil when unknown.
func (s *Store) GetFunnelBySlug(ctx context.Context, slug string) (*resolver.FunnelCatalogEntry, error) {
	ctx, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}

	var f resolver.FunnelCatalogEntry
	var active int
	err = s.db.QueryRowContext(ctx, `
SELECT id, slug, title, is_active, default_version_id
FROM funnels_catalog
WHERE slug = ?
`, strings.TrimSpace(slug)).Scan(&f.ID, &f.Slug, &f.Title, &active, &f.DefaultVersionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	f.IsActive = active != 0
	return &f, nil
}

// ListFunnels returns every catalog entry ordered by slug.
func (s *Store) ListFunnels(ctx context.Context) ([]resolver.FunnelCatalogEntry, error) {
	ctx, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, slug, title, is_active, default_version_id
FROM funnels_catalog
ORDER BY slug ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []resolver.FunnelCatalogEntry
	for rows.Next() {
		var f resolver.FunnelCatalogEntry
		var active int
		if err := rows.Scan(&f.ID, &f.Slug, &f.Title, &active, &f.DefaultVersionID); err != nil {
			return nil, err
		}
		f.IsActive = active != 0
		out = append(out, f)
	}
	return out, rows.Err()
}

// SetDefaultVersion points the funnel's catalog default at versionID.
func (s *Store) SetDefaultVersion(ctx context.Context, slug, versionID string) error {
	ctx, err := s.ready(ctx)
	if err != nil {
		return err
	}
	f, v, err := s.funnelAndVersion(ctx, slug, versionID)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
UPDATE funnels_catalog SET default_version_id = ?, updated_at_unix_ms = ? WHERE id = ?
`, v.ID, time.Now().UnixMilli(), f.ID)
	return err
}

// SetFunnelActive toggles the catalog isActive flag.
func (s *Store) SetFunnelActive(ctx context.Context, slug string, active bool) error {
	ctx, err := s.ready(ctx)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE funnels_catalog SET is_active = ?, updated_at_unix_ms = ? WHERE slug = ?
`, boolToInt(active), time.Now().UnixMilli(), strings.TrimSpace(slug))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &resolver.FunnelNotFoundError{Slug: slug}
	}
	return nil
}

const versionColumns = `
v.id, v.funnel_id, v.semantic_version, v.questionnaire_config, v.content_manifest,
v.algorithm_bundle_version, v.prompt_version, (c.default_version_id = v.id) AS is_default,
v.rollout_percent, v.created_at_unix_ms, v.updated_at_unix_ms`

type scanner interface {
	Scan(dest ...any) error
}

func scanVersion(sc scanner) (*resolver.FunnelVersionRow, error) {
	var v resolver.FunnelVersionRow
	var questionnaire, content string
	var isDefault int
	var created, updated int64
	if err := sc.Scan(
		&v.ID,
		&v.FunnelID,
		&v.SemanticVersion,
		&questionnaire,
		&content,
		&v.AlgorithmBundleVersion,
		&v.PromptVersion,
		&isDefault,
		&v.RolloutPercent,
		&created,
		&updated,
	); err != nil {
		return nil, err
	}
	v.QuestionnaireConfig = []byte(questionnaire)
	v.ContentManifest = []byte(content)
	v.IsDefault = isDefault != 0
	v.CreatedAt = time.UnixMilli(created).UTC()
	v.UpdatedAt = time.UnixMilli(updated).UTC()
	return &v, nil
}

// InsertVersion stores a new version row. Rows are insert-only: an id that
// already exists is rejected with ErrAlreadyExists. When v.IsDefault is set the
// catalog default moves to the new row in the same transaction.
func (s *Store) InsertVersion(ctx context.Context, v resolver.FunnelVersionRow) error {
	ctx, err := s.ready(ctx)
	if err != nil {
		return err
	}
	v.ID = strings.TrimSpace(v.ID)
	if v.ID == "" {
		return errors.New("missing version id")
	}
	if strings.TrimSpace(v.SemanticVersion) == "" {
		return errors.New("missing semantic version")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var funnels, existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM funnels_catalog WHERE id = ?`, v.FunnelID).Scan(&funnels); err != nil {
		return err
	}
	if funnels == 0 {
		return fmt.Errorf("funnel id %q does not exist", v.FunnelID)
	}
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM funnel_versions WHERE id = ?`, v.ID).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return fmt.Errorf("version %q: %w", v.ID, ErrAlreadyExists)
	}

	created := v.CreatedAt.UnixMilli()
	if v.CreatedAt.IsZero() {
		created = time.Now().UnixMilli()
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO funnel_versions(
  id, funnel_id, semantic_version, questionnaire_config, content_manifest,
  algorithm_bundle_version, prompt_version, rollout_percent,
  created_at_unix_ms, updated_at_unix_ms
) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		v.ID,
		v.FunnelID,
		v.SemanticVersion,
		string(v.QuestionnaireConfig),
		string(v.ContentManifest),
		v.AlgorithmBundleVersion,
		v.PromptVersion,
		v.RolloutPercent,
		created,
		created,
	); err != nil {
		return err
	}
	if v.IsDefault {
		if _, err := tx.ExecContext(ctx, `
UPDATE funnels_catalog SET default_version_id = ?, updated_at_unix_ms = ? WHERE id = ?
`, v.ID, time.Now().UnixMilli(), v.FunnelID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetFunnelVersionByID returns the version row, or nil when unknown.
func (s *Store) GetFunnelVersionByID(ctx context.Context, id string) (*resolver.FunnelVersionRow, error) {
	ctx, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
SELECT`+versionColumns+`
FROM funnel_versions v JOIN funnels_catalog c ON c.id = v.funnel_id
WHERE v.id = ?
`, strings.TrimSpace(id))
	v, err := scanVersion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// ListVersions returns the versions of a funnel in creation order.
func (s *Store) ListVersions(ctx context.Context, slug string) ([]resolver.FunnelVersionRow, error) {
	ctx, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	f, err := s.GetFunnelBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, &resolver.FunnelNotFoundError{Slug: slug}
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT`+versionColumns+`
FROM funnel_versions v JOIN funnels_catalog c ON c.id = v.funnel_id
WHERE v.funnel_id = ?
ORDER BY v.created_at_unix_ms ASC, v.id ASC
`, f.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []resolver.FunnelVersionRow
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// CreatePatientProfile links an authenticated user id to a patient profile.
func (s *Store) CreatePatientProfile(ctx context.Context, patientID, userID string) error {
	ctx, err := s.ready(ctx)
	if err != nil {
		return err
	}
	patientID = strings.TrimSpace(patientID)
	userID = strings.TrimSpace(userID)
	if patientID == "" || userID == "" {
		return errors.New("missing patient id or user id")
	}

	existing, err := s.GetPatientProfileID(ctx, userID)
	if err != nil {
		return err
	}
	if existing != "" {
		return fmt.Errorf("profile for user %q: %w", userID, ErrAlreadyExists)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO patient_profiles(id, user_id, created_at_unix_ms) VALUES(?, ?, ?)
`, patientID, userID, time.Now().UnixMilli())
	return err
}

// GetPatientProfileID returns the profile id for userID, or "" when none exists.
func (s *Store) GetPatientProfileID(ctx context.Context, userID string) (string, error) {
	ctx, err := s.ready(ctx)
	if err != nil {
		return "", err
	}
	var id string
	err = s.db.QueryRowContext(ctx, `SELECT id FROM patient_profiles WHERE user_id = ?`, strings.TrimSpace(userID)).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return id, nil
}

// SetVersionOverride pins a patient to a version of the funnel identified by slug.
func (s *Store) SetVersionOverride(ctx context.Context, patientID, slug, versionID string) error {
	ctx, err := s.ready(ctx)
	if err != nil {
		return err
	}
	if err := s.requirePatient(ctx, patientID); err != nil {
		return err
	}
	f, v, err := s.funnelAndVersion(ctx, slug, versionID)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO patient_funnels(patient_id, funnel_id, active_version_id, updated_at_unix_ms)
VALUES(?, ?, ?, ?)
ON CONFLICT(patient_id, funnel_id) DO UPDATE SET
  active_version_id = excluded.active_version_id,
  updated_at_unix_ms = excluded.updated_at_unix_ms
`, patientID, f.ID, v.ID, time.Now().UnixMilli())
	return err
}

// ClearVersionOverride removes a patient's override so the catalog default applies.
func (s *Store) ClearVersionOverride(ctx context.Context, patientID, slug string) error {
	ctx, err := s.ready(ctx)
	if err != nil {
		return err
	}
	f, err := s.GetFunnelBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if f == nil {
		return &resolver.FunnelNotFoundError{Slug: slug}
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM patient_funnels WHERE patient_id = ? AND funnel_id = ?`,
		strings.TrimSpace(patientID), f.ID)
	return err
}

// GetActiveVersionOverride returns the patient's override for funnelID, or nil.
func (s *Store) GetActiveVersionOverride(ctx context.Context, patientID, funnelID string) (*resolver.VersionOverride, error) {
	ctx, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	o := resolver.VersionOverride{PatientID: patientID, FunnelID: funnelID}
	var active sql.NullString
	err = s.db.QueryRowContext(ctx, `
SELECT active_version_id FROM patient_funnels WHERE patient_id = ? AND funnel_id = ?
`, patientID, funnelID).Scan(&active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	o.ActiveVersionID = active.String
	return &o, nil
}

func (s *Store) requirePatient(ctx context.Context, patientID string) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM patient_profiles WHERE id = ?`,
		strings.TrimSpace(patientID)).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", patientID, ErrPatientNotFound)
	}
	return nil
}

// funnelAndVersion loads both rows and checks the version belongs to the funnel.
func (s *Store) funnelAndVersion(ctx context.Context, slug, versionID string) (*resolver.FunnelCatalogEntry, *resolver.FunnelVersionRow, error) {
	f, err := s.GetFunnelBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	if f == nil {
		return nil, nil, &resolver.FunnelNotFoundError{Slug: slug}
	}
	v, err := s.GetFunnelVersionByID(ctx, versionID)
	if err != nil {
		return nil, nil, err
	}
	if v == nil {
		return nil, nil, &resolver.FunnelVersionNotFoundError{Slug: slug, VersionID: versionID}
	}
	if v.FunnelID != f.ID {
		return nil, nil, fmt.Errorf("version %q, funnel %q: %w", versionID, slug, ErrVersionMismatch)
	}
	return f, v, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
