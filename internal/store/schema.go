package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// Schema versions:
// - v1: funnels_catalog, funnel_versions, patient_profiles, patient_funnels
const schemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS funnels_catalog (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  default_version_id TEXT NOT NULL DEFAULT '',
  created_at_unix_ms INTEGER NOT NULL,
  updated_at_unix_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS funnel_versions (
  id TEXT PRIMARY KEY,
  funnel_id TEXT NOT NULL REFERENCES funnels_catalog(id),
  semantic_version TEXT NOT NULL,
  questionnaire_config TEXT NOT NULL,
  content_manifest TEXT NOT NULL,
  algorithm_bundle_version TEXT NOT NULL DEFAULT '',
  prompt_version TEXT NOT NULL DEFAULT '',
  rollout_percent INTEGER NOT NULL DEFAULT 100,
  created_at_unix_ms INTEGER NOT NULL,
  updated_at_unix_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_funnel_versions_funnel ON funnel_versions(funnel_id, created_at_unix_ms);

CREATE TABLE IF NOT EXISTS patient_profiles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  created_at_unix_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS patient_funnels (
  patient_id TEXT NOT NULL REFERENCES patient_profiles(id),
  funnel_id TEXT NOT NULL REFERENCES funnels_catalog(id),
  active_version_id TEXT,
  updated_at_unix_ms INTEGER NOT NULL,
  PRIMARY KEY (patient_id, funnel_id)
);
`

func initSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return fmt.Errorf("pragma journal_mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout=3000;`); err != nil {
		return fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON;`); err != nil {
		return fmt.Errorf("pragma foreign_keys: %w", err)
	}
	return migrateSchema(db)
}

func migrateSchema(db *sql.DB) error {
	var v int
	if err := db.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return fmt.Errorf("pragma user_version: %w", err)
	}
	if v > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", v, schemaVersion)
	}
	if v == schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if v < 1 {
		if _, err := tx.Exec(schemaV1); err != nil {
			return fmt.Errorf("create schema v1: %w", err)
		}
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version=%d;", schemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return tx.Commit()
}
