// Package store persists validated replay artifacts and archives compacted
// ledger windows. Stores are insert-and-read only; there is no update or
// delete path for artifacts.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/zerebrox/braincore/pkg/artifact"

	_ "modernc.org/sqlite"
)

// SQLiteArtifactStore persists replay artifacts in a local SQLite database.
type SQLiteArtifactStore struct {
	db *sql.DB
}

func NewSQLiteArtifactStore(db *sql.DB) (*SQLiteArtifactStore, error) {
	s := &SQLiteArtifactStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteArtifactStore) migrate() error {
	query := `
    CREATE TABLE IF NOT EXISTS replay_artifacts (
        artifact_id TEXT PRIMARY KEY,
        tenant_id TEXT NOT NULL,
        month_key TEXT NOT NULL,
        type TEXT NOT NULL,
        generated_at TEXT NOT NULL,
        hash TEXT NOT NULL,
        schema_version INTEGER NOT NULL,
        payload JSON NOT NULL
    );`
	_, err := s.db.ExecContext(context.Background(), query)
	return err
}

// Put validates and inserts one artifact. Invalid artifacts never reach the
// database; a duplicate artifact id fails the insert.
func (s *SQLiteArtifactStore) Put(ctx context.Context, a artifact.ReplayArtifact, periodLockHash string) error {
	if v := artifact.Validate(a, periodLockHash); !v.Valid {
		return fmt.Errorf("artifact %s rejected: %v", a.ArtifactID, v.Errors)
	}

	payloadJSON, err := json.Marshal(a.Payload)
	if err != nil {
		return fmt.Errorf("artifact %s payload: %w", a.ArtifactID, err)
	}

	query := `INSERT INTO replay_artifacts (
		artifact_id, tenant_id, month_key, type, generated_at, hash, schema_version, payload
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		a.ArtifactID, a.TenantID, a.MonthKey, string(a.Type), a.GeneratedAt, a.Hash, a.SchemaVersion, string(payloadJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert artifact %s: %w", a.ArtifactID, err)
	}
	return nil
}

// ListByMonth returns a tenant's artifacts for one accounting period in
// insertion order, for replay bootstrap.
func (s *SQLiteArtifactStore) ListByMonth(ctx context.Context, tenantID, monthKey string) ([]artifact.ReplayArtifact, error) {
	query := `
        SELECT artifact_id, tenant_id, month_key, type, generated_at, hash, schema_version, payload
        FROM replay_artifacts
        WHERE tenant_id = ? AND month_key = ?
        ORDER BY rowid ASC
    `
	rows, err := s.db.QueryContext(ctx, query, tenantID, monthKey)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var artifacts []artifact.ReplayArtifact
	for rows.Next() {
		a, err := scanArtifactRow(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// Get returns one artifact by id.
func (s *SQLiteArtifactStore) Get(ctx context.Context, artifactID string) (artifact.ReplayArtifact, error) {
	query := `
        SELECT artifact_id, tenant_id, month_key, type, generated_at, hash, schema_version, payload
        FROM replay_artifacts
        WHERE artifact_id = ?
    `
	row := s.db.QueryRowContext(ctx, query, artifactID)
	a, err := scanArtifact(row)
	if err == sql.ErrNoRows {
		return artifact.ReplayArtifact{}, fmt.Errorf("artifact %s not found", artifactID)
	}
	return a, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row rowScanner) (artifact.ReplayArtifact, error) {
	var (
		a           artifact.ReplayArtifact
		typ         string
		payloadJSON string
	)
	if err := row.Scan(&a.ArtifactID, &a.TenantID, &a.MonthKey, &typ, &a.GeneratedAt, &a.Hash, &a.SchemaVersion, &payloadJSON); err != nil {
		return artifact.ReplayArtifact{}, err
	}
	a.Type = artifact.Type(typ)
	if payloadJSON != "" {
		if err := json.Unmarshal([]byte(payloadJSON), &a.Payload); err != nil {
			return artifact.ReplayArtifact{}, fmt.Errorf("artifact %s payload corrupt: %w", a.ArtifactID, err)
		}
	}
	return a, nil
}

func scanArtifactRow(rows *sql.Rows) (artifact.ReplayArtifact, error) {
	return scanArtifact(rows)
}
