package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/zerebrox/braincore/pkg/artifact"
)

// PostgresArtifactStore persists replay artifacts in PostgreSQL for
// multi-node deployments. Same insert-and-read contract as the SQLite store.
type PostgresArtifactStore struct {
	db *sql.DB
}

func NewPostgresArtifactStore(db *sql.DB) (*PostgresArtifactStore, error) {
	s := &PostgresArtifactStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresArtifactStore) migrate() error {
	query := `
    CREATE TABLE IF NOT EXISTS replay_artifacts (
        seq BIGSERIAL PRIMARY KEY,
        artifact_id TEXT UNIQUE NOT NULL,
        tenant_id TEXT NOT NULL,
        month_key TEXT NOT NULL,
        type TEXT NOT NULL,
        generated_at TEXT NOT NULL,
        hash TEXT NOT NULL,
        schema_version INTEGER NOT NULL,
        payload JSONB NOT NULL
    );`
	_, err := s.db.ExecContext(context.Background(), query)
	return err
}

// Put validates and inserts one artifact.
func (s *PostgresArtifactStore) Put(ctx context.Context, a artifact.ReplayArtifact, periodLockHash string) error {
	if v := artifact.Validate(a, periodLockHash); !v.Valid {
		return fmt.Errorf("artifact %s rejected: %v", a.ArtifactID, v.Errors)
	}

	payloadJSON, err := json.Marshal(a.Payload)
	if err != nil {
		return fmt.Errorf("artifact %s payload: %w", a.ArtifactID, err)
	}

	query := `INSERT INTO replay_artifacts (
		artifact_id, tenant_id, month_key, type, generated_at, hash, schema_version, payload
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = s.db.ExecContext(ctx, query,
		a.ArtifactID, a.TenantID, a.MonthKey, string(a.Type), a.GeneratedAt, a.Hash, a.SchemaVersion, string(payloadJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert artifact %s: %w", a.ArtifactID, err)
	}
	return nil
}

// ListByMonth returns a tenant's artifacts for one period in insertion order.
func (s *PostgresArtifactStore) ListByMonth(ctx context.Context, tenantID, monthKey string) ([]artifact.ReplayArtifact, error) {
	query := `
        SELECT artifact_id, tenant_id, month_key, type, generated_at, hash, schema_version, payload
        FROM replay_artifacts
        WHERE tenant_id = $1 AND month_key = $2
        ORDER BY seq ASC
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
func (s *PostgresArtifactStore) Get(ctx context.Context, artifactID string) (artifact.ReplayArtifact, error) {
	query := `
        SELECT artifact_id, tenant_id, month_key, type, generated_at, hash, schema_version, payload
        FROM replay_artifacts
        WHERE artifact_id = $1
    `
	row := s.db.QueryRowContext(ctx, query, artifactID)
	a, err := scanArtifact(row)
	if err == sql.ErrNoRows {
		return artifact.ReplayArtifact{}, fmt.Errorf("artifact %s not found", artifactID)
	}
	return a, err
}
