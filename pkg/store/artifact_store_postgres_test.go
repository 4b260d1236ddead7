package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerebrox/braincore/pkg/artifact"
)

const testLockHash = "sha256:period-lock"

func sealedArtifact(t *testing.T) artifact.ReplayArtifact {
	t.Helper()
	a := artifact.ReplayArtifact{
		ArtifactID:    "art-1",
		TenantID:      "t1",
		MonthKey:      "2026-02",
		Type:          artifact.TypeDecision,
		GeneratedAt:   "2026-03-01T00:00:00Z",
		SchemaVersion: 1,
		Payload:       map[string]interface{}{"total": 42.5},
	}
	h, err := artifact.ComputeHash(a, testLockHash)
	require.NoError(t, err)
	a.Hash = h
	return a
}

func newMockedStore(t *testing.T) (*PostgresArtifactStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS replay_artifacts").
		WillReturnResult(sqlmock.NewResult(0, 0))
	s, err := NewPostgresArtifactStore(db)
	require.NoError(t, err)
	return s, mock
}

func TestPostgresPutInsertsValidatedArtifact(t *testing.T) {
	s, mock := newMockedStore(t)
	a := sealedArtifact(t)

	mock.ExpectExec("INSERT INTO replay_artifacts").
		WithArgs(a.ArtifactID, a.TenantID, a.MonthKey, string(a.Type),
			a.GeneratedAt, a.Hash, a.SchemaVersion, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Put(context.Background(), a, testLockHash))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPutRejectsInvalidArtifactBeforeSQL(t *testing.T) {
	s, mock := newMockedStore(t)
	a := sealedArtifact(t)
	a.Payload["total"] = 1.0 // hash no longer matches

	err := s.Put(context.Background(), a, testLockHash)
	assert.Error(t, err)
	// No INSERT expectation registered: the invalid artifact never reaches SQL.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListByMonth(t *testing.T) {
	s, mock := newMockedStore(t)
	a := sealedArtifact(t)

	rows := sqlmock.NewRows([]string{
		"artifact_id", "tenant_id", "month_key", "type",
		"generated_at", "hash", "schema_version", "payload",
	}).AddRow(a.ArtifactID, a.TenantID, a.MonthKey, string(a.Type),
		a.GeneratedAt, a.Hash, a.SchemaVersion, `{"total":42.5}`)

	mock.ExpectQuery("SELECT (.+) FROM replay_artifacts").
		WithArgs("t1", "2026-02").
		WillReturnRows(rows)

	got, err := s.ListByMonth(context.Background(), "t1", "2026-02")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ArtifactID, got[0].ArtifactID)
	assert.Equal(t, artifact.TypeDecision, got[0].Type)
	assert.Equal(t, 42.5, got[0].Payload["total"])

	// Read-back artifacts still validate against the period lock.
	v := artifact.Validate(got[0], testLockHash)
	assert.True(t, v.Valid)
}

func TestPostgresGetNotFound(t *testing.T) {
	s, mock := newMockedStore(t)

	mock.ExpectQuery("SELECT (.+) FROM replay_artifacts").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"artifact_id", "tenant_id", "month_key", "type",
			"generated_at", "hash", "schema_version", "payload",
		}))

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorContains(t, err, "not found")
}
