package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerebrox/braincore/pkg/artifact"
)

func newSQLiteStore(t *testing.T) *SQLiteArtifactStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewSQLiteArtifactStore(db)
	require.NoError(t, err)
	return s
}

func TestSQLitePutAndGet(t *testing.T) {
	s := newSQLiteStore(t)
	a := sealedArtifact(t)

	require.NoError(t, s.Put(context.Background(), a, testLockHash))

	got, err := s.Get(context.Background(), a.ArtifactID)
	require.NoError(t, err)
	assert.Equal(t, a.Hash, got.Hash)
	assert.Equal(t, a.Payload["total"], got.Payload["total"])

	v := artifact.Validate(got, testLockHash)
	assert.True(t, v.Valid)
}

func TestSQLiteRejectsDuplicateArtifactID(t *testing.T) {
	s := newSQLiteStore(t)
	a := sealedArtifact(t)

	require.NoError(t, s.Put(context.Background(), a, testLockHash))
	err := s.Put(context.Background(), a, testLockHash)
	assert.Error(t, err)
}

func TestSQLiteRejectsTamperedArtifact(t *testing.T) {
	s := newSQLiteStore(t)
	a := sealedArtifact(t)
	a.Hash = "sha256:0000000000000000000000000000000000000000000000000000000000000000"

	err := s.Put(context.Background(), a, testLockHash)
	assert.ErrorContains(t, err, "rejected")
}

func TestSQLiteListByMonthOrdered(t *testing.T) {
	s := newSQLiteStore(t)

	for _, id := range []string{"art-a", "art-b", "art-c"} {
		a := sealedArtifact(t)
		a.ArtifactID = id
		require.NoError(t, s.Put(context.Background(), a, testLockHash))
	}

	got, err := s.ListByMonth(context.Background(), "t1", "2026-02")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "art-a", got[0].ArtifactID)
	assert.Equal(t, "art-c", got[2].ArtifactID)
}

func TestSQLiteListByMonthScopesTenant(t *testing.T) {
	s := newSQLiteStore(t)
	a := sealedArtifact(t)
	require.NoError(t, s.Put(context.Background(), a, testLockHash))

	got, err := s.ListByMonth(context.Background(), "other-tenant", "2026-02")
	require.NoError(t, err)
	assert.Empty(t, got)
}
