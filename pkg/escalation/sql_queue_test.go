package escalation

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func escalationColumns() []string {
	return []string{"id", "tenant_id", "decision_id", "verdict", "reasons", "state",
		"created_at", "updated_at", "claimed_by", "claimed_until", "resolution"}
}

func TestClaimNext_UsesSkipLocked(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	q := NewSQLQueue(db)
	ctx := context.Background()

	// Concurrent reviewers must not block on each other's claims.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id\s+FROM escalations .* FOR UPDATE SKIP LOCKED`).
		WithArgs("tenant-a", StateOpen).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("esc-1"))

	mock.ExpectExec("UPDATE escalations").
		WithArgs("reviewer-1", sqlmock.AnyArg(), StateClaimed, sqlmock.AnyArg(), "esc-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectCommit()

	mock.ExpectQuery("SELECT .* FROM escalations").
		WithArgs("esc-1").
		WillReturnRows(sqlmock.NewRows(escalationColumns()).
			AddRow("esc-1", "tenant-a", "dec-1", "human_review", `["score delta"]`, "CLAIMED",
				time.Now(), time.Now(), "reviewer-1", time.Now().Add(time.Minute), ""))

	esc, err := q.ClaimNext(ctx, "tenant-a", "reviewer-1", 10*time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, "esc-1", esc.ID)
	assert.Equal(t, "reviewer-1", esc.ClaimedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimNext_EmptyQueue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	q := NewSQLQueue(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id\s+FROM escalations`).
		WithArgs("tenant-a", StateOpen).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err = q.ClaimNext(context.Background(), "tenant-a", "reviewer-1", time.Minute)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLRaise(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	q := NewSQLQueue(db)

	mock.ExpectExec("INSERT INTO escalations").
		WithArgs("esc-1", "tenant-a", "dec-1", "human_review", sqlmock.AnyArg(),
			StateOpen, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = q.Raise(context.Background(), openEscalation("esc-1", "tenant-a"))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLResolve_RejectsNonTerminalOutcome(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	q := NewSQLQueue(db)
	err = q.Resolve(context.Background(), "esc-1", StateClaimed, nil)
	assert.Error(t, err)
}

func TestSQLClaim_SettledRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	q := NewSQLQueue(db)

	mock.ExpectExec("UPDATE escalations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .* FROM escalations").
		WithArgs("esc-1").
		WillReturnRows(sqlmock.NewRows(escalationColumns()).
			AddRow("esc-1", "tenant-a", "dec-1", "human_review", "", "APPROVED",
				time.Now(), time.Now(), "reviewer-1", time.Now(), `{"note":"ok"}`))

	_, err = q.Claim(context.Background(), "esc-1", "reviewer-2", time.Minute)
	assert.True(t, errors.Is(err, ErrSettled))
}
