package escalation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLQueue implements Queue over database/sql. The schema and placeholders
// target Postgres; SQLite accepts the same $N syntax through modernc.
type SQLQueue struct {
	db *sql.DB
}

func NewSQLQueue(db *sql.DB) *SQLQueue {
	return &SQLQueue{db: db}
}

const sqlQueueSchema = `
CREATE TABLE IF NOT EXISTS escalations (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL,
	decision_id TEXT NOT NULL,
	verdict TEXT NOT NULL,
	reasons TEXT,
	state TEXT NOT NULL,
	created_at TIMESTAMP,
	updated_at TIMESTAMP,
	claimed_by TEXT,
	claimed_until TIMESTAMP,
	resolution TEXT
);
`

func (q *SQLQueue) Init(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, sqlQueueSchema)
	return err
}

func (q *SQLQueue) Raise(ctx context.Context, esc Escalation) error {
	reasons, err := json.Marshal(esc.Reasons)
	if err != nil {
		return fmt.Errorf("marshal reasons: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO escalations (id, tenant_id, decision_id, verdict, reasons, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = q.db.ExecContext(ctx, query,
		esc.ID, esc.TenantID, esc.DecisionID, esc.Verdict, string(reasons),
		StateOpen, now, now,
	)
	return err
}

func (q *SQLQueue) Get(ctx context.Context, id string) (Escalation, error) {
	query := `SELECT id, tenant_id, decision_id, verdict, reasons, state, created_at, updated_at, claimed_by, claimed_until, resolution
		FROM escalations WHERE id = $1`
	return scanEscalation(q.db.QueryRowContext(ctx, query, id))
}

func (q *SQLQueue) Claim(ctx context.Context, id, reviewerID string, lease time.Duration) (Escalation, error) {
	now := time.Now()
	claimedUntil := now.Add(lease)

	// Atomic lease acquisition: an expired or own lease may be retaken,
	// a live foreign lease may not. Settled rows never match.
	query := `
		UPDATE escalations
		SET claimed_by = $1, claimed_until = $2, state = $3, updated_at = $4
		WHERE id = $5
		  AND state IN ($6, $7)
		  AND (claimed_until < $4 OR claimed_by = $1 OR claimed_until IS NULL)
	`
	res, err := q.db.ExecContext(ctx, query,
		reviewerID, claimedUntil, StateClaimed, now, id, StateOpen, StateClaimed)
	if err != nil {
		return Escalation{}, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return Escalation{}, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		esc, getErr := q.Get(ctx, id)
		if getErr != nil {
			return Escalation{}, getErr
		}
		if settled(esc.State) {
			return esc, ErrSettled
		}
		return esc, ErrClaimed
	}

	return q.Get(ctx, id)
}

// ClaimNext leases the oldest open escalation for the tenant. SKIP LOCKED
// lets concurrent reviewers drain the queue without blocking each other
// (Postgres only).
func (q *SQLQueue) ClaimNext(ctx context.Context, tenantID, reviewerID string, lease time.Duration) (Escalation, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return Escalation{}, err
	}
	defer func() { _ = tx.Rollback() }()

	querySelect := `
		SELECT id
		FROM escalations
		WHERE tenant_id = $1 AND state = $2
		ORDER BY created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`
	var id string
	if err := tx.QueryRowContext(ctx, querySelect, tenantID, StateOpen).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Escalation{}, ErrNotFound
		}
		return Escalation{}, err
	}

	now := time.Now()
	queryUpdate := `
		UPDATE escalations
		SET claimed_by = $1, claimed_until = $2, state = $3, updated_at = $4
		WHERE id = $5
	`
	if _, err := tx.ExecContext(ctx, queryUpdate, reviewerID, now.Add(lease), StateClaimed, now, id); err != nil {
		return Escalation{}, err
	}

	if err := tx.Commit(); err != nil {
		return Escalation{}, err
	}

	return q.Get(ctx, id)
}

func (q *SQLQueue) Resolve(ctx context.Context, id string, outcome State, resolution map[string]any) error {
	if !settled(outcome) {
		return fmt.Errorf("outcome %q is not terminal", outcome)
	}

	var resJSON []byte
	if resolution != nil {
		var err error
		resJSON, err = json.Marshal(resolution)
		if err != nil {
			return fmt.Errorf("marshal resolution: %w", err)
		}
	}

	query := `
		UPDATE escalations
		SET state = $1, resolution = $2, updated_at = $3
		WHERE id = $4 AND state IN ($5, $6)
	`
	res, err := q.db.ExecContext(ctx, query,
		outcome, string(resJSON), time.Now(), id, StateOpen, StateClaimed)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, getErr := q.Get(ctx, id); errors.Is(getErr, ErrNotFound) {
			return ErrNotFound
		}
		return ErrSettled
	}
	return nil
}

func (q *SQLQueue) ListOpen(ctx context.Context, tenantID string) ([]Escalation, error) {
	query := `SELECT id, tenant_id, decision_id, verdict, reasons, state, created_at, updated_at, claimed_by, claimed_until, resolution
		FROM escalations WHERE tenant_id = $1 AND state IN ($2, $3) ORDER BY created_at ASC`
	return q.list(ctx, query, tenantID, StateOpen, StateClaimed)
}

func (q *SQLQueue) ListAll(ctx context.Context, tenantID string) ([]Escalation, error) {
	query := `SELECT id, tenant_id, decision_id, verdict, reasons, state, created_at, updated_at, claimed_by, claimed_until, resolution
		FROM escalations WHERE tenant_id = $1 ORDER BY created_at ASC`
	return q.list(ctx, query, tenantID)
}

func (q *SQLQueue) list(ctx context.Context, query string, args ...any) ([]Escalation, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make([]Escalation, 0)
	for rows.Next() {
		esc, err := scanEscalation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, esc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEscalation(row rowScanner) (Escalation, error) {
	var esc Escalation
	var reasons, claimedBy, resolution sql.NullString
	var claimedUntil sql.NullTime

	err := row.Scan(&esc.ID, &esc.TenantID, &esc.DecisionID, &esc.Verdict,
		&reasons, &esc.State, &esc.CreatedAt, &esc.UpdatedAt,
		&claimedBy, &claimedUntil, &resolution)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Escalation{}, ErrNotFound
		}
		return Escalation{}, err
	}

	esc.ClaimedBy = claimedBy.String
	if claimedUntil.Valid {
		esc.ClaimedUntil = claimedUntil.Time
	}
	if reasons.Valid && reasons.String != "" {
		if err := json.Unmarshal([]byte(reasons.String), &esc.Reasons); err != nil {
			return Escalation{}, fmt.Errorf("corrupt reasons: %w", err)
		}
	}
	if resolution.Valid && strings.TrimSpace(resolution.String) != "" {
		if err := json.Unmarshal([]byte(resolution.String), &esc.Resolution); err != nil {
			return Escalation{}, fmt.Errorf("corrupt resolution: %w", err)
		}
	}
	return esc, nil
}
