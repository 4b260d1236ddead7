// Package escalation holds divergences the arbiter refuses to auto-resolve
// until a human reviewer claims and settles them. Claims are lease-based so
// concurrent reviewers never settle the same escalation twice.
package escalation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zerebrox/braincore/pkg/arbiter"
)

var (
	ErrNotFound = errors.New("escalation not found")
	ErrClaimed  = errors.New("claimed by another reviewer")
	ErrSettled  = errors.New("escalation already settled")
)

// State is the review lifecycle of an escalation.
type State string

const (
	StateOpen     State = "OPEN"
	StateClaimed  State = "CLAIMED"
	StateApproved State = "APPROVED"
	StateRejected State = "REJECTED"
	StateExpired  State = "EXPIRED"
)

// settled reports whether the state is terminal.
func settled(s State) bool {
	return s == StateApproved || s == StateRejected || s == StateExpired
}

// Escalation is one decision divergence awaiting human judgment.
type Escalation struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	DecisionID string    `json:"decision_id"`
	Verdict    string    `json:"verdict"`
	Reasons    []string  `json:"reasons,omitempty"`
	State      State     `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Lease metadata for reviewer coordination.
	ClaimedBy    string    `json:"claimed_by,omitempty"`
	ClaimedUntil time.Time `json:"claimed_until,omitempty"`

	Resolution map[string]any `json:"resolution,omitempty"`
}

// FromDualPath builds an escalation from an arbitration divergence.
// minor_variance outcomes never escalate.
func FromDualPath(tenantID, decisionID string, res arbiter.DualPathResult) (Escalation, bool) {
	if res.Verdict != arbiter.VerdictHumanReview {
		return Escalation{}, false
	}
	return Escalation{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		DecisionID: decisionID,
		Verdict:    string(res.Verdict),
		Reasons:    []string{fmt.Sprintf("score delta %.4f exceeds tolerance", res.Delta)},
		State:      StateOpen,
	}, true
}

// Queue is the durable interface for escalation review.
type Queue interface {
	// Raise persists a new escalation in OPEN state.
	Raise(ctx context.Context, esc Escalation) error

	// Get retrieves an escalation by id.
	Get(ctx context.Context, id string) (Escalation, error)

	// Claim leases an escalation for one reviewer. A live lease held by a
	// different reviewer rejects the claim with ErrClaimed.
	Claim(ctx context.Context, id, reviewerID string, lease time.Duration) (Escalation, error)

	// Resolve settles a claimed escalation. Settled escalations are
	// immutable; a second resolve fails with ErrSettled.
	Resolve(ctx context.Context, id string, outcome State, resolution map[string]any) error

	// ListOpen returns the tenant's unsettled escalations.
	ListOpen(ctx context.Context, tenantID string) ([]Escalation, error)

	// ListAll returns every escalation for the tenant.
	ListAll(ctx context.Context, tenantID string) ([]Escalation, error)
}
