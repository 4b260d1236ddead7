// Package ledger — tenant-scoped, immutable, append-only decision ledger.
//
// Every fact is a canonical event envelope, hash-chained to its predecessor
// within the tenant's stream. No update or delete operation exists; the type
// only exposes insert and read, so misuse is a compile-time error.
package ledger

import (
	"fmt"

	"github.com/zerebrox/braincore/pkg/canonicalize"
)

// EventType is the closed set of envelope types the ledger accepts.
type EventType string

const (
	EventDecision  EventType = "decision"
	EventTruthLink EventType = "truth_link"
	EventFeedback  EventType = "feedback"
	EventGateAudit EventType = "gate_audit"
	EventGeneric   EventType = "event"
)

// Envelope is one hash-chained fact. Hash covers every other field including
// ParentID, so any mutation invalidates it. The first event in a tenant's
// stream has an empty ParentID.
type Envelope struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Actor     string         `json:"actor"`
	Context   map[string]any `json:"context,omitempty"`
	Payload   map[string]any `json:"payload"`
	Timestamp string         `json:"timestamp"`
	ParentID  string         `json:"parent_id,omitempty"`
	Hash      string         `json:"hash"`
}

// Material is the hashable content of an envelope: everything except Hash.
type Material struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Actor     string         `json:"actor"`
	Context   map[string]any `json:"context,omitempty"`
	Payload   map[string]any `json:"payload"`
	Timestamp string         `json:"timestamp"`
	ParentID  string         `json:"parent_id,omitempty"`
}

// NewEnvelope computes the stable hash of the material and returns the sealed
// envelope. Non-serializable payload fields (cycles, functions) are a
// programming error and fail here rather than silently dropping data.
func NewEnvelope(m Material) (*Envelope, error) {
	if m.ID == "" {
		return nil, fmt.Errorf("envelope requires an id")
	}
	if m.Type == "" {
		return nil, fmt.Errorf("envelope %s requires a type", m.ID)
	}
	hash, err := canonicalize.CanonicalHash(m)
	if err != nil {
		return nil, fmt.Errorf("envelope %s: %w", m.ID, err)
	}
	return &Envelope{
		ID:        m.ID,
		Type:      m.Type,
		Actor:     m.Actor,
		Context:   m.Context,
		Payload:   m.Payload,
		Timestamp: m.Timestamp,
		ParentID:  m.ParentID,
		Hash:      hash,
	}, nil
}

// Recompute re-derives the hash from the envelope's current fields.
func (e *Envelope) Recompute() (string, error) {
	return canonicalize.CanonicalHash(Material{
		ID:        e.ID,
		Type:      e.Type,
		Actor:     e.Actor,
		Context:   e.Context,
		Payload:   e.Payload,
		Timestamp: e.Timestamp,
		ParentID:  e.ParentID,
	})
}
