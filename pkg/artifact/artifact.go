// Package artifact defines the persisted replay artifact shape and its
// validation boundary. Every artifact must pass Validate before it is
// persisted or trusted during replay bootstrap.
package artifact

import (
	"github.com/zerebrox/braincore/pkg/canonicalize"
)

// Type discriminates the closed set of artifact payload shapes. Unknown
// types are rejected at the validation boundary, never passed through.
type Type string

const (
	TypeDecision      Type = "decision"
	TypeEscalation    Type = "escalation"
	TypeHealth        Type = "health"
	TypeContextWindow Type = "context_window"
	TypeGateAudit     Type = "gate_audit"
	TypeEventLog      Type = "event_log"
	TypeSnapshot      Type = "snapshot"
)

var knownTypes = map[Type]bool{
	TypeDecision:      true,
	TypeEscalation:    true,
	TypeHealth:        true,
	TypeContextWindow: true,
	TypeGateAudit:     true,
	TypeEventLog:      true,
	TypeSnapshot:      true,
}

// ReplayArtifact is the durable record written by the persistence
// collaborator and read back at replay bootstrap.
type ReplayArtifact struct {
	ArtifactID    string                 `json:"artifactId"`
	TenantID      string                 `json:"tenantId"`
	MonthKey      string                 `json:"monthKey"`
	Type          Type                   `json:"type"`
	GeneratedAt   string                 `json:"generatedAt"`
	Hash          string                 `json:"hash"`
	SchemaVersion int                    `json:"schemaVersion"`
	Payload       map[string]interface{} `json:"payload"`
}

// hashMaterial is the exact set of fields bound by the artifact hash.
type hashMaterial struct {
	TenantID       string                 `json:"tenantId"`
	MonthKey       string                 `json:"monthKey"`
	Type           Type                   `json:"type"`
	Payload        map[string]interface{} `json:"payload"`
	PeriodLockHash string                 `json:"periodLockHash"`
}

// ComputeHash returns the canonical hash binding the artifact content to
// its accounting period lock.
func ComputeHash(a ReplayArtifact, periodLockHash string) (string, error) {
	return canonicalize.CanonicalHash(hashMaterial{
		TenantID:       a.TenantID,
		MonthKey:       a.MonthKey,
		Type:           a.Type,
		Payload:        a.Payload,
		PeriodLockHash: periodLockHash,
	})
}

// Validation is the outcome of the artifact integrity check. A hash
// mismatch is a fatal integrity error for the enclosing workflow.
type Validation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validate checks structure, type membership, and hash integrity. Every
// problem is reported; callers abort on any hash mismatch.
func Validate(a ReplayArtifact, periodLockHash string) Validation {
	var errs []string
	if a.ArtifactID == "" {
		errs = append(errs, "artifactId required")
	}
	if a.TenantID == "" {
		errs = append(errs, "tenantId required")
	}
	if a.MonthKey == "" {
		errs = append(errs, "monthKey required")
	}
	if a.GeneratedAt == "" {
		errs = append(errs, "generatedAt required")
	}
	if a.SchemaVersion < 1 {
		errs = append(errs, "schemaVersion must be positive")
	}
	if !knownTypes[a.Type] {
		errs = append(errs, "unknown artifact type: "+string(a.Type))
	}
	if a.Payload == nil {
		errs = append(errs, "payload required")
	}

	if len(errs) == 0 {
		want, err := ComputeHash(a, periodLockHash)
		if err != nil {
			errs = append(errs, "payload not canonicalizable: "+err.Error())
		} else if a.Hash != want {
			errs = append(errs, "hash mismatch: artifact content does not match recorded hash")
		}
	}

	return Validation{Valid: len(errs) == 0, Errors: errs}
}
