package envelope

import "fmt"

// MemoryAction is the kind of ledger access being checked.
type MemoryAction string

const (
	MemoryRead   MemoryAction = "READ"
	MemoryAppend MemoryAction = "APPEND"
)

// ACLRequest describes one attempted access against a tenant's ledger memory.
type ACLRequest struct {
	TenantID      string       `json:"tenantId"`
	ActorTenantID string       `json:"actorTenantId"`
	ActorRole     string       `json:"actorRole"`
	Action        MemoryAction `json:"action"`
}

// ACLDecision is the isolation verdict.
type ACLDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// EvaluateMemoryACL enforces tenant isolation for every read or append.
// Cross-tenant access is denied unconditionally, regardless of role.
func EvaluateMemoryACL(req ACLRequest) ACLDecision {
	if req.TenantID == "" || req.ActorTenantID == "" {
		return ACLDecision{Allowed: false, Reason: "tenant id missing"}
	}
	if req.TenantID != req.ActorTenantID {
		return ACLDecision{
			Allowed: false,
			Reason: fmt.Sprintf("actor tenant %s may not access tenant %s memory",
				req.ActorTenantID, req.TenantID),
		}
	}
	if req.Action != MemoryRead && req.Action != MemoryAppend {
		return ACLDecision{Allowed: false, Reason: fmt.Sprintf("unknown memory action %q", req.Action)}
	}
	return ACLDecision{Allowed: true}
}
