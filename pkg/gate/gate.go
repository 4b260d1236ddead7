// Package gate is the admission boundary for decision requests and AI
// responses. Routing appends a canonical event to the tenant's ledger;
// the AI gate decides whether a model response may even reach arbitration.
package gate

import (
	"context"
	"fmt"

	"github.com/zerebrox/braincore/pkg/audit"
	"github.com/zerebrox/braincore/pkg/contracts"
	"github.com/zerebrox/braincore/pkg/ledger"
)

// Intent classifies what the routed request is asking for.
type Intent string

const (
	IntentObserve  Intent = "observe"
	IntentMutation Intent = "mutation"
)

// Router admits decision requests into the ledger.
type Router struct {
	store   *ledger.Store
	limiter AdmissionLimiter
	audit   audit.Logger
}

func NewRouter(store *ledger.Store, limiter AdmissionLimiter, auditLog audit.Logger) *Router {
	return &Router{store: store, limiter: limiter, audit: auditLog}
}

// RouteResult is the routing outcome. A throttled or invalid request is an
// expected denial, not an error.
type RouteResult struct {
	Accepted bool     `json:"accepted"`
	Intent   Intent   `json:"intent"`
	EventID  string   `json:"eventId,omitempty"`
	Reasons  []string `json:"reasons,omitempty"`
}

// RouteDecisionRequest validates, throttles, and records one request.
// Accepted requests become canonical ledger events.
func (r *Router) RouteDecisionRequest(ctx context.Context, req contracts.DecisionRequest) (RouteResult, error) {
	intent := IntentObserve
	if req.AIResponse != nil && req.AIResponse.MutationIntent {
		intent = IntentMutation
	}

	var reasons []string
	if req.ID == "" {
		reasons = append(reasons, "request id required")
	}
	if req.TenantID == "" {
		reasons = append(reasons, "tenant id required")
	}
	if req.PolicyPath == "" {
		reasons = append(reasons, "policy path required")
	}
	if len(reasons) > 0 {
		return RouteResult{Accepted: false, Intent: intent, Reasons: reasons}, nil
	}

	if r.limiter != nil {
		ok, err := r.limiter.Allow(ctx, req.TenantID)
		if err != nil {
			return RouteResult{}, fmt.Errorf("admission limiter: %w", err)
		}
		if !ok {
			r.recordDenial(req, []string{"admission rate exceeded"})
			return RouteResult{
				Accepted: false,
				Intent:   intent,
				Reasons:  []string{"admission rate exceeded"},
			}, nil
		}
	}

	ev, err := r.store.AppendRecord(req.TenantID, ledger.EventGeneric, req.ActorID, req)
	if err != nil {
		return RouteResult{}, fmt.Errorf("route %s: %w", req.ID, err)
	}

	return RouteResult{Accepted: true, Intent: intent, EventID: ev.ID}, nil
}

func (r *Router) recordDenial(req contracts.DecisionRequest, reasons []string) {
	if r.audit == nil {
		return
	}
	_ = r.audit.Record(req.TenantID, req.ActorID, audit.EventDenial, "request_throttled",
		reasons, map[string]interface{}{"requestId": req.ID, "policyPath": req.PolicyPath})
}

// GateDecision is the AI admission verdict with every failed check named.
type GateDecision struct {
	Accepted bool     `json:"accepted"`
	Reasons  []string `json:"reasons,omitempty"`
}

// EvaluateAIGate decides whether a model response may reach arbitration.
// Every check runs so the caller sees the full set of reasons.
func EvaluateAIGate(resp *contracts.AIResponse, evalCtx contracts.GateContext) GateDecision {
	var reasons []string

	if evalCtx.StateLocked {
		reasons = append(reasons, "autonomy state is locked")
	}
	if evalCtx.ConflictDetected {
		reasons = append(reasons, "unresolved conflict detected")
	}
	if resp == nil {
		reasons = append(reasons, "no ai response supplied")
		return GateDecision{Accepted: false, Reasons: reasons}
	}
	if resp.TenantID != evalCtx.TenantID {
		reasons = append(reasons, fmt.Sprintf("response tenant %s does not match context tenant %s",
			resp.TenantID, evalCtx.TenantID))
	}
	if resp.ContextHash != evalCtx.ContextHash {
		reasons = append(reasons, "stale context hash: response built from outdated window")
	}
	if len(resp.Suggestions) == 0 {
		reasons = append(reasons, "response carries no suggestions")
	}
	if resp.MutationIntent {
		reasons = append(reasons, "mutation intent is not admissible from the model")
	}

	return GateDecision{Accepted: len(reasons) == 0, Reasons: reasons}
}
