// Package observability provides instrumentation helpers for the
// governance core.
package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Semantic convention attributes for governed decisions.
var (
	// Tenant and request attributes
	AttrTenantID   = attribute.Key("braincore.tenant.id")
	AttrRequestID  = attribute.Key("braincore.request.id")
	AttrPolicyPath = attribute.Key("braincore.policy.path")

	// Decision attributes
	AttrDecisionID     = attribute.Key("braincore.decision.id")
	AttrDecisionAction = attribute.Key("braincore.decision.action")
	AttrAutonomyMode   = attribute.Key("braincore.autonomy.mode")

	// Gate attributes
	AttrGateAccepted = attribute.Key("braincore.gate.accepted")
	AttrGateIntent   = attribute.Key("braincore.gate.intent")

	// Arbitration attributes
	AttrFinalAction = attribute.Key("braincore.arbiter.final_action")
	AttrAIDiscarded = attribute.Key("braincore.arbiter.ai_discarded")

	// Replay attributes
	AttrReplayHash   = attribute.Key("braincore.replay.hash")
	AttrEventsFolded = attribute.Key("braincore.replay.events_applied")
)

// RequestOperation creates attributes for request routing.
func RequestOperation(tenantID, requestID, policyPath string) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrTenantID.String(tenantID),
		AttrRequestID.String(requestID),
		AttrPolicyPath.String(policyPath),
	}
}

// DecisionOperation creates attributes for decision recording.
func DecisionOperation(tenantID, decisionID, action, mode string) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrTenantID.String(tenantID),
		AttrDecisionID.String(decisionID),
		AttrDecisionAction.String(action),
		AttrAutonomyMode.String(mode),
	}
}

// GateOperation creates attributes for gate evaluation.
func GateOperation(tenantID string, accepted bool, intent string) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrTenantID.String(tenantID),
		AttrGateAccepted.Bool(accepted),
		AttrGateIntent.String(intent),
	}
}

// ArbitrationOperation creates attributes for arbitration outcomes.
func ArbitrationOperation(tenantID, finalAction string, aiDiscarded bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrTenantID.String(tenantID),
		AttrFinalAction.String(finalAction),
		AttrAIDiscarded.Bool(aiDiscarded),
	}
}

// ReplayOperation creates attributes for deterministic replay.
func ReplayOperation(tenantID, replayHash string, eventsApplied int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrTenantID.String(tenantID),
		AttrReplayHash.String(replayHash),
		AttrEventsFolded.Int64(eventsApplied),
	}
}

// SpanFromContext extracts the span from context.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// AddSpanEvent adds an event to the current span.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SetSpanStatus sets the span status based on error.
func SetSpanStatus(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if err != nil {
		span.RecordError(err)
	}
}
