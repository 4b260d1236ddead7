// Package contracts defines the shared data contracts of the brain core:
// governed decisions, ground-truth links, feedback signals, and the
// AI-consultation shapes exchanged with the orchestration workflow.
//
// Everything here is a plain value type. All records appended to the ledger
// are immutable once written.
package contracts

// Decision is a governed action proposal recorded on the ledger.
// DecisionID is unique per tenant forever.
type Decision struct {
	DecisionID              string  `json:"decisionId"`
	TenantID                string  `json:"tenantId"`
	MonthKey                string  `json:"monthKey"`
	PolicyVersion           string  `json:"policyVersion"`
	ContextHash             string  `json:"contextHash"`
	ConfidenceScore         float64 `json:"confidenceScore"`
	FinancialImpactEstimate int64   `json:"financialImpactEstimate"`
	CreatedAtISO            string  `json:"createdAtIso"`
}

// TruthStatus is the observed ground-truth outcome of a decision.
type TruthStatus string

const (
	TruthConfirmed  TruthStatus = "CONFIRMED"
	TruthRejected   TruthStatus = "REJECTED"
	TruthCorrected  TruthStatus = "CORRECTED"
	TruthUnresolved TruthStatus = "UNRESOLVED"
)

// TruthLink binds a ground-truth outcome to a previously recorded decision.
// A correct workflow produces exactly one truth link per decision.
type TruthLink struct {
	TruthEventID  string      `json:"truthEventId"`
	DecisionID    string      `json:"decisionId"`
	TenantID      string      `json:"tenantId"`
	Status        TruthStatus `json:"status"`
	ObservedAtISO string      `json:"observedAtIso"`
	ActorID       string      `json:"actorId"`
}

// ActorType categorizes the originator of a feedback event.
type ActorType string

const (
	ActorHuman  ActorType = "HUMAN"
	ActorSystem ActorType = "SYSTEM"
	ActorAgent  ActorType = "AGENT"
)

// FeedbackEvent is an external signal optionally correlated to a decision.
// Unsolicited feedback (empty DecisionID) is allowed.
type FeedbackEvent struct {
	EventID       string         `json:"eventId"`
	TenantID      string         `json:"tenantId"`
	Source        string         `json:"source"`
	ActorType     ActorType      `json:"actorType"`
	ActorID       string         `json:"actorId"`
	OccurredAtISO string         `json:"occurredAtIso"`
	MonthKey      string         `json:"monthKey"`
	DecisionID    string         `json:"decisionId,omitempty"`
	Payload       map[string]any `json:"payload"`
}
