package contracts

// ActionType enumerates the governed action verbs the brain arbitrates over.
type ActionType string

const (
	ActionPaymentHold   ActionType = "PAYMENT_HOLD"
	ActionAutoPay       ActionType = "AUTO_PAY"
	ActionEscalate      ActionType = "ESCALATE"
	ActionMatchInvoice  ActionType = "MATCH_INVOICE"
	ActionPostJournal   ActionType = "POST_JOURNAL"
	ActionRequestReview ActionType = "REQUEST_REVIEW"
)

// Suggestion is a single AI-proposed action with its confidence.
type Suggestion struct {
	Action     ActionType     `json:"action"`
	Confidence float64        `json:"confidence"`
	Rationale  string         `json:"rationale,omitempty"`
	Params     map[string]any `json:"params,omitempty"`
}

// AIResponse is the schema-locked payload returned by the model consultation.
// It is advisory only: the arbiter decides whether any of it is acted upon.
type AIResponse struct {
	TenantID       string       `json:"tenantId"`
	ContextHash    string       `json:"contextHash"`
	Model          string       `json:"model"`
	GeneratedAt    string       `json:"generatedAt"`
	Suggestions    []Suggestion `json:"suggestions"`
	MutationIntent bool         `json:"mutationIntent"`
	AllowedActions []ActionType `json:"allowedActions"`
}

// DecisionRequest is the routing input for one governed action.
type DecisionRequest struct {
	ID         string         `json:"id"`
	TenantID   string         `json:"tenantId"`
	ActorID    string         `json:"actorId"`
	Role       string         `json:"role"`
	PolicyPath string         `json:"policyPath"`
	TraceID    string         `json:"traceId"`
	Timestamp  string         `json:"timestamp"`
	Input      map[string]any `json:"input"`
	AIResponse *AIResponse    `json:"aiResponse,omitempty"`
}

// GateContext is the evaluation context for admitting an AI response.
type GateContext struct {
	TenantID         string `json:"tenantId"`
	ActorRole        string `json:"actorRole"`
	PolicyPath       string `json:"policyPath"`
	ContextHash      string `json:"contextHash"`
	StateLocked      bool   `json:"stateLocked"`
	ConflictDetected bool   `json:"conflictDetected"`
}
