package autonomy

import "fmt"

// Circuit breaker floors. The breaker is a hard override: it bypasses the
// normal transition function entirely.
const (
	DefaultHealthFloor = 0.40
	DefaultBreakerRisk = 0.80
)

// BreakerInput is the health picture the breaker evaluates.
type BreakerInput struct {
	Autonomy           Mode    `json:"autonomy"`
	HealthIndex        float64 `json:"healthIndex"`
	RiskExposure       float64 `json:"riskExposure"`
	EscalationCritical bool    `json:"escalationCritical"`
}

// BreakerResult reports whether the breaker tripped and the forced mode.
type BreakerResult struct {
	Tripped        bool   `json:"tripped"`
	ForcedAutonomy Mode   `json:"forcedAutonomy"`
	Reason         string `json:"reason,omitempty"`
}

// EvaluateCircuitBreaker trips when the health index falls below the floor
// while risk exposure is high or an escalation is flagged critical.
func EvaluateCircuitBreaker(in BreakerInput) BreakerResult {
	if in.HealthIndex < DefaultHealthFloor && (in.RiskExposure >= DefaultBreakerRisk || in.EscalationCritical) {
		reason := fmt.Sprintf("health index %.2f below floor %.2f with elevated risk", in.HealthIndex, DefaultHealthFloor)
		if in.EscalationCritical {
			reason = fmt.Sprintf("health index %.2f below floor %.2f with critical escalation", in.HealthIndex, DefaultHealthFloor)
		}
		return BreakerResult{Tripped: true, ForcedAutonomy: Locked, Reason: reason}
	}
	return BreakerResult{Tripped: false, ForcedAutonomy: in.Autonomy}
}
