package autonomy

import "fmt"

// Thresholds governing the downgrade ladder. Exposed as named, tunable
// constants; the defaults are conservative.
const (
	DefaultAccuracyFloor = 0.70
	DefaultRiskHigh      = 0.80
	DefaultMisfireLimit  = 3

	// lockSeverity is the penalty count at which the ladder stops
	// stepping down and jumps straight to Locked.
	lockSeverity = 4
)

// TransitionInput carries the health signals for one evaluation cycle.
type TransitionInput struct {
	Current             Mode    `json:"current"`
	AccuracyScore       float64 `json:"accuracyScore"`
	DriftTriggered      bool    `json:"driftTriggered"`
	RiskExposure        float64 `json:"riskExposure"`
	ConsecutiveMisfires int     `json:"consecutiveMisfires"`
	ROINegative         bool    `json:"roiNegative"`
}

// TransitionResult is the downgrade verdict.
type TransitionResult struct {
	Next     Mode     `json:"next"`
	Degraded bool     `json:"degraded"`
	Reasons  []string `json:"reasons,omitempty"`
}

// TransitionState downgrades toward Locked when health signals degrade.
// Each violated signal adds one penalty step; four or more jump straight to
// Locked. It never upgrades — upgrades go through TransitionAutopilotMode.
func TransitionState(in TransitionInput) TransitionResult {
	if in.Current == Locked {
		return TransitionResult{Next: Locked, Reasons: []string{"locked is terminal"}}
	}

	var reasons []string
	severity := 0

	if in.AccuracyScore < DefaultAccuracyFloor {
		severity++
		reasons = append(reasons, fmt.Sprintf("accuracy %.2f below floor %.2f", in.AccuracyScore, DefaultAccuracyFloor))
	}
	if in.DriftTriggered {
		severity++
		reasons = append(reasons, "drift triggered")
	}
	if in.RiskExposure >= DefaultRiskHigh {
		severity++
		reasons = append(reasons, fmt.Sprintf("risk exposure %.2f at or above %.2f", in.RiskExposure, DefaultRiskHigh))
	}
	if in.ConsecutiveMisfires >= DefaultMisfireLimit {
		severity++
		reasons = append(reasons, fmt.Sprintf("%d consecutive misfires", in.ConsecutiveMisfires))
	}
	if in.ROINegative {
		severity++
		reasons = append(reasons, "negative roi")
	}

	if severity == 0 {
		return TransitionResult{Next: in.Current}
	}
	if severity >= lockSeverity {
		return TransitionResult{Next: Locked, Degraded: true, Reasons: reasons}
	}

	next := modeAtRank(in.Current.rank() - severity)
	return TransitionResult{
		Next:     next,
		Degraded: next != in.Current,
		Reasons:  reasons,
	}
}

// UpgradeRequest is an explicit, gated request to raise the autonomy ceiling.
type UpgradeRequest struct {
	CurrentMode               Mode    `json:"currentMode"`
	TargetMode                Mode    `json:"targetMode"`
	ScoringStability          float64 `json:"scoringStability"`
	ScoringStabilityThreshold float64 `json:"scoringStabilityThreshold"`
	Reason                    string  `json:"reason"`
	TriggerCondition          string  `json:"triggerCondition"`
}

// UpgradeResult is the gate's verdict on an upgrade request.
type UpgradeResult struct {
	Accepted      bool     `json:"accepted"`
	ResultingMode Mode     `json:"resultingMode"`
	Reasons       []string `json:"reasons,omitempty"`
}

// TransitionAutopilotMode gates mode changes requested by the workflow.
// Downgrades are always available; upgrades are rejected whenever scoring
// stability sits below the threshold, regardless of the stated reason, and
// never out of Locked.
func TransitionAutopilotMode(req UpgradeRequest) UpgradeResult {
	if !IsUpgrade(req.CurrentMode, req.TargetMode) {
		return UpgradeResult{Accepted: true, ResultingMode: req.TargetMode}
	}

	if req.CurrentMode == Locked {
		return UpgradeResult{
			Accepted:      false,
			ResultingMode: Locked,
			Reasons:       []string{"locked state requires operator reset before any upgrade"},
		}
	}

	if req.ScoringStability < req.ScoringStabilityThreshold {
		return UpgradeResult{
			Accepted:      false,
			ResultingMode: req.CurrentMode,
			Reasons: []string{fmt.Sprintf("scoring stability %.2f below threshold %.2f",
				req.ScoringStability, req.ScoringStabilityThreshold)},
		}
	}

	return UpgradeResult{Accepted: true, ResultingMode: req.TargetMode}
}
