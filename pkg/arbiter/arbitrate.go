// Package arbiter reconciles the deterministic rule output with the optional
// AI-suggested action for one governed request.
//
// The rule-based action is always the default-safe choice: the AI suggestion
// is only taken when hard policy explicitly allows it, and every override of
// the AI is recorded so operators can see exactly what was prevented.
package arbiter

import (
	"fmt"

	"github.com/zerebrox/braincore/pkg/contracts"
)

// Verdict classifies the disagreement between the two scoring paths.
type Verdict string

const (
	VerdictMinorVariance Verdict = "minor_variance"
	VerdictHumanReview   Verdict = "human_review"
)

// ArbitrationInput pairs the two action proposals with the hard allowlist.
type ArbitrationInput struct {
	DeterministicAction      contracts.ActionType   `json:"deterministicAction"`
	AIRecommendedAction      contracts.ActionType   `json:"aiRecommendedAction"`
	HardPolicyAllowedActions []contracts.ActionType `json:"hardPolicyAllowedActions"`
}

// ArbitrationResult is the reconciled outcome.
type ArbitrationResult struct {
	FinalAction contracts.ActionType `json:"finalAction"`
	AIDiscarded bool                 `json:"aiDiscarded"`
	Reason      string               `json:"reason,omitempty"`
}

// ArbitrateCommand returns the deterministic action unless the AI
// recommendation is itself hard-policy allowed.
func ArbitrateCommand(in ArbitrationInput) ArbitrationResult {
	if in.AIRecommendedAction == "" || in.AIRecommendedAction == in.DeterministicAction {
		return ArbitrationResult{FinalAction: in.DeterministicAction}
	}

	for _, allowed := range in.HardPolicyAllowedActions {
		if in.AIRecommendedAction == allowed {
			return ArbitrationResult{FinalAction: in.AIRecommendedAction}
		}
	}

	return ArbitrationResult{
		FinalAction: in.DeterministicAction,
		AIDiscarded: true,
		Reason: fmt.Sprintf("ai action %s not in hard policy allowlist; deterministic %s retained",
			in.AIRecommendedAction, in.DeterministicAction),
	}
}

// DualPathInput carries the two scores and the agreement tolerance.
type DualPathInput struct {
	DeterministicScore float64 `json:"deterministicScore"`
	AIScore            float64 `json:"aiScore"`
	Tolerance          float64 `json:"tolerance"`
}

// DualPathResult classifies the divergence between the two paths.
// human_review is an escalation tier, not an automatic action.
type DualPathResult struct {
	Verdict   Verdict `json:"verdict"`
	Delta     float64 `json:"delta"`
	Escalated bool    `json:"escalated"`
}

// CompareDualPathOutputs classifies the disagreement between the
// deterministic and AI scores.
func CompareDualPathOutputs(in DualPathInput) DualPathResult {
	delta := in.DeterministicScore - in.AIScore
	if delta < 0 {
		delta = -delta
	}
	if delta <= in.Tolerance {
		return DualPathResult{Verdict: VerdictMinorVariance, Delta: delta}
	}
	return DualPathResult{Verdict: VerdictHumanReview, Delta: delta, Escalated: true}
}
