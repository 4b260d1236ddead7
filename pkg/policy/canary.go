package policy

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// CanaryEvaluation is a rollout safety check comparing a candidate policy
// version against the running baseline on shadow traffic.
type CanaryEvaluation struct {
	CandidatePolicyVersion   string  `json:"candidatePolicyVersion"`
	BaselinePolicyVersion    string  `json:"baselinePolicyVersion"`
	RegressionPrecisionDelta float64 `json:"regressionPrecisionDelta"`
	RegressionRecallDelta    float64 `json:"regressionRecallDelta"`
	MaxAllowedPrecisionDrop  float64 `json:"maxAllowedPrecisionDrop"`
	MaxAllowedRecallDrop     float64 `json:"maxAllowedRecallDrop"`
}

// CanaryResult carries the rollback verdict. AutoRollback is a pure function
// of the regression deltas against the allowed drops; version ordering
// problems are surfaced as reasons without changing the verdict.
type CanaryResult struct {
	AutoRollback bool     `json:"autoRollback"`
	Reasons      []string `json:"reasons,omitempty"`
}

// EvaluateCanaryShadow decides whether the candidate regressed past its
// allowed budget. A negative delta is a drop; positive deltas never roll back.
func EvaluateCanaryShadow(eval CanaryEvaluation) CanaryResult {
	var res CanaryResult

	if drop := -eval.RegressionPrecisionDelta; drop > eval.MaxAllowedPrecisionDrop {
		res.AutoRollback = true
		res.Reasons = append(res.Reasons, fmt.Sprintf(
			"precision dropped %.4f, allowed %.4f", drop, eval.MaxAllowedPrecisionDrop))
	}
	if drop := -eval.RegressionRecallDelta; drop > eval.MaxAllowedRecallDrop {
		res.AutoRollback = true
		res.Reasons = append(res.Reasons, fmt.Sprintf(
			"recall dropped %.4f, allowed %.4f", drop, eval.MaxAllowedRecallDrop))
	}

	res.Reasons = append(res.Reasons, versionOrderReasons(eval)...)
	return res
}

func versionOrderReasons(eval CanaryEvaluation) []string {
	cand, err := semver.NewVersion(eval.CandidatePolicyVersion)
	if err != nil {
		return []string{fmt.Sprintf("candidate version %q is not semver", eval.CandidatePolicyVersion)}
	}
	base, err := semver.NewVersion(eval.BaselinePolicyVersion)
	if err != nil {
		return []string{fmt.Sprintf("baseline version %q is not semver", eval.BaselinePolicyVersion)}
	}
	if !cand.GreaterThan(base) {
		return []string{fmt.Sprintf("candidate %s is not newer than baseline %s",
			eval.CandidatePolicyVersion, eval.BaselinePolicyVersion)}
	}
	return nil
}

// ActivationResult is the structured outcome handed to the approval workflow.
type ActivationResult struct {
	ActivatedVersion string   `json:"activatedVersion"`
	RolledBack       bool     `json:"rolledBack"`
	Reasons          []string `json:"reasons,omitempty"`
}

// ResolveActivation activates the candidate unless the canary rolled back,
// in which case the baseline version is retained.
func ResolveActivation(eval CanaryEvaluation) ActivationResult {
	res := EvaluateCanaryShadow(eval)
	if res.AutoRollback {
		return ActivationResult{
			ActivatedVersion: eval.BaselinePolicyVersion,
			RolledBack:       true,
			Reasons:          res.Reasons,
		}
	}
	return ActivationResult{
		ActivatedVersion: eval.CandidatePolicyVersion,
		Reasons:          res.Reasons,
	}
}
