// Package flightrec builds diagnostic diffs between consecutive decision
// cycles and the go/no-go readiness reports. Entries are purely derived and
// never stored as ground truth.
package flightrec

import (
	"github.com/zerebrox/braincore/pkg/contracts"
)

// CycleRecord captures what one decision cycle saw and produced.
type CycleRecord struct {
	ContextHash         string               `json:"contextHash"`
	PolicyVersion       string               `json:"policyVersion"`
	Decision            string               `json:"decision"`
	DeterministicAction contracts.ActionType `json:"deterministicAction"`
	AIAction            contracts.ActionType `json:"aiAction"`
	Projection          string               `json:"projection"`
}

// Entry is the canonical "why did behavior change" artifact.
type Entry struct {
	Current             CycleRecord  `json:"current"`
	Previous            *CycleRecord `json:"previous,omitempty"`
	ChangedFromPrevious []string     `json:"changedFromPrevious"`
}

// BuildEntry diffs the current cycle against the previous one and names
// every field that differs. A nil previous marks every field as changed.
func BuildEntry(current CycleRecord, previous *CycleRecord) Entry {
	e := Entry{Current: current, Previous: previous, ChangedFromPrevious: []string{}}
	prev := CycleRecord{}
	if previous != nil {
		prev = *previous
	}
	if current.ContextHash != prev.ContextHash {
		e.ChangedFromPrevious = append(e.ChangedFromPrevious, "contextHash")
	}
	if current.PolicyVersion != prev.PolicyVersion {
		e.ChangedFromPrevious = append(e.ChangedFromPrevious, "policyVersion")
	}
	if current.Decision != prev.Decision {
		e.ChangedFromPrevious = append(e.ChangedFromPrevious, "decision")
	}
	if current.DeterministicAction != prev.DeterministicAction {
		e.ChangedFromPrevious = append(e.ChangedFromPrevious, "deterministicAction")
	}
	if current.AIAction != prev.AIAction {
		e.ChangedFromPrevious = append(e.ChangedFromPrevious, "aiAction")
	}
	if current.Projection != prev.Projection {
		e.ChangedFromPrevious = append(e.ChangedFromPrevious, "projection")
	}
	return e
}

// Check is one named preflight verification.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
}

// PreflightReport aggregates the named checks.
type PreflightReport struct {
	Passed       bool     `json:"passed"`
	FailedChecks []string `json:"failedChecks"`
}

// BuildPreflightReport passes only when every check passed.
func BuildPreflightReport(checks []Check) PreflightReport {
	report := PreflightReport{Passed: true, FailedChecks: []string{}}
	for _, c := range checks {
		if !c.Passed {
			report.Passed = false
			report.FailedChecks = append(report.FailedChecks, c.Name)
		}
	}
	return report
}

// ClosureFlags are the fixed readiness gates for promoting the system to
// production autonomy.
type ClosureFlags struct {
	DeterminismVerified           bool `json:"determinismVerified"`
	IntegrityVerified             bool `json:"integrityVerified"`
	ACLEnforced                   bool `json:"aclEnforced"`
	ReplayStable                  bool `json:"replayStable"`
	EndToEndPassed                bool `json:"endToEndPassed"`
	PreflightPassed               bool `json:"preflightPassed"`
	ZeroUnresolvedCriticalDefects bool `json:"zeroUnresolvedCriticalDefects"`
}

// ClosureResult is the single gate outcome with the missing flags named.
type ClosureResult struct {
	Closed  bool     `json:"closed"`
	Missing []string `json:"missing,omitempty"`
}

// EvaluatePhase2Closure ANDs every readiness flag.
func EvaluatePhase2Closure(f ClosureFlags) ClosureResult {
	var missing []string
	for _, gate := range []struct {
		name string
		ok   bool
	}{
		{"determinismVerified", f.DeterminismVerified},
		{"integrityVerified", f.IntegrityVerified},
		{"aclEnforced", f.ACLEnforced},
		{"replayStable", f.ReplayStable},
		{"endToEndPassed", f.EndToEndPassed},
		{"preflightPassed", f.PreflightPassed},
		{"zeroUnresolvedCriticalDefects", f.ZeroUnresolvedCriticalDefects},
	} {
		if !gate.ok {
			missing = append(missing, gate.name)
		}
	}
	return ClosureResult{Closed: len(missing) == 0, Missing: missing}
}
