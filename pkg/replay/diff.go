package replay

// RecordedRun names one recorded replay execution and its resulting hash.
type RecordedRun struct {
	RunID      string `json:"runId"`
	ReplayHash string `json:"replayHash"`
}

// DiffReport is the verdict across multiple recorded runs of the same replay.
type DiffReport struct {
	Stable        bool     `json:"stable"`
	MajorityHash  string   `json:"majorityHash,omitempty"`
	DivergentRuns []string `json:"divergentRuns,omitempty"`
}

// AnalyzeDiff verifies replay determinism across recorded runs: every run
// whose hash differs from the majority hash is named as divergent. A
// divergent run is a non-deterministic replay, which is an integrity
// violation for the enclosing workflow.
func AnalyzeDiff(runs []RecordedRun) DiffReport {
	if len(runs) == 0 {
		return DiffReport{Stable: true}
	}

	counts := make(map[string]int)
	for _, r := range runs {
		counts[r.ReplayHash]++
	}

	majority := runs[0].ReplayHash
	for _, r := range runs {
		if counts[r.ReplayHash] > counts[majority] {
			majority = r.ReplayHash
		}
	}

	report := DiffReport{Stable: true, MajorityHash: majority}
	for _, r := range runs {
		if r.ReplayHash != majority {
			report.Stable = false
			report.DivergentRuns = append(report.DivergentRuns, r.RunID)
		}
	}
	return report
}
