// Package scoring derives decision-quality metrics from recorded outcomes.
// Scorecards are recomputable from raw counts at any time; nothing here
// stores state.
package scoring

import "fmt"

// OutcomeCounts are raw confusion-matrix counts for one tenant period,
// with drift and ROI signals carried through.
type OutcomeCounts struct {
	TP         int     `json:"tp"`
	FP         int     `json:"fp"`
	TN         int     `json:"tn"`
	FN         int     `json:"fn"`
	DriftScore float64 `json:"driftScore"`
	ROIDelta   float64 `json:"roiDelta"`
}

// Scorecard is the derived summary. Precision and recall are 0 when their
// denominator is 0, never NaN.
type Scorecard struct {
	TP                int     `json:"tp"`
	FP                int     `json:"fp"`
	TN                int     `json:"tn"`
	FN                int     `json:"fn"`
	Precision         float64 `json:"precision"`
	Recall            float64 `json:"recall"`
	FalsePositiveRate float64 `json:"falsePositiveRate"`
	FalseNegativeRate float64 `json:"falseNegativeRate"`
	DriftScore        float64 `json:"driftScore"`
	ROIDelta          float64 `json:"roiDelta"`
}

// ScoreTenantDecisionOutcomes computes precision and recall from counts.
func ScoreTenantDecisionOutcomes(c OutcomeCounts) Scorecard {
	sc := Scorecard{
		TP: c.TP, FP: c.FP, TN: c.TN, FN: c.FN,
		DriftScore: c.DriftScore,
		ROIDelta:   c.ROIDelta,
	}
	sc.Precision = ratio(c.TP, c.TP+c.FP)
	sc.Recall = ratio(c.TP, c.TP+c.FN)
	sc.FalsePositiveRate = ratio(c.FP, c.FP+c.TN)
	sc.FalseNegativeRate = ratio(c.FN, c.FN+c.TP)
	return sc
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Thresholds are the alerting limits for one tenant's scorecard.
type Thresholds struct {
	MinPrecision         float64 `json:"minPrecision"`
	MinRecall            float64 `json:"minRecall"`
	MaxFalsePositiveRate float64 `json:"maxFalsePositiveRate"`
	MaxFalseNegativeRate float64 `json:"maxFalseNegativeRate"`
	MaxDrift             float64 `json:"maxDrift"`
}

// ThresholdAlert reports every violated threshold, one reason each.
type ThresholdAlert struct {
	Breached bool     `json:"breached"`
	Reasons  []string `json:"reasons,omitempty"`
}

// EvaluateThresholds checks a scorecard against its limits. Multiple
// simultaneous breaches all appear in Reasons.
func EvaluateThresholds(sc Scorecard, th Thresholds) ThresholdAlert {
	var a ThresholdAlert
	if sc.Precision < th.MinPrecision {
		a.Reasons = append(a.Reasons, fmt.Sprintf("precision %.4f below minimum %.4f",
			sc.Precision, th.MinPrecision))
	}
	if sc.Recall < th.MinRecall {
		a.Reasons = append(a.Reasons, fmt.Sprintf("recall %.4f below minimum %.4f",
			sc.Recall, th.MinRecall))
	}
	if sc.FalsePositiveRate > th.MaxFalsePositiveRate {
		a.Reasons = append(a.Reasons, fmt.Sprintf("false positive rate %.4f above maximum %.4f",
			sc.FalsePositiveRate, th.MaxFalsePositiveRate))
	}
	if sc.FalseNegativeRate > th.MaxFalseNegativeRate {
		a.Reasons = append(a.Reasons, fmt.Sprintf("false negative rate %.4f above maximum %.4f",
			sc.FalseNegativeRate, th.MaxFalseNegativeRate))
	}
	if sc.DriftScore > th.MaxDrift {
		a.Reasons = append(a.Reasons, fmt.Sprintf("drift %.4f above maximum %.4f",
			sc.DriftScore, th.MaxDrift))
	}
	a.Breached = len(a.Reasons) > 0
	return a
}
