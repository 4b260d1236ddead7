package scoring

// Health index weights. Exposed as named constants so operators can reason
// about the composite; they must sum to 1.0 across the positive terms.
const (
	WeightPredictionAccuracy = 0.35
	WeightAutonomyStability  = 0.25
	WeightROIDelta           = 0.15
	WeightDriftRate          = 0.15
	WeightFalsePositiveRate  = 0.10
)

// HealthInputs are the per-cycle signals feeding the composite index.
type HealthInputs struct {
	PredictionAccuracy float64 `json:"predictionAccuracy"`
	ROIDelta           float64 `json:"roiDelta"`
	DriftRate          float64 `json:"driftRate"`
	FalsePositiveRate  float64 `json:"falsePositiveRate"`
	AutonomyStability  float64 `json:"autonomyStability"`
}

// ComputeHealthIndex combines the five signals into one score in [0,1].
// Accuracy, ROI and stability raise it; drift and false positives lower it.
func ComputeHealthIndex(in HealthInputs) float64 {
	idx := WeightPredictionAccuracy*clamp01(in.PredictionAccuracy) +
		WeightAutonomyStability*clamp01(in.AutonomyStability) +
		WeightROIDelta*clamp01(0.5+in.ROIDelta) -
		WeightDriftRate*clamp01(in.DriftRate) -
		WeightFalsePositiveRate*clamp01(in.FalsePositiveRate)
	return clamp01(idx)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Decision quality coefficients for the v2 scorer.
const (
	QualityROIWeight        = 0.40
	QualityConfidenceWeight = 0.60
	QualityRiskCoefficient  = 0.50
)

// QualityInputs feed the v2 decision-quality scorer.
type QualityInputs struct {
	ROI             float64 `json:"roi"`
	Confidence      float64 `json:"confidence"`
	RiskPenalty     float64 `json:"riskPenalty"`
	OverridePenalty float64 `json:"overridePenalty"`
	DriftPenalty    float64 `json:"driftPenalty"`
}

// Quality is the human-readable outcome for dashboards.
type Quality struct {
	Score float64 `json:"score"`
	Grade string  `json:"grade"`
}

// ScoreDecisionQualityV2 bands the weighted score into letter grades.
func ScoreDecisionQualityV2(in QualityInputs) Quality {
	score := QualityROIWeight*clamp01(0.5+in.ROI) +
		QualityConfidenceWeight*clamp01(in.Confidence)
	score -= QualityRiskCoefficient * clamp01(in.RiskPenalty+in.OverridePenalty+in.DriftPenalty)
	score = clamp01(score)
	return Quality{Score: score, Grade: gradeFor(score)}
}

func gradeFor(score float64) string {
	switch {
	case score >= 0.90:
		return "A"
	case score >= 0.80:
		return "B"
	case score >= 0.70:
		return "C"
	case score >= 0.60:
		return "D"
	default:
		return "F"
	}
}
