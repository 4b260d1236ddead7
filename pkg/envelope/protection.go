// Package envelope provides the protection envelope: per-action admission
// control that runs before any governed effect executes.
//
// The envelope is a set of hard numeric and categorical guardrails. It is
// never bypassed by policy or AI confidence, and it fails closed: a request
// that violates any limit is denied, and a denial while operating in an
// elevated autonomy mode additionally forces a downgraded hold mode.
package envelope

import (
	"fmt"

	"github.com/zerebrox/braincore/pkg/autonomy"
)

// Scope orders blast scopes from narrowest to broadest.
type Scope string

const (
	ScopeDocument Scope = "document-level"
	ScopeSupplier Scope = "supplier-level"
	ScopeMonth    Scope = "month-level"
	ScopeTenant   Scope = "tenant-level"
)

func (s Scope) breadth() int {
	switch s {
	case ScopeDocument:
		return 0
	case ScopeSupplier:
		return 1
	case ScopeMonth:
		return 2
	case ScopeTenant:
		return 3
	default:
		return 3
	}
}

// DowngradedMode is the safe operating mode forced by a denial in an
// elevated autonomy mode.
type DowngradedMode string

const ModeHold DowngradedMode = "HOLD"

// Config holds the hard guardrails for an action class.
type Config struct {
	FinancialExposureCapCents int64   `json:"financialExposureCapCents" yaml:"financial_exposure_cap_cents"`
	MinConfidence             float64 `json:"minConfidence" yaml:"min_confidence"`
	MaxRiskScore              float64 `json:"maxRiskScore" yaml:"max_risk_score"`
	MaxBlastRadius            int     `json:"maxBlastRadius" yaml:"max_blast_radius"`
	ScopeRestriction          Scope   `json:"scopeRestriction" yaml:"scope_restriction"`
}

// Request is one action checked against the envelope.
type Request struct {
	RequestedExposureCents int64         `json:"requestedExposureCents"`
	Confidence             float64       `json:"confidence"`
	RiskScore              float64       `json:"riskScore"`
	BlastRadius            int           `json:"blastRadius"`
	Scope                  Scope         `json:"scope"`
	AutonomyMode           autonomy.Mode `json:"autonomyMode"`
}

// Decision is the admission verdict.
type Decision struct {
	Allowed        bool           `json:"allowed"`
	Reasons        []string       `json:"reasons,omitempty"`
	DowngradedMode DowngradedMode `json:"downgradedMode,omitempty"`
}

// Evaluate checks the request against every guardrail. All violations are
// reported, not just the first.
func Evaluate(cfg Config, req Request) Decision {
	var reasons []string

	if req.RequestedExposureCents > cfg.FinancialExposureCapCents {
		reasons = append(reasons, fmt.Sprintf("exposure %d exceeds cap %d cents",
			req.RequestedExposureCents, cfg.FinancialExposureCapCents))
	}
	if req.Confidence < cfg.MinConfidence {
		reasons = append(reasons, fmt.Sprintf("confidence %.2f below minimum %.2f",
			req.Confidence, cfg.MinConfidence))
	}
	if req.RiskScore > cfg.MaxRiskScore {
		reasons = append(reasons, fmt.Sprintf("risk %.2f exceeds max %.2f",
			req.RiskScore, cfg.MaxRiskScore))
	}
	if req.BlastRadius > cfg.MaxBlastRadius {
		reasons = append(reasons, fmt.Sprintf("blast radius %d exceeds max %d",
			req.BlastRadius, cfg.MaxBlastRadius))
	}
	if req.Scope.breadth() > cfg.ScopeRestriction.breadth() {
		reasons = append(reasons, fmt.Sprintf("scope %s broader than restriction %s",
			req.Scope, cfg.ScopeRestriction))
	}

	if len(reasons) == 0 {
		return Decision{Allowed: true}
	}

	d := Decision{Allowed: false, Reasons: reasons}
	if elevated(req.AutonomyMode) {
		d.DowngradedMode = ModeHold
	}
	return d
}

// elevated reports whether the mode permits unattended action.
func elevated(m autonomy.Mode) bool {
	return m == autonomy.ConstrainedAct || m == autonomy.Autopilot
}
