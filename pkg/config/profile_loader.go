package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zerebrox/braincore/pkg/envelope"
	"github.com/zerebrox/braincore/pkg/replay"
	"github.com/zerebrox/braincore/pkg/scoring"
)

// GovernanceProfile bundles the tunable guardrails for one deployment tier.
// A tenant runs under exactly one profile at a time; stricter tiers tighten
// every limit at once.
type GovernanceProfile struct {
	Name      string          `yaml:"name" json:"name"`
	Code      string          `yaml:"code" json:"code"`
	Envelope  envelope.Config `yaml:"envelope" json:"envelope"`
	Autonomy  AutonomyConfig  `yaml:"autonomy" json:"autonomy"`
	Scoring   ScoringConfig   `yaml:"scoring" json:"scoring"`
	Snapshots SnapshotConfig  `yaml:"snapshots" json:"snapshots"`
	Admission AdmissionConfig `yaml:"admission" json:"admission"`
}

// AutonomyConfig holds the state machine and circuit breaker thresholds.
type AutonomyConfig struct {
	AccuracyFloor             float64 `yaml:"accuracy_floor" json:"accuracy_floor"`
	RiskHigh                  float64 `yaml:"risk_high" json:"risk_high"`
	MisfireLimit              int     `yaml:"misfire_limit" json:"misfire_limit"`
	ScoringStabilityThreshold float64 `yaml:"scoring_stability_threshold" json:"scoring_stability_threshold"`
	HealthFloor               float64 `yaml:"health_floor" json:"health_floor"`
}

// ScoringConfig holds the threshold alerting limits.
type ScoringConfig struct {
	MinPrecision         float64 `yaml:"min_precision" json:"min_precision"`
	MinRecall            float64 `yaml:"min_recall" json:"min_recall"`
	MaxFalsePositiveRate float64 `yaml:"max_false_positive_rate" json:"max_false_positive_rate"`
	MaxFalseNegativeRate float64 `yaml:"max_false_negative_rate" json:"max_false_negative_rate"`
	MaxDrift             float64 `yaml:"max_drift" json:"max_drift"`
}

// SnapshotConfig bounds replay cost per profile.
type SnapshotConfig struct {
	Interval    int `yaml:"interval" json:"interval"`
	MaxRetained int `yaml:"max_retained" json:"max_retained"`
}

// AdmissionConfig throttles request routing per tenant.
type AdmissionConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
}

// Thresholds converts the scoring section into the scoring package's type.
func (p *GovernanceProfile) Thresholds() scoring.Thresholds {
	return scoring.Thresholds{
		MinPrecision:         p.Scoring.MinPrecision,
		MinRecall:            p.Scoring.MinRecall,
		MaxFalsePositiveRate: p.Scoring.MaxFalsePositiveRate,
		MaxFalseNegativeRate: p.Scoring.MaxFalseNegativeRate,
		MaxDrift:             p.Scoring.MaxDrift,
	}
}

// SnapshotPolicy converts the snapshot section into the replay package's type.
func (p *GovernanceProfile) SnapshotPolicy() replay.SnapshotPolicy {
	return replay.SnapshotPolicy{
		Interval:    p.Snapshots.Interval,
		MaxRetained: p.Snapshots.MaxRetained,
	}
}

// LoadProfile loads a governance profile YAML by code.
// It searches the profiles directory for profile_<code>.yaml.
func LoadProfile(profilesDir, code string) (*GovernanceProfile, error) {
	code = strings.ToLower(code)
	path := filepath.Join(profilesDir, fmt.Sprintf("profile_%s.yaml", code))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", code, err)
	}

	var profile GovernanceProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parse profile %q: %w", code, err)
	}

	if profile.Code == "" {
		profile.Code = code
	}

	return &profile, nil
}

// LoadAllProfiles loads all profile_*.yaml files from the profiles directory.
func LoadAllProfiles(profilesDir string) (map[string]*GovernanceProfile, error) {
	matches, err := filepath.Glob(filepath.Join(profilesDir, "profile_*.yaml"))
	if err != nil {
		return nil, err
	}

	profiles := make(map[string]*GovernanceProfile, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var profile GovernanceProfile
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		if profile.Code == "" {
			// Extract code from filename: profile_strict.yaml -> strict
			base := filepath.Base(path)
			profile.Code = strings.TrimSuffix(strings.TrimPrefix(base, "profile_"), ".yaml")
		}

		profiles[profile.Code] = &profile
	}

	return profiles, nil
}
