// Package policy is the least-privilege rule registry and the canary rollout
// evaluator. A decision path must be explicitly registered and enabled before
// any evaluation can pass; unregistered paths are denied with a not-found
// result rather than a default-allow.
package policy

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/google/cel-go/cel"
)

var (
	ErrPolicyNotFound = errors.New("policy path not registered")
	ErrPathTaken      = errors.New("policy path already registered")
)

// Entry is one named, versioned rule path.
type Entry struct {
	ID            string  `json:"id"`
	Path          string  `json:"path"`
	Version       string  `json:"version"`
	Enabled       bool    `json:"enabled"`
	MinConfidence float64 `json:"minConfidence"`
	// Guard is an optional CEL expression over the evaluation attributes.
	// It must evaluate to bool; a false guard denies the evaluation.
	Guard string `json:"guard,omitempty"`
}

type compiledEntry struct {
	entry Entry
	guard cel.Program
}

// Registry holds registered policies keyed by unique path. It is
// constructor-injected state, never a package-level singleton.
type Registry struct {
	mu      sync.RWMutex
	env     *cel.Env
	entries map[string]compiledEntry
}

func NewRegistry() (*Registry, error) {
	env, err := cel.NewEnv(
		cel.Variable("attrs", cel.DynType),
		cel.Variable("confidence", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("cel environment: %w", err)
	}
	return &Registry{env: env, entries: make(map[string]compiledEntry)}, nil
}

// Register stores a policy under its path. The path must be unique, the
// version must parse as semver, and any guard expression must compile.
// Registration failures are configuration errors surfaced immediately.
func (r *Registry) Register(e Entry) error {
	if e.Path == "" {
		return errors.New("policy path required")
	}
	if _, err := semver.NewVersion(e.Version); err != nil {
		return fmt.Errorf("policy %s version %q: %w", e.Path, e.Version, err)
	}

	var prg cel.Program
	if e.Guard != "" {
		ast, issues := r.env.Compile(e.Guard)
		if issues != nil && issues.Err() != nil {
			return fmt.Errorf("policy %s guard compile: %w", e.Path, issues.Err())
		}
		p, err := r.env.Program(ast,
			cel.InterruptCheckFrequency(100),
			cel.CostLimit(10000),
		)
		if err != nil {
			return fmt.Errorf("policy %s guard program: %w", e.Path, err)
		}
		prg = p
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[e.Path]; exists {
		return fmt.Errorf("%w: %s", ErrPathTaken, e.Path)
	}
	r.entries[e.Path] = compiledEntry{entry: e, guard: prg}
	return nil
}

// Evaluation is the lookup verdict for one path.
type Evaluation struct {
	Allowed bool     `json:"allowed"`
	Reasons []string `json:"reasons,omitempty"`
	Version string   `json:"version,omitempty"`
}

// Evaluate checks one decision path. Unregistered paths return
// ErrPolicyNotFound so callers can distinguish misconfiguration from an
// ordinary denial.
func (r *Registry) Evaluate(path string, confidence float64, attrs map[string]any) (Evaluation, error) {
	r.mu.RLock()
	ce, ok := r.entries[path]
	r.mu.RUnlock()
	if !ok {
		return Evaluation{Allowed: false, Reasons: []string{"path not registered"}},
			fmt.Errorf("%w: %s", ErrPolicyNotFound, path)
	}

	ev := Evaluation{Version: ce.entry.Version}
	if !ce.entry.Enabled {
		ev.Reasons = append(ev.Reasons, fmt.Sprintf("policy %s disabled", path))
	}
	if confidence < ce.entry.MinConfidence {
		ev.Reasons = append(ev.Reasons, fmt.Sprintf("confidence %.2f below minimum %.2f",
			confidence, ce.entry.MinConfidence))
	}
	if ce.guard != nil {
		if attrs == nil {
			attrs = map[string]any{}
		}
		out, _, err := ce.guard.Eval(map[string]any{
			"attrs":      attrs,
			"confidence": confidence,
		})
		if err != nil {
			ev.Reasons = append(ev.Reasons, fmt.Sprintf("guard evaluation failed: %v", err))
		} else if pass, okb := out.Value().(bool); !okb || !pass {
			ev.Reasons = append(ev.Reasons, "guard condition not satisfied")
		}
	}

	ev.Allowed = len(ev.Reasons) == 0
	return ev, nil
}

// Lookup returns the registered entry for a path.
func (r *Registry) Lookup(path string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ce, ok := r.entries[path]
	return ce.entry, ok
}
