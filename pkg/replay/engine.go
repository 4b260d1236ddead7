// Package replay reconstructs brain state by folding an ordered event
// sequence through a pure reducer.
//
// Core correctness property: identical ordered event input and initial state
// always yield an identical replay hash, independent of process, time, or
// call count. Replay never mutates its inputs and may run concurrently
// across tenants without coordination.
package replay

import (
	"fmt"

	"github.com/zerebrox/braincore/pkg/canonicalize"
	"github.com/zerebrox/braincore/pkg/ledger"
)

// Reducer folds one event into the accumulated state. It must be pure:
// no clock reads, no randomness, no map-iteration-order dependence.
type Reducer[S any] func(state S, ev *ledger.Envelope) S

// Result is the deterministic fold outcome.
type Result[S any] struct {
	State         S      `json:"state"`
	ReplayHash    string `json:"replayHash"`
	EventsApplied int    `json:"eventsApplied"`
}

// Deterministic left-folds the reducer over events in chain order (the order
// the slice carries, never wall-clock arrival) and hashes the final
// {state, eventsApplied} pair.
func Deterministic[S any](events []*ledger.Envelope, initial S, reduce Reducer[S]) (Result[S], error) {
	state := initial
	for _, ev := range events {
		state = reduce(state, ev)
	}
	return finalize(state, len(events))
}

// finalize seals the fold outcome with its verification hash.
func finalize[S any](state S, eventsApplied int) (Result[S], error) {
	hash, err := canonicalize.CanonicalHash(struct {
		State         S   `json:"state"`
		EventsApplied int `json:"eventsApplied"`
	}{state, eventsApplied})
	if err != nil {
		return Result[S]{}, fmt.Errorf("replay hash: %w", err)
	}

	return Result[S]{
		State:         state,
		ReplayHash:    hash,
		EventsApplied: eventsApplied,
	}, nil
}
