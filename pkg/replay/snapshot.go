package replay

import (
	"sort"

	"github.com/zerebrox/braincore/pkg/ledger"
)

// SnapshotPolicy bounds replay cost for long-lived tenants.
type SnapshotPolicy struct {
	Interval    int `json:"interval" yaml:"interval"`
	MaxRetained int `json:"maxRetained" yaml:"max_retained"`
}

// Snapshot is materialized state at an event index.
type Snapshot[S any] struct {
	TenantID    string `json:"tenantId"`
	AtTimestamp string `json:"atTimestamp"`
	EventID     string `json:"eventId"`
	EventIndex  int    `json:"eventIndex"`
	State       S      `json:"state"`
}

// ShouldCreateSnapshot reports whether eventCount is a positive multiple of
// the policy interval.
func ShouldCreateSnapshot(eventCount int, policy SnapshotPolicy) bool {
	if policy.Interval <= 0 || eventCount <= 0 {
		return false
	}
	return eventCount%policy.Interval == 0
}

// CreateSnapshot captures state at the given event.
func CreateSnapshot[S any](tenantID string, ev *ledger.Envelope, eventIndex int, state S) Snapshot[S] {
	return Snapshot[S]{
		TenantID:    tenantID,
		AtTimestamp: ev.Timestamp,
		EventID:     ev.ID,
		EventIndex:  eventIndex,
		State:       state,
	}
}

// PruneSnapshots keeps only the most recent maxRetained snapshots, returned
// sorted by AtTimestamp ascending. Ties resolve by event index, so the
// result is reproducible.
func PruneSnapshots[S any](snaps []Snapshot[S], maxRetained int) []Snapshot[S] {
	out := make([]Snapshot[S], len(snaps))
	copy(out, snaps)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AtTimestamp != out[j].AtTimestamp {
			return out[i].AtTimestamp < out[j].AtTimestamp
		}
		return out[i].EventIndex < out[j].EventIndex
	})
	if maxRetained >= 0 && len(out) > maxRetained {
		out = out[len(out)-maxRetained:]
	}
	return out
}

// LatestSnapshot returns the newest snapshot by AtTimestamp, if any.
func LatestSnapshot[S any](snaps []Snapshot[S]) (Snapshot[S], bool) {
	var zero Snapshot[S]
	if len(snaps) == 0 {
		return zero, false
	}
	latest := snaps[0]
	for _, s := range snaps[1:] {
		if s.AtTimestamp > latest.AtTimestamp ||
			(s.AtTimestamp == latest.AtTimestamp && s.EventIndex > latest.EventIndex) {
			latest = s
		}
	}
	return latest, true
}

// ResumeFromSnapshot folds only the events after the snapshot's index,
// starting from the snapshot state. EventsApplied counts the full stream so
// the replay hash matches a genesis replay of the same events.
func ResumeFromSnapshot[S any](events []*ledger.Envelope, snap Snapshot[S], reduce Reducer[S]) (Result[S], error) {
	tail := events
	if snap.EventIndex+1 <= len(events) {
		tail = events[snap.EventIndex+1:]
	}

	state := snap.State
	for _, ev := range tail {
		state = reduce(state, ev)
	}
	return finalize(state, len(events))
}
