package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerebrox/braincore/pkg/ledger"
)

// tallyState is a small fold target for tests: counts per event type plus a
// running total read from payloads.
type tallyState struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

func tallyReducer(state tallyState, ev *ledger.Envelope) tallyState {
	if state.Counts == nil {
		state.Counts = make(map[string]int)
	}
	state.Counts[string(ev.Type)]++
	if v, ok := ev.Payload["amount"].(int); ok {
		state.Total += v
	}
	return state
}

func chainedEvents(t *testing.T, n int) []*ledger.Envelope {
	t.Helper()
	events := make([]*ledger.Envelope, 0, n)
	parent := ""
	for i := 0; i < n; i++ {
		ev, err := ledger.NewEnvelope(ledger.Material{
			ID:        string(rune('a' + i)),
			Type:      ledger.EventGeneric,
			Actor:     "sys",
			Payload:   map[string]any{"amount": i + 1},
			Timestamp: "2026-03-01T12:00:00Z",
			ParentID:  parent,
		})
		require.NoError(t, err)
		events = append(events, ev)
		parent = ev.ID
	}
	return events
}

func TestDeterministicReplayStableHash(t *testing.T) {
	events := chainedEvents(t, 7)

	first, err := Deterministic(events, tallyState{}, tallyReducer)
	require.NoError(t, err)
	require.Equal(t, 7, first.EventsApplied)

	// The property the whole subsystem hangs on: N repeated replays of the
	// same input produce an identical hash.
	for i := 0; i < 10; i++ {
		again, err := Deterministic(events, tallyState{}, tallyReducer)
		require.NoError(t, err)
		assert.Equal(t, first.ReplayHash, again.ReplayHash, "run %d diverged", i)
	}
}

func TestDeterministicReplayHashChangesWithInput(t *testing.T) {
	events := chainedEvents(t, 5)
	full, err := Deterministic(events, tallyState{}, tallyReducer)
	require.NoError(t, err)
	partial, err := Deterministic(events[:4], tallyState{}, tallyReducer)
	require.NoError(t, err)
	assert.NotEqual(t, full.ReplayHash, partial.ReplayHash)
}

func TestResumeFromSnapshotMatchesGenesisReplay(t *testing.T) {
	events := chainedEvents(t, 9)

	genesis, err := Deterministic(events, tallyState{}, tallyReducer)
	require.NoError(t, err)

	// Snapshot after the fifth event, then resume.
	mid, err := Deterministic(events[:5], tallyState{}, tallyReducer)
	require.NoError(t, err)
	snap := CreateSnapshot("t1", events[4], 4, mid.State)

	resumed, err := ResumeFromSnapshot(events, snap, tallyReducer)
	require.NoError(t, err)

	assert.Equal(t, genesis.ReplayHash, resumed.ReplayHash)
	assert.Equal(t, genesis.EventsApplied, resumed.EventsApplied)
}

func TestShouldCreateSnapshot(t *testing.T) {
	policy := SnapshotPolicy{Interval: 50, MaxRetained: 3}
	assert.False(t, ShouldCreateSnapshot(0, policy))
	assert.False(t, ShouldCreateSnapshot(49, policy))
	assert.True(t, ShouldCreateSnapshot(50, policy))
	assert.True(t, ShouldCreateSnapshot(100, policy))
	assert.False(t, ShouldCreateSnapshot(100, SnapshotPolicy{Interval: 0}))
}

func TestPruneSnapshotsRetention(t *testing.T) {
	snaps := []Snapshot[tallyState]{
		{TenantID: "t1", AtTimestamp: "2026-03-03T00:00:00Z", EventIndex: 30},
		{TenantID: "t1", AtTimestamp: "2026-03-01T00:00:00Z", EventIndex: 10},
		{TenantID: "t1", AtTimestamp: "2026-03-02T00:00:00Z", EventIndex: 20},
		{TenantID: "t1", AtTimestamp: "2026-03-04T00:00:00Z", EventIndex: 40},
	}

	kept := PruneSnapshots(snaps, 2)
	require.Len(t, kept, 2)
	assert.Equal(t, 30, kept[0].EventIndex)
	assert.Equal(t, 40, kept[1].EventIndex)

	latest, ok := LatestSnapshot(kept)
	require.True(t, ok)
	assert.Equal(t, 40, latest.EventIndex)
}

func TestAnalyzeDiff(t *testing.T) {
	stable := AnalyzeDiff([]RecordedRun{
		{RunID: "r1", ReplayHash: "h1"},
		{RunID: "r2", ReplayHash: "h1"},
		{RunID: "r3", ReplayHash: "h1"},
	})
	assert.True(t, stable.Stable)
	assert.Empty(t, stable.DivergentRuns)

	diverged := AnalyzeDiff([]RecordedRun{
		{RunID: "r1", ReplayHash: "h1"},
		{RunID: "r2", ReplayHash: "h2"},
		{RunID: "r3", ReplayHash: "h1"},
	})
	assert.False(t, diverged.Stable)
	assert.Equal(t, []string{"r2"}, diverged.DivergentRuns)
	assert.Equal(t, "h1", diverged.MajorityHash)
}

func TestComputeBenchmark(t *testing.T) {
	b := ComputeBenchmark([]BenchmarkRun{
		{DurationMs: 100, EventsApplied: 1000},
		{DurationMs: 300, EventsApplied: 3000},
	})
	assert.Equal(t, 2, b.Runs)
	assert.InDelta(t, 200.0, b.AvgDurationMs, 1e-9)
	assert.InDelta(t, 10000.0, b.ThroughputEventsPerSecond, 1e-9)

	assert.Zero(t, ComputeBenchmark(nil).Runs)
}
