package contextwindow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerebrox/braincore/pkg/ledger"
	"github.com/zerebrox/braincore/pkg/replay"
)

func makeEvents(t *testing.T, n int) []*ledger.Envelope {
	t.Helper()
	events := make([]*ledger.Envelope, 0, n)
	parent := ""
	for i := 0; i < n; i++ {
		ev, err := ledger.NewEnvelope(ledger.Material{
			ID:        fmt.Sprintf("e%d", i),
			Type:      ledger.EventGeneric,
			Actor:     "sys",
			Payload:   map[string]any{"i": i},
			Timestamp: "2026-03-01T12:00:00Z",
			ParentID:  parent,
		})
		require.NoError(t, err)
		events = append(events, ev)
		parent = ev.ID
	}
	return events
}

func TestBuildKeepsMostRecent(t *testing.T) {
	events := makeEvents(t, 5)
	w := Build[int]("t1", events, nil, 3)

	assert.True(t, w.Truncated)
	require.Len(t, w.Events, 3)
	assert.Equal(t, "e2", w.Events[0].ID)
	assert.Equal(t, "e4", w.Events[2].ID)
	assert.Equal(t, []string{"e2", "e3", "e4"}, w.DataOriginIDs)
}

func TestBuildUnderLimit(t *testing.T) {
	events := makeEvents(t, 2)
	w := Build[int]("t1", events, nil, 10)
	assert.False(t, w.Truncated)
	assert.Len(t, w.Events, 2)
}

func TestBuildIncludesLatestSnapshot(t *testing.T) {
	events := makeEvents(t, 4)
	snaps := []replay.Snapshot[int]{
		{TenantID: "t1", AtTimestamp: "2026-03-01T00:00:00Z", EventID: "e0", EventIndex: 0, State: 1},
		{TenantID: "t1", AtTimestamp: "2026-03-02T00:00:00Z", EventID: "e2", EventIndex: 2, State: 3},
	}

	w := Build("t1", events, snaps, 2)
	require.Len(t, w.Snapshots, 1)
	assert.Equal(t, 2, w.Snapshots[0].EventIndex)
	assert.Contains(t, w.DataOriginIDs, "e2")
}

func TestBuildDeterministic(t *testing.T) {
	events := makeEvents(t, 6)
	w1 := Build[int]("t1", events, nil, 4)
	w2 := Build[int]("t1", events, nil, 4)
	assert.Equal(t, w1.DataOriginIDs, w2.DataOriginIDs)
	assert.Equal(t, w1.Truncated, w2.Truncated)
}
