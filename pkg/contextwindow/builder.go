// Package contextwindow produces the bounded, deterministic, provenance-tagged
// slice of ledger and snapshot data handed to downstream AI consultation.
//
// The window must be reproducible: given the same ledger slice, snapshot set,
// and maxEvents, the same window comes back, with tie-breaks resolved by chain
// position rather than any arbitrary key order.
package contextwindow

import (
	"github.com/zerebrox/braincore/pkg/ledger"
	"github.com/zerebrox/braincore/pkg/replay"
)

// Window is the bounded AI-facing view.
type Window[S any] struct {
	TenantID      string               `json:"tenantId"`
	Events        []*ledger.Envelope   `json:"events"`
	Snapshots     []replay.Snapshot[S] `json:"snapshots,omitempty"`
	DataOriginIDs []string             `json:"dataOriginIds"`
	Truncated     bool                 `json:"truncated"`
}

// Build selects at most maxEvents most-recent events (oldest dropped first)
// plus the latest applicable snapshot, and tags the result with the ids of
// exactly the source artifacts that contributed. The provenance tags are what
// make any downstream AI consultation explainable.
func Build[S any](tenantID string, events []*ledger.Envelope, snaps []replay.Snapshot[S], maxEvents int) Window[S] {
	w := Window[S]{TenantID: tenantID}

	selected := events
	if maxEvents >= 0 && len(events) > maxEvents {
		selected = events[len(events)-maxEvents:]
		w.Truncated = true
	}
	w.Events = make([]*ledger.Envelope, len(selected))
	copy(w.Events, selected)

	if latest, ok := replay.LatestSnapshot(snaps); ok {
		w.Snapshots = []replay.Snapshot[S]{latest}
	}

	w.DataOriginIDs = make([]string, 0, len(w.Events)+len(w.Snapshots))
	for _, ev := range w.Events {
		w.DataOriginIDs = append(w.DataOriginIDs, ev.ID)
	}
	for _, s := range w.Snapshots {
		w.DataOriginIDs = append(w.DataOriginIDs, s.EventID)
	}
	return w
}
