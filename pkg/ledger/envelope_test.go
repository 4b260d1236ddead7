package ledger

import (
	"testing"
)

func TestNewEnvelopeHash(t *testing.T) {
	ev, err := NewEnvelope(Material{
		ID:        "e1",
		Type:      EventGeneric,
		Actor:     "router",
		Payload:   map[string]any{"x": 1},
		Timestamp: "2026-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatal(err)
	}
	if ev.Hash == "" {
		t.Fatal("expected non-empty hash")
	}
	computed, err := ev.Recompute()
	if err != nil {
		t.Fatal(err)
	}
	if computed != ev.Hash {
		t.Fatalf("recomputed hash %s != sealed hash %s", computed, ev.Hash)
	}
}

func TestNewEnvelopeDeterministicHash(t *testing.T) {
	m := Material{
		ID:        "e1",
		Type:      EventDecision,
		Actor:     "sys",
		Payload:   map[string]any{"a": 1, "b": "two"},
		Timestamp: "2026-01-01T00:00:00Z",
	}
	e1, err := NewEnvelope(m)
	if err != nil {
		t.Fatal(err)
	}
	e2, err := NewEnvelope(m)
	if err != nil {
		t.Fatal(err)
	}
	if e1.Hash != e2.Hash {
		t.Fatal("same material should produce same hash")
	}
}

func TestEnvelopeHashCoversParent(t *testing.T) {
	base := Material{
		ID:        "e2",
		Type:      EventGeneric,
		Actor:     "sys",
		Payload:   map[string]any{"x": 1},
		Timestamp: "2026-01-01T00:00:00Z",
	}
	noParent, _ := NewEnvelope(base)

	base.ParentID = "e1"
	withParent, _ := NewEnvelope(base)

	if noParent.Hash == withParent.Hash {
		t.Fatal("parent_id change must change the hash")
	}
}

func TestEnvelopeMutationInvalidatesHash(t *testing.T) {
	ev, _ := NewEnvelope(Material{
		ID:        "e1",
		Type:      EventGeneric,
		Actor:     "sys",
		Payload:   map[string]any{"amount": 100},
		Timestamp: "2026-01-01T00:00:00Z",
	})
	ev.Payload["amount"] = 101

	computed, err := ev.Recompute()
	if err != nil {
		t.Fatal(err)
	}
	if computed == ev.Hash {
		t.Fatal("mutated payload should invalidate the sealed hash")
	}
}

func TestNewEnvelopeRejectsNonSerializablePayload(t *testing.T) {
	_, err := NewEnvelope(Material{
		ID:        "e1",
		Type:      EventGeneric,
		Payload:   map[string]any{"fn": func() {}},
		Timestamp: "2026-01-01T00:00:00Z",
	})
	if err == nil {
		t.Fatal("expected error for non-serializable payload")
	}
}

func TestNewEnvelopeRequiresID(t *testing.T) {
	_, err := NewEnvelope(Material{Type: EventGeneric})
	if err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestCompactByWindow(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	windows, err := CompactByWindow(items, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(windows) != 3 {
		t.Fatalf("expected ceil(5/2)=3 windows, got %d", len(windows))
	}

	seen := make(map[string]int)
	for _, w := range windows {
		for _, it := range w {
			seen[it]++
		}
	}
	for _, it := range items {
		if seen[it] != 1 {
			t.Fatalf("item %s appeared %d times", it, seen[it])
		}
	}
	// Source untouched.
	if items[0] != "a" || len(items) != 5 {
		t.Fatal("compaction must not alter the source")
	}
}

func TestCompactByWindowRejectsBadSize(t *testing.T) {
	if _, err := CompactByWindow([]int{1}, 0); err == nil {
		t.Fatal("expected error for zero window size")
	}
}
