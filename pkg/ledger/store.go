package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zerebrox/braincore/pkg/contracts"
)

var (
	ErrDecisionExists = errors.New("decision already exists")
	ErrDuplicateEvent = errors.New("event id already appended")
	ErrChainBroken    = errors.New("hash chain is broken")
	ErrHashMismatch   = errors.New("envelope hash mismatch")
)

// Store is the append-only ledger. It is constructor-injected state, never a
// module-level singleton, so tenants and test runs stay isolated.
//
// Appends for a tenant are serialized by the store's lock; the chain's
// parent linkage requires a total order per tenant.
type Store struct {
	mu       sync.RWMutex
	byTenant map[string][]*Envelope
	byID     map[string]*Envelope

	decisions   map[string][]contracts.Decision
	decisionIDs map[string]map[string]bool
	truthLinks  map[string][]contracts.TruthLink
	feedback    map[string][]contracts.FeedbackEvent

	clock func() time.Time
}

// NewStore creates an empty ledger store.
func NewStore() *Store {
	return &Store{
		byTenant:    make(map[string][]*Envelope),
		byID:        make(map[string]*Envelope),
		decisions:   make(map[string][]contracts.Decision),
		decisionIDs: make(map[string]map[string]bool),
		truthLinks:  make(map[string][]contracts.TruthLink),
		feedback:    make(map[string][]contracts.FeedbackEvent),
		clock:       time.Now,
	}
}

// WithClock overrides the clock for deterministic testing.
func (s *Store) WithClock(clock func() time.Time) *Store {
	s.clock = clock
	return s
}

// Append inserts exactly one event. The envelope's ParentID must reference the
// tenant's current head (empty for the first event); anything else corrupts
// the chain and is rejected.
func (s *Store) Append(tenantID string, ev *Envelope) error {
	if tenantID == "" {
		return fmt.Errorf("append requires a tenant id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(tenantID, ev)
}

func (s *Store) appendLocked(tenantID string, ev *Envelope) error {
	if _, exists := s.byID[ev.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEvent, ev.ID)
	}

	head := ""
	if stream := s.byTenant[tenantID]; len(stream) > 0 {
		head = stream[len(stream)-1].ID
	}
	if ev.ParentID != head {
		return fmt.Errorf("%w: tenant %s expected parent %q, got %q",
			ErrChainBroken, tenantID, head, ev.ParentID)
	}

	s.byTenant[tenantID] = append(s.byTenant[tenantID], ev)
	s.byID[ev.ID] = ev
	return nil
}

// AppendMany seeds the store with previously persisted events before
// continuing the chain, preserving original ordering and parent links.
// Events already present (by id) are skipped: duplicate delivery from the
// persistence layer must not be folded twice. Returns the number appended.
func (s *Store) AppendMany(tenantID string, events []*Envelope) (int, error) {
	if tenantID == "" {
		return 0, fmt.Errorf("append requires a tenant id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	appended := 0
	for _, ev := range events {
		if _, exists := s.byID[ev.ID]; exists {
			continue
		}
		if err := s.appendLocked(tenantID, ev); err != nil {
			return appended, err
		}
		appended++
	}
	return appended, nil
}

// AppendDecision records a governed action proposal. Decisions are
// write-once: a duplicate DecisionID for the tenant fails with
// ErrDecisionExists and never overwrites.
func (s *Store) AppendDecision(d contracts.Decision) (*Envelope, error) {
	if d.TenantID == "" || d.DecisionID == "" {
		return nil, fmt.Errorf("decision requires tenantId and decisionId")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.decisionIDs[d.TenantID][d.DecisionID] {
		return nil, fmt.Errorf("%w: %s/%s", ErrDecisionExists, d.TenantID, d.DecisionID)
	}

	ev, err := s.sealLocked(d.TenantID, EventDecision, "system", d)
	if err != nil {
		return nil, err
	}
	if err := s.appendLocked(d.TenantID, ev); err != nil {
		return nil, err
	}

	if s.decisionIDs[d.TenantID] == nil {
		s.decisionIDs[d.TenantID] = make(map[string]bool)
	}
	s.decisionIDs[d.TenantID][d.DecisionID] = true
	s.decisions[d.TenantID] = append(s.decisions[d.TenantID], d)
	return ev, nil
}

// AppendTruthLink binds a ground-truth outcome to a decision.
func (s *Store) AppendTruthLink(tl contracts.TruthLink) (*Envelope, error) {
	if tl.TenantID == "" || tl.TruthEventID == "" {
		return nil, fmt.Errorf("truth link requires tenantId and truthEventId")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.sealLocked(tl.TenantID, EventTruthLink, tl.ActorID, tl)
	if err != nil {
		return nil, err
	}
	if err := s.appendLocked(tl.TenantID, ev); err != nil {
		return nil, err
	}
	s.truthLinks[tl.TenantID] = append(s.truthLinks[tl.TenantID], tl)
	return ev, nil
}

// AppendFeedback records an external signal, optionally correlated to a
// decision. Unsolicited feedback is allowed.
func (s *Store) AppendFeedback(fb contracts.FeedbackEvent) (*Envelope, error) {
	if fb.TenantID == "" || fb.EventID == "" {
		return nil, fmt.Errorf("feedback requires tenantId and eventId")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.sealLocked(fb.TenantID, EventFeedback, fb.ActorID, fb)
	if err != nil {
		return nil, err
	}
	if err := s.appendLocked(fb.TenantID, ev); err != nil {
		return nil, err
	}
	s.feedback[fb.TenantID] = append(s.feedback[fb.TenantID], fb)
	return ev, nil
}

// AppendRecord seals and appends one typed event for any serializable
// record. The gate uses this for routing and audit events.
func (s *Store) AppendRecord(tenantID string, et EventType, actor string, record any) (*Envelope, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("append requires a tenant id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.sealLocked(tenantID, et, actor, record)
	if err != nil {
		return nil, err
	}
	if err := s.appendLocked(tenantID, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// sealLocked builds a chained envelope for the tenant's current head.
func (s *Store) sealLocked(tenantID string, et EventType, actor string, record any) (*Envelope, error) {
	head := ""
	if stream := s.byTenant[tenantID]; len(stream) > 0 {
		head = stream[len(stream)-1].ID
	}
	payload, err := toPayload(record)
	if err != nil {
		return nil, err
	}
	return NewEnvelope(Material{
		ID:        uuid.New().String(),
		Type:      et,
		Actor:     actor,
		Context:   map[string]any{"tenantId": tenantID},
		Payload:   payload,
		Timestamp: s.clock().UTC().Format(time.RFC3339Nano),
		ParentID:  head,
	})
}

// ReadByTenant returns the tenant's events in insertion order.
func (s *Store) ReadByTenant(tenantID string) []*Envelope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stream := s.byTenant[tenantID]
	out := make([]*Envelope, len(stream))
	copy(out, stream)
	return out
}

// HeadID returns the id of the tenant's newest event, or empty.
func (s *Store) HeadID(tenantID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stream := s.byTenant[tenantID]
	if len(stream) == 0 {
		return ""
	}
	return stream[len(stream)-1].ID
}

// ListDecisions returns the tenant's decisions in insertion order.
func (s *Store) ListDecisions(tenantID string) []contracts.Decision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]contracts.Decision, len(s.decisions[tenantID]))
	copy(out, s.decisions[tenantID])
	return out
}

// ListTruthLinks returns the tenant's truth links in insertion order.
func (s *Store) ListTruthLinks(tenantID string) []contracts.TruthLink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]contracts.TruthLink, len(s.truthLinks[tenantID]))
	copy(out, s.truthLinks[tenantID])
	return out
}

// ListFeedback returns the tenant's feedback events in insertion order.
func (s *Store) ListFeedback(tenantID string) []contracts.FeedbackEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]contracts.FeedbackEvent, len(s.feedback[tenantID]))
	copy(out, s.feedback[tenantID])
	return out
}

// VerifyChain walks the tenant's stream, checking parent linkage and
// recomputing every hash. Any mismatch is an integrity violation: fatal to
// the caller's operation, never silently corrected.
func (s *Store) VerifyChain(tenantID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prev := ""
	for i, ev := range s.byTenant[tenantID] {
		if ev.ParentID != prev {
			return fmt.Errorf("%w: tenant %s position %d expected parent %q, got %q",
				ErrChainBroken, tenantID, i, prev, ev.ParentID)
		}
		computed, err := ev.Recompute()
		if err != nil {
			return fmt.Errorf("tenant %s position %d: %w", tenantID, i, err)
		}
		if computed != ev.Hash {
			return fmt.Errorf("%w: tenant %s event %s", ErrHashMismatch, tenantID, ev.ID)
		}
		prev = ev.ID
	}
	return nil
}

// toPayload converts a record struct into a generic JSON object.
func toPayload(record any) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("payload not serializable: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("payload not an object: %w", err)
	}
	return out, nil
}
