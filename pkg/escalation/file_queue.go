package escalation

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"
)

// FileQueue implements Queue using a local JSON file for simple durability.
// Suitable for single-node deployments and tests; multi-node setups use
// SQLQueue.
type FileQueue struct {
	path  string
	mu    sync.RWMutex
	data  map[string]Escalation
	clock func() time.Time
}

func NewFileQueue(path string) (*FileQueue, error) {
	return NewFileQueueWithClock(path, time.Now)
}

func NewFileQueueWithClock(path string, clock func() time.Time) (*FileQueue, error) {
	q := &FileQueue{
		path:  path,
		data:  make(map[string]Escalation),
		clock: clock,
	}
	if err := q.load(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *FileQueue) load() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, err := os.Stat(q.path); os.IsNotExist(err) {
		return nil
	}

	raw, err := os.ReadFile(q.path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, &q.data)
}

func (q *FileQueue) save() error {
	raw, err := json.MarshalIndent(q.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(q.path, raw, 0600)
}

func (q *FileQueue) Raise(ctx context.Context, esc Escalation) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.data[esc.ID]; exists {
		return ErrSettled
	}

	now := q.clock()
	esc.CreatedAt = now
	esc.UpdatedAt = now
	esc.State = StateOpen

	q.data[esc.ID] = esc
	return q.save()
}

func (q *FileQueue) Get(ctx context.Context, id string) (Escalation, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	esc, exists := q.data[id]
	if !exists {
		return Escalation{}, ErrNotFound
	}
	return esc, nil
}

func (q *FileQueue) Claim(ctx context.Context, id, reviewerID string, lease time.Duration) (Escalation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	esc, exists := q.data[id]
	if !exists {
		return Escalation{}, ErrNotFound
	}
	if settled(esc.State) {
		return esc, ErrSettled
	}

	now := q.clock()
	if esc.ClaimedUntil.After(now) && esc.ClaimedBy != reviewerID {
		return esc, ErrClaimed
	}

	esc.ClaimedBy = reviewerID
	esc.ClaimedUntil = now.Add(lease)
	esc.State = StateClaimed
	esc.UpdatedAt = now
	q.data[id] = esc

	if err := q.save(); err != nil {
		return esc, err
	}
	return esc, nil
}

func (q *FileQueue) Resolve(ctx context.Context, id string, outcome State, resolution map[string]any) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	esc, exists := q.data[id]
	if !exists {
		return ErrNotFound
	}
	if settled(esc.State) {
		return ErrSettled
	}

	esc.State = outcome
	esc.Resolution = resolution
	esc.UpdatedAt = q.clock()
	q.data[id] = esc

	return q.save()
}

func (q *FileQueue) ListOpen(ctx context.Context, tenantID string) ([]Escalation, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	var open []Escalation
	for _, esc := range q.data {
		if esc.TenantID == tenantID && !settled(esc.State) {
			open = append(open, esc)
		}
	}
	return open, nil
}

func (q *FileQueue) ListAll(ctx context.Context, tenantID string) ([]Escalation, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	list := make([]Escalation, 0, len(q.data))
	for _, esc := range q.data {
		if esc.TenantID == tenantID {
			list = append(list, esc)
		}
	}
	return list, nil
}
