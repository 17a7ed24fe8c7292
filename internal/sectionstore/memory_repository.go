package sectionstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// MemoryRepository stores documents in-memory for tests and lightweight deployments.
type MemoryRepository struct {
	mu          sync.RWMutex
	records     map[string]Record
	broadcaster *changeBroadcaster
	now         func() time.Time
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:     make(map[string]Record),
		broadcaster: newChangeBroadcaster(),
		now:         time.Now,
	}
}

func (r *MemoryRepository) Get(_ context.Context, key Key) (*Record, error) {
	normalized, err := key.normalize()
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	record, ok := r.records[normalized.String()]
	r.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Resource: "section", Key: normalized.String()}
	}
	cloned := cloneRecord(record)
	return &cloned, nil
}

func (r *MemoryRepository) Upsert(_ context.Context, key Key, data json.RawMessage) (*Record, error) {
	normalized, err := key.normalize()
	if err != nil {
		return nil, err
	}
	if err := validData(data); err != nil {
		return nil, err
	}
	now := r.now().UTC()

	r.mu.Lock()
	existing, exists := r.records[normalized.String()]
	record := Record{
		ID:        normalized.ID(),
		Key:       normalized,
		Data:      data,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if exists {
		record.Version = existing.Version + 1
		record.CreatedAt = existing.CreatedAt
	}
	record = cloneRecord(record)
	r.records[normalized.String()] = record
	r.mu.Unlock()

	eventType := ChangeCreated
	if exists {
		eventType = ChangeUpdated
	}
	r.broadcaster.Broadcast(ChangeEvent{Type: eventType, Key: normalized, Version: record.Version})

	result := cloneRecord(record)
	return &result, nil
}

func (r *MemoryRepository) Delete(_ context.Context, key Key) error {
	normalized, err := key.normalize()
	if err != nil {
		return err
	}
	r.mu.Lock()
	record, ok := r.records[normalized.String()]
	if !ok {
		r.mu.Unlock()
		return &NotFoundError{Resource: "section", Key: normalized.String()}
	}
	delete(r.records, normalized.String())
	r.mu.Unlock()

	r.broadcaster.Broadcast(ChangeEvent{Type: ChangeDeleted, Key: normalized, Version: record.Version})
	return nil
}

func (r *MemoryRepository) List(_ context.Context, domain string) ([]Record, error) {
	r.mu.RLock()
	out := make([]Record, 0, len(r.records))
	for _, record := range r.records {
		if domain != "" && record.Key.Domain != domain {
			continue
		}
		out = append(out, cloneRecord(record))
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Section != out[j].Key.Section {
			return out[i].Key.Section < out[j].Key.Section
		}
		return out[i].Key.Locale < out[j].Key.Locale
	})
	return out, nil
}

func (r *MemoryRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}
