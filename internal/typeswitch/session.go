package typeswitch

import (
	"sync"

	"github.com/goliatone/go-cms-sections/internal/assets"
)

// Session groups the fields of one editing session, one per entry ID. Fields
// die with their entry and are never persisted.
type Session struct {
	mu        sync.Mutex
	fields    map[string]*Field
	scheduler Scheduler
	queue     *Queue
}

// NewSession creates a session whose fields defer validation to scheduler.
// A nil scheduler makes the fields share a queue drained by Tick.
func NewSession(scheduler Scheduler) *Session {
	s := &Session{fields: make(map[string]*Field), scheduler: scheduler}
	if scheduler == nil {
		s.queue = NewQueue()
		s.scheduler = s.queue
	}
	return s
}

// Tick runs the validation deferred by the session's fields. It returns 0
// when the session was built with an external scheduler.
func (s *Session) Tick() int {
	if s.queue == nil {
		return 0
	}
	return s.queue.Flush()
}

// Field returns the field bound to id, seeding it from existing on first use.
func (s *Session) Field(id string, existing *assets.Ref) *Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	if field, ok := s.fields[id]; ok {
		return field
	}
	field := NewField(existing, WithScheduler(s.scheduler))
	s.fields[id] = field
	return field
}

// Lookup returns the field bound to id, if any.
func (s *Session) Lookup(id string) (*Field, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	field, ok := s.fields[id]
	return field, ok
}

// Inputs snapshots the edit intent of every bound field.
func (s *Session) Inputs() map[string]assets.Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]assets.Input, len(s.fields))
	for id, field := range s.fields {
		out[id] = field.Input()
	}
	return out
}

// Release discards the field of one entry.
func (s *Session) Release(id string) {
	s.mu.Lock()
	delete(s.fields, id)
	s.mu.Unlock()
}

// Reset discards every field.
func (s *Session) Reset() {
	s.mu.Lock()
	s.fields = make(map[string]*Field)
	s.mu.Unlock()
}

// Len reports how many entries have a bound field.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fields)
}
