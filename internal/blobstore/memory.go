package blobstore

import (
	"context"
	"sync"

	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

// MemoryStore keeps blobs in process memory.
type MemoryStore struct {
	settings
	mu    sync.RWMutex
	blobs map[string]Blob
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		settings: newSettings(opts),
		blobs:    make(map[string]Blob),
	}
}

func (s *MemoryStore) Upload(ctx context.Context, file interfaces.File, folder string) (interfaces.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return interfaces.StoredObject{}, err
	}
	blob, err := s.prepare(file, folder)
	if err != nil {
		return interfaces.StoredObject{}, err
	}
	s.mu.Lock()
	s.blobs[blob.Path] = blob
	s.mu.Unlock()
	return s.stored(blob), nil
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cleaned, err := CleanPath(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[cleaned]; !ok {
		return ErrBlobNotFound
	}
	delete(s.blobs, cleaned)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, path string) (*Blob, error) {
	cleaned, err := CleanPath(path)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	blob, ok := s.blobs[cleaned]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrBlobNotFound
	}
	blob.Data = append([]byte(nil), blob.Data...)
	return &blob, nil
}

// Len reports the number of stored blobs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
