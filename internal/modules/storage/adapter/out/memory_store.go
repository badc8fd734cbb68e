package out

import (
	"context"
	"sync"

	"timebox/internal/modules/storage/domain"
	storageout "timebox/internal/modules/storage/port/out"
	apperrors "timebox/internal/platform/errors"
)

// MemoryStore keeps blobs in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[domain.Key][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: map[domain.Key][]byte{}}
}

var _ storageout.Store = (*MemoryStore)(nil)

func (s *MemoryStore) Get(_ context.Context, key domain.Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.blobs[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (s *MemoryStore) Set(_ context.Context, key domain.Key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key domain.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}
