package out

import (
	"context"
	"sync"

	"timebox/internal/modules/storage/domain"
	storageout "timebox/internal/modules/storage/port/out"
)

// SwitchStore is the process-wide persistence slot. Every component persists
// through it; enabling cloud sync points it at the syncing adapter and
// disabling sync resets it to the base local store.
type SwitchStore struct {
	mu      sync.RWMutex
	base    storageout.Store
	current storageout.Store
}

func NewSwitchStore(base storageout.Store) *SwitchStore {
	return &SwitchStore{base: base, current: base}
}

var _ storageout.Store = (*SwitchStore)(nil)

func (s *SwitchStore) Use(store storageout.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if store == nil {
		store = s.base
	}
	s.current = store
}

func (s *SwitchStore) Reset() {
	s.Use(nil)
}

func (s *SwitchStore) Base() storageout.Store {
	return s.base
}

func (s *SwitchStore) active() storageout.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *SwitchStore) Get(ctx context.Context, key domain.Key) ([]byte, error) {
	return s.active().Get(ctx, key)
}

func (s *SwitchStore) Set(ctx context.Context, key domain.Key, value []byte) error {
	return s.active().Set(ctx, key, value)
}

func (s *SwitchStore) Delete(ctx context.Context, key domain.Key) error {
	return s.active().Delete(ctx, key)
}
