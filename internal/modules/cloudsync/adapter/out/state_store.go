package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"timebox/internal/modules/cloudsync/domain"
	syncout "timebox/internal/modules/cloudsync/port/out"
	storagedomain "timebox/internal/modules/storage/domain"
	storageout "timebox/internal/modules/storage/port/out"
	apperrors "timebox/internal/platform/errors"
)

// StoreStateStore keeps the sync state as a local-only blob in the base
// store, bypassing the syncing slot.
type StoreStateStore struct {
	store storageout.Store
}

func NewStoreStateStore(store storageout.Store) *StoreStateStore {
	return &StoreStateStore{store: store}
}

var _ syncout.StateStore = (*StoreStateStore)(nil)

// Load treats an unreadable or keyless blob as no state.
func (s *StoreStateStore) Load(ctx context.Context) (domain.State, bool, error) {
	raw, err := s.store.Get(ctx, storagedomain.KeySyncState)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.State{}, false, nil
		}
		return domain.State{}, false, err
	}
	var state domain.State
	if err := json.Unmarshal(raw, &state); err != nil || state.SyncKey == "" {
		return domain.State{}, false, nil
	}
	if state.RecordVersions == nil {
		state.RecordVersions = map[storagedomain.Key]int64{}
	}
	return state, true, nil
}

func (s *StoreStateStore) Save(ctx context.Context, state domain.State) error {
	if state.RecordVersions == nil {
		state.RecordVersions = map[storagedomain.Key]int64{}
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode sync state: %w", err)
	}
	return s.store.Set(ctx, storagedomain.KeySyncState, raw)
}

func (s *StoreStateStore) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, storagedomain.KeySyncState)
}
