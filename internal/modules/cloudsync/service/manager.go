package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"timebox/internal/modules/cloudsync/domain"
	syncout "timebox/internal/modules/cloudsync/port/out"
	storagedomain "timebox/internal/modules/storage/domain"
	storageout "timebox/internal/modules/storage/port/out"
	"timebox/internal/platform/clock"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/platform/logging"
)

// Manager reconciles the base local store with the remote record store for
// one sync key. Local writes made through Store complete before their push
// starts; a failed push is reported and never undoes the write.
type Manager struct {
	client  syncout.Client
	base    storageout.Store
	states  syncout.StateStore
	clock   clock.Clock
	logger  hclog.Logger
	onEvent func(domain.Event)

	mu       sync.Mutex
	state    domain.State
	lanes    map[storagedomain.Key]*pushLane
	disposed bool
	pending  sync.WaitGroup
}

// pushLane serializes pushes of one record. Writes that arrive while a push
// is in flight collapse into the newest value.
type pushLane struct {
	running bool
	queued  bool
	value   []byte
}

// NewManager restores the persisted state when it belongs to syncKey and
// otherwise starts a fresh state with an empty version map.
func NewManager(ctx context.Context, syncKey string, client syncout.Client, base storageout.Store, states syncout.StateStore, clk clock.Clock, logger hclog.Logger, onEvent func(domain.Event)) (*Manager, error) {
	if syncKey == "" {
		return nil, fmt.Errorf("%w: sync key is required", apperrors.ErrInvalidInput)
	}
	m := &Manager{
		client:  client,
		base:    base,
		states:  states,
		clock:   clk,
		logger:  logging.OrNull(logger).Named("sync"),
		onEvent: onEvent,
		lanes:   map[storagedomain.Key]*pushLane{},
	}
	restored, ok, err := states.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sync state: %w", err)
	}
	if ok && restored.SyncKey == syncKey {
		m.state = restored.Clone()
		return m, nil
	}
	m.state = domain.NewState(syncKey)
	if err := states.Save(ctx, m.state); err != nil {
		return nil, fmt.Errorf("save sync state: %w", err)
	}
	return m, nil
}

func (m *Manager) SyncKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.SyncKey
}

func (m *Manager) LastPullAt() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.LastPullAt
}

func (m *Manager) State() domain.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Store returns the syncing view of the base store, suitable for the
// process-wide persistence slot.
func (m *Manager) Store() storageout.Store {
	return syncingStore{manager: m}
}

// PullAll fetches every remote record and writes the ones newer than the
// local version straight into the base store, so nothing is pushed back.
// Either every eligible record is applied and lastPullAt advances, or local
// storage is restored and the error is returned.
func (m *Manager) PullAll(ctx context.Context) (int, error) {
	applied, pulledAt, err := m.pull(ctx)
	if err != nil {
		m.logger.Warn("pull failed", "error", err)
		m.emit(domain.Event{Type: domain.EventPullError, Err: err})
		return 0, err
	}
	m.logger.Info("pull finished", "applied", applied, "pulled_at", pulledAt)
	m.emit(domain.Event{Type: domain.EventPullSuccess, Applied: applied, Timestamp: pulledAt})
	return applied, nil
}

type appliedRecord struct {
	key      storagedomain.Key
	previous []byte
	existed  bool
}

func (m *Manager) pull(ctx context.Context) (int, int64, error) {
	payload, err := m.client.Pull(ctx, m.SyncKey())
	if err != nil {
		return 0, 0, err
	}

	next := m.State()
	var written []appliedRecord
	for _, record := range payload.Records {
		key, ok := storagedomain.ParseKey(record.Key)
		if !ok {
			continue
		}
		if record.UpdatedAt <= next.Version(key) {
			continue
		}
		value := []byte(record.Value)
		if len(value) == 0 {
			value = []byte("null")
		}
		previous, getErr := m.base.Get(ctx, key)
		existed := getErr == nil
		if getErr != nil && !errors.Is(getErr, apperrors.ErrNotFound) {
			m.rollback(ctx, written)
			return 0, 0, fmt.Errorf("read %s before pull: %w", key, getErr)
		}
		if err := m.base.Set(ctx, key, value); err != nil {
			m.rollback(ctx, written)
			return 0, 0, fmt.Errorf("apply pulled %s: %w", key, err)
		}
		written = append(written, appliedRecord{key: key, previous: previous, existed: existed})
		next.Advance(key, record.UpdatedAt)
	}
	next.LastPullAt = payload.PulledAt

	m.mu.Lock()
	defer m.mu.Unlock()
	// Pushes that finished meanwhile may have advanced versions further.
	for key, version := range m.state.RecordVersions {
		next.Advance(key, version)
	}
	if err := m.states.Save(ctx, next); err != nil {
		m.rollback(ctx, written)
		return 0, 0, fmt.Errorf("save sync state: %w", err)
	}
	m.state = next
	return len(written), payload.PulledAt, nil
}

func (m *Manager) rollback(ctx context.Context, written []appliedRecord) {
	for i := len(written) - 1; i >= 0; i-- {
		rec := written[i]
		var err error
		if rec.existed {
			err = m.base.Set(ctx, rec.key, rec.previous)
		} else {
			err = m.base.Delete(ctx, rec.key)
		}
		if err != nil {
			m.logger.Error("rollback of pulled record failed", "key", rec.key, "error", err)
		}
	}
}

// Wait blocks until queued pushes have finished.
func (m *Manager) Wait() {
	m.pending.Wait()
}

// Dispose silences events and stops persisting state for this manager.
// Pushes already in flight still complete.
func (m *Manager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposed = true
}

func (m *Manager) schedulePush(key storagedomain.Key, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	lane := m.lanes[key]
	if lane == nil {
		lane = &pushLane{}
		m.lanes[key] = lane
	}
	lane.value = append([]byte(nil), value...)
	lane.queued = true
	if lane.running {
		return
	}
	lane.running = true
	m.pending.Add(1)
	go m.drain(key, lane)
}

func (m *Manager) drain(key storagedomain.Key, lane *pushLane) {
	defer m.pending.Done()
	for {
		m.mu.Lock()
		if !lane.queued {
			lane.running = false
			m.mu.Unlock()
			return
		}
		value := lane.value
		lane.queued = false
		syncKey := m.state.SyncKey
		m.mu.Unlock()

		m.push(key, syncKey, value)
	}
}

func (m *Manager) push(key storagedomain.Key, syncKey string, value []byte) {
	ctx := context.Background()
	timestamp := clock.Epoch(m.clock.Now())
	record := domain.Record{Key: string(key), Value: value, UpdatedAt: timestamp}
	if err := m.client.Push(ctx, syncKey, record); err != nil {
		m.logger.Warn("push failed", "key", key, "error", err)
		m.emit(domain.Event{Type: domain.EventPushError, Key: key, Err: err})
		return
	}

	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	if m.state.Advance(key, timestamp) {
		if err := m.states.Save(ctx, m.state); err != nil {
			m.logger.Warn("save sync state failed", "key", key, "error", err)
		}
	}
	m.mu.Unlock()

	m.logger.Debug("pushed record", "key", key, "updated_at", timestamp)
	m.emit(domain.Event{Type: domain.EventPushSuccess, Key: key, Timestamp: timestamp})
}

func (m *Manager) emit(event domain.Event) {
	m.mu.Lock()
	disposed := m.disposed
	m.mu.Unlock()
	if disposed || m.onEvent == nil {
		return
	}
	m.onEvent(event)
}

// syncingStore writes to the base store and then queues a push for
// syncable records. Reads always come from the base store.
type syncingStore struct {
	manager *Manager
}

func (s syncingStore) Get(ctx context.Context, key storagedomain.Key) ([]byte, error) {
	return s.manager.base.Get(ctx, key)
}

func (s syncingStore) Set(ctx context.Context, key storagedomain.Key, value []byte) error {
	if err := s.manager.base.Set(ctx, key, value); err != nil {
		return err
	}
	if key.Syncable() {
		s.manager.schedulePush(key, value)
	}
	return nil
}

func (s syncingStore) Delete(ctx context.Context, key storagedomain.Key) error {
	return s.manager.base.Delete(ctx, key)
}
