package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"timebox/internal/modules/cloudsync/domain"
	syncout "timebox/internal/modules/cloudsync/port/out"
	"timebox/internal/platform/clock"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/platform/logging"
)

// Snapshot is the observable sync status.
type Snapshot struct {
	Status     domain.Status
	SyncKey    string
	LastError  string
	LastSyncAt int64
	State      domain.State
}

// SyncService owns the active Manager and points the persistence slot at
// its syncing store while sync is enabled.
type SyncService struct {
	client   syncout.Client
	switcher syncout.StoreSwitch
	states   syncout.StateStore
	clock    clock.Clock
	logger   hclog.Logger

	mu         sync.Mutex
	manager    *Manager
	status     domain.Status
	lastError  string
	lastSyncAt int64
	busy       bool
	listeners  []func(domain.Event)
	// retired managers may still have pushes in flight; Wait drains them.
	retired []*Manager
}

func NewSyncService(client syncout.Client, switcher syncout.StoreSwitch, states syncout.StateStore, clk clock.Clock, logger hclog.Logger) *SyncService {
	return &SyncService{
		client:   client,
		switcher: switcher,
		states:   states,
		clock:    clk,
		logger:   logging.OrNull(logger).Named("sync"),
		status:   domain.StatusDisabled,
	}
}

func (s *SyncService) Subscribe(listener func(domain.Event)) {
	if listener == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *SyncService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Snapshot{Status: s.status, LastError: s.lastError, LastSyncAt: s.lastSyncAt}
	if s.manager != nil {
		out.State = s.manager.State()
		out.SyncKey = out.State.SyncKey
	}
	return out
}

// Bootstrap reactivates the persisted sync key. Without one the slot is
// reset to the base store. Activation failures are recorded in the status
// rather than returned.
func (s *SyncService) Bootstrap(ctx context.Context) error {
	persisted, ok, err := s.states.Load(ctx)
	if err != nil {
		return fmt.Errorf("load sync state: %w", err)
	}
	if !ok || persisted.SyncKey == "" {
		s.switcher.Reset()
		s.mu.Lock()
		s.status = domain.StatusDisabled
		s.lastError = ""
		s.lastSyncAt = 0
		s.mu.Unlock()
		return nil
	}
	if err := s.activate(ctx, persisted.SyncKey); err != nil {
		s.logger.Warn("sync bootstrap failed", "error", err)
		return nil
	}
	s.mu.Lock()
	if s.manager != nil && s.manager.LastPullAt() > 0 {
		s.lastSyncAt = s.manager.LastPullAt()
	}
	s.mu.Unlock()
	return nil
}

// RegisterNew obtains a fresh sync key from the API and activates it.
func (s *SyncService) RegisterNew(ctx context.Context, label string) (string, error) {
	if err := s.acquire(); err != nil {
		return "", err
	}
	defer s.release()

	key, err := s.client.Register(ctx, label)
	if err != nil {
		return "", fmt.Errorf("register sync key: %w", err)
	}
	if err := s.activate(ctx, key); err != nil {
		return key, err
	}
	return key, nil
}

func (s *SyncService) ConnectWithKey(ctx context.Context, key string) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	normalized := strings.TrimSpace(key)
	if normalized == "" {
		return fmt.Errorf("%w: sync key is required", apperrors.ErrInvalidInput)
	}
	return s.activate(ctx, normalized)
}

func (s *SyncService) PullNow(ctx context.Context) (int, int64, error) {
	s.mu.Lock()
	manager := s.manager
	if manager == nil {
		s.mu.Unlock()
		return 0, 0, apperrors.ErrSyncDisabled
	}
	s.status = domain.StatusSyncing
	s.lastError = ""
	s.mu.Unlock()

	applied, err := manager.PullAll(ctx)
	if err != nil {
		return 0, 0, err
	}
	return applied, manager.LastPullAt(), nil
}

// Disable forgets the sync key and its versions and points the slot back
// at the base store.
func (s *SyncService) Disable(ctx context.Context) error {
	s.mu.Lock()
	if s.manager != nil {
		s.manager.Dispose()
		s.retired = append(s.retired, s.manager)
		s.manager = nil
	}
	s.status = domain.StatusDisabled
	s.lastError = ""
	s.lastSyncAt = 0
	s.mu.Unlock()

	s.switcher.Reset()
	if err := s.states.Clear(ctx); err != nil {
		return fmt.Errorf("clear sync state: %w", err)
	}
	return nil
}

// Wait blocks until pushes of the active manager and of every manager
// replaced or disabled since the last Wait have finished.
func (s *SyncService) Wait() {
	s.mu.Lock()
	managers := slices.Clone(s.retired)
	if s.manager != nil {
		managers = append(managers, s.manager)
	}
	s.mu.Unlock()

	for _, manager := range managers {
		manager.Wait()
	}

	s.mu.Lock()
	s.retired = slices.DeleteFunc(s.retired, func(m *Manager) bool {
		return slices.Contains(managers, m)
	})
	s.mu.Unlock()
}

func (s *SyncService) activate(ctx context.Context, key string) error {
	s.mu.Lock()
	if s.manager != nil && s.manager.SyncKey() == key {
		s.status = domain.StatusReady
		s.mu.Unlock()
		return nil
	}
	previous := s.manager
	s.manager = nil
	if previous != nil {
		s.retired = append(s.retired, previous)
	}
	s.mu.Unlock()
	if previous != nil {
		previous.Dispose()
	}

	manager, err := NewManager(ctx, key, s.client, s.switcher.Base(), s.states, s.clock, s.logger, s.handleEvent)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.manager = manager
	s.status = domain.StatusSyncing
	s.lastError = ""
	s.mu.Unlock()
	s.switcher.Use(manager.Store())

	if _, err := manager.PullAll(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.status = domain.StatusReady
	s.mu.Unlock()
	return nil
}

func (s *SyncService) handleEvent(event domain.Event) {
	s.mu.Lock()
	switch event.Type {
	case domain.EventPullSuccess:
		s.lastSyncAt = event.Timestamp
		s.status = domain.StatusReady
	case domain.EventPullError, domain.EventPushError:
		if event.Err != nil {
			s.lastError = event.Err.Error()
		}
		s.status = domain.StatusError
	}
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

func (s *SyncService) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err.Error()
	s.status = domain.StatusError
}

func (s *SyncService) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return apperrors.ErrBusy
	}
	s.busy = true
	return nil
}

func (s *SyncService) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}
