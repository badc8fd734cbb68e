package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"timebox/internal/modules/cloudsync/domain"
	storageout "timebox/internal/modules/storage/adapter/out"
	storagedomain "timebox/internal/modules/storage/domain"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

var testNow = time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

// fakeRemote is an in-memory sync API. When gate is set, each push
// signals started and then waits for gate before completing.
type fakeRemote struct {
	mu         sync.Mutex
	records    map[string]domain.Record
	pushes     []domain.Record
	pulls      int
	pulledAt   int64
	pullErr    error
	pushErr    error
	registered int

	started      chan struct{}
	gate         chan struct{}
	registerGate chan struct{}
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{records: map[string]domain.Record{}, pulledAt: testNow.UnixMilli()}
}

func (f *fakeRemote) seed(key storagedomain.Key, value string, updatedAt int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[string(key)] = domain.Record{Key: string(key), Value: []byte(value), UpdatedAt: updatedAt}
}

func (f *fakeRemote) Register(ctx context.Context, _ string) (string, error) {
	f.mu.Lock()
	gate := f.registerGate
	f.registered++
	n := f.registered
	f.mu.Unlock()
	if gate != nil {
		if f.started != nil {
			f.started <- struct{}{}
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return fmt.Sprintf("0123456789abcdef0123456789abc%03d", n), nil
}

func (f *fakeRemote) Pull(_ context.Context, _ string) (domain.PullResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pulls++
	if f.pullErr != nil {
		return domain.PullResponse{}, f.pullErr
	}
	out := domain.PullResponse{PulledAt: f.pulledAt}
	for _, key := range storagedomain.SyncableKeys() {
		if record, ok := f.records[string(key)]; ok {
			out.Records = append(out.Records, record)
		}
	}
	if record, ok := f.records["unknown"]; ok {
		out.Records = append(out.Records, record)
	}
	return out, nil
}

func (f *fakeRemote) Push(_ context.Context, _ string, record domain.Record) error {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		f.started <- struct{}{}
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return f.pushErr
	}
	record.Value = append([]byte(nil), record.Value...)
	f.pushes = append(f.pushes, record)
	f.records[record.Key] = record
	return nil
}

func (f *fakeRemote) pushed() []domain.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Record(nil), f.pushes...)
}

func (f *fakeRemote) pullCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pulls
}

// failingStore rejects writes to one key.
type failingStore struct {
	*storageout.MemoryStore
	failKey storagedomain.Key
}

func (s failingStore) Set(ctx context.Context, key storagedomain.Key, value []byte) error {
	if key == s.failKey {
		return errors.New("disk full")
	}
	return s.MemoryStore.Set(ctx, key, value)
}

type eventLog struct {
	mu     sync.Mutex
	events []domain.Event
}

func (l *eventLog) record(event domain.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) types() []domain.EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.EventType, 0, len(l.events))
	for _, event := range l.events {
		out = append(out, event.Type)
	}
	return out
}
