package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	syncapiout "timebox/internal/modules/syncapi/adapter/out"
	"timebox/internal/modules/syncapi/domain"
	"timebox/internal/modules/syncapi/service"
	apperrors "timebox/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

type staticKey string

func (k staticKey) New() string { return string(k) }

func newService(t *testing.T, key string) (*service.SyncAPIService, *syncapiout.SQLiteStore) {
	t.Helper()
	store, err := syncapiout.NewSQLiteStore(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	clk := fixedClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	return service.NewSyncAPIService(store, store, store, staticKey(key), clk, nil), store
}

func TestAuthorize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t, "acct-1")
	if _, err := svc.Register(ctx, "  phone  "); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Authorize(ctx, " "); !errors.Is(err, apperrors.ErrMissingSyncKey) {
		t.Fatalf("expected missing key, got %v", err)
	}
	if _, err := svc.Authorize(ctx, "acct-2"); !errors.Is(err, apperrors.ErrInvalidSyncKey) {
		t.Fatalf("expected invalid key, got %v", err)
	}
	id, err := svc.Authorize(ctx, " acct-1 ")
	if err != nil || id != "acct-1" {
		t.Fatalf("expected acct-1, got %q %v", id, err)
	}
}

func TestPushRejectsEmptyBatch(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, "acct-1")
	if _, _, err := svc.Push(context.Background(), "acct-1", nil); !errors.Is(err, apperrors.ErrEmptyPayload) {
		t.Fatalf("expected empty payload, got %v", err)
	}
}

func TestPushRollsBackWhenAccountTouchFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store := newService(t, "acct-1")

	records := []domain.IncomingRecord{{Key: "stats", Value: []byte(`{}`)}}
	if _, _, err := svc.Push(ctx, "ghost", records); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found from touch, got %v", err)
	}
	stored, err := store.List(ctx, "ghost")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("expected upsert rolled back, got %+v", stored)
	}
}

func TestRegisterRejectsDuplicateKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t, "acct-1")
	if _, err := svc.Register(ctx, ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, ""); err == nil {
		t.Fatalf("expected duplicate key to fail")
	}
}
