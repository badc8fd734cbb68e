package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	syncout "timebox/internal/modules/cloudsync/adapter/out"
	"timebox/internal/modules/cloudsync/domain"
	"timebox/internal/modules/cloudsync/dto"
	"timebox/internal/modules/cloudsync/service"
	"timebox/internal/modules/cloudsync/usecase"
	storageout "timebox/internal/modules/storage/adapter/out"
	storagedomain "timebox/internal/modules/storage/domain"
	apperrors "timebox/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

type stubClient struct {
	mu     sync.Mutex
	pushed []domain.Record
}

func (s *stubClient) Register(context.Context, string) (string, error) {
	return "0123456789abcdef0123456789abwxyz", nil
}

func (s *stubClient) Pull(context.Context, string) (domain.PullResponse, error) {
	return domain.PullResponse{PulledAt: 4242}, nil
}

func (s *stubClient) Push(_ context.Context, _ string, record domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushed = append(s.pushed, record)
	return nil
}

func newUsecase() (*usecase.Interactor, *storageout.SwitchStore) {
	base := storageout.NewMemoryStore()
	slot := storageout.NewSwitchStore(base)
	clk := fixedClock{now: time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)}
	svc := service.NewSyncService(&stubClient{}, slot, syncout.NewStoreStateStore(base), clk, nil)
	return usecase.NewInteractor(svc).(*usecase.Interactor), slot
}

func TestRegisterReportsMaskedKeyAndVersions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, slot := newUsecase()
	var (
		mu     sync.Mutex
		events []dto.EventOutput
	)
	uc.Subscribe(func(event dto.EventOutput) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, event)
	})

	out, err := uc.Register(ctx, "laptop")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if out.Status != "ready" || out.MaskedKey != "0123·wxyz" || out.LastSyncAt != 4242 {
		t.Fatalf("unexpected status %+v", out)
	}

	_ = slot.Set(ctx, storagedomain.KeyLaterList, []byte(`[]`))
	uc.Wait()
	status := uc.Status(ctx)
	if status.Versions["laterList"] == 0 {
		t.Fatalf("expected laterList version after push, got %+v", status.Versions)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 || events[0].Type != "pull:success" || events[1].Type != "push:success" || events[1].Key != "laterList" {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestRegisterRejectsOverlongLabel(t *testing.T) {
	t.Parallel()
	uc, _ := newUsecase()
	_, err := uc.Register(context.Background(), strings.Repeat("x", 65))
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestPullAndDisable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _ := newUsecase()
	if _, err := uc.Pull(ctx); !errors.Is(err, apperrors.ErrSyncDisabled) {
		t.Fatalf("expected sync disabled, got %v", err)
	}
	if _, err := uc.Connect(ctx, "abcdefgh"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	pulled, err := uc.Pull(ctx)
	if err != nil || pulled.PulledAt != 4242 {
		t.Fatalf("unexpected pull %+v %v", pulled, err)
	}
	if got := uc.Status(ctx).MaskedKey; got != "abcdefgh" {
		t.Fatalf("expected short key shown whole, got %q", got)
	}
	out, err := uc.Disable(ctx)
	if err != nil || out.Status != "disabled" || out.SyncKey != "" {
		t.Fatalf("unexpected disable result %+v %v", out, err)
	}
}
