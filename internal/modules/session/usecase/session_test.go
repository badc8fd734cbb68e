package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	sessionout "timebox/internal/modules/session/adapter/out"
	sessiondto "timebox/internal/modules/session/dto"
	"timebox/internal/modules/session/service"
	"timebox/internal/modules/session/usecase"
	storageout "timebox/internal/modules/storage/adapter/out"
	storageservice "timebox/internal/modules/storage/service"
	timeboxdto "timebox/internal/modules/timebox/dto"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/platform/id"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

type fakeTimeboxes struct {
	boxes    map[string]timeboxdto.TimeboxOutput
	statuses []string
}

func (f *fakeTimeboxes) Create(context.Context, timeboxdto.CreateInput) (timeboxdto.TimeboxOutput, error) {
	return timeboxdto.TimeboxOutput{}, nil
}
func (f *fakeTimeboxes) Update(context.Context, timeboxdto.UpdateInput) (timeboxdto.TimeboxOutput, error) {
	return timeboxdto.TimeboxOutput{}, nil
}
func (f *fakeTimeboxes) SetStatus(_ context.Context, id, status string) (timeboxdto.TimeboxOutput, error) {
	box, ok := f.boxes[id]
	if !ok {
		return timeboxdto.TimeboxOutput{}, apperrors.ErrNotFound
	}
	box.Status = status
	f.boxes[id] = box
	f.statuses = append(f.statuses, status)
	return box, nil
}
func (f *fakeTimeboxes) Remove(context.Context, string) error { return nil }
func (f *fakeTimeboxes) Reschedule(context.Context, timeboxdto.RescheduleInput) (timeboxdto.TimeboxOutput, error) {
	return timeboxdto.TimeboxOutput{}, nil
}
func (f *fakeTimeboxes) Pair(context.Context, string) (timeboxdto.TimeboxOutput, bool, error) {
	return timeboxdto.TimeboxOutput{}, false, nil
}
func (f *fakeTimeboxes) DetectOverlap(context.Context, timeboxdto.OverlapInput) (bool, error) {
	return false, nil
}
func (f *fakeTimeboxes) Get(_ context.Context, id string) (timeboxdto.TimeboxOutput, error) {
	box, ok := f.boxes[id]
	if !ok {
		return timeboxdto.TimeboxOutput{}, apperrors.ErrNotFound
	}
	return box, nil
}
func (f *fakeTimeboxes) ForDate(context.Context, string) ([]timeboxdto.TimeboxOutput, error) {
	return nil, nil
}
func (f *fakeTimeboxes) ForRange(context.Context, string, int) ([]timeboxdto.TimeboxOutput, error) {
	return nil, nil
}
func (f *fakeTimeboxes) Upcoming(context.Context) ([]timeboxdto.TimeboxOutput, error) {
	return nil, nil
}
func (f *fakeTimeboxes) AddLater(context.Context, string, string) (timeboxdto.LaterItemOutput, error) {
	return timeboxdto.LaterItemOutput{}, nil
}
func (f *fakeTimeboxes) LaterList(context.Context) ([]timeboxdto.LaterItemOutput, error) {
	return nil, nil
}

func newInteractor(t *testing.T, clk *fakeClock, boxes *fakeTimeboxes) (*usecase.Interactor, string) {
	t.Helper()
	dir := t.TempDir()
	storage := storageservice.NewStorageService(storageout.NewMemoryStore(), nil, clk, nil)
	svc := service.NewSessionService(id.UUID{}, sessionout.NewStorageRepository(storage), sessionout.NewMarkdownReviewJournal(dir, time.UTC), nil)
	return usecase.NewInteractor(svc, boxes, clk, nil).(*usecase.Interactor), dir
}

func TestFocusLoopTracksTimeboxStatus(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	boxes := &fakeTimeboxes{boxes: map[string]timeboxdto.TimeboxOutput{
		"tb-1": {ID: "tb-1", Title: "Read Go memory model", Status: "planned"},
	}}
	uc, _ := newInteractor(t, clk, boxes)
	ctx := context.Background()

	started, err := uc.Start(ctx, sessiondto.StartInput{TimeboxID: "tb-1", Type: "input", Minutes: 25})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	clk.now = clk.now.Add(5 * time.Minute)
	rt := uc.Runtime(ctx)
	if rt.Status != "running" || rt.ElapsedSec != 300 || rt.RemainingSec != 20*60 || rt.SessionID != started.ID {
		t.Fatalf("unexpected runtime %+v", rt)
	}
	uc.AppendDiscomfort(ctx, "cognitive-ai")
	clk.now = clk.now.Add(20 * time.Minute)
	stopped, ok, err := uc.Stop(ctx)
	if err != nil || !ok || stopped.DurationSec != 25*60 || stopped.Discomforts[0] != "cognitive-ai" {
		t.Fatalf("stop: %+v ok=%v err=%v", stopped, ok, err)
	}
	out, ok, err := uc.Finalize(ctx, sessiondto.FinalizeInput{Notes: sessiondto.Notes{Learned: "generics"}})
	if err != nil || !ok {
		t.Fatalf("finalize: ok=%v err=%v", ok, err)
	}
	if !out.Session.Completed || out.JournalPath == "" {
		t.Fatalf("unexpected finalize output %+v", out)
	}
	if len(boxes.statuses) != 2 || boxes.statuses[0] != "running" || boxes.statuses[1] != "done" {
		t.Fatalf("expected running then done, got %v", boxes.statuses)
	}
	list, err := uc.List(ctx)
	if err != nil || len(list) != 1 || !list[0].Completed {
		t.Fatalf("unexpected list %+v err=%v", list, err)
	}
}

func TestCancelReturnsBoxToPlanned(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	boxes := &fakeTimeboxes{boxes: map[string]timeboxdto.TimeboxOutput{"tb-1": {ID: "tb-1", Status: "planned"}}}
	uc, _ := newInteractor(t, clk, boxes)
	ctx := context.Background()

	if _, err := uc.Start(ctx, sessiondto.StartInput{TimeboxID: "tb-1", Type: "output", Minutes: 10}); err != nil {
		t.Fatalf("start: %v", err)
	}
	ok, err := uc.Cancel(ctx)
	if err != nil || !ok {
		t.Fatalf("cancel: ok=%v err=%v", ok, err)
	}
	if boxes.boxes["tb-1"].Status != "planned" {
		t.Fatalf("expected planned, got %s", boxes.boxes["tb-1"].Status)
	}
	list, _ := uc.List(ctx)
	if len(list) != 0 {
		t.Fatalf("cancelled session must be deleted, got %+v", list)
	}
}

func TestUnscheduledSessionAndValidation(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	boxes := &fakeTimeboxes{boxes: map[string]timeboxdto.TimeboxOutput{}}
	uc, _ := newInteractor(t, clk, boxes)
	ctx := context.Background()

	if _, err := uc.Start(ctx, sessiondto.StartInput{Type: "input", Minutes: 0}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid minutes, got %v", err)
	}
	if _, err := uc.Start(ctx, sessiondto.StartInput{Type: "input", Minutes: 5}); err != nil {
		t.Fatalf("unscheduled start: %v", err)
	}
	if err := uc.RecordUrgeDelay(ctx, "maybe"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid outcome, got %v", err)
	}
	if err := uc.RecordUrgeDelay(ctx, "left"); err != nil {
		t.Fatalf("record urge: %v", err)
	}
	current, ok, err := uc.Current(ctx)
	if err != nil || !ok || current.UrgeDelayOutcome != "left" {
		t.Fatalf("unexpected current %+v ok=%v err=%v", current, ok, err)
	}
	if err := uc.SetNotes(ctx, "missing", sessiondto.Notes{}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(boxes.statuses) != 0 {
		t.Fatalf("unscheduled sessions must not touch timeboxes")
	}
}
