package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"timebox/internal/modules/timebox/domain"
	"timebox/internal/modules/timebox/service"
	apperrors "timebox/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqID struct{ n int }

func (g *seqID) New() string {
	g.n++
	return fmt.Sprintf("tb-%d", g.n)
}

type memoryRepo struct {
	boxes []domain.Timebox
	later []domain.LaterItem
	saves int
}

func (r *memoryRepo) LoadTimeboxes(context.Context) ([]domain.Timebox, error) {
	return append([]domain.Timebox(nil), r.boxes...), nil
}

func (r *memoryRepo) SaveTimeboxes(_ context.Context, boxes []domain.Timebox) error {
	r.saves++
	r.boxes = append([]domain.Timebox(nil), boxes...)
	return nil
}

func (r *memoryRepo) LoadLaterList(context.Context) ([]domain.LaterItem, error) {
	return append([]domain.LaterItem(nil), r.later...), nil
}

func (r *memoryRepo) SaveLaterList(_ context.Context, items []domain.LaterItem) error {
	r.later = append([]domain.LaterItem(nil), items...)
	return nil
}

func (r *memoryRepo) byID(id string) domain.Timebox {
	for _, box := range r.boxes {
		if box.ID == id {
			return box
		}
	}
	return domain.Timebox{}
}

type staticTags []string

func (s staticTags) ThemeTags(context.Context) ([]string, error) { return s, nil }

func newScheduler(tags []string) (*service.Scheduler, *memoryRepo) {
	repo := &memoryRepo{}
	clk := fixedClock{now: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)}
	return service.NewScheduler(clk, &seqID{}, repo, staticTags(tags)), repo
}

func TestCreateAutoPairsOutputAfterGap(t *testing.T) {
	t.Parallel()
	sched, repo := newScheduler(nil)
	ctx := context.Background()

	input, err := sched.Create(ctx, service.CreateInput{Date: "2026-03-02", Start: "09:00", Duration: 30, Type: domain.TypeInput, AutoPair: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(repo.boxes) != 2 {
		t.Fatalf("expected input and paired output, got %d boxes", len(repo.boxes))
	}
	output := repo.byID(input.PairedID)
	if output.Type != domain.TypeOutput || output.Date != "2026-03-02" || output.Start != "09:45" || output.End != "10:15" {
		t.Fatalf("unexpected paired output %+v", output)
	}
	if output.PairedID != input.ID || !output.AutoPaired {
		t.Fatalf("expected back-reference and autoPaired on output, got %+v", output)
	}
	if !input.AutoPaired || input.Status != domain.StatusPlanned {
		t.Fatalf("unexpected input flags %+v", input)
	}
}

func TestCreateRejectsOverlapAndAcceptsAdjacent(t *testing.T) {
	t.Parallel()
	sched, repo := newScheduler(nil)
	ctx := context.Background()
	base := service.CreateInput{Date: "2026-03-02", Start: "09:00", Duration: 30, Type: domain.TypeInput}
	if _, err := sched.Create(ctx, base); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := sched.Create(ctx, base); !errors.Is(err, apperrors.ErrScheduleConflict) {
		t.Fatalf("expected conflict for identical block, got %v", err)
	}
	if len(repo.boxes) != 1 {
		t.Fatalf("conflicting create must not persist, got %d boxes", len(repo.boxes))
	}
	adjacent := base
	adjacent.Start = "09:30"
	if _, err := sched.Create(ctx, adjacent); err != nil {
		t.Fatalf("adjacent block must be accepted: %v", err)
	}
	skip := base
	skip.SkipOverlapCheck = true
	if _, err := sched.Create(ctx, skip); err != nil {
		t.Fatalf("skip overlap check must bypass conflicts: %v", err)
	}
}

func TestCreateRedirectsDisallowedTitleToLaterList(t *testing.T) {
	t.Parallel()
	sched, repo := newScheduler([]string{"Focus"})
	ctx := context.Background()

	_, err := sched.Create(ctx, service.CreateInput{Date: "2026-03-02", Start: "09:00", Duration: 30, Type: domain.TypeInput, Title: "random"})
	if !errors.Is(err, apperrors.ErrTitleNotAllowed) {
		t.Fatalf("expected not allowed, got %v", err)
	}
	if len(repo.boxes) != 0 {
		t.Fatalf("redirected block must not be scheduled")
	}
	if len(repo.later) != 1 || repo.later[0].Title != "random" || repo.later[0].Type != domain.TypeInput {
		t.Fatalf("expected later entry, got %+v", repo.later)
	}
	if repo.later[0].CreatedAt != "2026-03-02T08:00:00Z" {
		t.Fatalf("unexpected createdAt %q", repo.later[0].CreatedAt)
	}

	if _, err := sched.Create(ctx, service.CreateInput{Date: "2026-03-02", Start: "09:00", Duration: 30, Type: domain.TypeInput, Title: "focus sprint"}); err != nil {
		t.Fatalf("matching title must pass: %v", err)
	}
}

func TestCreateRejectsBlockPastMidnight(t *testing.T) {
	t.Parallel()
	sched, _ := newScheduler(nil)
	_, err := sched.Create(context.Background(), service.CreateInput{Date: "2026-03-02", Start: "23:50", Duration: 30, Type: domain.TypeInput})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAutoPairAtDayBoundaryRollsToNextMorning(t *testing.T) {
	t.Parallel()
	sched, repo := newScheduler(nil)
	input, err := sched.Create(context.Background(), service.CreateInput{Date: "2026-03-02", Start: "23:20", Duration: 30, Type: domain.TypeInput, AutoPair: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	output := repo.byID(input.PairedID)
	if output.Date != "2026-03-03" || output.Start != "09:00" || output.End != "09:30" {
		t.Fatalf("expected next-day 09:00 output, got %+v", output)
	}
}

func TestRemoveClearsOnlyPartnerLink(t *testing.T) {
	t.Parallel()
	sched, repo := newScheduler(nil)
	ctx := context.Background()
	input, err := sched.Create(ctx, service.CreateInput{Date: "2026-03-02", Start: "09:00", Duration: 30, Type: domain.TypeInput, AutoPair: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	other, err := sched.Create(ctx, service.CreateInput{Date: "2026-03-02", Start: "13:00", Duration: 30, Type: domain.TypeInput, AutoPair: true})
	if err != nil {
		t.Fatalf("create other: %v", err)
	}
	partnerID := input.PairedID

	removed, err := sched.Remove(ctx, input.ID)
	if err != nil || !removed {
		t.Fatalf("remove: removed=%v err=%v", removed, err)
	}
	partner := repo.byID(partnerID)
	if partner.PairedID != "" || partner.AutoPaired {
		t.Fatalf("expected partner link cleared, got %+v", partner)
	}
	untouched := repo.byID(other.ID)
	if untouched.PairedID == "" || !repo.byID(untouched.PairedID).AutoPaired {
		t.Fatalf("unrelated pair must keep its links, got %+v", untouched)
	}

	removed, err = sched.Remove(ctx, "missing")
	if err != nil || removed {
		t.Fatalf("removing unknown id must be a no-op, removed=%v err=%v", removed, err)
	}
}

func TestRescheduleChecksDestinationExcludingSelf(t *testing.T) {
	t.Parallel()
	sched, _ := newScheduler(nil)
	ctx := context.Background()
	a, _ := sched.Create(ctx, service.CreateInput{Date: "2026-03-02", Start: "09:00", Duration: 30, Type: domain.TypeInput})
	if _, err := sched.Create(ctx, service.CreateInput{Date: "2026-03-02", Start: "10:00", Duration: 30, Type: domain.TypeOutput}); err != nil {
		t.Fatalf("create: %v", err)
	}

	moved, ok, err := sched.Reschedule(ctx, a.ID, "2026-03-02", "09:15", 30)
	if err != nil || !ok {
		t.Fatalf("moving onto own slot must succeed: ok=%v err=%v", ok, err)
	}
	if moved.Start != "09:15" || moved.End != "09:45" {
		t.Fatalf("unexpected moved box %+v", moved)
	}
	if _, _, err := sched.Reschedule(ctx, a.ID, "2026-03-02", "09:45", 30); !errors.Is(err, apperrors.ErrScheduleConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, ok, err := sched.Reschedule(ctx, "missing", "2026-03-05", "09:00", 30); err != nil || ok {
		t.Fatalf("unknown id must be a no-op, ok=%v err=%v", ok, err)
	}
}

func TestUpdateAndQueries(t *testing.T) {
	t.Parallel()
	sched, _ := newScheduler(nil)
	ctx := context.Background()
	late, _ := sched.Create(ctx, service.CreateInput{Date: "2026-03-03", Start: "08:00", Duration: 60, Type: domain.TypeOutput})
	early, _ := sched.Create(ctx, service.CreateInput{Date: "2026-03-02", Start: "14:00", Duration: 30, Type: domain.TypeInput})
	first, _ := sched.Create(ctx, service.CreateInput{Date: "2026-03-02", Start: "07:00", Duration: 30, Type: domain.TypeInput})

	if _, ok, err := sched.SetStatus(ctx, early.ID, domain.StatusDone); err != nil || !ok {
		t.Fatalf("set status: ok=%v err=%v", ok, err)
	}
	upcoming, err := sched.Upcoming(ctx)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(upcoming) != 2 || upcoming[0].ID != first.ID || upcoming[1].ID != late.ID {
		t.Fatalf("unexpected upcoming order %+v", upcoming)
	}
	ranged, err := sched.ForRange(ctx, "2026-03-02", 2)
	if err != nil || len(ranged) != 3 {
		t.Fatalf("expected 3 boxes in range, got %d err=%v", len(ranged), err)
	}
	day, err := sched.ForDate(ctx, "2026-03-03")
	if err != nil || len(day) != 1 || day[0].DurationMinutes() != 60 {
		t.Fatalf("unexpected day listing %+v err=%v", day, err)
	}
	if _, err := sched.Get(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	overlap, err := sched.DetectOverlap(ctx, "2026-03-02", "07:15", 10, "")
	if err != nil || !overlap {
		t.Fatalf("expected overlap query to report a collision, got %v err=%v", overlap, err)
	}
}
