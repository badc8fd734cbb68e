package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"timebox/internal/modules/session/domain"
	"timebox/internal/modules/session/service"
	timeboxdomain "timebox/internal/modules/timebox/domain"
	apperrors "timebox/internal/platform/errors"
)

type seqID struct{ n int }

func (g *seqID) New() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type memoryRepo struct{ sessions []domain.Session }

func (r *memoryRepo) LoadSessions(context.Context) ([]domain.Session, error) {
	out := make([]domain.Session, len(r.sessions))
	copy(out, r.sessions)
	return out, nil
}

func (r *memoryRepo) SaveSessions(_ context.Context, sessions []domain.Session) error {
	r.sessions = append([]domain.Session(nil), sessions...)
	return nil
}

type recordingJournal struct {
	titles []string
	err    error
}

func (j *recordingJournal) Write(_ context.Context, session domain.Session, title string) (string, error) {
	j.titles = append(j.titles, title)
	if j.err != nil {
		return "", j.err
	}
	return "/reviews/" + session.ID + ".md", nil
}

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newService() (*service.SessionService, *memoryRepo, *recordingJournal) {
	repo := &memoryRepo{}
	journal := &recordingJournal{}
	return service.NewSessionService(&seqID{}, repo, journal, nil), repo, journal
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()
	svc, repo, journal := newService()
	ctx := context.Background()

	session, err := svc.Start(ctx, service.StartInput{TimeboxID: "tb-1", Type: timeboxdomain.TypeInput, DurationSec: 1800}, t0)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(repo.sessions) != 1 || session.TimeboxID != "tb-1" || session.StartEpoch != t0.UnixMilli() {
		t.Fatalf("unexpected started session %+v", session)
	}
	if svc.Runtime().Status != domain.StatusRunning {
		t.Fatalf("expected running runtime")
	}

	svc.Pause(t0.Add(10 * time.Minute))
	svc.Resume(t0.Add(15 * time.Minute))
	svc.AppendDiscomfort("physical-water")
	svc.AppendDiscomfort("physical-water")
	if got := svc.RemainingSeconds(t0.Add(20 * time.Minute)); got != 15*60 {
		t.Fatalf("expected 15 minutes remaining, got %d", got)
	}

	stopped, ok, err := svc.Stop(ctx, t0.Add(35*time.Minute))
	if err != nil || !ok {
		t.Fatalf("stop: ok=%v err=%v", ok, err)
	}
	if stopped.DurationSec != 30*60 || stopped.EndEpoch != t0.Add(35*time.Minute).UnixMilli() {
		t.Fatalf("unexpected stopped session %+v", stopped)
	}
	if len(stopped.Discomforts) != 1 || stopped.Completed {
		t.Fatalf("unexpected stopped session %+v", stopped)
	}
	if svc.Runtime().Status != domain.StatusAwaitingReview {
		t.Fatalf("expected awaiting review")
	}

	finalized, path, ok, err := svc.Finalize(ctx, domain.Notes{Learned: "maps", Next: "slices"}, []string{}, "Go maps")
	if err != nil || !ok {
		t.Fatalf("finalize: ok=%v err=%v", ok, err)
	}
	if !finalized.Completed || finalized.MinOutputAssets != nil || finalized.Notes.Learned != "maps" {
		t.Fatalf("unexpected finalized session %+v", finalized)
	}
	if path == "" || len(journal.titles) != 1 || journal.titles[0] != "Go maps" {
		t.Fatalf("expected journal entry, got path=%q titles=%v", path, journal.titles)
	}
	if rt := svc.Runtime(); rt.Status != domain.StatusIdle || rt.SessionID != "" || rt.TimeboxID != "" {
		t.Fatalf("expected idle runtime, got %+v", rt)
	}
	if !repo.sessions[0].Completed {
		t.Fatalf("expected completion to be persisted")
	}
}

func TestStartGeneratesTimeboxIDAndValidates(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService()
	ctx := context.Background()
	session, err := svc.Start(ctx, service.StartInput{Type: timeboxdomain.TypeOutput, DurationSec: 60}, t0)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.TimeboxID == "" || session.TimeboxID == session.ID {
		t.Fatalf("expected a distinct generated timebox id, got %+v", session)
	}
	if _, err := svc.Start(ctx, service.StartInput{Type: "lecture", DurationSec: 60}, t0); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid type, got %v", err)
	}
	if _, err := svc.Start(ctx, service.StartInput{Type: timeboxdomain.TypeInput}, t0); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid duration, got %v", err)
	}
}

func TestCancelDeletesSession(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newService()
	ctx := context.Background()
	if _, err := svc.Start(ctx, service.StartInput{TimeboxID: "keep", Type: timeboxdomain.TypeInput, DurationSec: 60}, t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, _, _, err := svc.Finalize(ctx, domain.Notes{}, []string{"draft.md"}, ""); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if _, err := svc.Start(ctx, service.StartInput{TimeboxID: "drop", Type: timeboxdomain.TypeInput, DurationSec: 60}, t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancelled, ok, err := svc.Cancel(ctx)
	if err != nil || !ok || cancelled.TimeboxID != "drop" {
		t.Fatalf("cancel: %+v ok=%v err=%v", cancelled, ok, err)
	}
	if len(repo.sessions) != 1 || repo.sessions[0].TimeboxID != "keep" {
		t.Fatalf("expected only the completed session to remain, got %+v", repo.sessions)
	}
	if len(repo.sessions[0].MinOutputAssets) != 1 {
		t.Fatalf("expected assets kept on finalized session")
	}
	if svc.Runtime().Status != domain.StatusIdle {
		t.Fatalf("expected idle after cancel")
	}
}

func TestOperationsWithoutSessionAreNoOps(t *testing.T) {
	t.Parallel()
	svc, repo, journal := newService()
	ctx := context.Background()
	if svc.Pause(t0) || svc.Resume(t0) {
		t.Fatalf("pause/resume must be no-ops when idle")
	}
	if _, ok, err := svc.Stop(ctx, t0); ok || err != nil {
		t.Fatalf("stop must be a no-op, ok=%v err=%v", ok, err)
	}
	if _, _, ok, err := svc.Finalize(ctx, domain.Notes{}, nil, ""); ok || err != nil {
		t.Fatalf("finalize must be a no-op, ok=%v err=%v", ok, err)
	}
	if _, ok, err := svc.Cancel(ctx); ok || err != nil {
		t.Fatalf("cancel must be a no-op, ok=%v err=%v", ok, err)
	}
	if err := svc.RecordUrgeDelay(ctx, domain.UrgeLeft); err != nil {
		t.Fatalf("urge delay without session: %v", err)
	}
	if len(repo.sessions) != 0 || len(journal.titles) != 0 {
		t.Fatalf("no-ops must not persist anything")
	}
	if svc.Runtime().UrgeDelays != 1 {
		t.Fatalf("runtime counter still advances without a session")
	}
}

func TestRecordUrgeDelayStampsCurrentSession(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newService()
	ctx := context.Background()
	if _, err := svc.Start(ctx, service.StartInput{Type: timeboxdomain.TypeInput, DurationSec: 600}, t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	svc.StartUrgeBuffer(t0.Add(time.Minute))
	if got := svc.UpdateUrgeBuffer(t0.Add(3 * time.Minute)); got != 480 {
		t.Fatalf("expected 480 seconds left, got %d", got)
	}
	if err := svc.RecordUrgeDelay(ctx, domain.UrgeStayed); err != nil {
		t.Fatalf("record: %v", err)
	}
	current, ok, err := svc.Current(ctx)
	if err != nil || !ok {
		t.Fatalf("current: ok=%v err=%v", ok, err)
	}
	if current.UrgeDelays != 1 || current.UrgeDelayOutcome != domain.UrgeStayed {
		t.Fatalf("unexpected current session %+v", current)
	}
	if repo.sessions[0].UrgeDelays != 1 {
		t.Fatalf("expected urge delay persisted")
	}
}

func TestJournalFailureDoesNotUndoFinalize(t *testing.T) {
	t.Parallel()
	svc, repo, journal := newService()
	journal.err = errors.New("disk full")
	ctx := context.Background()
	if _, err := svc.Start(ctx, service.StartInput{Type: timeboxdomain.TypeInput, DurationSec: 60}, t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, path, ok, err := svc.Finalize(ctx, domain.Notes{}, nil, "")
	if err != nil || !ok || path != "" {
		t.Fatalf("expected finalize to succeed without a path, path=%q ok=%v err=%v", path, ok, err)
	}
	if !repo.sessions[0].Completed {
		t.Fatalf("expected session to stay completed")
	}
}

func TestSetNotesAndAssets(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newService()
	ctx := context.Background()
	session, _ := svc.Start(ctx, service.StartInput{Type: timeboxdomain.TypeOutput, DurationSec: 60}, t0)
	if ok, err := svc.SetNotes(ctx, session.ID, domain.Notes{Stuck: "tests"}); err != nil || !ok {
		t.Fatalf("set notes: ok=%v err=%v", ok, err)
	}
	if ok, err := svc.UpdateAssets(ctx, session.ID, []string{"post.md"}); err != nil || !ok {
		t.Fatalf("update assets: ok=%v err=%v", ok, err)
	}
	if ok, _ := svc.SetNotes(ctx, "missing", domain.Notes{}); ok {
		t.Fatalf("unknown session must be a no-op")
	}
	if repo.sessions[0].Notes.Stuck != "tests" || repo.sessions[0].MinOutputAssets[0] != "post.md" {
		t.Fatalf("unexpected persisted session %+v", repo.sessions[0])
	}
}
