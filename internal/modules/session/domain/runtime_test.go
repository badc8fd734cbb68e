package domain

import (
	"math/rand"
	"testing"
)

func startedRuntime(start int64, target int) Runtime {
	r := NewRuntime()
	r.Begin(Session{ID: "s1", TimeboxID: "tb1", StartEpoch: start, Type: "input"}, target)
	return r
}

func TestElapsedSecondsBounds(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		start := int64(1_700_000_000_000) + rng.Int63n(1_000_000)
		now := start + rng.Int63n(10_000_000)
		r := startedRuntime(start, 1800)
		r.AccumulatedPauseSec = rng.Intn(20_000)
		got := r.ElapsedSeconds(now)
		if got < 0 {
			t.Fatalf("elapsed must never be negative, got %d", got)
		}
		if upper := int((now - start) / 1000); got > upper {
			t.Fatalf("elapsed %d exceeds wall time %d", got, upper)
		}
	}
}

func TestElapsedBeforeStartAndWithoutStart(t *testing.T) {
	t.Parallel()
	r := startedRuntime(10_000, 60)
	if got := r.ElapsedSeconds(5_000); got != 0 {
		t.Fatalf("expected 0 before start, got %d", got)
	}
	idle := NewRuntime()
	if got := idle.ElapsedSeconds(99_999); got != 0 {
		t.Fatalf("expected 0 without start, got %d", got)
	}
	if got := idle.RemainingSeconds(99_999); got != 0 {
		t.Fatalf("expected 0 remaining when idle, got %d", got)
	}
}

func TestPauseResumeRoundTrip(t *testing.T) {
	t.Parallel()
	const start = int64(1_000_000)
	r := startedRuntime(start, 1500)

	t1 := start + 125_400
	before := r.ElapsedSeconds(t1)
	if !r.Pause(t1) {
		t.Fatalf("pause must apply while running")
	}
	if r.Pause(t1 + 10) {
		t.Fatalf("second pause must be a no-op")
	}
	t2 := t1 + 42_000
	if during := r.ElapsedSeconds(t2); during != before {
		t.Fatalf("elapsed must freeze while paused: before=%d during=%d", before, during)
	}
	if !r.Resume(t2) {
		t.Fatalf("resume must apply while paused")
	}
	if r.AccumulatedPauseSec != 42 {
		t.Fatalf("expected 42 paused seconds, got %d", r.AccumulatedPauseSec)
	}
	if after := r.ElapsedSeconds(t2); after != before {
		t.Fatalf("elapsed must be continuous across resume: before=%d after=%d", before, after)
	}
	if r.Resume(t2 + 1000) {
		t.Fatalf("resume while running must be a no-op")
	}
	if got := r.RemainingSeconds(t2); got != 1500-before {
		t.Fatalf("unexpected remaining %d", got)
	}
}

func TestPauseResumeAddsFlooredSeconds(t *testing.T) {
	t.Parallel()
	r := startedRuntime(1_000, 60)
	r.Pause(11_000)
	r.Resume(12_999)
	if r.AccumulatedPauseSec != 1 {
		t.Fatalf("expected floor of 1.999s, got %d", r.AccumulatedPauseSec)
	}
}

func TestUrgeBuffer(t *testing.T) {
	t.Parallel()
	r := startedRuntime(1_000, 60)
	if got := r.UpdateUrgeBuffer(5_000); got != UrgeBufferSec {
		t.Fatalf("unarmed buffer must report %d, got %d", UrgeBufferSec, got)
	}
	r.StartUrgeBuffer(10_000)
	if got := r.UpdateUrgeBuffer(70_500); got != 540 {
		t.Fatalf("expected 540 remaining, got %d", got)
	}
	if got := r.UpdateUrgeBuffer(10_000 + 700_000); got != 0 {
		t.Fatalf("expected countdown to clamp at 0, got %d", got)
	}
	r.RecordUrgeDelay(UrgeStayed)
	if r.UrgeDelays != 1 || r.UrgeBuffer.Active || r.UrgeBuffer.Outcome != UrgeStayed || r.UrgeBuffer.RemainingSec != UrgeBufferSec {
		t.Fatalf("unexpected runtime after urge delay %+v", r)
	}
	r.StartUrgeBuffer(20_000)
	r.ResetUrgeBuffer()
	if r.UrgeBuffer.Active || r.UrgeBuffer.Outcome != "" {
		t.Fatalf("reset must disarm without outcome, got %+v", r.UrgeBuffer)
	}
}

func TestAppendDiscomfortIsIdempotent(t *testing.T) {
	t.Parallel()
	r := NewRuntime()
	r.AppendDiscomfort("physical-water")
	r.AppendDiscomfort("physical-water")
	r.AppendDiscomfort("cognitive-ai")
	if len(r.Discomforts) != 2 {
		t.Fatalf("expected two unique tags, got %v", r.Discomforts)
	}
	snap := r.Snapshot()
	snap.Discomforts[0] = "changed"
	if r.Discomforts[0] != "physical-water" {
		t.Fatalf("snapshot must not alias runtime slices")
	}
}
