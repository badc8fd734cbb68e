package domain

import timeboxdomain "timebox/internal/modules/timebox/domain"

// UrgeBufferSec is the length of the deliberate delay offered when the
// user wants to abandon a session.
const UrgeBufferSec = 600

type Status string

const (
	StatusIdle           Status = "idle"
	StatusRunning        Status = "running"
	StatusPaused         Status = "paused"
	StatusAwaitingReview Status = "awaiting-review"
)

type UrgeBuffer struct {
	Active       bool
	StartedAt    int64
	RemainingSec int
	Outcome      UrgeOutcome
}

// Runtime is the in-process state of the focus session being run. Epoch
// fields are milliseconds; zero means unset.
type Runtime struct {
	Status              Status
	SessionID           string
	TimeboxID           string
	Type                timeboxdomain.Type
	TargetDurationSec   int
	StartEpoch          int64
	PauseEpoch          int64
	AccumulatedPauseSec int
	UrgeBuffer          UrgeBuffer
	UrgeDelays          int
	Discomforts         []string
}

func NewRuntime() Runtime {
	return Runtime{
		Status:      StatusIdle,
		Type:        timeboxdomain.TypeInput,
		UrgeBuffer:  UrgeBuffer{RemainingSec: UrgeBufferSec},
		Discomforts: []string{},
	}
}

// Begin points the runtime at a freshly started session and clears pause
// and urge bookkeeping.
func (r *Runtime) Begin(session Session, targetDurationSec int) {
	*r = NewRuntime()
	r.Status = StatusRunning
	r.SessionID = session.ID
	r.TimeboxID = session.TimeboxID
	r.Type = session.Type
	r.TargetDurationSec = targetDurationSec
	r.StartEpoch = session.StartEpoch
}

func (r *Runtime) Reset() {
	*r = NewRuntime()
}

// ElapsedSeconds derives focused time from absolute epochs so irregular
// polling never drifts. It is never negative.
func (r Runtime) ElapsedSeconds(now int64) int {
	if r.StartEpoch == 0 {
		return 0
	}
	base := now - r.StartEpoch
	if base < 0 {
		base = 0
	}
	totalPaused := int64(r.AccumulatedPauseSec) * 1000
	if r.Status == StatusPaused && r.PauseEpoch != 0 {
		totalPaused += now - r.PauseEpoch
	}
	elapsed := floorDiv(base-totalPaused, 1000)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed)
}

func (r Runtime) RemainingSeconds(now int64) int {
	remaining := r.TargetDurationSec - r.ElapsedSeconds(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (r *Runtime) Pause(now int64) bool {
	if r.Status != StatusRunning {
		return false
	}
	r.Status = StatusPaused
	r.PauseEpoch = now
	return true
}

func (r *Runtime) Resume(now int64) bool {
	if r.Status != StatusPaused || r.PauseEpoch == 0 {
		return false
	}
	r.AccumulatedPauseSec += int(floorDiv(now-r.PauseEpoch, 1000))
	r.PauseEpoch = 0
	r.Status = StatusRunning
	return true
}

func (r *Runtime) StartUrgeBuffer(now int64) {
	r.UrgeBuffer = UrgeBuffer{Active: true, StartedAt: now, RemainingSec: UrgeBufferSec}
}

// UpdateUrgeBuffer recomputes the countdown. An unarmed buffer reports the
// full delay.
func (r *Runtime) UpdateUrgeBuffer(now int64) int {
	if !r.UrgeBuffer.Active || r.UrgeBuffer.StartedAt == 0 {
		return UrgeBufferSec
	}
	remaining := UrgeBufferSec - int(floorDiv(now-r.UrgeBuffer.StartedAt, 1000))
	if remaining < 0 {
		remaining = 0
	}
	r.UrgeBuffer.RemainingSec = remaining
	return remaining
}

func (r *Runtime) ResetUrgeBuffer() {
	r.UrgeBuffer = UrgeBuffer{RemainingSec: UrgeBufferSec}
}

// RecordUrgeDelay counts a resolved urge and disarms the buffer.
func (r *Runtime) RecordUrgeDelay(outcome UrgeOutcome) {
	r.UrgeDelays++
	r.UrgeBuffer = UrgeBuffer{RemainingSec: UrgeBufferSec, Outcome: outcome}
}

// AppendDiscomfort adds tag once.
func (r *Runtime) AppendDiscomfort(tag string) bool {
	for _, existing := range r.Discomforts {
		if existing == tag {
			return false
		}
	}
	r.Discomforts = append(r.Discomforts, tag)
	return true
}

// Snapshot returns a copy that shares no slices with r.
func (r Runtime) Snapshot() Runtime {
	r.Discomforts = append([]string{}, r.Discomforts...)
	return r
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
