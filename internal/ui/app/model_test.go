package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	sessiondto "timebox/internal/modules/session/dto"
	settingsdto "timebox/internal/modules/settings/dto"
	statsdto "timebox/internal/modules/stats/dto"
	timeboxdto "timebox/internal/modules/timebox/dto"
	"timebox/internal/ui/components"
)

type fakeSession struct {
	runtime   sessiondto.RuntimeOutput
	notes     sessiondto.Notes
	outcomes  []string
	cancelled bool
}

func (f *fakeSession) Start(_ context.Context, in sessiondto.StartInput) (sessiondto.SessionOutput, error) {
	f.runtime = sessiondto.RuntimeOutput{Status: "running", SessionID: "s1", Type: in.Type, TargetSec: in.Minutes * 60, RemainingSec: in.Minutes * 60}
	return sessiondto.SessionOutput{ID: "s1", Type: in.Type}, nil
}

func (f *fakeSession) Pause(context.Context) bool {
	if f.runtime.Status != "running" {
		return false
	}
	f.runtime.Status = "paused"
	return true
}

func (f *fakeSession) Resume(context.Context) bool {
	if f.runtime.Status != "paused" {
		return false
	}
	f.runtime.Status = "running"
	return true
}

func (f *fakeSession) Stop(context.Context) (sessiondto.SessionOutput, bool, error) {
	f.runtime.Status = "awaiting-review"
	return sessiondto.SessionOutput{ID: "s1"}, true, nil
}

func (f *fakeSession) Finalize(_ context.Context, in sessiondto.FinalizeInput) (sessiondto.FinalizeOutput, bool, error) {
	f.notes = in.Notes
	f.runtime = sessiondto.RuntimeOutput{Status: "idle"}
	return sessiondto.FinalizeOutput{Session: sessiondto.SessionOutput{ID: "s1", Type: "output", DurationSec: 1500}}, true, nil
}

func (f *fakeSession) Cancel(context.Context) (bool, error) {
	f.cancelled = true
	return true, nil
}

func (f *fakeSession) Runtime(context.Context) sessiondto.RuntimeOutput { return f.runtime }

func (f *fakeSession) StartUrgeBuffer(context.Context) {
	f.runtime.UrgeActive = true
	f.runtime.UrgeRemainingSec = 600
}

func (f *fakeSession) UpdateUrgeBuffer(context.Context) int { return f.runtime.UrgeRemainingSec }

func (f *fakeSession) RecordUrgeDelay(_ context.Context, outcome string) error {
	f.outcomes = append(f.outcomes, outcome)
	f.runtime.UrgeActive = false
	return nil
}

type fakeStats struct{ calls int }

func (f *fakeStats) Recalculate(context.Context) (statsdto.StatsOutput, error) {
	f.calls++
	return statsdto.StatsOutput{TodayMinutes: 25, WeekMinutes: 90, IORatioLabel: "1.50", StreakDays: 3}, nil
}

type fakeStrategies struct{ ran []string }

func (f *fakeStrategies) EnabledStrategies(context.Context) ([]settingsdto.StrategyOutput, error) {
	return []settingsdto.StrategyOutput{{Category: "body", ID: "breath", Label: "Box breathing"}}, nil
}

func (f *fakeStrategies) RunStrategy(_ context.Context, category, id string) (settingsdto.StrategyOutput, error) {
	if category != "body" || id != "breath" {
		return settingsdto.StrategyOutput{}, errors.New("strategy not found")
	}
	f.ran = append(f.ran, category+"/"+id)
	return settingsdto.StrategyOutput{Category: category, ID: id, Label: "Box breathing"}, nil
}

type fakeLater struct{ titles []string }

func (f *fakeLater) AddLater(_ context.Context, title, boxType string) (timeboxdto.LaterItemOutput, error) {
	f.titles = append(f.titles, title)
	return timeboxdto.LaterItemOutput{ID: "l1", Title: title, Type: boxType}, nil
}

// step applies msg and then runs the returned command once, feeding its
// message back. Batches and ticks are not followed.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	out := cmd()
	switch out.(type) {
	case nil, tea.BatchMsg, tickMsg:
		return m
	}
	next, _ = m.Update(out)
	return next.(Model)
}

// apply runs Update and drops the command. Used where the command is a tick.
func apply(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func startedModel(t *testing.T) (Model, *fakeSession, *fakeStats, *fakeStrategies, *fakeLater) {
	t.Helper()
	session := &fakeSession{}
	stats := &fakeStats{}
	strategies := &fakeStrategies{}
	later := &fakeLater{}
	m := NewModel(Options{Type: "output", Minutes: 25, Title: "Write draft", Appearance: "dark"}, session, stats, strategies, later)
	m = apply(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = apply(m, m.startCmd()())
	if m.phase != phaseFocus {
		t.Fatalf("expected focus phase, got %v (%s)", m.phase, m.status)
	}
	return m, session, stats, strategies, later
}

func TestFocusPauseResume(t *testing.T) {
	m, session, _, _, _ := startedModel(t)
	m = step(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if session.runtime.Status != "paused" || m.runtime.Status != "paused" {
		t.Fatalf("expected paused, session=%s model=%s", session.runtime.Status, m.runtime.Status)
	}
	m = step(t, m, keyRunes("p"))
	if m.runtime.Status != "running" {
		t.Fatalf("expected running after resume, got %s", m.runtime.Status)
	}
}

func TestFocusUrgeBufferOutcome(t *testing.T) {
	m, session, _, _, _ := startedModel(t)
	m = step(t, m, keyRunes("y"))
	if len(session.outcomes) != 0 {
		t.Fatalf("outcome recorded without an active buffer")
	}
	m = step(t, m, keyRunes("u"))
	if !m.runtime.UrgeActive {
		t.Fatalf("expected urge buffer active")
	}
	m = step(t, m, keyRunes("y"))
	if len(session.outcomes) != 1 || session.outcomes[0] != "stayed" {
		t.Fatalf("unexpected outcomes %v", session.outcomes)
	}
	if m.status != "urge stayed" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestFocusTimeUpAlertsOnce(t *testing.T) {
	m, session, _, _, _ := startedModel(t)
	session.runtime.RemainingSec = 0
	session.runtime.ElapsedSec = session.runtime.TargetSec
	m = apply(m, tickMsg{})
	if !m.alerted || !strings.Contains(m.status, "time is up") {
		t.Fatalf("expected time-up alert, status=%q", m.status)
	}
	m.status = "focus"
	m = apply(m, tickMsg{})
	if m.status != "focus" {
		t.Fatalf("alert repeated: %q", m.status)
	}
}

func TestPaletteCommands(t *testing.T) {
	m, _, _, strategies, later := startedModel(t)
	m = apply(m, m.loadStrategiesCmd()())

	m = step(t, m, components.PaletteSubmitMsg{Input: "discomfort body breath"})
	if len(strategies.ran) != 1 || m.status != "strategy: Box breathing" {
		t.Fatalf("strategy not run: ran=%v status=%q", strategies.ran, m.status)
	}
	m = step(t, m, components.PaletteSubmitMsg{Input: "discomfort body"})
	if !strings.HasPrefix(m.status, "usage:") {
		t.Fatalf("expected usage hint, got %q", m.status)
	}
	m = step(t, m, components.PaletteSubmitMsg{Input: "later  check the  inbox "})
	if len(later.titles) != 1 || later.titles[0] != "check the  inbox" {
		t.Fatalf("unexpected later titles %q", later.titles)
	}
	m = step(t, m, components.PaletteSubmitMsg{Input: "dance"})
	if m.status != "unknown command: dance" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestStopReviewFinalize(t *testing.T) {
	m, session, stats, _, _ := startedModel(t)
	m = step(t, m, keyRunes("s"))
	if m.phase != phaseReview {
		t.Fatalf("expected review phase, got %v", m.phase)
	}
	m = step(t, m, components.ReviewSubmitMsg{Learned: "tables", Next: "chapter 3"})
	if m.phase != phaseDone {
		t.Fatalf("expected done phase, got %v (%s)", m.phase, m.status)
	}
	if session.notes.Learned != "tables" || session.notes.Next != "chapter 3" {
		t.Fatalf("notes not forwarded: %+v", session.notes)
	}
	if stats.calls != 1 {
		t.Fatalf("expected stats recalculated once, got %d", stats.calls)
	}
	view := m.View()
	if !strings.Contains(view, "Session complete") || !strings.Contains(view, "streak 3d") {
		t.Fatalf("unexpected summary view:\n%s", view)
	}
}

func TestReviewEscSavesWithoutNotes(t *testing.T) {
	m, session, _, _, _ := startedModel(t)
	m = step(t, m, keyRunes("s"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.phase != phaseDone {
		t.Fatalf("expected done phase, got %v", m.phase)
	}
	if session.notes != (sessiondto.Notes{}) {
		t.Fatalf("expected empty notes, got %+v", session.notes)
	}
}

func TestQuitCancelsSession(t *testing.T) {
	m, session, _, _, _ := startedModel(t)
	next, cmd := m.Update(keyRunes("q"))
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("expected cancel command")
	}
	msg := cmd()
	if _, ok := msg.(cancelledMsg); !ok {
		t.Fatalf("expected cancelledMsg, got %T", msg)
	}
	if !session.cancelled {
		t.Fatalf("session not cancelled")
	}
	if _, quit := m.Update(msg); quit == nil {
		t.Fatalf("expected quit after cancel")
	}
}
