package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"timebox/internal/modules/session/domain"
	sessionout "timebox/internal/modules/session/port/out"
	timeboxdomain "timebox/internal/modules/timebox/domain"
	"timebox/internal/platform/clock"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/platform/id"
	"timebox/internal/platform/logging"
)

type StartInput struct {
	TimeboxID   string
	Type        timeboxdomain.Type
	DurationSec int
	StartedAt   time.Time
	Notes       *domain.Notes
}

// SessionService owns the single focus runtime and the persisted session
// log. Runtime operations whose preconditions do not hold are no-ops and
// report false.
type SessionService struct {
	mu      sync.Mutex
	runtime domain.Runtime
	idGen   id.Generator
	repo    sessionout.Repository
	journal sessionout.ReviewJournal
	logger  hclog.Logger
}

func NewSessionService(idGen id.Generator, repo sessionout.Repository, journal sessionout.ReviewJournal, logger hclog.Logger) *SessionService {
	return &SessionService{
		runtime: domain.NewRuntime(),
		idGen:   idGen,
		repo:    repo,
		journal: journal,
		logger:  logging.OrNull(logger).Named("session"),
	}
}

func (s *SessionService) Start(ctx context.Context, input StartInput, now time.Time) (domain.Session, error) {
	if input.Type != timeboxdomain.TypeInput && input.Type != timeboxdomain.TypeOutput {
		return domain.Session{}, fmt.Errorf("%w: unknown session type %q", apperrors.ErrInvalidInput, input.Type)
	}
	if input.DurationSec <= 0 {
		return domain.Session{}, fmt.Errorf("%w: duration must be positive", apperrors.ErrInvalidInput)
	}
	startedAt := input.StartedAt
	if startedAt.IsZero() {
		startedAt = now
	}
	timeboxID := input.TimeboxID
	if timeboxID == "" {
		timeboxID = s.idGen.New()
	}
	session := domain.Session{
		ID:          s.idGen.New(),
		TimeboxID:   timeboxID,
		StartEpoch:  clock.Epoch(startedAt),
		Type:        input.Type,
		Discomforts: []string{},
	}
	if input.Notes != nil {
		session.Notes = *input.Notes
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sessions, err := s.load(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	sessions = append(sessions, session)
	if err := s.repo.SaveSessions(ctx, sessions); err != nil {
		return domain.Session{}, err
	}
	s.runtime.Begin(session, input.DurationSec)
	return session, nil
}

func (s *SessionService) Pause(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runtime.Pause(clock.Epoch(now))
}

func (s *SessionService) Resume(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runtime.Resume(clock.Epoch(now))
}

func (s *SessionService) ElapsedSeconds(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runtime.ElapsedSeconds(clock.Epoch(now))
}

func (s *SessionService) RemainingSeconds(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runtime.RemainingSeconds(clock.Epoch(now))
}

// Runtime returns a copy of the runtime state.
func (s *SessionService) Runtime() domain.Runtime {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runtime.Snapshot()
}

// Stop stamps the end of the active session and moves it to review.
func (s *SessionService) Stop(ctx context.Context, now time.Time) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runtime.SessionID == "" {
		return domain.Session{}, false, nil
	}
	nowMs := clock.Epoch(now)
	stopped, ok, err := s.mutateCurrent(ctx, func(session *domain.Session) {
		session.EndEpoch = nowMs
		session.DurationSec = s.runtime.ElapsedSeconds(nowMs)
		session.UrgeDelays = s.runtime.UrgeDelays
		session.Discomforts = append([]string{}, s.runtime.Discomforts...)
	})
	if err != nil || !ok {
		return domain.Session{}, false, err
	}
	s.runtime.Status = domain.StatusAwaitingReview
	return stopped, true, nil
}

// Finalize attaches the review and completes the session. A journal
// failure is logged and leaves the finalized session in place.
func (s *SessionService) Finalize(ctx context.Context, notes domain.Notes, assets []string, title string) (domain.Session, string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runtime.SessionID == "" {
		return domain.Session{}, "", false, nil
	}
	finalized, ok, err := s.mutateCurrent(ctx, func(session *domain.Session) {
		session.Notes = notes
		session.MinOutputAssets = nil
		if len(assets) > 0 {
			session.MinOutputAssets = append([]string(nil), assets...)
		}
		session.Completed = true
	})
	if err != nil || !ok {
		return domain.Session{}, "", false, err
	}
	s.runtime.Reset()

	var path string
	if s.journal != nil {
		path, err = s.journal.Write(ctx, finalized, title)
		if err != nil {
			s.logger.Warn("review journal write failed", "session", finalized.ID, "error", err)
			path = ""
		}
	}
	return finalized, path, true, nil
}

// Cancel discards the in-progress session entirely.
func (s *SessionService) Cancel(ctx context.Context) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runtime.SessionID == "" {
		return domain.Session{}, false, nil
	}
	sessions, err := s.load(ctx)
	if err != nil {
		return domain.Session{}, false, err
	}
	idx := domain.IndexOf(sessions, s.runtime.SessionID)
	var cancelled domain.Session
	if idx >= 0 {
		cancelled = sessions[idx]
		sessions = append(sessions[:idx], sessions[idx+1:]...)
		if err := s.repo.SaveSessions(ctx, sessions); err != nil {
			return domain.Session{}, false, err
		}
	}
	s.runtime.Reset()
	return cancelled, true, nil
}

func (s *SessionService) StartUrgeBuffer(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runtime.StartUrgeBuffer(clock.Epoch(now))
}

func (s *SessionService) UpdateUrgeBuffer(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runtime.UpdateUrgeBuffer(clock.Epoch(now))
}

func (s *SessionService) ResetUrgeBuffer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runtime.ResetUrgeBuffer()
}

// RecordUrgeDelay resolves the urge buffer and stamps the outcome on the
// current session, if there is one.
func (s *SessionService) RecordUrgeDelay(ctx context.Context, outcome domain.UrgeOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runtime.RecordUrgeDelay(outcome)
	if s.runtime.SessionID == "" {
		return nil
	}
	delays := s.runtime.UrgeDelays
	_, _, err := s.mutateCurrent(ctx, func(session *domain.Session) {
		session.UrgeDelayOutcome = outcome
		session.UrgeDelays = delays
	})
	return err
}

func (s *SessionService) AppendDiscomfort(tag string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runtime.AppendDiscomfort(tag)
}

func (s *SessionService) SetNotes(ctx context.Context, sessionID string, notes domain.Notes) (bool, error) {
	return s.mutate(ctx, sessionID, func(session *domain.Session) {
		session.Notes = notes
	})
}

func (s *SessionService) UpdateAssets(ctx context.Context, sessionID string, assets []string) (bool, error) {
	return s.mutate(ctx, sessionID, func(session *domain.Session) {
		session.MinOutputAssets = append([]string(nil), assets...)
	})
}

// Current returns the session the runtime points at.
func (s *SessionService) Current(ctx context.Context) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runtime.SessionID == "" {
		return domain.Session{}, false, nil
	}
	sessions, err := s.load(ctx)
	if err != nil {
		return domain.Session{}, false, err
	}
	idx := domain.IndexOf(sessions, s.runtime.SessionID)
	if idx < 0 {
		return domain.Session{}, false, nil
	}
	return sessions[idx], true, nil
}

func (s *SessionService) List(ctx context.Context) ([]domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *SessionService) mutate(ctx context.Context, sessionID string, fn func(*domain.Session)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok, err := s.mutateByID(ctx, sessionID, fn)
	return ok, err
}

func (s *SessionService) mutateCurrent(ctx context.Context, fn func(*domain.Session)) (domain.Session, bool, error) {
	return s.mutateByID(ctx, s.runtime.SessionID, fn)
}

func (s *SessionService) mutateByID(ctx context.Context, sessionID string, fn func(*domain.Session)) (domain.Session, bool, error) {
	sessions, err := s.load(ctx)
	if err != nil {
		return domain.Session{}, false, err
	}
	idx := domain.IndexOf(sessions, sessionID)
	if idx < 0 {
		return domain.Session{}, false, nil
	}
	fn(&sessions[idx])
	if err := s.repo.SaveSessions(ctx, sessions); err != nil {
		return domain.Session{}, false, err
	}
	return sessions[idx], true, nil
}

func (s *SessionService) load(ctx context.Context) ([]domain.Session, error) {
	sessions, err := s.repo.LoadSessions(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NormalizeSessions(sessions), nil
}
