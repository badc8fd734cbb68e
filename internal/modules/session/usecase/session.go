package usecase

import (
	"context"
	"errors"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	"timebox/internal/modules/session/domain"
	sessiondto "timebox/internal/modules/session/dto"
	sessionin "timebox/internal/modules/session/port/in"
	"timebox/internal/modules/session/service"
	timeboxdomain "timebox/internal/modules/timebox/domain"
	timeboxin "timebox/internal/modules/timebox/port/in"
	"timebox/internal/platform/clock"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/platform/logging"
)

// Interactor runs focus sessions and keeps the backing timebox's status in
// step: running on start, done on finalize, planned again on cancel.
type Interactor struct {
	svc       *service.SessionService
	timeboxes timeboxin.Usecase
	clock     clock.Clock
	logger    hclog.Logger
}

func NewInteractor(svc *service.SessionService, timeboxes timeboxin.Usecase, clk clock.Clock, logger hclog.Logger) sessionin.Usecase {
	return &Interactor{svc: svc, timeboxes: timeboxes, clock: clk, logger: logging.OrNull(logger).Named("session")}
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.SessionOutput, error) {
	boxType, err := timeboxdomain.ParseType(input.Type)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	if input.Minutes <= 0 {
		return sessiondto.SessionOutput{}, fmt.Errorf("%w: minutes must be positive", apperrors.ErrInvalidInput)
	}
	session, err := i.svc.Start(ctx, service.StartInput{
		TimeboxID:   input.TimeboxID,
		Type:        boxType,
		DurationSec: input.Minutes * 60,
	}, i.clock.Now())
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	i.setBoxStatus(ctx, input.TimeboxID, string(timeboxdomain.StatusRunning))
	return toOutput(session), nil
}

func (i *Interactor) Pause(context.Context) bool {
	return i.svc.Pause(i.clock.Now())
}

func (i *Interactor) Resume(context.Context) bool {
	return i.svc.Resume(i.clock.Now())
}

func (i *Interactor) Stop(ctx context.Context) (sessiondto.SessionOutput, bool, error) {
	session, ok, err := i.svc.Stop(ctx, i.clock.Now())
	if err != nil || !ok {
		return sessiondto.SessionOutput{}, ok, err
	}
	return toOutput(session), true, nil
}

func (i *Interactor) Finalize(ctx context.Context, input sessiondto.FinalizeInput) (sessiondto.FinalizeOutput, bool, error) {
	runtime := i.svc.Runtime()
	title := i.boxTitle(ctx, runtime.TimeboxID)
	notes := domain.Notes{Learned: input.Notes.Learned, Stuck: input.Notes.Stuck, Next: input.Notes.Next}
	session, path, ok, err := i.svc.Finalize(ctx, notes, input.Assets, title)
	if err != nil || !ok {
		return sessiondto.FinalizeOutput{}, ok, err
	}
	i.setBoxStatus(ctx, session.TimeboxID, string(timeboxdomain.StatusDone))
	return sessiondto.FinalizeOutput{Session: toOutput(session), JournalPath: path}, true, nil
}

func (i *Interactor) Cancel(ctx context.Context) (bool, error) {
	runtime := i.svc.Runtime()
	_, ok, err := i.svc.Cancel(ctx)
	if err != nil || !ok {
		return ok, err
	}
	i.setBoxStatus(ctx, runtime.TimeboxID, string(timeboxdomain.StatusPlanned))
	return true, nil
}

func (i *Interactor) Runtime(context.Context) sessiondto.RuntimeOutput {
	now := clock.Epoch(i.clock.Now())
	r := i.svc.Runtime()
	return sessiondto.RuntimeOutput{
		Status:           string(r.Status),
		SessionID:        r.SessionID,
		TimeboxID:        r.TimeboxID,
		Type:             string(r.Type),
		TargetSec:        r.TargetDurationSec,
		ElapsedSec:       r.ElapsedSeconds(now),
		RemainingSec:     r.RemainingSeconds(now),
		UrgeActive:       r.UrgeBuffer.Active,
		UrgeRemainingSec: r.UrgeBuffer.RemainingSec,
		UrgeOutcome:      string(r.UrgeBuffer.Outcome),
		UrgeDelays:       r.UrgeDelays,
		Discomforts:      r.Discomforts,
	}
}

func (i *Interactor) StartUrgeBuffer(context.Context) {
	i.svc.StartUrgeBuffer(i.clock.Now())
}

func (i *Interactor) UpdateUrgeBuffer(context.Context) int {
	return i.svc.UpdateUrgeBuffer(i.clock.Now())
}

func (i *Interactor) ResetUrgeBuffer(context.Context) {
	i.svc.ResetUrgeBuffer()
}

func (i *Interactor) RecordUrgeDelay(ctx context.Context, outcome string) error {
	parsed, err := domain.ParseUrgeOutcome(outcome)
	if err != nil {
		return err
	}
	return i.svc.RecordUrgeDelay(ctx, parsed)
}

func (i *Interactor) AppendDiscomfort(_ context.Context, tag string) {
	i.svc.AppendDiscomfort(tag)
}

func (i *Interactor) SetNotes(ctx context.Context, sessionID string, notes sessiondto.Notes) error {
	ok, err := i.svc.SetNotes(ctx, sessionID, domain.Notes{Learned: notes.Learned, Stuck: notes.Stuck, Next: notes.Next})
	return notFound(ok, err, sessionID)
}

func (i *Interactor) UpdateAssets(ctx context.Context, sessionID string, assets []string) error {
	ok, err := i.svc.UpdateAssets(ctx, sessionID, assets)
	return notFound(ok, err, sessionID)
}

func (i *Interactor) Current(ctx context.Context) (sessiondto.SessionOutput, bool, error) {
	session, ok, err := i.svc.Current(ctx)
	if err != nil || !ok {
		return sessiondto.SessionOutput{}, ok, err
	}
	return toOutput(session), true, nil
}

func (i *Interactor) List(ctx context.Context) ([]sessiondto.SessionOutput, error) {
	sessions, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.SessionOutput, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toOutput(session))
	}
	return out, nil
}

// setBoxStatus is best effort: sessions started without a scheduled box
// carry a generated id that matches nothing.
func (i *Interactor) setBoxStatus(ctx context.Context, timeboxID, status string) {
	if i.timeboxes == nil || timeboxID == "" {
		return
	}
	if _, err := i.timeboxes.SetStatus(ctx, timeboxID, status); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		i.logger.Warn("update timebox status failed", "timebox", timeboxID, "status", status, "error", err)
	}
}

func (i *Interactor) boxTitle(ctx context.Context, timeboxID string) string {
	if i.timeboxes == nil || timeboxID == "" {
		return ""
	}
	box, err := i.timeboxes.Get(ctx, timeboxID)
	if err != nil {
		return ""
	}
	return box.Title
}

func notFound(ok bool, err error, sessionID string) error {
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
	}
	return nil
}

func toOutput(s domain.Session) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		ID:               s.ID,
		TimeboxID:        s.TimeboxID,
		StartEpoch:       s.StartEpoch,
		EndEpoch:         s.EndEpoch,
		DurationSec:      s.DurationSec,
		Type:             string(s.Type),
		UrgeDelays:       s.UrgeDelays,
		Discomforts:      append([]string(nil), s.Discomforts...),
		Notes:            sessiondto.Notes{Learned: s.Notes.Learned, Stuck: s.Notes.Stuck, Next: s.Notes.Next},
		Assets:           append([]string(nil), s.MinOutputAssets...),
		Completed:        s.Completed,
		UrgeDelayOutcome: string(s.UrgeDelayOutcome),
	}
}
