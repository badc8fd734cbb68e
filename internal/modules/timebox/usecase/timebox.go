package usecase

import (
	"context"
	"fmt"

	"timebox/internal/modules/timebox/domain"
	"timebox/internal/modules/timebox/dto"
	timeboxin "timebox/internal/modules/timebox/port/in"
	"timebox/internal/modules/timebox/service"
	apperrors "timebox/internal/platform/errors"
)

type Interactor struct {
	svc *service.Scheduler
}

func NewInteractor(svc *service.Scheduler) timeboxin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateInput) (dto.TimeboxOutput, error) {
	boxType, err := domain.ParseType(input.Type)
	if err != nil {
		return dto.TimeboxOutput{}, err
	}
	box, err := i.svc.Create(ctx, service.CreateInput{
		Date:     input.Date,
		Start:    input.Start,
		Duration: input.Duration,
		Type:     boxType,
		Title:    input.Title,
		AutoPair: input.AutoPair,
	})
	if err != nil {
		return dto.TimeboxOutput{}, err
	}
	return toOutput(box), nil
}

func (i *Interactor) Update(ctx context.Context, input dto.UpdateInput) (dto.TimeboxOutput, error) {
	patch := domain.Patch{Title: input.Title}
	if input.Status != nil {
		status, err := domain.ParseStatus(*input.Status)
		if err != nil {
			return dto.TimeboxOutput{}, err
		}
		patch.Status = &status
	}
	box, ok, err := i.svc.Update(ctx, input.ID, patch)
	return found(box, ok, err, input.ID)
}

func (i *Interactor) SetStatus(ctx context.Context, id, status string) (dto.TimeboxOutput, error) {
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return dto.TimeboxOutput{}, err
	}
	box, ok, err := i.svc.SetStatus(ctx, id, parsed)
	return found(box, ok, err, id)
}

func (i *Interactor) Remove(ctx context.Context, id string) error {
	removed, err := i.svc.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: timebox %s", apperrors.ErrNotFound, id)
	}
	return nil
}

func (i *Interactor) Reschedule(ctx context.Context, input dto.RescheduleInput) (dto.TimeboxOutput, error) {
	box, ok, err := i.svc.Reschedule(ctx, input.ID, input.Date, input.Start, input.Duration)
	return found(box, ok, err, input.ID)
}

func (i *Interactor) Pair(ctx context.Context, id string) (dto.TimeboxOutput, bool, error) {
	box, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.TimeboxOutput{}, false, err
	}
	if box.Type != domain.TypeInput {
		return dto.TimeboxOutput{}, false, fmt.Errorf("%w: only input timeboxes can be paired", apperrors.ErrInvalidInput)
	}
	if box.PairedID != "" {
		return dto.TimeboxOutput{}, false, fmt.Errorf("%w: timebox %s is already paired with %s", apperrors.ErrInvalidInput, id, box.PairedID)
	}
	paired, ok, err := i.svc.EnsurePairedOutput(ctx, id)
	if err != nil || !ok {
		return dto.TimeboxOutput{}, false, err
	}
	return toOutput(paired), true, nil
}

func (i *Interactor) DetectOverlap(ctx context.Context, input dto.OverlapInput) (bool, error) {
	return i.svc.DetectOverlap(ctx, input.Date, input.Start, input.Duration, input.ExcludeID)
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.TimeboxOutput, error) {
	box, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.TimeboxOutput{}, err
	}
	return toOutput(box), nil
}

func (i *Interactor) ForDate(ctx context.Context, date string) ([]dto.TimeboxOutput, error) {
	boxes, err := i.svc.ForDate(ctx, date)
	return toOutputs(boxes), err
}

func (i *Interactor) ForRange(ctx context.Context, date string, days int) ([]dto.TimeboxOutput, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", apperrors.ErrInvalidInput)
	}
	boxes, err := i.svc.ForRange(ctx, date, days)
	return toOutputs(boxes), err
}

func (i *Interactor) Upcoming(ctx context.Context) ([]dto.TimeboxOutput, error) {
	boxes, err := i.svc.Upcoming(ctx)
	return toOutputs(boxes), err
}

func (i *Interactor) AddLater(ctx context.Context, title, boxType string) (dto.LaterItemOutput, error) {
	parsed, err := domain.ParseType(boxType)
	if err != nil {
		return dto.LaterItemOutput{}, err
	}
	item, err := i.svc.AddLater(ctx, domain.LaterTitle(title, parsed), parsed)
	if err != nil {
		return dto.LaterItemOutput{}, err
	}
	return toLaterOutput(item), nil
}

func (i *Interactor) LaterList(ctx context.Context) ([]dto.LaterItemOutput, error) {
	items, err := i.svc.LaterList(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LaterItemOutput, 0, len(items))
	for _, item := range items {
		out = append(out, toLaterOutput(item))
	}
	return out, nil
}

func found(box domain.Timebox, ok bool, err error, id string) (dto.TimeboxOutput, error) {
	if err != nil {
		return dto.TimeboxOutput{}, err
	}
	if !ok {
		return dto.TimeboxOutput{}, fmt.Errorf("%w: timebox %s", apperrors.ErrNotFound, id)
	}
	return toOutput(box), nil
}

func toOutputs(boxes []domain.Timebox) []dto.TimeboxOutput {
	if boxes == nil {
		return nil
	}
	out := make([]dto.TimeboxOutput, 0, len(boxes))
	for _, box := range boxes {
		out = append(out, toOutput(box))
	}
	return out
}

func toOutput(box domain.Timebox) dto.TimeboxOutput {
	return dto.TimeboxOutput{
		ID:          box.ID,
		Date:        box.Date,
		Start:       box.Start,
		End:         box.End,
		Type:        string(box.Type),
		Title:       box.Title,
		Status:      string(box.Status),
		PairedID:    box.PairedID,
		AutoPaired:  box.AutoPaired,
		DurationMin: box.DurationMinutes(),
	}
}

func toLaterOutput(item domain.LaterItem) dto.LaterItemOutput {
	return dto.LaterItemOutput{ID: item.ID, Title: item.Title, Type: string(item.Type), CreatedAt: item.CreatedAt}
}
