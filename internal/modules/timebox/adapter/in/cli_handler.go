package in

import (
	"context"

	"timebox/internal/modules/timebox/dto"
	timeboxin "timebox/internal/modules/timebox/port/in"
)

type CLIHandler struct {
	usecase timeboxin.Usecase
}

func NewCLIHandler(usecase timeboxin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, date, start string, minutes int, boxType, title string, autoPair bool) (dto.TimeboxOutput, error) {
	return h.usecase.Create(ctx, dto.CreateInput{
		Date:     date,
		Start:    start,
		Duration: minutes,
		Type:     boxType,
		Title:    title,
		AutoPair: autoPair,
	})
}

func (h CLIHandler) List(ctx context.Context, date string, days int) ([]dto.TimeboxOutput, error) {
	if date == "" {
		return h.usecase.Upcoming(ctx)
	}
	return h.usecase.ForRange(ctx, date, days)
}

// Move reschedules a box. Blank date, blank start and zero minutes keep the
// box's current values.
func (h CLIHandler) Move(ctx context.Context, id, date, start string, minutes int) (dto.TimeboxOutput, error) {
	current, err := h.usecase.Get(ctx, id)
	if err != nil {
		return dto.TimeboxOutput{}, err
	}
	if date == "" {
		date = current.Date
	}
	if start == "" {
		start = current.Start
	}
	if minutes <= 0 {
		minutes = current.DurationMin
	}
	return h.usecase.Reschedule(ctx, dto.RescheduleInput{ID: id, Date: date, Start: start, Duration: minutes})
}

func (h CLIHandler) Remove(ctx context.Context, id string) error {
	return h.usecase.Remove(ctx, id)
}

func (h CLIHandler) SetStatus(ctx context.Context, id, status string) (dto.TimeboxOutput, error) {
	return h.usecase.SetStatus(ctx, id, status)
}

func (h CLIHandler) Rename(ctx context.Context, id, title string) (dto.TimeboxOutput, error) {
	return h.usecase.Update(ctx, dto.UpdateInput{ID: id, Title: &title})
}

func (h CLIHandler) Pair(ctx context.Context, id string) (dto.TimeboxOutput, bool, error) {
	return h.usecase.Pair(ctx, id)
}

func (h CLIHandler) Get(ctx context.Context, id string) (dto.TimeboxOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) LaterList(ctx context.Context) ([]dto.LaterItemOutput, error) {
	return h.usecase.LaterList(ctx)
}

func (h CLIHandler) AddLater(ctx context.Context, title, boxType string) (dto.LaterItemOutput, error) {
	return h.usecase.AddLater(ctx, title, boxType)
}
