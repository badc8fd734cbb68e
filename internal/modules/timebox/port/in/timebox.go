package in

import (
	"context"

	"timebox/internal/modules/timebox/dto"
)

type Usecase interface {
	Create(ctx context.Context, input dto.CreateInput) (dto.TimeboxOutput, error)
	Update(ctx context.Context, input dto.UpdateInput) (dto.TimeboxOutput, error)
	SetStatus(ctx context.Context, id, status string) (dto.TimeboxOutput, error)
	Remove(ctx context.Context, id string) error
	Reschedule(ctx context.Context, input dto.RescheduleInput) (dto.TimeboxOutput, error)
	Pair(ctx context.Context, id string) (dto.TimeboxOutput, bool, error)
	DetectOverlap(ctx context.Context, input dto.OverlapInput) (bool, error)
	Get(ctx context.Context, id string) (dto.TimeboxOutput, error)
	ForDate(ctx context.Context, date string) ([]dto.TimeboxOutput, error)
	ForRange(ctx context.Context, date string, days int) ([]dto.TimeboxOutput, error)
	Upcoming(ctx context.Context) ([]dto.TimeboxOutput, error)
	AddLater(ctx context.Context, title, boxType string) (dto.LaterItemOutput, error)
	LaterList(ctx context.Context) ([]dto.LaterItemOutput, error)
}
