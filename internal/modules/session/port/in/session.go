package in

import (
	"context"

	"timebox/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error)
	Pause(ctx context.Context) bool
	Resume(ctx context.Context) bool
	Stop(ctx context.Context) (dto.SessionOutput, bool, error)
	Finalize(ctx context.Context, input dto.FinalizeInput) (dto.FinalizeOutput, bool, error)
	Cancel(ctx context.Context) (bool, error)
	Runtime(ctx context.Context) dto.RuntimeOutput

	StartUrgeBuffer(ctx context.Context)
	UpdateUrgeBuffer(ctx context.Context) int
	ResetUrgeBuffer(ctx context.Context)
	RecordUrgeDelay(ctx context.Context, outcome string) error
	AppendDiscomfort(ctx context.Context, tag string)

	SetNotes(ctx context.Context, sessionID string, notes dto.Notes) error
	UpdateAssets(ctx context.Context, sessionID string, assets []string) error
	Current(ctx context.Context) (dto.SessionOutput, bool, error)
	List(ctx context.Context) ([]dto.SessionOutput, error)
}
