package in

import (
	"context"

	"timebox/internal/modules/session/dto"
	sessionin "timebox/internal/modules/session/port/in"
)

// TUIHandler drives the live runtime for the focus screen.
type TUIHandler struct {
	usecase sessionin.Usecase
}

func NewTUIHandler(usecase sessionin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error) {
	return h.usecase.Start(ctx, input)
}

func (h TUIHandler) Pause(ctx context.Context) bool  { return h.usecase.Pause(ctx) }
func (h TUIHandler) Resume(ctx context.Context) bool { return h.usecase.Resume(ctx) }

func (h TUIHandler) Stop(ctx context.Context) (dto.SessionOutput, bool, error) {
	return h.usecase.Stop(ctx)
}

func (h TUIHandler) Finalize(ctx context.Context, input dto.FinalizeInput) (dto.FinalizeOutput, bool, error) {
	return h.usecase.Finalize(ctx, input)
}

func (h TUIHandler) Cancel(ctx context.Context) (bool, error) { return h.usecase.Cancel(ctx) }

func (h TUIHandler) Runtime(ctx context.Context) dto.RuntimeOutput { return h.usecase.Runtime(ctx) }

func (h TUIHandler) StartUrgeBuffer(ctx context.Context)      { h.usecase.StartUrgeBuffer(ctx) }
func (h TUIHandler) UpdateUrgeBuffer(ctx context.Context) int { return h.usecase.UpdateUrgeBuffer(ctx) }

func (h TUIHandler) RecordUrgeDelay(ctx context.Context, outcome string) error {
	return h.usecase.RecordUrgeDelay(ctx, outcome)
}
