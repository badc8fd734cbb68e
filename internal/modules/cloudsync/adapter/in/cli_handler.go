package in

import (
	"context"

	"timebox/internal/modules/cloudsync/dto"
	syncin "timebox/internal/modules/cloudsync/port/in"
)

type CLIHandler struct {
	usecase syncin.Usecase
}

func NewCLIHandler(usecase syncin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Register(ctx context.Context, label string) (dto.StatusOutput, error) {
	return h.usecase.Register(ctx, label)
}

func (h CLIHandler) Connect(ctx context.Context, key string) (dto.StatusOutput, error) {
	return h.usecase.Connect(ctx, key)
}

func (h CLIHandler) Pull(ctx context.Context) (dto.PullOutput, error) {
	return h.usecase.Pull(ctx)
}

func (h CLIHandler) Status(ctx context.Context) dto.StatusOutput {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Disable(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Disable(ctx)
}

func (h CLIHandler) Watch(listener func(dto.EventOutput)) {
	h.usecase.Subscribe(listener)
}

// Wait blocks until queued pushes have reached the server or failed.
func (h CLIHandler) Wait() {
	h.usecase.Wait()
}
