package in

import (
	"context"

	"timebox/internal/modules/cloudsync/dto"
)

type Usecase interface {
	Bootstrap(ctx context.Context) (dto.StatusOutput, error)
	Register(ctx context.Context, label string) (dto.StatusOutput, error)
	Connect(ctx context.Context, key string) (dto.StatusOutput, error)
	Pull(ctx context.Context) (dto.PullOutput, error)
	Disable(ctx context.Context) (dto.StatusOutput, error)
	Status(ctx context.Context) dto.StatusOutput
	Subscribe(listener func(dto.EventOutput))
	// Wait blocks until background pushes have finished.
	Wait()
}
