package in

import (
	"context"

	"timebox/internal/modules/syncapi/dto"
)

// Usecase validates requests in the order the API reports failures:
// missing key, unknown key, content type, JSON syntax, empty payload.
type Usecase interface {
	Register(ctx context.Context, input dto.RegisterInput) (dto.RegisterOutput, error)
	Pull(ctx context.Context, input dto.PullInput) (dto.PullOutput, error)
	Push(ctx context.Context, input dto.PushInput) (dto.PushOutput, error)
	// Authorize checks a sync key alone, so callers can reject a request
	// before reading its body.
	Authorize(ctx context.Context, syncKey string) error
}
