package in

import (
	"context"

	"timebox/internal/modules/storage/domain"
)

type Usecase interface {
	// Load decodes the blob at key into target. When the blob is absent or
	// unreadable, fallback's value is persisted and decoded instead.
	Load(ctx context.Context, key domain.Key, target any, fallback func() any) error
	Save(ctx context.Context, key domain.Key, value any) error
}
