package out

import (
	"context"

	"timebox/internal/modules/stats/domain"
)

type Repository interface {
	Load(ctx context.Context) (domain.Stats, error)
	Save(ctx context.Context, stats domain.Stats) error
}

// SessionSource exposes the session log to the aggregator.
type SessionSource interface {
	Samples(ctx context.Context) ([]domain.Sample, error)
}
