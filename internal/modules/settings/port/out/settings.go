package out

import (
	"context"

	"timebox/internal/modules/settings/domain"
)

type Repository interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}

// DiscomfortCounter counts handled discomfort in the stats record.
type DiscomfortCounter interface {
	IncrementDiscomfortHandled(ctx context.Context) error
}

// SessionTagger tags the active focus session with a strategy id.
type SessionTagger interface {
	AppendDiscomfort(ctx context.Context, strategyID string)
}
