package in

import (
	"context"

	"timebox/internal/modules/stats/dto"
)

type Usecase interface {
	Get(ctx context.Context) (dto.StatsOutput, error)
	Recalculate(ctx context.Context) (dto.StatsOutput, error)
	RecordEffectiveMinutes(ctx context.Context, minutes int) (dto.StatsOutput, error)
	RecordIORatio(ctx context.Context, inputMinutes, outputMinutes int) (dto.StatsOutput, error)
	IncrementDiscomfortHandled(ctx context.Context) (dto.StatsOutput, error)
	IncrementUrgeRule(ctx context.Context) (dto.StatsOutput, error)
	UpdateStreak(ctx context.Context, days int) (dto.StatsOutput, error)
}
