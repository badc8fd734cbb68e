package usecase

import (
	"context"
	"fmt"

	"timebox/internal/modules/stats/domain"
	"timebox/internal/modules/stats/dto"
	statsin "timebox/internal/modules/stats/port/in"
	"timebox/internal/modules/stats/service"
	"timebox/internal/platform/clock"
	apperrors "timebox/internal/platform/errors"
)

type Interactor struct {
	svc   *service.StatsService
	clock clock.Clock
}

func NewInteractor(svc *service.StatsService, clk clock.Clock) statsin.Usecase {
	return &Interactor{svc: svc, clock: clk}
}

func (i *Interactor) Get(ctx context.Context) (dto.StatsOutput, error) {
	return toOutput(i.svc.Get(ctx))
}

func (i *Interactor) Recalculate(ctx context.Context) (dto.StatsOutput, error) {
	return toOutput(i.svc.Recalculate(ctx, i.clock.Now()))
}

func (i *Interactor) RecordEffectiveMinutes(ctx context.Context, minutes int) (dto.StatsOutput, error) {
	if minutes < 0 {
		return dto.StatsOutput{}, fmt.Errorf("%w: minutes must not be negative", apperrors.ErrInvalidInput)
	}
	return toOutput(i.svc.RecordEffectiveMinutes(ctx, minutes))
}

func (i *Interactor) RecordIORatio(ctx context.Context, inputMinutes, outputMinutes int) (dto.StatsOutput, error) {
	if inputMinutes < 0 || outputMinutes < 0 {
		return dto.StatsOutput{}, fmt.Errorf("%w: minutes must not be negative", apperrors.ErrInvalidInput)
	}
	return toOutput(i.svc.RecordIORatio(ctx, inputMinutes, outputMinutes))
}

func (i *Interactor) IncrementDiscomfortHandled(ctx context.Context) (dto.StatsOutput, error) {
	return toOutput(i.svc.IncrementDiscomfortHandled(ctx))
}

func (i *Interactor) IncrementUrgeRule(ctx context.Context) (dto.StatsOutput, error) {
	return toOutput(i.svc.IncrementUrgeRule(ctx))
}

func (i *Interactor) UpdateStreak(ctx context.Context, days int) (dto.StatsOutput, error) {
	if days < 0 {
		return dto.StatsOutput{}, fmt.Errorf("%w: streak must not be negative", apperrors.ErrInvalidInput)
	}
	return toOutput(i.svc.UpdateStreak(ctx, days))
}

func toOutput(stats domain.Stats, err error) (dto.StatsOutput, error) {
	if err != nil {
		return dto.StatsOutput{}, err
	}
	stats = domain.Normalize(stats)
	week := 0
	for _, m := range stats.EffectiveMinutes7d {
		week += m
	}
	return dto.StatsOutput{
		EffectiveMinutes7d: append([]int(nil), stats.EffectiveMinutes7d...),
		TodayMinutes:       stats.EffectiveMinutes7d[len(stats.EffectiveMinutes7d)-1],
		WeekMinutes:        week,
		IORatio:            stats.IORatio.Value,
		IORatioInfinite:    stats.IORatio.Infinite,
		IORatioLabel:       stats.IORatio.String(),
		DiscomfortHandled:  stats.DiscomfortHandledCount,
		StreakDays:         stats.StreakDays,
		UrgeRuleCount:      stats.TenMinRuleCount,
	}, nil
}
