package service

import (
	"context"
	"sync"
	"time"

	"timebox/internal/modules/stats/domain"
	statsout "timebox/internal/modules/stats/port/out"
)

type StatsService struct {
	mu       sync.Mutex
	repo     statsout.Repository
	sessions statsout.SessionSource
}

func NewStatsService(repo statsout.Repository, sessions statsout.SessionSource) *StatsService {
	return &StatsService{repo: repo, sessions: sessions}
}

func (s *StatsService) Get(ctx context.Context) (domain.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Normalize(stats), nil
}

// Recalculate rebuilds the stats record from the session log and stores it.
func (s *StatsService) Recalculate(ctx context.Context, now time.Time) (domain.Stats, error) {
	samples, err := s.sessions.Samples(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	stats := domain.Recalculate(samples, now)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Save(ctx, stats); err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}

func (s *StatsService) RecordEffectiveMinutes(ctx context.Context, minutes int) (domain.Stats, error) {
	return s.mutate(ctx, func(stats *domain.Stats) {
		stats.RecordEffectiveMinutes(minutes)
	})
}

func (s *StatsService) RecordIORatio(ctx context.Context, inputMinutes, outputMinutes int) (domain.Stats, error) {
	return s.mutate(ctx, func(stats *domain.Stats) {
		stats.IORatio = domain.IORatio(inputMinutes, outputMinutes)
	})
}

func (s *StatsService) IncrementDiscomfortHandled(ctx context.Context) (domain.Stats, error) {
	return s.mutate(ctx, func(stats *domain.Stats) {
		stats.DiscomfortHandledCount++
	})
}

func (s *StatsService) IncrementUrgeRule(ctx context.Context) (domain.Stats, error) {
	return s.mutate(ctx, func(stats *domain.Stats) {
		stats.TenMinRuleCount++
	})
}

func (s *StatsService) UpdateStreak(ctx context.Context, days int) (domain.Stats, error) {
	return s.mutate(ctx, func(stats *domain.Stats) {
		stats.StreakDays = days
	})
}

func (s *StatsService) mutate(ctx context.Context, fn func(*domain.Stats)) (domain.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	stats = domain.Normalize(stats)
	fn(&stats)
	if err := s.repo.Save(ctx, stats); err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}
