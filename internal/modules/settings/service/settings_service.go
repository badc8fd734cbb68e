package service

import (
	"context"
	"fmt"
	"sync"

	"timebox/internal/modules/settings/domain"
	settingsout "timebox/internal/modules/settings/port/out"
	apperrors "timebox/internal/platform/errors"
)

type SettingsService struct {
	mu      sync.Mutex
	repo    settingsout.Repository
	counter settingsout.DiscomfortCounter
	tagger  settingsout.SessionTagger
}

func NewSettingsService(repo settingsout.Repository, counter settingsout.DiscomfortCounter, tagger settingsout.SessionTagger) *SettingsService {
	return &SettingsService{repo: repo, counter: counter, tagger: tagger}
}

func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	return domain.Normalize(settings), nil
}

func (s *SettingsService) SetDailyGoal(ctx context.Context, minutes int) (domain.Settings, error) {
	if minutes <= 0 {
		return domain.Settings{}, fmt.Errorf("%w: daily goal must be positive", apperrors.ErrInvalidInput)
	}
	return s.mutate(ctx, func(settings *domain.Settings) {
		settings.DailyGoalMin = minutes
	})
}

func (s *SettingsService) SetThemeTags(ctx context.Context, tags []string) (domain.Settings, error) {
	cleaned := domain.CleanTags(tags)
	return s.mutate(ctx, func(settings *domain.Settings) {
		settings.ThemeTags = cleaned
	})
}

func (s *SettingsService) SetTheme(ctx context.Context, theme domain.Theme) (domain.Settings, error) {
	return s.mutate(ctx, func(settings *domain.Settings) {
		settings.Appearance.Theme = theme
	})
}

func (s *SettingsService) UpdateStrategy(ctx context.Context, category domain.Category, id string, patch domain.StrategyPatch) (domain.Settings, error) {
	return s.mutate(ctx, func(settings *domain.Settings) {
		settings.Strategies.Update(category, id, patch)
	})
}

func (s *SettingsService) ToggleStrategy(ctx context.Context, category domain.Category, id string, value *bool) (domain.Settings, error) {
	return s.mutate(ctx, func(settings *domain.Settings) {
		settings.Strategies.Toggle(category, id, value)
	})
}

func (s *SettingsService) ReorderStrategy(ctx context.Context, category domain.Category, from, to int) (domain.Settings, error) {
	return s.mutate(ctx, func(settings *domain.Settings) {
		settings.Strategies.Reorder(category, from, to)
	})
}

// RunStrategy executes an enabled strategy: the stats counter goes up and
// the active session, if any, is tagged with the strategy id.
func (s *SettingsService) RunStrategy(ctx context.Context, category domain.Category, id string) (domain.Strategy, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return domain.Strategy{}, err
	}
	strategy, ok := settings.Strategies.Enabled().Find(category, id)
	if !ok {
		return domain.Strategy{}, fmt.Errorf("%w: strategy %s/%s", apperrors.ErrNotFound, category, id)
	}
	if s.counter != nil {
		if err := s.counter.IncrementDiscomfortHandled(ctx); err != nil {
			return domain.Strategy{}, err
		}
	}
	if s.tagger != nil {
		s.tagger.AppendDiscomfort(ctx, strategy.ID)
	}
	return strategy, nil
}

func (s *SettingsService) mutate(ctx context.Context, fn func(*domain.Settings)) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	settings = domain.Normalize(settings)
	fn(&settings)
	if err := s.repo.Save(ctx, settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}
