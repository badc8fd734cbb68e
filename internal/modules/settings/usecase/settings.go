package usecase

import (
	"context"

	"timebox/internal/modules/settings/domain"
	"timebox/internal/modules/settings/dto"
	settingsin "timebox/internal/modules/settings/port/in"
	"timebox/internal/modules/settings/service"
)

type Interactor struct {
	svc *service.SettingsService
}

func NewInteractor(svc *service.SettingsService) settingsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Get(ctx context.Context) (dto.SettingsOutput, error) {
	return toOutput(i.svc.Get(ctx))
}

func (i *Interactor) SetDailyGoal(ctx context.Context, minutes int) (dto.SettingsOutput, error) {
	return toOutput(i.svc.SetDailyGoal(ctx, minutes))
}

func (i *Interactor) SetThemeTags(ctx context.Context, tags []string) (dto.SettingsOutput, error) {
	return toOutput(i.svc.SetThemeTags(ctx, tags))
}

func (i *Interactor) SetTheme(ctx context.Context, theme string) (dto.SettingsOutput, error) {
	parsed, err := domain.ParseTheme(theme)
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	return toOutput(i.svc.SetTheme(ctx, parsed))
}

func (i *Interactor) UpdateStrategy(ctx context.Context, input dto.UpdateStrategyInput) (dto.SettingsOutput, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	patch := domain.StrategyPatch{Label: input.Label, Description: input.Description, Enabled: input.Enabled}
	return toOutput(i.svc.UpdateStrategy(ctx, category, input.ID, patch))
}

func (i *Interactor) ToggleStrategy(ctx context.Context, category, id string, value *bool) (dto.SettingsOutput, error) {
	parsed, err := domain.ParseCategory(category)
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	return toOutput(i.svc.ToggleStrategy(ctx, parsed, id, value))
}

func (i *Interactor) ReorderStrategy(ctx context.Context, category string, from, to int) (dto.SettingsOutput, error) {
	parsed, err := domain.ParseCategory(category)
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	return toOutput(i.svc.ReorderStrategy(ctx, parsed, from, to))
}

func (i *Interactor) EnabledStrategies(ctx context.Context) ([]dto.StrategyOutput, error) {
	settings, err := i.svc.Get(ctx)
	if err != nil {
		return nil, err
	}
	return strategyOutputs(settings.Strategies.Enabled()), nil
}

func (i *Interactor) RunStrategy(ctx context.Context, category, id string) (dto.StrategyOutput, error) {
	parsed, err := domain.ParseCategory(category)
	if err != nil {
		return dto.StrategyOutput{}, err
	}
	strategy, err := i.svc.RunStrategy(ctx, parsed, id)
	if err != nil {
		return dto.StrategyOutput{}, err
	}
	return strategyOutput(parsed, strategy), nil
}

func toOutput(settings domain.Settings, err error) (dto.SettingsOutput, error) {
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	return dto.SettingsOutput{
		DailyGoalMin: settings.DailyGoalMin,
		ThemeTags:    append([]string(nil), settings.ThemeTags...),
		FomoPolicy:   settings.FomoPolicy,
		Theme:        string(settings.Appearance.Theme),
		Strategies:   strategyOutputs(settings.Strategies),
	}, nil
}

func strategyOutputs(strategies domain.Strategies) []dto.StrategyOutput {
	var out []dto.StrategyOutput
	for _, category := range domain.Categories() {
		for _, s := range strategies.In(category) {
			out = append(out, strategyOutput(category, s))
		}
	}
	return out
}

func strategyOutput(category domain.Category, s domain.Strategy) dto.StrategyOutput {
	return dto.StrategyOutput{
		Category:    string(category),
		ID:          s.ID,
		Label:       s.Label,
		Description: s.Description,
		Enabled:     s.Enabled,
		Kind:        string(s.Kind),
		Payload:     s.Payload,
	}
}
