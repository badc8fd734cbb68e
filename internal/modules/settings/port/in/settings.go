package in

import (
	"context"

	"timebox/internal/modules/settings/dto"
)

type Usecase interface {
	Get(ctx context.Context) (dto.SettingsOutput, error)
	SetDailyGoal(ctx context.Context, minutes int) (dto.SettingsOutput, error)
	SetThemeTags(ctx context.Context, tags []string) (dto.SettingsOutput, error)
	SetTheme(ctx context.Context, theme string) (dto.SettingsOutput, error)
	UpdateStrategy(ctx context.Context, input dto.UpdateStrategyInput) (dto.SettingsOutput, error)
	ToggleStrategy(ctx context.Context, category, id string, value *bool) (dto.SettingsOutput, error)
	ReorderStrategy(ctx context.Context, category string, from, to int) (dto.SettingsOutput, error)
	EnabledStrategies(ctx context.Context) ([]dto.StrategyOutput, error)
	RunStrategy(ctx context.Context, category, id string) (dto.StrategyOutput, error)
}
