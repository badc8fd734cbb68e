package in

import (
	"context"
	"strings"

	"timebox/internal/modules/settings/dto"
	settingsin "timebox/internal/modules/settings/port/in"
)

type CLIHandler struct {
	usecase settingsin.Usecase
}

func NewCLIHandler(usecase settingsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (dto.SettingsOutput, error) {
	return h.usecase.Get(ctx)
}

func (h CLIHandler) SetGoal(ctx context.Context, minutes int) (dto.SettingsOutput, error) {
	return h.usecase.SetDailyGoal(ctx, minutes)
}

// SetTags accepts tags either as separate arguments or comma separated.
func (h CLIHandler) SetTags(ctx context.Context, args []string) (dto.SettingsOutput, error) {
	var tags []string
	for _, arg := range args {
		tags = append(tags, strings.Split(arg, ",")...)
	}
	return h.usecase.SetThemeTags(ctx, tags)
}

func (h CLIHandler) SetTheme(ctx context.Context, theme string) (dto.SettingsOutput, error) {
	return h.usecase.SetTheme(ctx, theme)
}

func (h CLIHandler) ToggleStrategy(ctx context.Context, category, id string, value *bool) (dto.SettingsOutput, error) {
	return h.usecase.ToggleStrategy(ctx, category, id, value)
}

func (h CLIHandler) MoveStrategy(ctx context.Context, category string, from, to int) (dto.SettingsOutput, error) {
	return h.usecase.ReorderStrategy(ctx, category, from, to)
}

func (h CLIHandler) EnabledStrategies(ctx context.Context) ([]dto.StrategyOutput, error) {
	return h.usecase.EnabledStrategies(ctx)
}

func (h CLIHandler) RunStrategy(ctx context.Context, category, id string) (dto.StrategyOutput, error) {
	return h.usecase.RunStrategy(ctx, category, id)
}
