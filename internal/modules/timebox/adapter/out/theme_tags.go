package out

import (
	"context"

	settingsin "timebox/internal/modules/settings/port/in"
	timeboxout "timebox/internal/modules/timebox/port/out"
)

type SettingsThemeTagAdapter struct {
	settings settingsin.Usecase
}

func NewSettingsThemeTagAdapter(settings settingsin.Usecase) timeboxout.ThemeTagSource {
	return &SettingsThemeTagAdapter{settings: settings}
}

func (a *SettingsThemeTagAdapter) ThemeTags(ctx context.Context) ([]string, error) {
	settings, err := a.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return settings.ThemeTags, nil
}
