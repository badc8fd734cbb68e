package out

import (
	"context"

	"timebox/internal/modules/timebox/domain"
)

type Repository interface {
	LoadTimeboxes(ctx context.Context) ([]domain.Timebox, error)
	SaveTimeboxes(ctx context.Context, boxes []domain.Timebox) error
	LoadLaterList(ctx context.Context) ([]domain.LaterItem, error)
	SaveLaterList(ctx context.Context, items []domain.LaterItem) error
}

// ThemeTagSource supplies the title whitelist.
type ThemeTagSource interface {
	ThemeTags(ctx context.Context) ([]string, error)
}
