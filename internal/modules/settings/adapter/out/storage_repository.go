package out

import (
	"context"

	"timebox/internal/modules/settings/domain"
	settingsout "timebox/internal/modules/settings/port/out"
	storagedomain "timebox/internal/modules/storage/domain"
	storagein "timebox/internal/modules/storage/port/in"
)

type StorageRepository struct {
	storage storagein.Usecase
}

func NewStorageRepository(storage storagein.Usecase) settingsout.Repository {
	return &StorageRepository{storage: storage}
}

// Load decodes over the defaults so a stored document missing a field keeps
// its default value.
func (r *StorageRepository) Load(ctx context.Context) (domain.Settings, error) {
	settings := domain.Defaults()
	if err := r.storage.Load(ctx, storagedomain.KeySettings, &settings, func() any { return domain.Defaults() }); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func (r *StorageRepository) Save(ctx context.Context, settings domain.Settings) error {
	return r.storage.Save(ctx, storagedomain.KeySettings, settings)
}
