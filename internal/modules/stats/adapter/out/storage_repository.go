package out

import (
	"context"

	"timebox/internal/modules/stats/domain"
	statsout "timebox/internal/modules/stats/port/out"
	storagedomain "timebox/internal/modules/storage/domain"
	storagein "timebox/internal/modules/storage/port/in"
)

type StorageRepository struct {
	storage storagein.Usecase
}

func NewStorageRepository(storage storagein.Usecase) statsout.Repository {
	return &StorageRepository{storage: storage}
}

func (r *StorageRepository) Load(ctx context.Context) (domain.Stats, error) {
	stats := domain.Defaults()
	if err := r.storage.Load(ctx, storagedomain.KeyStats, &stats, func() any { return domain.Defaults() }); err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}

func (r *StorageRepository) Save(ctx context.Context, stats domain.Stats) error {
	return r.storage.Save(ctx, storagedomain.KeyStats, stats)
}
