package out

import (
	"context"

	storagedomain "timebox/internal/modules/storage/domain"
	storagein "timebox/internal/modules/storage/port/in"
	"timebox/internal/modules/timebox/domain"
	timeboxout "timebox/internal/modules/timebox/port/out"
)

// StorageRepository keeps the timebox collection and the later list as the
// "timeboxes" and "laterList" blobs.
type StorageRepository struct {
	storage storagein.Usecase
}

func NewStorageRepository(storage storagein.Usecase) timeboxout.Repository {
	return &StorageRepository{storage: storage}
}

func (r *StorageRepository) LoadTimeboxes(ctx context.Context) ([]domain.Timebox, error) {
	var boxes []domain.Timebox
	if err := r.storage.Load(ctx, storagedomain.KeyTimeboxes, &boxes, emptyList); err != nil {
		return nil, err
	}
	return boxes, nil
}

func (r *StorageRepository) SaveTimeboxes(ctx context.Context, boxes []domain.Timebox) error {
	if boxes == nil {
		boxes = []domain.Timebox{}
	}
	return r.storage.Save(ctx, storagedomain.KeyTimeboxes, boxes)
}

func (r *StorageRepository) LoadLaterList(ctx context.Context) ([]domain.LaterItem, error) {
	var items []domain.LaterItem
	if err := r.storage.Load(ctx, storagedomain.KeyLaterList, &items, emptyList); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *StorageRepository) SaveLaterList(ctx context.Context, items []domain.LaterItem) error {
	if items == nil {
		items = []domain.LaterItem{}
	}
	return r.storage.Save(ctx, storagedomain.KeyLaterList, items)
}

func emptyList() any { return []any{} }
