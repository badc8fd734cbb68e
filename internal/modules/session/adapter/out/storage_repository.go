package out

import (
	"context"

	"timebox/internal/modules/session/domain"
	sessionout "timebox/internal/modules/session/port/out"
	storagedomain "timebox/internal/modules/storage/domain"
	storagein "timebox/internal/modules/storage/port/in"
)

type StorageRepository struct {
	storage storagein.Usecase
}

func NewStorageRepository(storage storagein.Usecase) sessionout.Repository {
	return &StorageRepository{storage: storage}
}

func (r *StorageRepository) LoadSessions(ctx context.Context) ([]domain.Session, error) {
	var sessions []domain.Session
	if err := r.storage.Load(ctx, storagedomain.KeySessions, &sessions, func() any { return []any{} }); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *StorageRepository) SaveSessions(ctx context.Context, sessions []domain.Session) error {
	if sessions == nil {
		sessions = []domain.Session{}
	}
	return r.storage.Save(ctx, storagedomain.KeySessions, sessions)
}
