package out

import (
	"context"

	"timebox/internal/modules/syncapi/domain"
)

// AccountStore returns apperrors.ErrNotFound from Touch for unknown ids.
type AccountStore interface {
	Create(ctx context.Context, account domain.Account) error
	Exists(ctx context.Context, id string) (bool, error)
	Touch(ctx context.Context, id string, at int64) error
}

type RecordStore interface {
	List(ctx context.Context, accountID string) ([]domain.StoredRecord, error)
	Upsert(ctx context.Context, accountID string, records []domain.StoredRecord) error
}
