package out

import (
	"context"
	"time"

	"timebox/internal/modules/storage/domain"
)

// Store is the per-device key/value substrate for named JSON blobs.
// Get returns apperrors.ErrNotFound for absent keys.
type Store interface {
	Get(ctx context.Context, key domain.Key) ([]byte, error)
	Set(ctx context.Context, key domain.Key, value []byte) error
	Delete(ctx context.Context, key domain.Key) error
}

type RecordCache interface {
	Put(ctx context.Context, record domain.CachedRecord) error
	Get(ctx context.Context, key domain.Key) (domain.CachedRecord, error)
	Delete(ctx context.Context, key domain.Key) error
	PruneBefore(ctx context.Context, cutoff time.Time) (int, error)
}
