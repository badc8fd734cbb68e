package out

import (
	"context"

	hclog "github.com/hashicorp/go-hclog"

	"timebox/internal/modules/storage/domain"
	storageout "timebox/internal/modules/storage/port/out"
	"timebox/internal/platform/clock"
	"timebox/internal/platform/logging"
)

// MirroredStore writes through to the record cache after every successful
// write or delete on the wrapped store, so the cache follows the primary no
// matter which component wrote it. Cache failures are logged and never fail
// the primary operation.
type MirroredStore struct {
	store  storageout.Store
	cache  storageout.RecordCache
	clock  clock.Clock
	logger hclog.Logger
}

func NewMirroredStore(store storageout.Store, cache storageout.RecordCache, clk clock.Clock, logger hclog.Logger) *MirroredStore {
	return &MirroredStore{store: store, cache: cache, clock: clk, logger: logging.OrNull(logger).Named("record-cache")}
}

var _ storageout.Store = (*MirroredStore)(nil)

func (s *MirroredStore) Get(ctx context.Context, key domain.Key) ([]byte, error) {
	return s.store.Get(ctx, key)
}

func (s *MirroredStore) Set(ctx context.Context, key domain.Key, value []byte) error {
	if err := s.store.Set(ctx, key, value); err != nil {
		return err
	}
	now := s.clock.Now()
	if err := s.cache.Put(ctx, domain.CachedRecord{Key: key, Value: value, RecordedAt: now}); err != nil {
		s.logger.Warn("record cache write failed", "key", key, "error", err)
		return nil
	}
	pruned, err := s.cache.PruneBefore(ctx, now.Add(-domain.CacheRetention))
	if err != nil {
		s.logger.Warn("record cache prune failed", "error", err)
		return nil
	}
	if pruned > 0 {
		s.logger.Debug("pruned record cache", "count", pruned)
	}
	return nil
}

func (s *MirroredStore) Delete(ctx context.Context, key domain.Key) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("record cache delete failed", "key", key, "error", err)
	}
	return nil
}
