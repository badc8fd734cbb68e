package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	"timebox/internal/modules/storage/domain"
	storageout "timebox/internal/modules/storage/port/out"
	"timebox/internal/platform/clock"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/platform/logging"
)

var jsonNull = []byte("null")

// StorageService reads and writes named blobs through the active store. The
// record cache is only read here, to recover blobs the store cannot decode;
// keeping it current is the job of the store beneath the slot.
type StorageService struct {
	store  storageout.Store
	cache  storageout.RecordCache
	clock  clock.Clock
	logger hclog.Logger
}

func NewStorageService(store storageout.Store, cache storageout.RecordCache, clk clock.Clock, logger hclog.Logger) *StorageService {
	return &StorageService{store: store, cache: cache, clock: clk, logger: logging.OrNull(logger).Named("storage")}
}

func (s *StorageService) Load(ctx context.Context, key domain.Key, target any, fallback func() any) error {
	raw, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		decodeErr := decode(raw, target)
		if decodeErr == nil {
			return nil
		}
		if !errors.Is(decodeErr, apperrors.ErrNotFound) {
			s.logger.Warn("stored record unreadable", "key", key, "error", decodeErr)
		}
	case errors.Is(err, apperrors.ErrNotFound):
	default:
		return fmt.Errorf("read %s: %w", key, err)
	}

	if s.restoreFromCache(ctx, key, target) {
		return nil
	}

	value := fallback()
	if err := s.Save(ctx, key, value); err != nil {
		return err
	}
	raw, err = json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s fallback: %w", key, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode %s fallback: %w", key, err)
	}
	return nil
}

func (s *StorageService) Save(ctx context.Context, key domain.Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// restoreFromCache restores a blob from the record cache into the primary store.
func (s *StorageService) restoreFromCache(ctx context.Context, key domain.Key, target any) bool {
	if s.cache == nil {
		return false
	}
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("record cache lookup failed", "key", key, "error", err)
		}
		return false
	}
	if err := decode(cached.Value, target); err != nil {
		return false
	}
	if err := s.store.Set(ctx, key, cached.Value); err != nil {
		s.logger.Warn("restore from record cache failed", "key", key, "error", err)
	} else {
		s.logger.Info("restored record from cache", "key", key, "recorded_at", cached.RecordedAt, "age", s.clock.Now().Sub(cached.RecordedAt))
	}
	return true
}

func decode(raw []byte, target any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return apperrors.ErrNotFound
	}
	return json.Unmarshal(trimmed, target)
}
