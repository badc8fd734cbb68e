package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/peterbourgon/diskv/v3"

	"timebox/internal/modules/storage/domain"
	storageout "timebox/internal/modules/storage/port/out"
	apperrors "timebox/internal/platform/errors"
)

// DiskvStore keeps each blob as a single file under basePath.
type DiskvStore struct {
	d *diskv.Diskv
}

func NewDiskvStore(basePath string) *DiskvStore {
	return &DiskvStore{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 1024 * 1024,
	})}
}

var _ storageout.Store = (*DiskvStore)(nil)

func (s *DiskvStore) Get(_ context.Context, key domain.Key) ([]byte, error) {
	raw, err := s.d.Read(string(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}
	return raw, nil
}

func (s *DiskvStore) Set(_ context.Context, key domain.Key, value []byte) error {
	if err := s.d.Write(string(key), value); err != nil {
		return fmt.Errorf("write blob %s: %w", key, err)
	}
	return nil
}

func (s *DiskvStore) Delete(_ context.Context, key domain.Key) error {
	if !s.d.Has(string(key)) {
		return nil
	}
	if err := s.d.Erase(string(key)); err != nil {
		return fmt.Errorf("erase blob %s: %w", key, err)
	}
	return nil
}
