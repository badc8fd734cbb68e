package out

import (
	"context"

	"timebox/internal/modules/cloudsync/domain"
	storageout "timebox/internal/modules/storage/port/out"
)

// Client talks to the remote sync API.
type Client interface {
	Register(ctx context.Context, label string) (string, error)
	Pull(ctx context.Context, syncKey string) (domain.PullResponse, error)
	Push(ctx context.Context, syncKey string, record domain.Record) error
}

// StateStore persists the device's sync bookkeeping. Load reports false
// when no usable state is stored.
type StateStore interface {
	Load(ctx context.Context) (domain.State, bool, error)
	Save(ctx context.Context, state domain.State) error
	Clear(ctx context.Context) error
}

// StoreSwitch is the process-wide persistence slot.
type StoreSwitch interface {
	Use(store storageout.Store)
	Reset()
	Base() storageout.Store
}
