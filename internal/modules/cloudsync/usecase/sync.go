package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"timebox/internal/modules/cloudsync/domain"
	"timebox/internal/modules/cloudsync/dto"
	syncin "timebox/internal/modules/cloudsync/port/in"
	"timebox/internal/modules/cloudsync/service"
	apperrors "timebox/internal/platform/errors"
)

type Interactor struct {
	svc *service.SyncService
}

func NewInteractor(svc *service.SyncService) syncin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Bootstrap(ctx context.Context) (dto.StatusOutput, error) {
	if err := i.svc.Bootstrap(ctx); err != nil {
		return dto.StatusOutput{}, err
	}
	return i.Status(ctx), nil
}

func (i *Interactor) Register(ctx context.Context, label string) (dto.StatusOutput, error) {
	label = strings.TrimSpace(label)
	if utf8.RuneCountInString(label) > domain.MaxLabelLength {
		return dto.StatusOutput{}, fmt.Errorf("%w: label exceeds %d characters", apperrors.ErrInvalidInput, domain.MaxLabelLength)
	}
	if _, err := i.svc.RegisterNew(ctx, label); err != nil {
		return i.Status(ctx), err
	}
	return i.Status(ctx), nil
}

func (i *Interactor) Connect(ctx context.Context, key string) (dto.StatusOutput, error) {
	if err := i.svc.ConnectWithKey(ctx, key); err != nil {
		return i.Status(ctx), err
	}
	return i.Status(ctx), nil
}

func (i *Interactor) Pull(ctx context.Context) (dto.PullOutput, error) {
	applied, pulledAt, err := i.svc.PullNow(ctx)
	if err != nil {
		return dto.PullOutput{}, err
	}
	return dto.PullOutput{Applied: applied, PulledAt: pulledAt}, nil
}

func (i *Interactor) Disable(ctx context.Context) (dto.StatusOutput, error) {
	if err := i.svc.Disable(ctx); err != nil {
		return dto.StatusOutput{}, err
	}
	return i.Status(ctx), nil
}

func (i *Interactor) Status(_ context.Context) dto.StatusOutput {
	snap := i.svc.Snapshot()
	out := dto.StatusOutput{
		Status:     string(snap.Status),
		SyncKey:    snap.SyncKey,
		MaskedKey:  domain.MaskKey(snap.SyncKey),
		LastError:  snap.LastError,
		LastSyncAt: snap.LastSyncAt,
		Versions:   map[string]int64{},
	}
	for key, version := range snap.State.RecordVersions {
		out.Versions[string(key)] = version
	}
	return out
}

func (i *Interactor) Subscribe(listener func(dto.EventOutput)) {
	if listener == nil {
		return
	}
	i.svc.Subscribe(func(event domain.Event) {
		out := dto.EventOutput{
			Type:      string(event.Type),
			Key:       string(event.Key),
			Timestamp: event.Timestamp,
			Applied:   event.Applied,
		}
		if event.Err != nil {
			out.Error = event.Err.Error()
		}
		listener(out)
	})
}

func (i *Interactor) Wait() {
	i.svc.Wait()
}
