package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	hclog "github.com/hashicorp/go-hclog"

	"timebox/internal/modules/syncapi/domain"
	syncapiout "timebox/internal/modules/syncapi/port/out"
	"timebox/internal/platform/clock"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/platform/id"
	"timebox/internal/platform/logging"
	"timebox/internal/platform/tx"
)

// SyncAPIService is the server side of cloud sync: one opaque key per
// account and a last-write-wins record per (account, key).
type SyncAPIService struct {
	accounts syncapiout.AccountStore
	records  syncapiout.RecordStore
	tx       tx.Manager
	keys     id.Generator
	clock    clock.Clock
	logger   hclog.Logger
}

func NewSyncAPIService(accounts syncapiout.AccountStore, records syncapiout.RecordStore, txManager tx.Manager, keys id.Generator, clk clock.Clock, logger hclog.Logger) *SyncAPIService {
	if txManager == nil {
		txManager = tx.NoopManager{}
	}
	return &SyncAPIService{
		accounts: accounts,
		records:  records,
		tx:       txManager,
		keys:     keys,
		clock:    clk,
		logger:   logging.OrNull(logger).Named("syncapi"),
	}
}

func (s *SyncAPIService) Register(ctx context.Context, label string) (string, error) {
	now := clock.Epoch(s.clock.Now())
	account := domain.Account{
		ID:         s.keys.New(),
		Label:      domain.NormalizeLabel(label),
		CreatedAt:  now,
		UpdatedAt:  now,
		LastSeenAt: now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		s.logger.Error("register sync key failed", "error", err)
		return "", err
	}
	s.logger.Info("registered sync account", "label", account.Label)
	return account.ID, nil
}

// Authorize resolves the account behind a sync key.
func (s *SyncAPIService) Authorize(ctx context.Context, syncKey string) (string, error) {
	key := strings.TrimSpace(syncKey)
	if key == "" {
		return "", apperrors.ErrMissingSyncKey
	}
	ok, err := s.accounts.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperrors.ErrInvalidSyncKey
	}
	return key, nil
}

func (s *SyncAPIService) Pull(ctx context.Context, accountID string) ([]domain.StoredRecord, int64, error) {
	now := clock.Epoch(s.clock.Now())
	records, err := s.records.List(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.accounts.Touch(ctx, accountID, now); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, 0, err
	}
	return records, now, nil
}

// Push stores up to MaxBatchRecords records and touches the account in one
// transaction. It returns the number saved and the server time used.
func (s *SyncAPIService) Push(ctx context.Context, accountID string, incoming []domain.IncomingRecord) (int, int64, error) {
	if len(incoming) == 0 {
		return 0, 0, apperrors.ErrEmptyPayload
	}
	now := clock.Epoch(s.clock.Now())
	limited := domain.Limit(incoming)
	if dropped := len(incoming) - len(limited); dropped > 0 {
		s.logger.Warn("dropped records beyond batch limit", "dropped", dropped)
	}
	records := make([]domain.StoredRecord, 0, len(limited))
	for _, record := range limited {
		records = append(records, domain.StoredRecord{
			Key:       record.Key,
			Value:     record.Value,
			UpdatedAt: record.EffectiveUpdatedAt(now),
		})
	}
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		if err := s.records.Upsert(ctx, accountID, records); err != nil {
			return err
		}
		return s.accounts.Touch(ctx, accountID, now)
	})
	if err != nil {
		return 0, 0, fmt.Errorf("save records: %w", err)
	}
	return len(records), now, nil
}
