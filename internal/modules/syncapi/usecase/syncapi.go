package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"timebox/internal/modules/syncapi/domain"
	"timebox/internal/modules/syncapi/dto"
	syncapiin "timebox/internal/modules/syncapi/port/in"
	"timebox/internal/modules/syncapi/service"
	apperrors "timebox/internal/platform/errors"
)

type Interactor struct {
	svc *service.SyncAPIService
}

func NewInteractor(svc *service.SyncAPIService) syncapiin.Usecase {
	return &Interactor{svc: svc}
}

type registerPayload struct {
	Label any `json:"label"`
}

// Register reads the label only from JSON bodies; other bodies register
// an unlabeled account.
func (i *Interactor) Register(ctx context.Context, input dto.RegisterInput) (dto.RegisterOutput, error) {
	label := ""
	if isJSON(input.ContentType) && len(strings.TrimSpace(string(input.Body))) > 0 {
		var payload registerPayload
		if err := json.Unmarshal(input.Body, &payload); err != nil {
			return dto.RegisterOutput{}, apperrors.ErrInvalidJSON
		}
		if text, ok := payload.Label.(string); ok {
			label = text
		}
	}
	key, err := i.svc.Register(ctx, label)
	if err != nil {
		return dto.RegisterOutput{}, err
	}
	return dto.RegisterOutput{SyncKey: key}, nil
}

func (i *Interactor) Pull(ctx context.Context, input dto.PullInput) (dto.PullOutput, error) {
	accountID, err := i.svc.Authorize(ctx, input.SyncKey)
	if err != nil {
		return dto.PullOutput{}, err
	}
	records, pulledAt, err := i.svc.Pull(ctx, accountID)
	if err != nil {
		return dto.PullOutput{}, err
	}
	out := dto.PullOutput{Records: make([]dto.Record, 0, len(records)), PulledAt: pulledAt}
	for _, record := range records {
		out.Records = append(out.Records, dto.Record{Key: record.Key, Value: record.Value, UpdatedAt: record.UpdatedAt})
	}
	return out, nil
}

func (i *Interactor) Push(ctx context.Context, input dto.PushInput) (dto.PushOutput, error) {
	accountID, err := i.svc.Authorize(ctx, input.SyncKey)
	if err != nil {
		return dto.PushOutput{}, err
	}
	if !isJSON(input.ContentType) {
		return dto.PushOutput{}, apperrors.ErrInvalidContentType
	}
	if !json.Valid(input.Body) {
		return dto.PushOutput{}, apperrors.ErrInvalidJSON
	}
	saved, updatedAt, err := i.svc.Push(ctx, accountID, domain.NormalizeRecords(input.Body))
	if err != nil {
		return dto.PushOutput{}, err
	}
	return dto.PushOutput{Saved: saved, UpdatedAt: updatedAt}, nil
}

func (i *Interactor) Authorize(ctx context.Context, syncKey string) error {
	_, err := i.svc.Authorize(ctx, syncKey)
	return err
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}
