package in

import (
	"context"

	sessiondto "timebox/internal/modules/session/dto"
	sessionin "timebox/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]sessiondto.SessionOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) SetNotes(ctx context.Context, sessionID, learned, stuck, next string) error {
	return h.usecase.SetNotes(ctx, sessionID, sessiondto.Notes{Learned: learned, Stuck: stuck, Next: next})
}

func (h CLIHandler) SetAssets(ctx context.Context, sessionID string, assets []string) error {
	return h.usecase.UpdateAssets(ctx, sessionID, assets)
}
