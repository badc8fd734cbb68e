package in

import (
	"context"

	"timebox/internal/modules/stats/dto"
	statsin "timebox/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context, recalc bool) (dto.StatsOutput, error) {
	if recalc {
		return h.usecase.Recalculate(ctx)
	}
	return h.usecase.Get(ctx)
}

func (h CLIHandler) Recalculate(ctx context.Context) (dto.StatsOutput, error) {
	return h.usecase.Recalculate(ctx)
}
