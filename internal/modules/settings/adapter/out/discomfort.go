package out

import (
	"context"

	sessionin "timebox/internal/modules/session/port/in"
	settingsout "timebox/internal/modules/settings/port/out"
	statsin "timebox/internal/modules/stats/port/in"
)

type StatsCounterAdapter struct {
	stats statsin.Usecase
}

func NewStatsCounterAdapter(stats statsin.Usecase) settingsout.DiscomfortCounter {
	return &StatsCounterAdapter{stats: stats}
}

func (a *StatsCounterAdapter) IncrementDiscomfortHandled(ctx context.Context) error {
	_, err := a.stats.IncrementDiscomfortHandled(ctx)
	return err
}

type SessionTaggerAdapter struct {
	sessions sessionin.Usecase
}

func NewSessionTaggerAdapter(sessions sessionin.Usecase) settingsout.SessionTagger {
	return &SessionTaggerAdapter{sessions: sessions}
}

func (a *SessionTaggerAdapter) AppendDiscomfort(ctx context.Context, strategyID string) {
	a.sessions.AppendDiscomfort(ctx, strategyID)
}
