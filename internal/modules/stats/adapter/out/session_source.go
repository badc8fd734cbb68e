package out

import (
	"context"

	sessionin "timebox/internal/modules/session/port/in"
	"timebox/internal/modules/stats/domain"
	statsout "timebox/internal/modules/stats/port/out"
)

type SessionSourceAdapter struct {
	sessions sessionin.Usecase
}

func NewSessionSourceAdapter(sessions sessionin.Usecase) statsout.SessionSource {
	return &SessionSourceAdapter{sessions: sessions}
}

func (a *SessionSourceAdapter) Samples(ctx context.Context) ([]domain.Sample, error) {
	sessions, err := a.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	samples := make([]domain.Sample, 0, len(sessions))
	for _, s := range sessions {
		samples = append(samples, domain.Sample{
			Completed:   s.Completed,
			EndEpoch:    s.EndEpoch,
			DurationSec: s.DurationSec,
			Input:       s.Type == "input",
			UrgeDelays:  s.UrgeDelays,
			Discomforts: len(s.Discomforts),
		})
	}
	return samples, nil
}
