package out

import (
	"context"

	"timebox/internal/modules/session/domain"
)

type Repository interface {
	LoadSessions(ctx context.Context) ([]domain.Session, error)
	SaveSessions(ctx context.Context, sessions []domain.Session) error
}

// ReviewJournal writes a human-readable note for a finalized session and
// returns where it was written.
type ReviewJournal interface {
	Write(ctx context.Context, session domain.Session, title string) (string, error)
}
