package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"timebox/internal/modules/session/domain"
	sessionout "timebox/internal/modules/session/port/out"
	"timebox/internal/platform/clock"
	"timebox/internal/platform/daytime"
	"timebox/internal/platform/markdown"
	"timebox/internal/platform/slug"
)

// MarkdownReviewJournal files each finalized session as a markdown note
// under reviews/YYYY/MM/DD.
type MarkdownReviewJournal struct {
	dataDir  string
	location *time.Location
}

func NewMarkdownReviewJournal(dataDir string, location *time.Location) sessionout.ReviewJournal {
	return &MarkdownReviewJournal{dataDir: dataDir, location: location}
}

func (j *MarkdownReviewJournal) Write(_ context.Context, session domain.Session, title string) (string, error) {
	started := clock.FromEpoch(session.StartEpoch, j.location)
	ended := clock.FromEpoch(session.EndEpoch, j.location)
	dir := filepath.Join(j.dataDir, "reviews", started.Format("2006"), started.Format("01"), started.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create review dir: %w", err)
	}
	if strings.TrimSpace(title) == "" {
		title = string(session.Type) + " session"
	}
	name := fmt.Sprintf("%s-%s.md", started.Format("150405"), slug.Make(title, "session"))
	path := filepath.Join(dir, name)

	var outcome, assets any
	if session.UrgeDelayOutcome != "" {
		outcome = string(session.UrgeDelayOutcome)
	}
	if len(session.MinOutputAssets) > 0 {
		assets = session.MinOutputAssets
	}
	fields := []markdown.Field{
		{Key: "schema_version", Value: domain.SchemaVersion},
		{Key: "id", Value: session.ID},
		{Key: "timebox_id", Value: session.TimeboxID},
		{Key: "type", Value: string(session.Type)},
		{Key: "started_at", Value: started.Format(time.RFC3339)},
		{Key: "ended_at", Value: ended.Format(time.RFC3339)},
		{Key: "duration_minutes", Value: session.DurationSec / 60},
		{Key: "urge_delays", Value: session.UrgeDelays},
		{Key: "urge_outcome", Value: outcome},
		{Key: "discomforts", Value: session.Discomforts},
		{Key: "assets", Value: assets},
	}

	var body strings.Builder
	fmt.Fprintf(&body, "# Review: %s\n\n", title)
	fmt.Fprintf(&body, "- Focused: %s\n\n", daytime.FormatMinutes(session.DurationSec/60))
	fmt.Fprintf(&body, "## Learned\n\n%s\n\n## Stuck\n\n%s\n\n## Next\n\n%s\n", session.Notes.Learned, session.Notes.Stuck, session.Notes.Next)
	if len(session.MinOutputAssets) > 0 {
		body.WriteString("\n## Assets\n\n")
		for _, asset := range session.MinOutputAssets {
			fmt.Fprintf(&body, "- %s\n", asset)
		}
	}
	rendered, err := markdown.Render(fields, body.String())
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write review note: %w", err)
	}
	return path, nil
}
