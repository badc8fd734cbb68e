package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sessionout "timebox/internal/modules/session/adapter/out"
	"timebox/internal/modules/session/domain"
	"timebox/internal/platform/markdown"
)

func TestReviewJournalWritesFrontmatterNote(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	journal := sessionout.NewMarkdownReviewJournal(dir, time.UTC)
	start := time.Date(2026, 3, 2, 9, 5, 30, 0, time.UTC)
	session := domain.Session{
		ID:              "s-1",
		TimeboxID:       "tb-1",
		StartEpoch:      start.UnixMilli(),
		EndEpoch:        start.Add(45 * time.Minute).UnixMilli(),
		DurationSec:     45 * 60,
		Type:            "output",
		UrgeDelays:      1,
		Discomforts:     []string{"physical-water"},
		Notes:           domain.Notes{Learned: "channels", Stuck: "select", Next: "context"},
		MinOutputAssets: []string{"notes.md"},
		Completed:       true,
	}

	path, err := journal.Write(context.Background(), session, "Write Go post")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	want := filepath.Join(dir, "reviews", "2026", "03", "02", "090530-write-go-post.md")
	if path != want {
		t.Fatalf("expected %s, got %s", want, path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	meta, body, err := markdown.Split(string(raw))
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if meta["id"] != "s-1" || meta["type"] != "output" || meta["duration_minutes"] != 45 {
		t.Fatalf("unexpected meta %v", meta)
	}
	for _, part := range []string{"# Review: Write Go post", "## Learned\n\nchannels", "- notes.md", "45m"} {
		if !strings.Contains(body, part) {
			t.Fatalf("expected body to contain %q, got %s", part, body)
		}
	}
}
