package slug

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Write Go post":         "write-go-post",
		"Focus: Go Concurrency": "focus-go-concurrency",
		"--a--b--":              "a-b",
		"Übung 3 / Kapitel":     "übung-3-kapitel",
		"  ":                    "session",
		"!!!":                   "session",
	}
	for in, want := range cases {
		if got := Make(in, "session"); got != want {
			t.Fatalf("Make(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestMakeTruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()
	long := Make(strings.Repeat("äbc ", 40), "x")
	if utf8.RuneCountInString(long) > MaxRunes {
		t.Fatalf("expected at most %d runes, got %q", MaxRunes, long)
	}
	if strings.HasSuffix(long, "-") || !utf8.ValidString(long) {
		t.Fatalf("unexpected slug %q", long)
	}
}
