package markdown

import (
	"strings"
	"testing"
)

func TestRenderKeepsFieldOrderAndSplitReadsItBack(t *testing.T) {
	t.Parallel()
	rendered, err := Render([]Field{
		{Key: "id", Value: "s-1"},
		{Key: "type", Value: "output"},
		{Key: "assets", Value: nil},
		{Key: "duration_minutes", Value: 25},
	}, "# Review\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "---\nid: s-1\ntype: output\nduration_minutes: 25\n---\n\n# Review\n"
	if rendered != want {
		t.Fatalf("expected %q, got %q", want, rendered)
	}
	meta, body, err := Split(rendered)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if meta["id"] != "s-1" || meta["duration_minutes"] != 25 {
		t.Fatalf("unexpected meta: %#v", meta)
	}
	if _, ok := meta["assets"]; ok {
		t.Fatalf("nil field must be skipped")
	}
	if body != "\n# Review\n" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestRenderWithoutFieldsIsBodyOnly(t *testing.T) {
	t.Parallel()
	out, err := Render(nil, "plain\n")
	if err != nil || out != "plain\n" {
		t.Fatalf("expected body only, got %q %v", out, err)
	}
}

func TestSplitEdgeCases(t *testing.T) {
	t.Parallel()
	meta, body, err := Split("plain")
	if err != nil || len(meta) != 0 || body != "plain" {
		t.Fatalf("expected passthrough, got %v %q %v", meta, body, err)
	}
	if _, _, err := Split("---\nid: x\n"); err == nil {
		t.Fatalf("expected unclosed block error")
	}
	meta, body, err = Split(strings.ReplaceAll("---\nid: x\n---\nbody\n", "\n", "\r\n"))
	if err != nil || meta["id"] != "x" || body != "body\n" {
		t.Fatalf("expected CRLF note to split, got %v %q %v", meta, body, err)
	}
}
