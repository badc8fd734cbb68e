package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreDir != filepath.Join(dir, "store") {
		t.Fatalf("unexpected store dir %s", cfg.StoreDir)
	}
	if cfg.CacheDBPath != filepath.Join(dir, "cache.db") {
		t.Fatalf("unexpected cache db %s", cfg.CacheDBPath)
	}
	if cfg.ServerAddr != ":8787" || cfg.SyncTimeout != 30*time.Second || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Location == nil {
		t.Fatalf("location must be resolved")
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := "sync:\n  api_base: https://sync.example.com/\n  timeout: 5s\ntimezone: UTC\nlog_level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, "timebox.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TIMEBOX_SERVER_ADDR", "127.0.0.1:9000")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SyncAPIBase != "https://sync.example.com" {
		t.Fatalf("expected trimmed api base, got %q", cfg.SyncAPIBase)
	}
	if cfg.SyncTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.SyncTimeout)
	}
	if cfg.Location != time.UTC {
		t.Fatalf("expected UTC, got %v", cfg.Location)
	}
	if cfg.ServerAddr != "127.0.0.1:9000" {
		t.Fatalf("expected env override, got %s", cfg.ServerAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug, got %s", cfg.LogLevel)
	}
}

func TestLoadRequiresDataDir(t *testing.T) {
	if _, err := Load(" "); err == nil {
		t.Fatalf("expected error for blank data dir")
	}
}
