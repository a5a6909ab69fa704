package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatalf("config %s should not exist", path)
	}
	if cfg.Paths.QueueRoot != defaultQueueRoot {
		t.Fatalf("queue root = %q", cfg.Paths.QueueRoot)
	}
	if cfg.Paths.ScratchDir != defaultScratchDir {
		t.Fatalf("scratch dir = %q", cfg.Paths.ScratchDir)
	}
	if cfg.Logging.Format != "cups" || cfg.Logging.Level != "info" {
		t.Fatalf("logging defaults = %+v", cfg.Logging)
	}
	if !cfg.Journal.Enabled {
		t.Fatal("journal should default to enabled")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
queue_root = "` + dir + `/queue"
scratch_dir = "` + dir + `/scratch"

[journal]
enabled = false

[logging]
level = "debug"
format = "text"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Paths.QueueRoot != filepath.Join(dir, "queue") {
		t.Fatalf("queue root = %q", cfg.Paths.QueueRoot)
	}
	if cfg.Journal.Enabled {
		t.Fatal("journal should be disabled")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
}

func TestLoadEnvConfigPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.toml")
	content := "[paths]\nqueue_root = \"" + dir + "/q\"\nscratch_dir = \"" + dir + "/s\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)

	cfg, resolved, exists, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Paths.QueueRoot != filepath.Join(dir, "q") {
		t.Fatalf("queue root = %q", cfg.Paths.QueueRoot)
	}
}

func TestLoadRejectsBadFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[logging]\nformat = \"xml\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestScratchDirEnvOverride(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvScratchDir, "")
	if cfg.ScratchDir() != defaultScratchDir {
		t.Fatalf("scratch dir = %q", cfg.ScratchDir())
	}

	override := t.TempDir()
	t.Setenv(EnvScratchDir, override)
	if cfg.ScratchDir() != override {
		t.Fatalf("scratch dir = %q, want %q", cfg.ScratchDir(), override)
	}
}

func TestJournalPathDefaultsUnderQueueRoot(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(cfg.Paths.QueueRoot, "journal.db")
	if cfg.JournalPath() != want {
		t.Fatalf("journal path = %q, want %q", cfg.JournalPath(), want)
	}

	cfg.Journal.Path = "/tmp/other.db"
	if cfg.JournalPath() != "/tmp/other.db" {
		t.Fatalf("journal path override = %q", cfg.JournalPath())
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("sample config should exist")
	}
	if cfg.Paths.QueueRoot != defaultQueueRoot {
		t.Fatalf("sample queue root = %q", cfg.Paths.QueueRoot)
	}
}
