package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.HistoryLimit != 2000 {
		t.Errorf("HistoryLimit = %d, want 2000", cfg.HistoryLimit)
	}
	if cfg.EscapeKey != "C-b" {
		t.Errorf("EscapeKey = %q, want C-b", cfg.EscapeKey)
	}
	if cfg.DefaultShell == "" {
		t.Error("DefaultShell should never be empty")
	}
}

func TestDefaultShellPathHonorsEnv(t *testing.T) {
	old := os.Getenv("SHELL")
	defer os.Setenv("SHELL", old)

	os.Setenv("SHELL", "/usr/local/bin/fish")
	if got := defaultShellPath(); got != "/usr/local/bin/fish" {
		t.Errorf("defaultShellPath() = %q, want /usr/local/bin/fish", got)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HistoryLimit != Default().HistoryLimit {
		t.Errorf("HistoryLimit = %d, want default", cfg.HistoryLimit)
	}
}

func TestLoadFromOverridesOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("history_limit: 5000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HistoryLimit != 5000 {
		t.Errorf("HistoryLimit = %d, want 5000", cfg.HistoryLimit)
	}
	if cfg.EscapeKey != Default().EscapeKey {
		t.Errorf("EscapeKey = %q, want untouched default %q", cfg.EscapeKey, Default().EscapeKey)
	}
}

func TestLoadFromRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("history_limit: [this is not an int\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestIsZmuxDirAndWriteMarker(t *testing.T) {
	dir := t.TempDir()
	if IsZmuxDir(dir) {
		t.Error("fresh temp dir should not be a zmux dir yet")
	}
	if err := WriteMarker(dir); err != nil {
		t.Fatal(err)
	}
	if !IsZmuxDir(dir) {
		t.Error("dir should be a zmux dir after WriteMarker")
	}
}

func TestResolveDirUsesZmuxDirEnv(t *testing.T) {
	ResetResolveCache()
	defer ResetResolveCache()

	dir := t.TempDir()
	target := filepath.Join(dir, "custom-root")
	old := os.Getenv("ZMUX_DIR")
	defer os.Setenv("ZMUX_DIR", old)
	os.Setenv("ZMUX_DIR", target)

	got, err := ResolveDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != target {
		t.Errorf("ResolveDir() = %q, want %q", got, target)
	}
	if !IsZmuxDir(target) {
		t.Error("ResolveDir should have written the marker file into the new root")
	}
}
