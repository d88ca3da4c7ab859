// Package config resolves the zmux server's on-disk footprint (socket
// directory root and a handful of core knobs) and loads the optional
// config.yaml that overrides them. Key-binding tables, ACLs, and the
// command grammar are out of scope here; this package only carries the
// ambient values the multiplexing core itself needs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const markerFile = ".zmux-dir.txt"

// Config holds the handful of knobs the core consumes directly. Everything
// else (status-line formats, key tables, ACLs) belongs to the out-of-scope
// command layer and is not modeled here.
type Config struct {
	// HistoryLimit is the default scrollback line cap for a new grid.
	HistoryLimit int `yaml:"history_limit"`
	// DefaultShell is the command run when a session does not specify one.
	DefaultShell string `yaml:"default_shell"`
	// EscapeKey is the client-side prefix key (default: ctrl-b).
	EscapeKey string `yaml:"escape_key"`
}

// Default returns the built-in configuration, used when no config.yaml
// exists and before Load is able to run.
func Default() *Config {
	return &Config{
		HistoryLimit: 2000,
		DefaultShell: defaultShellPath(),
		EscapeKey:    "C-b",
	}
}

func defaultShellPath() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// IsZmuxDir reports whether dir contains a valid marker file.
func IsZmuxDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, markerFile))
	return err == nil && !info.IsDir()
}

// WriteMarker writes the marker file identifying dir as a zmux root.
func WriteMarker(dir string) error {
	return os.WriteFile(filepath.Join(dir, markerFile), []byte("1\n"), 0o644)
}

var (
	resolvedDir string
	resolvedErr error
	resolveOnce sync.Once
)

// ResolveDir finds the zmux root directory: the ZMUX_DIR env var, or
// ~/.zmux/, created on first use. The result is cached for the process.
func ResolveDir() (string, error) {
	resolveOnce.Do(func() {
		resolvedDir, resolvedErr = resolveDir()
	})
	return resolvedDir, resolvedErr
}

// ResetResolveCache resets the cached ResolveDir result. For testing only.
func ResetResolveCache() {
	resolveOnce = sync.Once{}
	resolvedDir = ""
	resolvedErr = nil
}

func resolveDir() (string, error) {
	if dir := os.Getenv("ZMUX_DIR"); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("ZMUX_DIR: %w", err)
		}
		if err := ensureZmuxDir(abs); err != nil {
			return "", err
		}
		return abs, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".zmux")
	if err := ensureZmuxDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func ensureZmuxDir(dir string) error {
	if IsZmuxDir(dir) {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return WriteMarker(dir)
}

// Dir returns the resolved zmux root, falling back to ~/.zmux on error so
// callers that run before the root is guaranteed to exist still get a
// usable path.
func Dir() string {
	dir, err := ResolveDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return filepath.Join(".", ".zmux")
		}
		return filepath.Join(home, ".zmux")
	}
	return dir
}

// Load reads <zmux-dir>/config.yaml, falling back to Default() for any
// field the file doesn't set. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(Dir(), "config.yaml"))
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if override.HistoryLimit > 0 {
		cfg.HistoryLimit = override.HistoryLimit
	}
	if override.DefaultShell != "" {
		cfg.DefaultShell = override.DefaultShell
	}
	if override.EscapeKey != "" {
		cfg.EscapeKey = override.EscapeKey
	}
	return cfg, nil
}
