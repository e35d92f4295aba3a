// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// reloadTimeout leaves room for the debounce window plus fsnotify
// delivery on slow CI runners.
const reloadTimeout = 5 * time.Second

func writeConfigFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfigFile(t, path, "[openrouter]\ntimeout_seconds = 60\n")

	reloads := make(chan *Config, 1)
	w, err := Watch(path, func(cfg *Config) {
		select {
		case reloads <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	writeConfigFile(t, path, "[openrouter]\ntimeout_seconds = 120\n")

	select {
	case cfg := <-reloads:
		if cfg.Timeout() != 120*time.Second {
			t.Errorf("reloaded timeout = %v, want 120s", cfg.Timeout())
		}
	case <-time.After(reloadTimeout):
		t.Fatal("no reload delivered after config change")
	}
}

func TestWatchIgnoresParseFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfigFile(t, path, "[openrouter]\ntimeout_seconds = 60\n")

	reloads := make(chan *Config, 2)
	w, err := Watch(path, func(cfg *Config) {
		reloads <- cfg
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	// A half-saved file must not reach the callback.
	writeConfigFile(t, path, "[openrouter\nnot toml")

	select {
	case cfg := <-reloads:
		t.Fatalf("broken file delivered a reload: %+v", cfg)
	case <-time.After(2 * debounceWindow):
	}

	// A subsequent valid save recovers.
	writeConfigFile(t, path, "[openrouter]\ntimeout_seconds = 90\n")

	select {
	case cfg := <-reloads:
		if cfg.Timeout() != 90*time.Second {
			t.Errorf("reloaded timeout = %v, want 90s", cfg.Timeout())
		}
	case <-time.After(reloadTimeout):
		t.Fatal("no reload delivered after recovery")
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeConfigFile(t, path, "[openrouter]\ntimeout_seconds = 60\n")

	reloads := make(chan *Config, 1)
	w, err := Watch(path, func(cfg *Config) {
		reloads <- cfg
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	writeConfigFile(t, filepath.Join(dir, "other.toml"), "unrelated = true\n")

	select {
	case <-reloads:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(2 * debounceWindow):
	}
}
