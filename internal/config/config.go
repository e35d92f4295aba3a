// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// birxuo TUI.
//
// Configuration comes from ~/.birxuo/config.toml with built-in defaults
// and environment variable overrides.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/birxuo/birxuo-tui/internal/catalog"
	"github.com/birxuo/birxuo-tui/internal/speech"
	"github.com/birxuo/birxuo-tui/internal/util"
)

// Environment variable overrides.
const (
	EnvOpenRouterKey = "BIRXUO_OPENROUTER_KEY"
	EnvElevenLabsKey = "BIRXUO_ELEVENLABS_KEY"
	EnvModel         = "BIRXUO_MODEL"
	EnvConfigDir     = "BIRXUO_CONFIG_DIR"
)

// Config is the complete birxuo configuration.
type Config struct {
	Version      string `toml:"version"`
	DefaultModel string `toml:"default_model"`

	OpenRouter OpenRouterConfig `toml:"openrouter"`
	Speech     SpeechConfig     `toml:"speech"`
	UI         UIConfig         `toml:"ui"`
}

// OpenRouterConfig configures the completion client.
type OpenRouterConfig struct {
	// APIKey is the OpenRouter credential. Usually empty here and
	// supplied from the encrypted settings store or environment.
	APIKey string `toml:"api_key"`

	// BaseURL overrides the API endpoint. Empty means the public API.
	BaseURL string `toml:"base_url"`

	// TimeoutSeconds bounds a single completion request.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// SpeechConfig configures the ElevenLabs adapter.
type SpeechConfig struct {
	APIKey  string `toml:"api_key"`
	VoiceID string `toml:"voice_id"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// Theme selects the color theme: "dark" or "light".
	Theme string `toml:"theme"`

	// Markdown enables markdown rendering of assistant replies.
	Markdown bool `toml:"markdown"`

	// AutoExpand expands long replies instead of folding them.
	AutoExpand bool `toml:"auto_expand"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version:      "0.3.0",
		DefaultModel: catalog.DefaultModelID,
		OpenRouter: OpenRouterConfig{
			TimeoutSeconds: 60,
		},
		Speech: SpeechConfig{
			VoiceID: speech.DefaultVoiceID,
		},
		UI: UIConfig{
			Theme:    "dark",
			Markdown: true,
		},
	}
}

// Dir returns the configuration directory (~/.birxuo), honoring the
// BIRXUO_CONFIG_DIR override.
func Dir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".birxuo"), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file, applies environment overrides, and
// validates. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			cfg.normalize()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if key := os.Getenv(EnvOpenRouterKey); key != "" {
		c.OpenRouter.APIKey = key
	}
	if key := os.Getenv(EnvElevenLabsKey); key != "" {
		c.Speech.APIKey = key
	}
	if model := os.Getenv(EnvModel); model != "" {
		c.DefaultModel = model
	}
}

// normalize clamps out-of-range values back to safe defaults rather than
// rejecting the whole file.
func (c *Config) normalize() {
	if c.DefaultModel == "" || !catalog.IsKnown(c.DefaultModel) {
		c.DefaultModel = catalog.DefaultModelID
	}
	if c.OpenRouter.TimeoutSeconds < 1 || c.OpenRouter.TimeoutSeconds > 600 {
		c.OpenRouter.TimeoutSeconds = 60
	}
	if c.Speech.VoiceID == "" {
		c.Speech.VoiceID = speech.DefaultVoiceID
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		c.UI.Theme = "dark"
	}
}

// Timeout returns the completion timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.OpenRouter.TimeoutSeconds) * time.Second
}

// Save writes the configuration to its default path.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to an explicit path.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash.
	// Config may hold credentials, so the file and directory stay private.
	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// String renders a redacted summary for display.
func (c *Config) String() string {
	redact := func(s string) string {
		if s == "" {
			return "[not set]"
		}
		return "[set, length=" + strconv.Itoa(len(s)) + "]"
	}
	return fmt.Sprintf("model=%s openrouter_key=%s elevenlabs_key=%s voice=%s theme=%s",
		c.DefaultModel, redact(c.OpenRouter.APIKey), redact(c.Speech.APIKey),
		c.Speech.VoiceID, c.UI.Theme)
}
