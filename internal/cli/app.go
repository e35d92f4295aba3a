// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/birxuo/birxuo-tui/internal/catalog"
	"github.com/birxuo/birxuo-tui/internal/config"
	"github.com/birxuo/birxuo-tui/internal/openrouter"
	"github.com/birxuo/birxuo-tui/internal/orchestrator"
	"github.com/birxuo/birxuo-tui/internal/session"
	"github.com/birxuo/birxuo-tui/internal/speech"
	"github.com/birxuo/birxuo-tui/internal/store"
	"github.com/birxuo/birxuo-tui/internal/tools"
)

// EnvKeyringPassphrase overrides the keyring passphrase used to encrypt
// stored credentials.
const EnvKeyringPassphrase = "BIRXUO_KEYRING_PASSPHRASE"

// defaultKeyringPassphrase protects stored secrets on machines where no
// passphrase is configured. SECURITY: this is obfuscation against casual
// file reads, not protection against an attacker with local access; set
// BIRXUO_KEYRING_PASSPHRASE for a real boundary.
const defaultKeyringPassphrase = "birxuo-local-keyring"

// App bundles the wired application services.
type App struct {
	Config       *config.Config
	Settings     *store.Settings
	Archive      *store.Archive
	Client       *openrouter.Client
	Session      *session.Session
	Narrator     *speech.Narrator
	Orchestrator *orchestrator.Orchestrator
}

// Close releases held resources.
func (a *App) Close() {
	if a.Settings != nil {
		a.Settings.Close()
	}
}

// Bootstrap loads configuration and wires every service the TUI and the
// one-shot commands need. Stored credentials take precedence over
// config-file and environment values.
func Bootstrap() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dir, err := config.Dir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	settings, err := store.OpenSettings(filepath.Join(dir, "settings.db"))
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}

	passphrase := os.Getenv(EnvKeyringPassphrase)
	if passphrase == "" {
		passphrase = defaultKeyringPassphrase
	}
	ks, err := store.NewKeystore(passphrase, filepath.Join(dir, "keyring.salt"))
	if err != nil {
		settings.Close()
		return nil, fmt.Errorf("init keystore: %w", err)
	}
	settings.WithKeystore(ks)

	archive, err := store.NewArchive(filepath.Join(dir, "conversations"))
	if err != nil {
		settings.Close()
		return nil, fmt.Errorf("open archive: %w", err)
	}

	client := openrouter.NewClient(openRouterCredential(settings, cfg)).
		WithTimeout(cfg.Timeout()).
		WithSiteName("BIRXUO")

	sess := session.New(selectedModel(settings, cfg))
	sess.SetMultiModel(settings.Bool(store.KeyMultiModel, false))
	if models := settings.StringList(store.KeySelectedModels, nil); len(models) > 0 {
		// A corrupt stored list falls back to the single selected model.
		_ = sess.SetCompareModels(models)
	}

	interp := tools.NewInterpreter(tools.NewWebSearcher())

	var narrator *speech.Narrator
	if key := elevenLabsCredential(settings, cfg); key != "" {
		voiceID := settings.String(store.KeyElevenLabsVoiceID, cfg.Speech.VoiceID)
		narrator = speech.NewNarrator(speech.NewClient(key), voiceID)
	}

	// A typed nil narrator must not become a non-nil Speaker interface.
	var speaker orchestrator.Speaker
	if narrator != nil {
		speaker = narrator
	}
	orch := orchestrator.New(client, interp, sess, speaker)

	return &App{
		Config:       cfg,
		Settings:     settings,
		Archive:      archive,
		Client:       client,
		Session:      sess,
		Narrator:     narrator,
		Orchestrator: orch,
	}, nil
}

// openRouterCredential resolves the OpenRouter API key. The encrypted
// settings store wins over config file and environment.
func openRouterCredential(settings *store.Settings, cfg *config.Config) string {
	if key, err := settings.Secret(store.KeyOpenRouterAPIKey); err == nil && key != "" {
		return key
	}
	return cfg.OpenRouter.APIKey
}

// elevenLabsCredential resolves the ElevenLabs API key, if any.
func elevenLabsCredential(settings *store.Settings, cfg *config.Config) string {
	if key, err := settings.Secret(store.KeyElevenLabsAPIKey); err == nil && key != "" {
		return key
	}
	return cfg.Speech.APIKey
}

// selectedModel resolves the startup model, falling back to the
// configured default when the stored choice is unknown.
func selectedModel(settings *store.Settings, cfg *config.Config) string {
	stored := settings.String(store.KeySelectedModel, "")
	if stored != "" && catalog.IsKnown(stored) {
		return stored
	}
	return cfg.DefaultModel
}
