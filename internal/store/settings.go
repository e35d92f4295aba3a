// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists user-facing state: preference settings in a
// SQLite key/value table, credentials encrypted at rest, and finished
// conversations as JSON archives.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

// Setting keys. Values are stored as strings; booleans serialize as
// "true"/"false" and lists as JSON arrays.
const (
	KeyOpenRouterAPIKey  = "openrouter_api_key"
	KeyAudioEnabled      = "audio_enabled"
	KeyElevenLabsAPIKey  = "elevenlabs_api_key"
	KeyElevenLabsVoiceID = "elevenlabs_voice_id"
	KeyWebSearchEnabled  = "web_search_enabled"
	KeySelectedModel     = "selected_model"
	KeyAutoExpand        = "auto_expand"
	KeyAppBuilding       = "app_building_enabled"
	KeyMultiModel        = "multi_model_enabled"
	KeySelectedModels    = "selected_models"
)

// ErrNoKeystore indicates a secret operation on a store without a keystore.
var ErrNoKeystore = errors.New("keystore not configured")

// Settings is a SQLite-backed key/value store for user preferences.
type Settings struct {
	db *sql.DB
	ks *Keystore
}

// OpenSettings opens (creating if needed) the settings database at path.
func OpenSettings(path string) (*Settings, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}

	// One writer at a time keeps the kv workload simple and avoids
	// SQLITE_BUSY under concurrent toggles.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create settings table: %w", err)
	}

	return &Settings{db: db}, nil
}

// WithKeystore attaches a keystore for secret values.
func (s *Settings) WithKeystore(ks *Keystore) *Settings {
	s.ks = ks
	return s
}

// Close releases the database handle.
func (s *Settings) Close() error {
	return s.db.Close()
}

// Get returns the raw value for key and whether it was present.
func (s *Settings) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores a raw value under key.
func (s *Settings) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Settings) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	return err
}

// String returns the value for key, or fallback when absent.
func (s *Settings) String(key, fallback string) string {
	value, ok, err := s.Get(key)
	if err != nil || !ok {
		return fallback
	}
	return value
}

// Bool returns the boolean for key, or fallback when absent or malformed.
func (s *Settings) Bool(key string, fallback bool) bool {
	value, ok, err := s.Get(key)
	if err != nil || !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// SetBool stores a boolean as "true"/"false".
func (s *Settings) SetBool(key string, value bool) error {
	return s.Set(key, strconv.FormatBool(value))
}

// StringList returns the JSON string list for key, or fallback when
// absent or malformed.
func (s *Settings) StringList(key string, fallback []string) []string {
	value, ok, err := s.Get(key)
	if err != nil || !ok {
		return fallback
	}
	var list []string
	if err := json.Unmarshal([]byte(value), &list); err != nil {
		return fallback
	}
	return list
}

// SetStringList stores a string list as a JSON array.
func (s *Settings) SetStringList(key string, list []string) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.Set(key, string(data))
}

// Secret returns the decrypted value for a credential key. Plaintext
// values left over from before the keystore existed are returned as-is.
func (s *Settings) Secret(key string) (string, error) {
	value, ok, err := s.Get(key)
	if err != nil || !ok {
		return "", err
	}
	if !IsEncrypted(value) {
		return value, nil
	}
	if s.ks == nil {
		return "", ErrNoKeystore
	}
	return s.ks.DecryptString(value)
}

// SetSecret stores a credential key encrypted at rest. Without a
// keystore the value is refused rather than silently stored in the
// clear.
func (s *Settings) SetSecret(key, value string) error {
	if value == "" {
		return s.Delete(key)
	}
	if s.ks == nil {
		return ErrNoKeystore
	}
	encrypted, err := s.ks.EncryptString(value)
	if err != nil {
		return err
	}
	return s.Set(key, encrypted)
}
