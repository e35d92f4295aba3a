// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSettings(t *testing.T) *Settings {
	t.Helper()
	s, err := OpenSettings(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSettingsRoundTrip(t *testing.T) {
	s := openTestSettings(t)

	_, ok, err := s.Get(KeySelectedModel)
	require.NoError(t, err)
	assert.False(t, ok, "absent key reported present")

	require.NoError(t, s.Set(KeySelectedModel, "qwen/qwen3-235b-a22b:free"))
	value, ok, err := s.Get(KeySelectedModel)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "qwen/qwen3-235b-a22b:free", value)

	// Overwrite replaces in place.
	require.NoError(t, s.Set(KeySelectedModel, "deepseek/deepseek-r1:free"))
	assert.Equal(t, "deepseek/deepseek-r1:free", s.String(KeySelectedModel, ""))

	require.NoError(t, s.Delete(KeySelectedModel))
	assert.Equal(t, "fallback", s.String(KeySelectedModel, "fallback"))
}

func TestSettingsBooleans(t *testing.T) {
	s := openTestSettings(t)

	assert.False(t, s.Bool(KeyAudioEnabled, false))
	assert.True(t, s.Bool(KeyAudioEnabled, true), "fallback ignored for absent key")

	require.NoError(t, s.SetBool(KeyAudioEnabled, true))
	assert.True(t, s.Bool(KeyAudioEnabled, false))

	// Booleans serialize as the literal strings.
	raw, _, err := s.Get(KeyAudioEnabled)
	require.NoError(t, err)
	assert.Equal(t, "true", raw)

	require.NoError(t, s.SetBool(KeyAudioEnabled, false))
	raw, _, _ = s.Get(KeyAudioEnabled)
	assert.Equal(t, "false", raw)

	// Malformed stored value falls back.
	require.NoError(t, s.Set(KeyAudioEnabled, "maybe"))
	assert.True(t, s.Bool(KeyAudioEnabled, true))
}

func TestSettingsStringList(t *testing.T) {
	s := openTestSettings(t)

	fallback := []string{"a/one"}
	assert.Equal(t, fallback, s.StringList(KeySelectedModels, fallback))

	models := []string{"a/one", "b/two", "c/three"}
	require.NoError(t, s.SetStringList(KeySelectedModels, models))
	assert.Equal(t, models, s.StringList(KeySelectedModels, nil))

	// Stored as a JSON array.
	raw, _, err := s.Get(KeySelectedModels)
	require.NoError(t, err)
	assert.JSONEq(t, `["a/one","b/two","c/three"]`, raw)
}

func TestSettingsSecrets(t *testing.T) {
	dir := t.TempDir()
	ks, err := NewKeystore("test-passphrase", filepath.Join(dir, "keystore.salt"))
	require.NoError(t, err)

	s, err := OpenSettings(filepath.Join(dir, "settings.db"))
	require.NoError(t, err)
	defer s.Close()
	s.WithKeystore(ks)

	require.NoError(t, s.SetSecret(KeyOpenRouterAPIKey, "sk-or-super-secret"))

	// The raw stored value never contains the credential.
	raw, _, err := s.Get(KeyOpenRouterAPIKey)
	require.NoError(t, err)
	assert.True(t, IsEncrypted(raw))
	assert.NotContains(t, raw, "super-secret")

	secret, err := s.Secret(KeyOpenRouterAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "sk-or-super-secret", secret)

	// Setting an empty secret removes the key.
	require.NoError(t, s.SetSecret(KeyOpenRouterAPIKey, ""))
	_, ok, err := s.Get(KeyOpenRouterAPIKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSettingsSecretsWithoutKeystore(t *testing.T) {
	s := openTestSettings(t)

	// Secrets are refused rather than stored in the clear.
	err := s.SetSecret(KeyOpenRouterAPIKey, "sk-or-secret")
	assert.ErrorIs(t, err, ErrNoKeystore)

	// Plaintext values from before the keystore existed still read back.
	require.NoError(t, s.Set(KeyElevenLabsAPIKey, "legacy-plaintext"))
	secret, err := s.Secret(KeyElevenLabsAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "legacy-plaintext", secret)
}
