// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech voices assistant replies through the ElevenLabs
// text-to-speech API, with a local synthesizer as fallback when the API
// is unreachable or unconfigured.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Defaults for the ElevenLabs API.
const (
	// DefaultBaseURL is the ElevenLabs API base URL.
	DefaultBaseURL = "https://api.elevenlabs.io"

	// DefaultVoiceID is the Adam voice.
	DefaultVoiceID = "pNInz6obpgDQGcFmaJgB"

	// DefaultModelID is the multilingual synthesis model.
	DefaultModelID = "eleven_multilingual_v2"

	// defaultTimeout bounds a synthesis request. Synthesis is slower
	// than chat completion for long replies.
	defaultTimeout = 30 * time.Second

	// maxAudioSize limits the audio body read.
	// SECURITY: Response size limit prevents memory exhaustion.
	maxAudioSize = 25 * 1024 * 1024
)

// Voice is one entry in the voice catalog.
type Voice struct {
	ID   string
	Name string
}

// AvailableVoices is the built-in voice catalog.
var AvailableVoices = []Voice{
	{ID: "21m00Tcm4TlvDq8ikWAM", Name: "Rachel"},
	{ID: "AZnzlk1XvdvUeBnXmlld", Name: "Domi"},
	{ID: "EXAVITQu4vr4xnSDxMaL", Name: "Bella"},
	{ID: "ErXwobaYiN019PkySvjV", Name: "Antoni"},
	{ID: "MF3mGyEYCl7XYWbV9V6O", Name: "Elli"},
	{ID: "TxGEqnHWrfWFTfGW9XjX", Name: "Josh"},
	{ID: "VR6AewLTigWG4xSOukaG", Name: "Arnold"},
	{ID: "pNInz6obpgDQGcFmaJgB", Name: "Adam"},
	{ID: "yoZ06aMxZJJ28mfd3POQ", Name: "Sam"},
}

// VoiceByID looks up a catalog voice by id.
func VoiceByID(id string) (Voice, bool) {
	for _, v := range AvailableVoices {
		if v.ID == id {
			return v, true
		}
	}
	return Voice{}, false
}

// ErrNotConfigured indicates the ElevenLabs API key is not set.
var ErrNotConfigured = errors.New("ElevenLabs API key not configured")

// synthesisRequest is the request payload for the text-to-speech endpoint.
type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Client is a client for the ElevenLabs text-to-speech endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an ElevenLabs client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// WithBaseURL sets a custom base URL. Used by tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithHTTPClient sets a custom HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Synthesize renders text to audio bytes (MPEG) with the given voice.
// An empty voice id falls back to the default voice.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("nothing to synthesize")
	}
	if voiceID == "" {
		voiceID = DefaultVoiceID
	}

	reqBody := synthesisRequest{
		Text:    text,
		ModelID: DefaultModelID,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.5,
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/v1/text-to-speech/" + voiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)

	// SECURITY: Clear the key header after the request to prevent logging.
	req.Header.Del("xi-api-key")

	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ElevenLabs API error: %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("empty audio response")
	}
	return audio, nil
}
