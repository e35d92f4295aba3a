// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package openrouter implements the completion client for the OpenRouter
// aggregation API.
//
// OpenRouter exposes many upstream LLM providers behind a single
// chat-completions endpoint. This package sends prompt transcripts there,
// classifies every failure into a small error taxonomy, and fans requests
// out across several models when comparison mode is active.
//
// CLOUD: Secure logging, size limits, and typed failure outcomes
package openrouter

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the OpenRouter API.
const (
	// DefaultBaseURL is the base URL for the OpenRouter API.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultTimeout bounds a single completion request. Without it a
	// stalled upstream would hang the dispatch forever.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// Fixed sampling parameters sent with every completion request.
const (
	samplingTemperature      = 0.7
	samplingMaxTokens        = 4096
	samplingTopP             = 0.9
	samplingFrequencyPenalty = 0.1
	samplingPresencePenalty  = 0.1
)

// sharedHTTPClient is used for all OpenRouter requests.
// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// SECURITY: TLS verification required for production
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: false, // SECURITY: TLS verification required for production
		},
	},
	Timeout: DefaultTimeout,
}

// Message represents a single message in a chat transcript.
type Message struct {
	Role    string `json:"role"`    // "user", "assistant", or "system"
	Content string `json:"content"` // The message content
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: "assistant", Content: content}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

// chatRequest is the request payload for the chat completions endpoint.
type chatRequest struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	Temperature      float64   `json:"temperature"`
	MaxTokens        int       `json:"max_tokens"`
	TopP             float64   `json:"top_p"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
	PresencePenalty  float64   `json:"presence_penalty"`
	Tools            []Tool    `json:"tools,omitempty"`
	ToolChoice       string    `json:"tool_choice,omitempty"`
}

// chatResponse is the response payload from the chat completions endpoint.
type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

// content returns the content of the first choice, or empty string if none.
func (r *chatResponse) content() string {
	if len(r.Choices) > 0 {
		return r.Choices[0].Message.Content
	}
	return ""
}

// apiErrorResponse represents an error response from the API.
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client is a client for the OpenRouter chat completions endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	siteURL    string
	siteName   string
}

// NewClient creates a new OpenRouter client with the given API key.
//
// The API key should be in the format "sk-or-..." as provided by OpenRouter.
// If the API key is empty, the client is still usable but every Complete
// call resolves to an invalid_credential outcome.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultBaseURL,
		httpClient: sharedHTTPClient,
		timeout:    DefaultTimeout,
		siteURL:    "https://birxuo.local",
		siteName:   "BIRXUO AI Assistant",
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// WithHTTPClient sets a custom HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithSiteURL sets the site URL sent in the HTTP-Referer header.
func (c *Client) WithSiteURL(url string) *Client {
	c.siteURL = url
	return c
}

// WithSiteName sets the site name sent in the X-Title header.
func (c *Client) WithSiteName(name string) *Client {
	c.siteName = name
	return c
}

// SetCredential replaces the API key on the client.
func (c *Client) SetCredential(apiKey string) {
	c.apiKey = strings.TrimSpace(apiKey)
}

// IsConfigured returns true if the client has an API key configured.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// APIKeyMasked returns a masked version of the API key for display.
// SECURITY: Never exposes API key fragments - use fingerprint instead.
func (c *Client) APIKeyMasked() string {
	if c.apiKey == "" {
		return "[not set]"
	}
	return fmt.Sprintf("[REDACTED, length=%d, fingerprint=%s]", len(c.apiKey), c.keyFingerprint())
}

// keyFingerprint returns a secure fingerprint of the API key for logging.
// SECURITY: Uses SHA-256 hash to create a unique identifier without exposing the key.
func (c *Client) keyFingerprint() string {
	if c.apiKey == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(c.apiKey))
	return hex.EncodeToString(h[:4]) // First 8 hex chars (4 bytes)
}

// setHeaders sets the required headers for OpenRouter API requests.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "birxuo/0.3.0")

	if c.siteURL != "" {
		req.Header.Set("HTTP-Referer", c.siteURL)
	}
	if c.siteName != "" {
		req.Header.Set("X-Title", c.siteName)
	}
}

// logRequest logs an API request without exposing sensitive data.
// CLOUD: Secure logging - does not log headers (may contain auth) or body.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("API Request: %s %s model key=%s", req.Method, req.URL.Path, c.keyFingerprint())
}

// logResponse logs an API response with duration.
// CLOUD: Secure logging - only logs status code and duration, no response body.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %d %s (%v)", resp.StatusCode, resp.Status, duration)
}

// readResponse reads the response body with size limits.
//
// SECURITY: Response size limit prevents memory exhaustion attacks.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Check if we hit the limit (response was truncated)
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}

	return body, nil
}

// Complete sends the transcript to the given model and resolves to an
// Outcome. It never returns a Go error: every failure mode, from a bad
// credential to a dropped connection, is folded into the outcome's typed
// error so callers have a single result shape to render.
//
// Tool declarations are attached only when the corresponding feature flag
// is set; tool_choice is always "auto" when any tool is declared.
func (c *Client) Complete(ctx context.Context, messages []Message, modelID string, flags FeatureFlags) Outcome {
	if !c.IsConfigured() {
		return ErrOutcome(KindInvalidCredential, "OpenRouter API key not configured")
	}

	reqBody := chatRequest{
		Model:            modelID,
		Messages:         messages,
		Temperature:      samplingTemperature,
		MaxTokens:        samplingMaxTokens,
		TopP:             samplingTopP,
		FrequencyPenalty: samplingFrequencyPenalty,
		PresencePenalty:  samplingPresencePenalty,
	}
	if tools := buildTools(flags); len(tools) > 0 {
		reqBody.Tools = tools
		reqBody.ToolChoice = "auto"
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return ErrOutcome(KindUnknown, fmt.Sprintf("failed to marshal request: %v", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return ErrOutcome(KindUnknown, fmt.Sprintf("failed to create request: %v", err))
	}

	c.setHeaders(req)
	c.logRequest(req)

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)

	// SECURITY: Clear Authorization header immediately after request to prevent logging
	req.Header.Del("Authorization")

	if err != nil {
		// Transport-level failure: DNS, connect, TLS, timeout.
		return ErrOutcome(KindNetworkFailure, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	c.logResponse(resp, time.Since(startTime))

	body, err := readResponse(resp)
	if err != nil {
		return ErrOutcome(KindNetworkFailure, err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return classifyHTTPError(resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return ErrOutcome(KindUnknown, fmt.Sprintf("failed to parse response: %v", err))
	}

	return TextOutcome(chatResp.content())
}

// classifyHTTPError maps a non-200 response onto the error taxonomy.
// The remote error message is carried through verbatim so unknown
// failures stay diagnosable.
func classifyHTTPError(statusCode int, body []byte) Outcome {
	message := remoteErrorMessage(statusCode, body)

	switch statusCode {
	case http.StatusUnauthorized:
		return ErrOutcome(KindInvalidCredential, message)
	case http.StatusTooManyRequests:
		return ErrOutcome(KindRateLimited, message)
	case http.StatusNotFound:
		return ErrOutcome(KindModelUnavailable, message)
	default:
		return ErrOutcome(KindUnknown, message)
	}
}

// remoteErrorMessage extracts the error message from an API error body,
// falling back to a generic HTTP description when the body is unparseable.
func remoteErrorMessage(statusCode int, body []byte) string {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return fmt.Sprintf("API Error: %d %s", statusCode, http.StatusText(statusCode))
}

// ValidateAPIKey checks if the API key format appears valid.
// Note: This doesn't verify the key with OpenRouter, just checks the format.
// SECURITY: Enhanced validation with length and entropy checks.
func ValidateAPIKey(apiKey string) bool {
	apiKey = strings.TrimSpace(apiKey)

	// OpenRouter keys typically start with "sk-or-"
	if !strings.HasPrefix(apiKey, "sk-or-") {
		return false
	}

	// Minimum length check (sk-or- prefix + at least 32 chars)
	if len(apiKey) < 38 {
		return false
	}

	// Count unique characters to detect obvious test keys like "sk-or-aaaaaaaaaa"
	uniqueChars := make(map[rune]bool)
	for _, char := range apiKey[6:] {
		uniqueChars[char] = true
	}

	return len(uniqueChars) >= 10
}
