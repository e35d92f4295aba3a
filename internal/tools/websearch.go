// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// websearch.go implements web search against the DuckDuckGo instant
// answer API, which requires no API key.
package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// defaultSearchURL is the DuckDuckGo instant answer endpoint.
	defaultSearchURL = "https://api.duckduckgo.com/"

	// defaultSearchTimeout bounds a single search request.
	defaultSearchTimeout = 15 * time.Second

	// maxSearchResponseSize limits the response body read.
	// SECURITY: Response size limit prevents memory exhaustion.
	maxSearchResponseSize = 5 * 1024 * 1024

	// noResults is returned when the search yields nothing usable.
	// The string goes straight into the augmented transcript, so the
	// model can acknowledge the empty search instead of the pipeline
	// failing.
	noResults = "No search results found."

	// searchFailed is returned on any transport or decode failure.
	searchFailed = "Error performing enhanced web search."
)

// instantAnswer is the subset of the DuckDuckGo response we consume.
type instantAnswer struct {
	AbstractText string `json:"AbstractText"`
	Answer       string `json:"Answer"`
}

// WebSearcher queries the DuckDuckGo instant answer API.
//
// All failure modes fold into the result string so a broken search never
// aborts a completion that is already in flight.
type WebSearcher struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client

	// limiter keeps repeated tool invocations polite toward the
	// unauthenticated endpoint.
	limiter *rate.Limiter
}

// NewWebSearcher creates a searcher with default endpoint and limits.
func NewWebSearcher() *WebSearcher {
	return &WebSearcher{
		baseURL:    defaultSearchURL,
		timeout:    defaultSearchTimeout,
		httpClient: &http.Client{Timeout: defaultSearchTimeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

// WithBaseURL sets a custom search endpoint. Used by tests.
func (w *WebSearcher) WithBaseURL(url string) *WebSearcher {
	w.baseURL = url
	return w
}

// WithHTTPClient sets a custom HTTP client. Used by tests.
func (w *WebSearcher) WithHTTPClient(hc *http.Client) *WebSearcher {
	w.httpClient = hc
	return w
}

// Search runs the query and returns a prose result string.
func (w *WebSearcher) Search(ctx context.Context, query string) string {
	if strings.TrimSpace(query) == "" {
		return noResults
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return searchFailed
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	searchURL := w.baseURL + "?q=" + url.QueryEscape(query) + "&format=json&no_html=1&skip_disambig=1"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return searchFailed
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return searchFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return searchFailed
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSearchResponseSize))
	if err != nil {
		return searchFailed
	}

	var answer instantAnswer
	if err := json.Unmarshal(body, &answer); err != nil {
		return searchFailed
	}

	var parts []string
	if answer.AbstractText != "" {
		parts = append(parts, answer.AbstractText)
	}
	if answer.Answer != "" {
		parts = append(parts, answer.Answer)
	}
	if len(parts) == 0 {
		return noResults
	}

	return strings.Join(parts, " ")
}
