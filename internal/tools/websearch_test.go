// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchCombinesAbstractAndAnswer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "golang" {
			t.Errorf("query = %q, want %q", got, "golang")
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format = %q, want json", got)
		}
		json.NewEncoder(w).Encode(instantAnswer{
			AbstractText: "Go is a language.",
			Answer:       "42",
		})
	}))
	defer ts.Close()

	w := NewWebSearcher().WithBaseURL(ts.URL).WithHTTPClient(ts.Client())
	got := w.Search(context.Background(), "golang")

	want := "Go is a language. 42"
	if got != want {
		t.Errorf("Search = %q, want %q", got, want)
	}
}

func TestSearchNoResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(instantAnswer{})
	}))
	defer ts.Close()

	w := NewWebSearcher().WithBaseURL(ts.URL).WithHTTPClient(ts.Client())
	if got := w.Search(context.Background(), "obscure query"); got != noResults {
		t.Errorf("Search = %q, want %q", got, noResults)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	w := NewWebSearcher()
	if got := w.Search(context.Background(), "   "); got != noResults {
		t.Errorf("Search = %q, want %q", got, noResults)
	}
}

func TestSearchTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // Dial fails.

	w := NewWebSearcher().WithBaseURL(ts.URL)
	if got := w.Search(context.Background(), "anything"); got != searchFailed {
		t.Errorf("Search = %q, want %q", got, searchFailed)
	}
}

func TestSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	w := NewWebSearcher().WithBaseURL(ts.URL).WithHTTPClient(ts.Client())
	if got := w.Search(context.Background(), "anything"); got != searchFailed {
		t.Errorf("Search = %q, want %q", got, searchFailed)
	}
}
