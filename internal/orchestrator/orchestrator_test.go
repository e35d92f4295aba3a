// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/birxuo/birxuo-tui/internal/openrouter"
	"github.com/birxuo/birxuo-tui/internal/session"
	"github.com/birxuo/birxuo-tui/internal/tools"
)

// scriptedCompleter returns canned outcomes per model and records every
// invocation.
type scriptedCompleter struct {
	mu       sync.Mutex
	calls    int
	windows  [][]openrouter.Message
	outcomes map[string]openrouter.Outcome
	fallback openrouter.Outcome
}

func newScripted(fallbackText string) *scriptedCompleter {
	return &scriptedCompleter{
		outcomes: make(map[string]openrouter.Outcome),
		fallback: openrouter.TextOutcome(fallbackText),
	}
}

func (s *scriptedCompleter) Complete(ctx context.Context, messages []openrouter.Message, modelID string, flags openrouter.FeatureFlags) openrouter.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.windows = append(s.windows, messages)
	if outcome, ok := s.outcomes[modelID]; ok {
		return outcome
	}
	return s.fallback
}

func (s *scriptedCompleter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// recordingSpeaker captures voiced texts.
type recordingSpeaker struct {
	spoken []string
}

func (r *recordingSpeaker) Speak(ctx context.Context, text string) {
	r.spoken = append(r.spoken, text)
}

func newTestInterpreter(t *testing.T) *tools.Interpreter {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"AbstractText":"search payload","Answer":""}`))
	}))
	t.Cleanup(ts.Close)
	return tools.NewInterpreter(tools.NewWebSearcher().WithBaseURL(ts.URL).WithHTTPClient(ts.Client()))
}

func TestSendSingleModel(t *testing.T) {
	sess := session.New("a/one")
	client := newScripted("assistant reply")
	o := New(client, newTestInterpreter(t), sess, nil)

	result, err := o.Send(context.Background(), Request{Content: "hello"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(result.Turns) != 1 || result.Turns[0].Content != "assistant reply" {
		t.Fatalf("Turns = %+v", result.Turns)
	}
	if result.Turns[0].ModelID != "a/one" {
		t.Errorf("turn ModelID = %q", result.Turns[0].ModelID)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Warnings = %v", result.Warnings)
	}

	// Session holds the user turn plus the reply and is idle again.
	if sess.TurnCount() != 2 {
		t.Errorf("TurnCount = %d, want 2", sess.TurnCount())
	}
	if sess.Loading() {
		t.Error("session still loading after Send")
	}
}

func TestSendRejectsEmptyAndBusy(t *testing.T) {
	sess := session.New("a/one")
	o := New(newScripted("ok"), newTestInterpreter(t), sess, nil)

	if _, err := o.Send(context.Background(), Request{Content: "   "}); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("empty Send = %v, want ErrEmptyMessage", err)
	}

	sess.Begin()
	if _, err := o.Send(context.Background(), Request{Content: "hi"}); !errors.Is(err, session.ErrBusy) {
		t.Errorf("busy Send = %v, want ErrBusy", err)
	}
}

func TestSendFailureLeavesNoTurn(t *testing.T) {
	sess := session.New("a/one")
	client := newScripted("unused")
	client.outcomes["a/one"] = openrouter.ErrOutcome(openrouter.KindRateLimited, "Rate limit exceeded")
	o := New(client, newTestInterpreter(t), sess, nil)

	result, err := o.Send(context.Background(), Request{Content: "hello"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(result.Turns) != 0 {
		t.Errorf("Turns = %+v, want none", result.Turns)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "Rate limit exceeded") {
		t.Errorf("Warnings = %v", result.Warnings)
	}

	// Only the user turn survives, and the session records the failure.
	if sess.TurnCount() != 1 {
		t.Errorf("TurnCount = %d, want 1", sess.TurnCount())
	}
	if sess.LastError() == "" {
		t.Error("LastError empty after failed completion")
	}
}

func TestWindowBounds(t *testing.T) {
	sess := session.New("a/one")
	for i := 0; i < 25; i++ {
		sess.AppendTurn(session.NewUserTurn(fmt.Sprintf("q%d", i)))
		sess.AppendTurn(session.NewAssistantTurn(fmt.Sprintf("a%d", i), "a/one"))
	}

	client := newScripted("reply")
	o := New(client, newTestInterpreter(t), sess, nil)

	if _, err := o.Send(context.Background(), Request{Content: "latest question"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	window := client.windows[0]

	// One system turn, ten history turns, one fresh user turn.
	if len(window) != 12 {
		t.Fatalf("window has %d messages, want 12", len(window))
	}
	if window[0].Role != "system" {
		t.Errorf("window[0].Role = %q, want system", window[0].Role)
	}
	for _, msg := range window[1:] {
		if msg.Role == "system" {
			t.Error("window carries more than one system turn")
		}
	}
	if last := window[len(window)-1]; last.Role != "user" || last.Content != "latest question" {
		t.Errorf("window tail = %+v", last)
	}
	// History is the most recent ten turns in order.
	if window[1].Content != "q20" || window[10].Content != "a24" {
		t.Errorf("window history = %q .. %q", window[1].Content, window[10].Content)
	}
}

func TestSystemPromptCapabilityClauses(t *testing.T) {
	base := SystemPrompt("Qwen3 235B", openrouter.FeatureFlags{})
	if !strings.Contains(base, "You are BIRXUO") || !strings.Contains(base, "Qwen3 235B") {
		t.Errorf("prompt = %q", base)
	}
	if strings.Contains(base, "web search capabilities") {
		t.Error("search clause present without the flag")
	}

	withSearch := SystemPrompt("Qwen3 235B", openrouter.FeatureFlags{WebSearch: true})
	if !strings.Contains(withSearch, "web search capabilities") {
		t.Error("search clause missing")
	}

	withApps := SystemPrompt("Qwen3 235B", openrouter.FeatureFlags{AppBuilding: true})
	if !strings.Contains(withApps, "application building capabilities") {
		t.Error("app building clause missing")
	}
}

func TestToolAugmentationCompletesExactlyTwice(t *testing.T) {
	sess := session.New("a/one")

	// The model always answers with a tool marker. Without the cleared
	// flag on resubmission this would loop forever.
	client := newScripted(`web_search_enhanced "query": "weather"`)
	o := New(client, newTestInterpreter(t), sess, nil)

	result, err := o.Send(context.Background(), Request{
		Content: "what's the weather?",
		Flags:   openrouter.FeatureFlags{WebSearch: true},
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got := client.callCount(); got != 2 {
		t.Errorf("completer invoked %d times, want exactly 2", got)
	}
	if len(result.Turns) != 1 {
		t.Fatalf("Turns = %+v", result.Turns)
	}

	// The augmented transcript carries the search payload.
	second := client.windows[1]
	tail := second[len(second)-1]
	if !strings.Contains(tail.Content, "search payload") {
		t.Errorf("augmented tail = %q", tail.Content)
	}
}

func TestSendMultiModel(t *testing.T) {
	sess := session.New("a/one")
	sess.SetCompareModels([]string{"a/one", "b/two", "c/three"})
	sess.SetMultiModel(true)

	client := newScripted("")
	client.outcomes["a/one"] = openrouter.TextOutcome("first reply")
	client.outcomes["b/two"] = openrouter.ErrOutcome(openrouter.KindModelUnavailable, "Model not found")
	client.outcomes["c/three"] = openrouter.TextOutcome("third reply")

	speaker := &recordingSpeaker{}
	o := New(client, newTestInterpreter(t), sess, speaker)

	result, err := o.Send(context.Background(), Request{Content: "compare", Audio: true})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	// Successful branches land in selection order; the failed branch
	// becomes a warning without disturbing its siblings.
	if len(result.Turns) != 2 {
		t.Fatalf("Turns = %+v", result.Turns)
	}
	if result.Turns[0].ModelID != "a/one" || result.Turns[1].ModelID != "c/three" {
		t.Errorf("turn order = %q, %q", result.Turns[0].ModelID, result.Turns[1].ModelID)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "Model not found") {
		t.Errorf("Warnings = %v", result.Warnings)
	}

	// Only the first selected model is voiced.
	if len(speaker.spoken) != 1 || speaker.spoken[0] != "first reply" {
		t.Errorf("spoken = %v", speaker.spoken)
	}
}

func TestSendMultiModelFirstBranchFails(t *testing.T) {
	sess := session.New("a/one")
	sess.SetCompareModels([]string{"a/one", "b/two"})
	sess.SetMultiModel(true)

	client := newScripted("")
	client.outcomes["a/one"] = openrouter.ErrOutcome(openrouter.KindRateLimited, "Rate limit exceeded")
	client.outcomes["b/two"] = openrouter.TextOutcome("second reply")

	speaker := &recordingSpeaker{}
	o := New(client, newTestInterpreter(t), sess, speaker)

	result, err := o.Send(context.Background(), Request{Content: "compare", Audio: true})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(result.Turns) != 1 || result.Turns[0].ModelID != "b/two" {
		t.Fatalf("Turns = %+v", result.Turns)
	}

	// Audio follows the first selected model, so nothing is voiced when
	// that branch fails.
	if len(speaker.spoken) != 0 {
		t.Errorf("spoken = %v", speaker.spoken)
	}
}
