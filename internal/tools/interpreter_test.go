// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/birxuo/birxuo-tui/internal/openrouter"
)

// fakeCompleter records resubmissions and replies with a fixed text.
type fakeCompleter struct {
	calls     int
	lastMsgs  []openrouter.Message
	lastFlags openrouter.FeatureFlags
	reply     string
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []openrouter.Message, modelID string, flags openrouter.FeatureFlags) openrouter.Outcome {
	f.calls++
	f.lastMsgs = messages
	f.lastFlags = flags
	return openrouter.TextOutcome(f.reply)
}

func searchStub(t *testing.T, abstract string) *WebSearcher {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"AbstractText":"` + abstract + `","Answer":""}`))
	}))
	t.Cleanup(ts.Close)
	return NewWebSearcher().WithBaseURL(ts.URL).WithHTTPClient(ts.Client())
}

func TestInterpretPassThrough(t *testing.T) {
	it := NewInterpreter(searchStub(t, "unused"))
	c := &fakeCompleter{reply: "should not be called"}

	outcome := it.Interpret(context.Background(), c, nil, "test/model",
		openrouter.FeatureFlags{WebSearch: true}, "just a plain answer")

	if c.calls != 0 {
		t.Errorf("completer invoked %d times for a plain reply", c.calls)
	}
	if outcome.Text != "just a plain answer" {
		t.Errorf("Text = %q", outcome.Text)
	}
}

func TestInterpretWebSearch(t *testing.T) {
	it := NewInterpreter(searchStub(t, "Go is a programming language."))
	c := &fakeCompleter{reply: "final analysis"}

	transcript := []openrouter.Message{openrouter.NewUserMessage("what is go?")}
	reply := `I should call web_search_enhanced with {"query": "golang overview"}`

	outcome := it.Interpret(context.Background(), c, transcript, "test/model",
		openrouter.FeatureFlags{WebSearch: true, AppBuilding: true}, reply)

	if c.calls != 1 {
		t.Fatalf("completer invoked %d times, want 1", c.calls)
	}
	if outcome.Text != "final analysis" {
		t.Errorf("Text = %q", outcome.Text)
	}

	// The triggering flag is cleared, siblings survive.
	if c.lastFlags.WebSearch {
		t.Error("WebSearch flag still set on resubmission")
	}
	if !c.lastFlags.AppBuilding {
		t.Error("AppBuilding flag lost on resubmission")
	}

	// Transcript grew by the tool-invoking reply and the result turn.
	if len(c.lastMsgs) != 3 {
		t.Fatalf("augmented transcript has %d messages, want 3", len(c.lastMsgs))
	}
	if c.lastMsgs[1].Role != "assistant" || c.lastMsgs[1].Content != reply {
		t.Errorf("missing assistant turn with original reply")
	}
	followUp := c.lastMsgs[2]
	if followUp.Role != "user" {
		t.Errorf("follow-up role = %q, want user", followUp.Role)
	}
	if !strings.Contains(followUp.Content, "Go is a programming language.") {
		t.Errorf("follow-up missing search results: %q", followUp.Content)
	}
	if !strings.HasPrefix(followUp.Content, "Enhanced search results:") {
		t.Errorf("follow-up = %q", followUp.Content)
	}
}

func TestInterpretWebSearchDisabledFlag(t *testing.T) {
	it := NewInterpreter(searchStub(t, "unused"))
	c := &fakeCompleter{}

	reply := `web_search_enhanced "query": "anything"`
	outcome := it.Interpret(context.Background(), c, nil, "test/model", openrouter.FeatureFlags{}, reply)

	if c.calls != 0 {
		t.Error("augmentation ran with the flag disabled")
	}
	if outcome.Text != reply {
		t.Errorf("Text = %q", outcome.Text)
	}
}

func TestInterpretAnalyzeCode(t *testing.T) {
	it := NewInterpreter(searchStub(t, "unused"))
	c := &fakeCompleter{reply: "recommendations"}

	reply := `analyze_code {"code": "fmt.Println(1)", "language": "go"}`
	outcome := it.Interpret(context.Background(), c, nil, "test/model",
		openrouter.FeatureFlags{AdvancedTools: true}, reply)

	if c.calls != 1 {
		t.Fatalf("completer invoked %d times, want 1", c.calls)
	}
	if outcome.Text != "recommendations" {
		t.Errorf("Text = %q", outcome.Text)
	}
	if c.lastFlags.AdvancedTools || c.lastFlags.WebSearch {
		t.Error("tool flags still set on resubmission")
	}
	followUp := c.lastMsgs[len(c.lastMsgs)-1].Content
	if !strings.HasPrefix(followUp, "Code analysis results:") {
		t.Errorf("follow-up = %q", followUp)
	}
}

func TestInterpretAnalyzeCodeMissingArgument(t *testing.T) {
	it := NewInterpreter(searchStub(t, "unused"))
	c := &fakeCompleter{}

	// Language argument absent, so the reply passes through untouched.
	reply := `analyze_code {"code": "fmt.Println(1)"}`
	outcome := it.Interpret(context.Background(), c, nil, "test/model",
		openrouter.FeatureFlags{AdvancedTools: true}, reply)

	if c.calls != 0 {
		t.Error("augmentation ran with an incomplete argument set")
	}
	if outcome.Text != reply {
		t.Errorf("Text = %q", outcome.Text)
	}
}

func TestInterpretProcessData(t *testing.T) {
	it := NewInterpreter(searchStub(t, "unused"))
	c := &fakeCompleter{reply: "insights"}

	reply := `process_data with {"data": "[1,2,3]", "operation": "summarize"}`
	outcome := it.Interpret(context.Background(), c, nil, "test/model",
		openrouter.FeatureFlags{AdvancedTools: true}, reply)

	if c.calls != 1 {
		t.Fatalf("completer invoked %d times, want 1", c.calls)
	}
	if outcome.Text != "insights" {
		t.Errorf("Text = %q", outcome.Text)
	}
	followUp := c.lastMsgs[len(c.lastMsgs)-1].Content
	if !strings.HasPrefix(followUp, "Data processing results:") {
		t.Errorf("follow-up = %q", followUp)
	}
}

// chainCompleter always replies with a tool marker, then routes its own
// reply back through the interpreter the way the orchestrator does. The
// cleared flag on the resubmission keeps the chain at exactly two
// completions.
type chainCompleter struct {
	it    *Interpreter
	calls int
}

func (c *chainCompleter) Complete(ctx context.Context, messages []openrouter.Message, modelID string, flags openrouter.FeatureFlags) openrouter.Outcome {
	c.calls++
	reply := `web_search_enhanced "query": "again"`
	return c.it.Interpret(ctx, c, messages, modelID, flags, reply)
}

func TestInterpretAugmentsAtMostOnce(t *testing.T) {
	it := NewInterpreter(searchStub(t, "result"))
	c := &chainCompleter{it: it}

	reply := `web_search_enhanced "query": "first"`
	outcome := it.Interpret(context.Background(), c, nil, "test/model",
		openrouter.FeatureFlags{WebSearch: true}, reply)

	// Initial interpretation triggers one resubmission; the marker in
	// the second reply is ignored because the flag is cleared.
	if c.calls != 1 {
		t.Errorf("completer invoked %d times, want 1", c.calls)
	}
	if !outcome.OK() {
		t.Errorf("unexpected error: %v", outcome.Err)
	}
}
