// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/birxuo/birxuo-tui/internal/catalog"
	"github.com/birxuo/birxuo-tui/internal/openrouter"
	"github.com/birxuo/birxuo-tui/internal/orchestrator"
	"github.com/birxuo/birxuo-tui/internal/store"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the glamour renderer for one-shot output.
// USABILITY: renders markdown replies with syntax highlighting.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown for terminal display, falling back to
// the raw content when rendering fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// IsStdoutTTY reports whether stdout is attached to a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// displayResponse renders markdown only when stdout is a TTY, so piped
// output stays clean.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Println(response)
	}
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// HandleAsk runs a one-shot completion and prints the reply.
func HandleAsk(app *App, args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return fmt.Errorf("usage: birxuo ask <prompt>")
	}

	if !app.Client.IsConfigured() {
		return fmt.Errorf("no OpenRouter API key configured; run: birxuo setup")
	}

	if args.Model != "" {
		if !catalog.IsKnown(args.Model) {
			return fmt.Errorf("unknown model %q; known models: %s", args.Model, strings.Join(catalog.IDs(), ", "))
		}
		app.Session.SelectModel(args.Model)
	}

	req := askRequest(app, query)
	result, err := app.Orchestrator.Send(context.Background(), req)
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}

	multi := app.Session.MultiModel()
	for _, turn := range result.Turns {
		if multi {
			fmt.Printf("[%s]\n", catalog.DisplayName(turn.ModelID))
		}
		displayResponse(turn.Content)
	}
	return nil
}

// askRequest builds the orchestrator request from persisted toggles.
// Audio is always off for one-shot output.
func askRequest(app *App, query string) orchestrator.Request {
	appBuild := app.Settings.Bool(store.KeyAppBuilding, false)
	return orchestrator.Request{
		Content: query,
		Flags: openrouter.FeatureFlags{
			WebSearch:     app.Settings.Bool(store.KeyWebSearchEnabled, false),
			AppBuilding:   appBuild,
			AdvancedTools: appBuild,
		},
	}
}
