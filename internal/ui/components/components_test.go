// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/birxuo/birxuo-tui/internal/ui/styles"
)

func TestMarkdownRendererFallback(t *testing.T) {
	m := NewMarkdownRenderer(80)

	// Whatever the terminal profile, content must survive rendering
	out := m.Render("# Title\n\nSome **bold** text.")
	if out == "" {
		t.Fatal("rendered markdown is empty")
	}
	if !strings.Contains(out, "Title") {
		t.Errorf("rendered output lost heading text: %q", out)
	}
}

func TestMarkdownRendererResize(t *testing.T) {
	m := NewMarkdownRenderer(80)
	m.SetWidth(40)
	m.SetWidth(5) // clamps to minimum

	if out := m.Render("plain text"); !strings.Contains(out, "plain text") {
		t.Errorf("output after resize = %q", out)
	}
}

func TestHighlightCode(t *testing.T) {
	code := "func main() {\n\tfmt.Println(\"hi\")\n}"
	out := HighlightCode(code, "go")
	if out == "" {
		t.Fatal("highlighted code is empty")
	}
	if !strings.Contains(out, "main") {
		t.Errorf("highlighted output lost identifiers: %q", out)
	}
}

func TestRenderFencedBlocks(t *testing.T) {
	content := "before\n```go\nvar x int\n```\nafter"
	out := RenderFencedBlocks(content)
	if !strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Errorf("prose around fence lost: %q", out)
	}

	// Unterminated fences pass through unchanged
	raw := "text ```go\nno closer"
	if out := RenderFencedBlocks(raw); !strings.Contains(out, "no closer") {
		t.Errorf("unterminated fence mangled: %q", out)
	}

	// No fences at all is the identity
	if out := RenderFencedBlocks("plain"); out != "plain" {
		t.Errorf("plain content changed: %q", out)
	}
}

func TestRenderStatusBar(t *testing.T) {
	theme := styles.NewTheme()
	out := RenderStatusBar(theme, 80, StatusInfo{
		ModelName:  "DeepSeek-R1",
		MultiModel: true,
		WebSearch:  true,
		TurnCount:  4,
	})

	if !strings.Contains(out, "DeepSeek-R1") {
		t.Errorf("status bar missing model name: %q", out)
	}
	if !strings.Contains(out, "[compare]") {
		t.Errorf("status bar missing compare marker: %q", out)
	}
	if !strings.Contains(out, "4 turns") {
		t.Errorf("status bar missing turn count: %q", out)
	}
}

func TestRenderBanner(t *testing.T) {
	theme := styles.NewTheme()

	if out := RenderBanner(theme, 80, ""); out != "" {
		t.Errorf("empty banner should render nothing, got %q", out)
	}

	out := RenderBanner(theme, 80, "model unavailable, try /model to switch\nsecond line")
	if !strings.Contains(out, "model unavailable") {
		t.Errorf("banner missing text: %q", out)
	}
	if strings.Contains(out, "second line") {
		t.Errorf("banner should keep only the first line: %q", out)
	}
}
