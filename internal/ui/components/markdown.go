// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable rendering components for the TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// MarkdownRenderer renders assistant replies as terminal markdown.
// A nil or failed renderer degrades to plain text, never to an error.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdownRenderer creates a renderer wrapping at the given width.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	m := &MarkdownRenderer{}
	m.SetWidth(width)
	return m
}

// SetWidth rebuilds the renderer for a new wrap width. Glamour renderers
// are immutable with respect to word wrap, so resize means rebuild.
func (m *MarkdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if m.renderer != nil && m.width == width {
		return
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.renderer = nil
		return
	}
	m.renderer = renderer
	m.width = width
}

// Render renders markdown content for terminal display.
// Returns the original content if rendering fails.
func (m *MarkdownRenderer) Render(content string) string {
	if m.renderer == nil {
		return content
	}

	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}
