// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable rendering components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/birxuo/birxuo-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusInfo carries the state the status bar displays.
type StatusInfo struct {
	ModelName  string
	MultiModel bool
	WebSearch  bool
	AppBuild   bool
	Audio      bool
	TurnCount  int
	Loading    bool
}

// RenderStatusBar renders the one-line status bar at the given width.
func RenderStatusBar(theme *styles.Theme, width int, info StatusInfo) string {
	var parts []string

	model := info.ModelName
	if info.MultiModel {
		model += " [compare]"
	}
	parts = append(parts, theme.StatusModel.Render(model))

	parts = append(parts, renderFlag(theme, "search", info.WebSearch))
	parts = append(parts, renderFlag(theme, "build", info.AppBuild))
	parts = append(parts, renderFlag(theme, "audio", info.Audio))
	parts = append(parts, fmt.Sprintf("%d turns", info.TurnCount))

	if info.Loading {
		parts = append(parts, theme.ThinkingText.Render("thinking..."))
	}

	line := strings.Join(parts, "  ")
	return theme.StatusBar.Width(width).Render(line)
}

func renderFlag(theme *styles.Theme, name string, enabled bool) string {
	if enabled {
		return theme.FlagOn.Render(name)
	}
	return theme.FlagOff.Render(name)
}
