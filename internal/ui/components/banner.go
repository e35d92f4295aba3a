// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable rendering components for the TUI.
package components

import (
	"github.com/birxuo/birxuo-tui/internal/ui/styles"
	"github.com/birxuo/birxuo-tui/internal/util"
)

// =============================================================================
// INLINE BANNER
// =============================================================================

// RenderBanner renders a persistent one-line banner, truncated to width.
func RenderBanner(theme *styles.Theme, width int, text string) string {
	if text == "" {
		return ""
	}
	line := util.TruncateWidth(util.FirstLine(text), width-2)
	return theme.Banner.Width(width).Render(line)
}
