// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the BIRXUO TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderModel lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	NoticeBubble    lipgloss.Style
	ModelTag        lipgloss.Style

	// ==========================================================================
	// WARNING AND ERROR STYLES
	// ==========================================================================

	WarningText lipgloss.Style
	ErrorBox    lipgloss.Style
	Banner      lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusModel  lipgloss.Style
	FlagOn       lipgloss.Style
	FlagOff      lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// COMPLETION POPUP STYLES
	// ==========================================================================

	CompletionPopup    lipgloss.Style
	CompletionItem     lipgloss.Style
	CompletionSelected lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// SetSize records the terminal dimensions for layout-aware styles.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderModel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.NoticeBubble = lipgloss.NewStyle().
		Foreground(NoticeBubbleFg).
		Background(NoticeBubbleBg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(NoticeBubbleBorder).
		BorderLeft(true).
		PaddingLeft(2)

	t.ModelTag = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Warnings and errors
	t.WarningText = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	t.ErrorBox = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Rose).
		BorderLeft(true).
		PaddingLeft(2)

	t.Banner = lipgloss.NewStyle().
		Foreground(NoticeBubbleFg).
		Background(AmberDeep).
		Bold(true).
		Padding(0, 1)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusModel = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.FlagOn = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.FlagOff = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Completion popup
	t.CompletionPopup = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.CompletionItem = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.CompletionSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Overlay).
		Bold(true)

	// Spinner
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
}
