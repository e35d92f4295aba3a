// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the TUI.
package chat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/birxuo/birxuo-tui/internal/catalog"
	"github.com/birxuo/birxuo-tui/internal/ui/components"
)

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	return vp
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the full chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Starting BIRXUO..."
	}

	sections := []string{m.renderHeader()}

	if m.banner != "" {
		sections = append(sections, components.RenderBanner(m.theme, m.width, m.banner))
	}

	sections = append(sections, m.viewport.View())

	if m.completions.Visible {
		sections = append(sections, m.renderCompletions())
	}

	sections = append(sections, m.renderStatusBar(), m.renderInput())
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("BIRXUO")
	model := ""
	if m.sess != nil {
		model = m.theme.HeaderModel.Render(catalog.DisplayName(m.sess.SelectedModel()))
	}
	return m.theme.Header.Width(m.width).Render(title + "  " + model)
}

func (m Model) renderStatusBar() string {
	info := components.StatusInfo{}
	if m.sess != nil {
		info.ModelName = catalog.DisplayName(m.sess.SelectedModel())
		info.MultiModel = m.sess.MultiModel()
		info.TurnCount = m.sess.TurnCount()
		info.Loading = m.sess.Loading()
	}
	flags := m.featureFlags()
	info.WebSearch = flags.WebSearch
	info.AppBuild = flags.AppBuilding
	info.Audio = m.audioEnabled()

	return components.RenderStatusBar(m.theme, m.width, info)
}

func (m Model) renderInput() string {
	line := m.input.View()
	if m.sess != nil && m.sess.Loading() {
		line = m.spinner.View() + " " + line
	}
	return m.theme.InputContainer.Width(m.width).Render(line)
}

// renderCompletions renders the completion popup above the input.
func (m Model) renderCompletions() string {
	const maxVisible = 8

	items := m.completions.Completions
	if len(items) > maxVisible {
		items = items[:maxVisible]
	}

	var lines []string
	for i, comp := range items {
		label := comp.Display
		if comp.Description != "" {
			label += "  " + comp.Description
		}
		if i == m.completions.Selected {
			lines = append(lines, m.theme.CompletionSelected.Render(label))
		} else {
			lines = append(lines, m.theme.CompletionItem.Render(label))
		}
	}

	return m.theme.CompletionPopup.Render(strings.Join(lines, "\n"))
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// refreshViewport re-renders the transcript and pins the view to the
// latest entry.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	if len(m.entries) == 0 {
		return m.theme.ThinkingText.Render("No messages yet.")
	}

	blocks := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		blocks = append(blocks, m.renderEntry(e))
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderEntry(e entry) string {
	maxWidth := m.width - 8
	if maxWidth < 20 {
		maxWidth = 20
	}

	switch e.kind {
	case entryUser:
		bubble := m.theme.UserBubble.MaxWidth(maxWidth).Render(e.text)
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, bubble)

	case entryAssistant:
		content := e.text
		if m.useMarkdown {
			content = m.markdown.Render(content)
		} else {
			content = components.RenderFencedBlocks(content)
		}

		bubble := m.theme.AssistantBubble.MaxWidth(maxWidth).Render(content)
		if e.modelID != "" && m.sess != nil && m.sess.MultiModel() {
			tag := m.theme.ModelTag.Render(catalog.DisplayName(e.modelID))
			return tag + "\n" + bubble
		}
		return bubble

	case entryWarning:
		return m.theme.WarningText.MaxWidth(maxWidth).Render("warning: " + e.text)

	case entryError:
		return m.theme.ErrorBox.MaxWidth(maxWidth).Render(e.text)

	default:
		return m.theme.NoticeBubble.MaxWidth(maxWidth).Render(e.text)
	}
}

// =============================================================================
// HELP RENDERING
// =============================================================================

// renderHelp builds the /help text from the registry, optionally
// filtered to one category.
func (m Model) renderHelp(category string) string {
	byCat := m.registry.ByCategory()

	categories := make([]string, 0, len(byCat))
	for name := range byCat {
		if category != "" && !strings.EqualFold(name, category) {
			continue
		}
		categories = append(categories, name)
	}
	sort.Strings(categories)

	if len(categories) == 0 {
		return fmt.Sprintf("No commands in category %q.", category)
	}

	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, name := range categories {
		cmds := byCat[name]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

		fmt.Fprintf(&b, "\n%s:\n", name)
		for _, cmd := range cmds {
			usage := cmd.Usage
			if usage == "" {
				usage = cmd.Name
			}
			fmt.Fprintf(&b, "  %-28s %s\n", usage, cmd.Description)
		}
	}
	b.WriteString("\nTab completes commands and arguments.")
	return b.String()
}
