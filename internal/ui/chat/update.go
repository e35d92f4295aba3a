// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the TUI.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/birxuo/birxuo-tui/internal/catalog"
	"github.com/birxuo/birxuo-tui/internal/commands"
	"github.com/birxuo/birxuo-tui/internal/config"
	"github.com/birxuo/birxuo-tui/internal/openrouter"
	"github.com/birxuo/birxuo-tui/internal/orchestrator"
	"github.com/birxuo/birxuo-tui/internal/session"
	"github.com/birxuo/birxuo-tui/internal/store"
)

// =============================================================================
// MESSAGES
// =============================================================================

// completionResultMsg carries the outcome of one submission.
type completionResultMsg struct {
	result orchestrator.Result
	err    error
}

// ConfigReloadedMsg is delivered when the config file changes on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// sendCmd runs the submission on the Bubble Tea command goroutine.
func (m Model) sendCmd(content string) tea.Cmd {
	req := orchestrator.Request{
		Content: content,
		Flags:   m.featureFlags(),
		Audio:   m.audioEnabled(),
	}
	sender := m.sender
	return func() tea.Msg {
		result, err := sender.Send(context.Background(), req)
		return completionResultMsg{result: result, err: err}
	}
}

// featureFlags derives the tool flags from the settings store. The code
// analysis and data processing tools ride with app building.
func (m Model) featureFlags() openrouter.FeatureFlags {
	if m.settings == nil {
		return openrouter.FeatureFlags{}
	}
	appBuild := m.settings.Bool(store.KeyAppBuilding, false)
	return openrouter.FeatureFlags{
		WebSearch:     m.settings.Bool(store.KeyWebSearchEnabled, false),
		AppBuilding:   appBuild,
		AdvancedTools: appBuild,
	}
}

func (m Model) audioEnabled() bool {
	return m.settings != nil && m.settings.Bool(store.KeyAudioEnabled, false)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.sess != nil && m.sess.Loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case completionResultMsg:
		return m.handleCompletion(msg), nil

	// Command system messages
	case commands.ShowHelpMsg:
		m.pushNotice(m.renderHelp(msg.Category))
		m.refreshViewport()
		return m, nil

	case commands.NoticeMsg:
		m.pushNotice(msg.Text)
		m.refreshViewport()
		return m, nil

	case commands.ErrorNoticeMsg:
		m.pushError(msg.Text)
		m.refreshViewport()
		return m, nil

	case commands.ConversationClearedMsg:
		m.entries = nil
		m.banner = ""
		m.pushNotice("Conversation cleared.")
		m.refreshViewport()
		return m, nil

	case commands.ModelSwitchedMsg:
		m.banner = ""
		m.pushNotice("Switched to " + catalog.DisplayName(msg.ModelID) + ".")
		m.refreshViewport()
		return m, nil

	case commands.CompareSetChangedMsg:
		names := make([]string, 0, len(msg.Models))
		for _, id := range msg.Models {
			names = append(names, catalog.DisplayName(id))
		}
		m.pushNotice("Comparison set: " + strings.Join(names, ", "))
		m.refreshViewport()
		return m, nil

	case commands.FlagToggledMsg:
		state := "off"
		if msg.Enabled {
			state = "on"
		}
		m.pushNotice("Turned " + msg.Name + " " + state + ".")
		m.refreshViewport()
		return m, nil

	case commands.VoiceChangedMsg:
		if m.narrator != nil {
			m.narrator.SetVoice(msg.Voice.ID)
		}
		m.pushNotice("Voice set to " + msg.Voice.Name + ".")
		m.refreshViewport()
		return m, nil

	case commands.ConversationSavedMsg:
		m.pushNotice("Conversation archived as " + msg.ID + ".")
		m.refreshViewport()
		return m, nil

	case commands.ConversationLoadedMsg:
		m.entries = nil
		m.banner = ""
		for _, turn := range msg.Conversation.Turns {
			m.appendTurnEntry(turn.Role, turn.Content, turn.ModelID)
		}
		m.pushNotice("Restored conversation " + msg.Conversation.ID + ".")
		m.refreshViewport()
		return m, nil

	case commands.TemplatePromptMsg:
		m.input.SetValue(msg.Template.Prompt)
		m.input.CursorEnd()
		return m, nil

	case ConfigReloadedMsg:
		if msg.Config == nil {
			return m, nil
		}
		m.useMarkdown = msg.Config.UI.Markdown
		if m.cmdContext != nil {
			m.cmdContext.Config = msg.Config
		}
		m.pushNotice("Configuration reloaded.")
		m.refreshViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Cancel):
		m.completions.Clear()
		return m, nil

	case key.Matches(msg, m.keyMap.Complete):
		return m.handleComplete(false), nil

	case key.Matches(msg, m.keyMap.CompletePrev):
		return m.handleComplete(true), nil

	case key.Matches(msg, m.keyMap.Submit):
		if m.completions.Visible {
			m.acceptCompletion()
			return m, nil
		}
		return m.handleSubmit()

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	// Typing invalidates the completion popup
	m.completions.Clear()

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleComplete opens or cycles the completion popup.
func (m Model) handleComplete(backward bool) Model {
	if m.completions.Visible {
		if backward {
			m.completions.Prev()
		} else {
			m.completions.Next()
		}
		return m
	}

	input := m.input.Value()
	if !commands.IsCommand(input) {
		return m
	}

	completions := m.completer.Complete(input, len(input))
	if len(completions) == 0 {
		return m
	}
	if len(completions) == 1 {
		m.completions.Update(input, completions)
		m.acceptCompletion()
		return m
	}

	m.completions.Update(input, completions)
	return m
}

// acceptCompletion splices the selected completion into the input.
func (m *Model) acceptCompletion() {
	value := m.completions.Accept()
	if value == "" {
		m.completions.Clear()
		return
	}

	input := m.input.Value()
	if strings.HasSuffix(input, " ") {
		m.input.SetValue(input + value)
	} else if idx := strings.LastIndexByte(input, ' '); idx >= 0 {
		m.input.SetValue(input[:idx+1] + value)
	} else {
		m.input.SetValue(value)
	}
	m.input.CursorEnd()
	m.completions.Clear()
}

// handleSubmit routes input to the command system or the orchestrator.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}

	if commands.IsCommand(content) {
		m.input.SetValue("")
		result := m.parser.Parse(content)
		if result.Error != nil {
			m.pushError(result.Error.Error())
			m.refreshViewport()
			return m, nil
		}
		return m, result.Command.Handler(m.cmdContext, result.Args)
	}

	if m.sess != nil && m.sess.Loading() {
		m.pushError("A completion is already in flight. Wait for it to finish.")
		m.refreshViewport()
		return m, nil
	}

	m.input.SetValue("")
	m.entries = append(m.entries, entry{kind: entryUser, text: content})
	m.refreshViewport()

	return m, tea.Batch(m.sendCmd(content), m.spinner.Tick)
}

// =============================================================================
// COMPLETION RESULTS
// =============================================================================

func (m Model) handleCompletion(msg completionResultMsg) Model {
	if msg.err != nil {
		m.pushError(msg.err.Error())
		m.refreshViewport()
		return m
	}

	for _, turn := range msg.result.Turns {
		m.appendTurnEntry(turn.Role, turn.Content, turn.ModelID)
	}
	for _, warning := range msg.result.Warnings {
		m.entries = append(m.entries, entry{kind: entryWarning, text: warning})
		if strings.Contains(warning, string(openrouter.KindModelUnavailable)) {
			m.banner = "Model unavailable. Switch with /model <id> or list options with /models."
		}
	}

	m.refreshViewport()
	return m
}

// appendTurnEntry maps a session turn onto a transcript entry.
func (m *Model) appendTurnEntry(role session.Role, content, modelID string) {
	switch role {
	case session.RoleUser:
		m.entries = append(m.entries, entry{kind: entryUser, text: content})
	case session.RoleAssistant:
		m.entries = append(m.entries, entry{kind: entryAssistant, text: content, modelID: modelID})
	}
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	// header + status bar + input row
	chromeHeight := 3
	if m.banner != "" {
		chromeHeight++
	}
	viewportHeight := msg.Height - chromeHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.ready {
		m.viewport = newViewport(msg.Width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = viewportHeight
	}

	m.input.Width = msg.Width - 4
	m.markdown.SetWidth(msg.Width - 8)
	m.refreshViewport()
	return m
}
