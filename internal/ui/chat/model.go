// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the TUI.
package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/birxuo/birxuo-tui/internal/commands"
	"github.com/birxuo/birxuo-tui/internal/config"
	"github.com/birxuo/birxuo-tui/internal/orchestrator"
	"github.com/birxuo/birxuo-tui/internal/session"
	"github.com/birxuo/birxuo-tui/internal/speech"
	"github.com/birxuo/birxuo-tui/internal/store"
	"github.com/birxuo/birxuo-tui/internal/ui/components"
	"github.com/birxuo/birxuo-tui/internal/ui/styles"
)

// =============================================================================
// TRANSCRIPT ENTRIES
// =============================================================================

type entryKind int

const (
	entryUser entryKind = iota
	entryAssistant
	entryNotice
	entryWarning
	entryError
)

// entry is one rendered line group in the transcript.
type entry struct {
	kind    entryKind
	text    string
	modelID string // set for assistant entries
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Sender runs one user submission through the completion pipeline.
// Satisfied by *orchestrator.Orchestrator.
type Sender interface {
	Send(ctx context.Context, req orchestrator.Request) (orchestrator.Result, error)
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Styling
	theme    *styles.Theme
	markdown *components.MarkdownRenderer

	// Application state
	sess     *session.Session
	settings *store.Settings
	sender   Sender
	narrator *speech.Narrator // nil when audio is unavailable

	// Command system
	cmdContext  *commands.Context
	parser      *commands.Parser
	registry    *commands.Registry
	completer   *commands.Completer
	completions *commands.CompletionState

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	keyMap   KeyMap

	// Transcript
	entries []entry
	banner  string

	// Dimensions
	width  int
	height int
	ready  bool

	useMarkdown bool
}

// Options carries the dependencies for building a chat model.
type Options struct {
	Session  *session.Session
	Settings *store.Settings
	Archive  *store.Archive
	Config   *config.Config
	Sender   Sender
	Narrator *speech.Narrator
}

// New creates the chat model.
func New(opts Options) Model {
	registry := commands.NewRegistry()

	completer := commands.NewCompleter(registry)
	if opts.Archive != nil {
		archive := opts.Archive
		completer.SessionsFn = func() []commands.SessionEntry {
			metas, err := archive.List()
			if err != nil {
				return nil
			}
			entries := make([]commands.SessionEntry, 0, len(metas))
			for _, meta := range metas {
				entries = append(entries, commands.SessionEntry{
					ID:      meta.ID,
					Summary: meta.Summary,
					Preview: meta.Preview,
				})
			}
			return entries
		}
	}

	input := textinput.New()
	input.Placeholder = "Message BIRXUO, or / for commands"
	input.Prompt = "> "
	input.CharLimit = 0
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	useMarkdown := true
	if opts.Config != nil {
		useMarkdown = opts.Config.UI.Markdown
	}

	m := Model{
		theme:       styles.NewTheme(),
		markdown:    components.NewMarkdownRenderer(80),
		sess:        opts.Session,
		settings:    opts.Settings,
		sender:      opts.Sender,
		narrator:    opts.Narrator,
		cmdContext:  commands.NewContext(opts.Session, opts.Settings, opts.Archive, opts.Config),
		parser:      commands.NewParser(registry),
		registry:    registry,
		completer:   completer,
		completions: commands.NewCompletionState(),
		input:       input,
		spinner:     sp,
		keyMap:      DefaultKeyMap(),
		useMarkdown: useMarkdown,
	}
	m.spinner.Style = m.theme.Spinner

	m.pushNotice("Welcome to BIRXUO. Type /help for commands.")
	return m
}

// Init starts the input cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// pushNotice appends an informational entry to the transcript.
func (m *Model) pushNotice(text string) {
	m.entries = append(m.entries, entry{kind: entryNotice, text: text})
}

// pushError appends an error entry to the transcript.
func (m *Model) pushError(text string) {
	m.entries = append(m.entries, entry{kind: entryError, text: text})
}
