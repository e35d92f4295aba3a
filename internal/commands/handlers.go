// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/birxuo/birxuo-tui/internal/catalog"
	"github.com/birxuo/birxuo-tui/internal/speech"
	"github.com/birxuo/birxuo-tui/internal/store"
	"github.com/birxuo/birxuo-tui/internal/util"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// These messages are produced by command handlers and consumed by the UI.

// ShowHelpMsg triggers the help display.
type ShowHelpMsg struct {
	Category string // Optional category filter
}

// NoticeMsg carries an informational message for the transcript.
type NoticeMsg struct {
	Text string
}

// ErrorNoticeMsg carries a user-visible error message.
type ErrorNoticeMsg struct {
	Text string
}

// ConversationClearedMsg indicates the turn sequence was reset.
type ConversationClearedMsg struct{}

// ModelSwitchedMsg indicates the active model changed.
type ModelSwitchedMsg struct {
	ModelID string
}

// CompareSetChangedMsg carries the updated comparison model set.
type CompareSetChangedMsg struct {
	Models []string
}

// FlagToggledMsg indicates a feature toggle changed.
type FlagToggledMsg struct {
	Name    string // "multi-model", "web search", "app building", "audio"
	Enabled bool
}

// VoiceChangedMsg indicates the synthesis voice changed.
type VoiceChangedMsg struct {
	Voice speech.Voice
}

// ConversationSavedMsg indicates an archive save completed.
type ConversationSavedMsg struct {
	ID      string
	Summary string
}

// ConversationLoadedMsg carries a restored conversation.
type ConversationLoadedMsg struct {
	Conversation *store.ArchivedConversation
}

// TemplatePromptMsg carries a template prompt to insert into the input.
type TemplatePromptMsg struct {
	Template catalog.AppTemplate
}

// notify wraps an informational message in a tea.Cmd.
func notify(format string, args ...interface{}) tea.Cmd {
	text := fmt.Sprintf(format, args...)
	return func() tea.Msg { return NoticeMsg{Text: text} }
}

// fail wraps an error message in a tea.Cmd.
func fail(format string, args ...interface{}) tea.Cmd {
	text := fmt.Sprintf(format, args...)
	return func() tea.Msg { return ErrorNoticeMsg{Text: text} }
}

// =============================================================================
// NAVIGATION HANDLERS
// =============================================================================

func handleHelp(_ *Context, args []string) tea.Cmd {
	category := ""
	if len(args) > 0 {
		category = strings.ToLower(args[0])
	}
	return func() tea.Msg { return ShowHelpMsg{Category: category} }
}

func handleQuit(_ *Context, _ []string) tea.Cmd {
	return tea.Quit
}

func handleStatus(ctx *Context, _ []string) tea.Cmd {
	if ctx.Session == nil {
		return fail("No active session.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Model: %s\n", catalog.DisplayName(ctx.Session.SelectedModel()))
	fmt.Fprintf(&b, "Turns: %d\n", ctx.Session.TurnCount())

	if ctx.Session.MultiModel() {
		names := make([]string, 0, len(ctx.Session.CompareModels()))
		for _, id := range ctx.Session.CompareModels() {
			names = append(names, catalog.DisplayName(id))
		}
		fmt.Fprintf(&b, "Comparing: %s\n", strings.Join(names, ", "))
	}

	if ctx.Settings != nil {
		fmt.Fprintf(&b, "Web search: %s\n", onOffWord(ctx.Settings.Bool(store.KeyWebSearchEnabled, false)))
		fmt.Fprintf(&b, "App building: %s\n", onOffWord(ctx.Settings.Bool(store.KeyAppBuilding, false)))
		fmt.Fprintf(&b, "Audio: %s", onOffWord(ctx.Settings.Bool(store.KeyAudioEnabled, false)))
	}

	return notify("%s", b.String())
}

func onOffWord(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

// =============================================================================
// CONVERSATION HANDLERS
// =============================================================================

func handleClear(ctx *Context, _ []string) tea.Cmd {
	if ctx.Session != nil {
		ctx.Session.Clear()
	}
	return func() tea.Msg { return ConversationClearedMsg{} }
}

func handleSave(ctx *Context, args []string) tea.Cmd {
	if ctx.Archive == nil {
		return fail("Conversation archive is not available.")
	}
	if ctx.Session == nil || ctx.Session.TurnCount() == 0 {
		return fail("Nothing to save yet.")
	}

	conv := &store.ArchivedConversation{
		Model: ctx.Session.SelectedModel(),
		Turns: ctx.Session.Turns(),
	}
	if len(args) > 0 {
		conv.Summary = strings.Join(args, " ")
	}

	archive := ctx.Archive
	return func() tea.Msg {
		id, err := archive.Save(conv)
		if err != nil {
			return ErrorNoticeMsg{Text: fmt.Sprintf("Save failed: %v", err)}
		}
		return ConversationSavedMsg{ID: id, Summary: conv.Summary}
	}
}

func handleLoad(ctx *Context, args []string) tea.Cmd {
	if ctx.Archive == nil {
		return fail("Conversation archive is not available.")
	}

	id := args[0]
	archive := ctx.Archive
	sess := ctx.Session
	return func() tea.Msg {
		conv, err := archive.Load(id)
		if err != nil {
			return ErrorNoticeMsg{Text: fmt.Sprintf("Load failed: %v", err)}
		}
		if sess != nil {
			sess.Clear()
			for _, turn := range conv.Turns {
				sess.AppendTurn(turn)
			}
			if catalog.IsKnown(conv.Model) {
				sess.SelectModel(conv.Model)
			}
		}
		return ConversationLoadedMsg{Conversation: conv}
	}
}

func handleSessions(ctx *Context, _ []string) tea.Cmd {
	if ctx.Archive == nil {
		return fail("Conversation archive is not available.")
	}

	archive := ctx.Archive
	return func() tea.Msg {
		metas, err := archive.List()
		if err != nil {
			return ErrorNoticeMsg{Text: fmt.Sprintf("Listing archive failed: %v", err)}
		}
		if len(metas) == 0 {
			return NoticeMsg{Text: "No archived conversations. Use /save to archive the current one."}
		}

		var b strings.Builder
		b.WriteString("Archived conversations:\n")
		for _, meta := range metas {
			fmt.Fprintf(&b, "  %s  %s (%d turns, %s)\n",
				shortID(meta.ID),
				util.TruncateRunes(meta.Summary, 40),
				meta.TurnCount,
				meta.UpdatedAt.Format("2006-01-02 15:04"))
		}
		b.WriteString("Load one with /load <id>.")
		return NoticeMsg{Text: b.String()}
	}
}

func handleExport(ctx *Context, args []string) tea.Cmd {
	if ctx.Archive == nil {
		return fail("Conversation archive is not available.")
	}

	id := args[0]
	archive := ctx.Archive
	return func() tea.Msg {
		markdown, err := archive.ExportMarkdown(id)
		if err != nil {
			return ErrorNoticeMsg{Text: fmt.Sprintf("Export failed: %v", err)}
		}
		path := fmt.Sprintf("birxuo-%s.md", shortID(id))
		if err := util.AtomicWriteFile(path, []byte(markdown), 0o644); err != nil {
			return ErrorNoticeMsg{Text: fmt.Sprintf("Export failed: %v", err)}
		}
		return NoticeMsg{Text: fmt.Sprintf("Exported to %s", path)}
	}
}

// shortID trims a UUID to its leading segment for display.
func shortID(id string) string {
	if idx := strings.IndexByte(id, '-'); idx > 0 {
		return id[:idx]
	}
	return id
}

// =============================================================================
// MODEL HANDLERS
// =============================================================================

func handleModel(ctx *Context, args []string) tea.Cmd {
	id := args[0]
	if !catalog.IsKnown(id) {
		return fail("Unknown model %q. Use /models to list available models.", id)
	}

	if ctx.Session != nil {
		ctx.Session.SelectModel(id)
	}
	if ctx.Settings != nil {
		if err := ctx.Settings.Set(store.KeySelectedModel, id); err != nil {
			return fail("Model switched but not persisted: %v", err)
		}
	}

	return func() tea.Msg { return ModelSwitchedMsg{ModelID: id} }
}

func handleModels(_ *Context, _ []string) tea.Cmd {
	categories := []string{"reasoning", "chat", "general", "multilingual", "multimodal", "experimental"}

	var b strings.Builder
	b.WriteString("Available models:\n")
	for _, category := range categories {
		models := catalog.ByCategory(category)
		if len(models) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", strings.ToUpper(category[:1])+category[1:])
		for _, m := range models {
			fmt.Fprintf(&b, "  %-40s %s (%s, %s) [%s]\n", m.ID, m.Name, m.Speed, m.Quality, m.CapabilitiesString())
		}
	}
	b.WriteString("\nSwitch with /model <id>.")

	return notify("%s", b.String())
}

func handleCompare(ctx *Context, args []string) tea.Cmd {
	if ctx.Session == nil {
		return fail("No active session.")
	}

	action := strings.ToLower(args[0])
	switch action {
	case "list":
		names := make([]string, 0, len(ctx.Session.CompareModels()))
		for _, id := range ctx.Session.CompareModels() {
			names = append(names, fmt.Sprintf("  %s (%s)", catalog.DisplayName(id), id))
		}
		return notify("Comparison set:\n%s", strings.Join(names, "\n"))

	case "add":
		if len(args) < 2 {
			return fail("/compare add requires a model id.")
		}
		id := args[1]
		if !catalog.IsKnown(id) {
			return fail("Unknown model %q. Use /models to list available models.", id)
		}
		ctx.Session.AddCompareModel(id)

	case "remove":
		if len(args) < 2 {
			return fail("/compare remove requires a model id.")
		}
		if err := ctx.Session.RemoveCompareModel(args[1]); err != nil {
			return fail("%v", err)
		}
	}

	models := ctx.Session.CompareModels()
	if ctx.Settings != nil {
		if err := ctx.Settings.SetStringList(store.KeySelectedModels, models); err != nil {
			return fail("Comparison set changed but not persisted: %v", err)
		}
	}
	return func() tea.Msg { return CompareSetChangedMsg{Models: models} }
}

func handleMultiModel(ctx *Context, args []string) tea.Cmd {
	enabled := strings.EqualFold(args[0], "on")
	if ctx.Session != nil {
		ctx.Session.SetMultiModel(enabled)
	}
	return persistToggle(ctx, "multi-model", store.KeyMultiModel, enabled)
}

// =============================================================================
// FEATURE HANDLERS
// =============================================================================

func handleWebSearch(ctx *Context, args []string) tea.Cmd {
	return persistToggle(ctx, "web search", store.KeyWebSearchEnabled, strings.EqualFold(args[0], "on"))
}

func handleAppBuild(ctx *Context, args []string) tea.Cmd {
	return persistToggle(ctx, "app building", store.KeyAppBuilding, strings.EqualFold(args[0], "on"))
}

func handleAudio(ctx *Context, args []string) tea.Cmd {
	return persistToggle(ctx, "audio", store.KeyAudioEnabled, strings.EqualFold(args[0], "on"))
}

// persistToggle stores a boolean setting and reports the flag change.
func persistToggle(ctx *Context, name, key string, enabled bool) tea.Cmd {
	if ctx.Settings != nil {
		if err := ctx.Settings.SetBool(key, enabled); err != nil {
			return fail("Toggled %s but not persisted: %v", name, err)
		}
	}
	return func() tea.Msg { return FlagToggledMsg{Name: name, Enabled: enabled} }
}

func handleTemplates(_ *Context, _ []string) tea.Cmd {
	var b strings.Builder
	b.WriteString("Application templates:\n")
	for _, t := range catalog.AppTemplates {
		fmt.Fprintf(&b, "  %-22s %s (%s, %s)\n", t.ID, t.Name, t.Complexity, t.EstimatedTime)
	}
	b.WriteString("\nInsert one with /template <id>. Requires /appbuild on.")
	return notify("%s", b.String())
}

func handleTemplate(_ *Context, args []string) tea.Cmd {
	t, ok := catalog.TemplateByID(args[0])
	if !ok {
		return fail("Unknown template %q. Use /templates to list them.", args[0])
	}
	return func() tea.Msg { return TemplatePromptMsg{Template: t} }
}

// =============================================================================
// SPEECH HANDLERS
// =============================================================================

func handleVoice(ctx *Context, args []string) tea.Cmd {
	voice, ok := resolveVoice(args[0])
	if !ok {
		return fail("Unknown voice %q. Use /voices to list them.", args[0])
	}

	if ctx.Settings != nil {
		if err := ctx.Settings.Set(store.KeyElevenLabsVoiceID, voice.ID); err != nil {
			return fail("Voice switched but not persisted: %v", err)
		}
	}
	return func() tea.Msg { return VoiceChangedMsg{Voice: voice} }
}

func handleVoices(ctx *Context, _ []string) tea.Cmd {
	current := speech.DefaultVoiceID
	if ctx.Settings != nil {
		current = ctx.Settings.String(store.KeyElevenLabsVoiceID, speech.DefaultVoiceID)
	}

	var b strings.Builder
	b.WriteString("Synthesis voices:\n")
	for _, v := range speech.AvailableVoices {
		marker := "  "
		if v.ID == current {
			marker = "* "
		}
		fmt.Fprintf(&b, "%s%s\n", marker, v.Name)
	}
	b.WriteString("Switch with /voice <name>.")
	return notify("%s", b.String())
}

// resolveVoice matches a voice by id or case-insensitive name.
func resolveVoice(nameOrID string) (speech.Voice, bool) {
	if v, ok := speech.VoiceByID(nameOrID); ok {
		return v, true
	}
	for _, v := range speech.AvailableVoices {
		if strings.EqualFold(v.Name, nameOrID) {
			return v, true
		}
	}
	return speech.Voice{}, false
}
