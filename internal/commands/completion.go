// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	"sort"
	"strings"

	"github.com/birxuo/birxuo-tui/internal/catalog"
	"github.com/birxuo/birxuo-tui/internal/speech"
	"github.com/birxuo/birxuo-tui/internal/util"
)

// =============================================================================
// COMPLETER
// =============================================================================

// Completer handles tab completion for commands and arguments.
type Completer struct {
	registry *Registry

	// SessionsFn returns archived conversation metadata for /load
	// completion. Set by the application; nil disables session
	// completion.
	SessionsFn func() []SessionEntry
}

// SessionEntry is the slice of archive metadata completion needs.
type SessionEntry struct {
	ID      string
	Summary string
	Preview string
}

// NewCompleter creates a new completer with the given registry.
func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// Complete returns completions for the given input at the cursor position.
func (c *Completer) Complete(input string, cursorPos int) []Completion {
	if cursorPos < len(input) {
		input = input[:cursorPos]
	}

	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return nil
	}

	parts := splitCommandLine(trimmed)
	if len(parts) == 0 {
		return c.completeCommands("")
	}

	// Still typing the command name?
	if len(parts) == 1 && !strings.HasSuffix(input, " ") {
		return c.completeCommands(parts[0])
	}

	cmd := c.registry.Get(parts[0])
	if cmd == nil {
		return nil
	}

	// Determine which argument is being completed
	argIndex := len(parts) - 2
	partial := ""
	if strings.HasSuffix(input, " ") {
		argIndex++
	} else if len(parts) > 1 {
		partial = parts[len(parts)-1]
	}

	return c.completeArg(cmd, argIndex, partial)
}

// =============================================================================
// COMMAND COMPLETION
// =============================================================================

func (c *Completer) completeCommands(partial string) []Completion {
	var completions []Completion

	partial = strings.ToLower(partial)

	for _, cmd := range c.registry.All() {
		if cmd.Hidden {
			continue
		}

		if strings.HasPrefix(strings.ToLower(cmd.Name), partial) {
			completions = append(completions, Completion{
				Value:       cmd.Name,
				Display:     cmd.Name,
				Description: cmd.Description,
				Score:       calculateScore(cmd.Name, partial),
			})
		}

		for _, alias := range cmd.Aliases {
			if strings.HasPrefix(strings.ToLower(alias), partial) {
				completions = append(completions, Completion{
					Value:       alias,
					Display:     alias + " -> " + cmd.Name,
					Description: cmd.Description,
					Score:       calculateScore(alias, partial) - 10,
				})
			}
		}
	}

	sortCompletions(completions)
	return completions
}

// =============================================================================
// ARGUMENT COMPLETION
// =============================================================================

func (c *Completer) completeArg(cmd *Command, argIndex int, partial string) []Completion {
	if argIndex < 0 || argIndex >= len(cmd.Args) {
		return nil
	}

	switch cmd.Args[argIndex].Type {
	case ArgTypeModel:
		return c.completeModels(partial)
	case ArgTypeSession:
		return c.completeSessions(partial)
	case ArgTypeEnum:
		return c.completeFromList(cmd.Args[argIndex].Values, partial)
	case ArgTypeVoice:
		return c.completeVoices(partial)
	case ArgTypeTemplate:
		return c.completeTemplates(partial)
	default:
		return nil
	}
}

func (c *Completer) completeModels(partial string) []Completion {
	var completions []Completion

	lower := strings.ToLower(partial)
	for _, id := range catalog.IDs() {
		if !strings.HasPrefix(strings.ToLower(id), lower) {
			continue
		}
		completions = append(completions, Completion{
			Value:       id,
			Display:     id,
			Description: catalog.DisplayName(id),
			Score:       calculateScore(id, lower),
		})
	}

	sortCompletions(completions)
	return completions
}

func (c *Completer) completeSessions(partial string) []Completion {
	if c.SessionsFn == nil {
		return nil
	}

	var completions []Completion
	lower := strings.ToLower(partial)

	for _, entry := range c.SessionsFn() {
		idMatch := strings.HasPrefix(strings.ToLower(entry.ID), lower)
		summaryMatch := strings.Contains(strings.ToLower(entry.Summary), lower)
		if !idMatch && !summaryMatch {
			continue
		}

		score := calculateScore(entry.ID, lower)
		if summaryMatch && !idMatch {
			score -= 5
		}

		display := entry.ID
		if entry.Summary != "" {
			display = entry.ID + " - " + util.TruncateRunes(entry.Summary, 30)
		}

		completions = append(completions, Completion{
			Value:       entry.ID,
			Display:     display,
			Description: entry.Preview,
			Score:       score,
		})
	}

	sortCompletions(completions)
	return completions
}

func (c *Completer) completeVoices(partial string) []Completion {
	var completions []Completion

	lower := strings.ToLower(partial)
	for _, v := range speech.AvailableVoices {
		if !strings.HasPrefix(strings.ToLower(v.Name), lower) {
			continue
		}
		completions = append(completions, Completion{
			Value:   v.Name,
			Display: v.Name,
			Score:   calculateScore(v.Name, lower),
		})
	}

	sortCompletions(completions)
	return completions
}

func (c *Completer) completeTemplates(partial string) []Completion {
	var completions []Completion

	lower := strings.ToLower(partial)
	for _, t := range catalog.AppTemplates {
		if !strings.HasPrefix(strings.ToLower(t.ID), lower) {
			continue
		}
		completions = append(completions, Completion{
			Value:       t.ID,
			Display:     t.ID,
			Description: t.Name,
			Score:       calculateScore(t.ID, lower),
		})
	}

	sortCompletions(completions)
	return completions
}

func (c *Completer) completeFromList(values []string, partial string) []Completion {
	var completions []Completion

	lower := strings.ToLower(partial)
	for _, value := range values {
		if strings.HasPrefix(strings.ToLower(value), lower) {
			completions = append(completions, Completion{
				Value:   value,
				Display: value,
				Score:   calculateScore(value, lower),
			})
		}
	}

	sortCompletions(completions)
	return completions
}

// =============================================================================
// RANKING
// =============================================================================

// calculateScore calculates a match score for completion ranking.
// Higher score = better match.
func calculateScore(value, partial string) int {
	value = strings.ToLower(value)
	partial = strings.ToLower(partial)

	score := 100

	if value == partial {
		return score + 100
	}

	if strings.HasPrefix(value, partial) {
		score += 50
		// Bonus for shorter completions
		score += 20 - len(value)
	}

	score -= len(value) / 2
	return score
}

// sortCompletions sorts completions by score (descending), then alphabetically.
func sortCompletions(completions []Completion) {
	sort.Slice(completions, func(i, j int) bool {
		if completions[i].Score != completions[j].Score {
			return completions[i].Score > completions[j].Score
		}
		return completions[i].Value < completions[j].Value
	})
}

// =============================================================================
// COMPLETION NAVIGATION
// =============================================================================

// CompletionState holds the state for navigating completions.
type CompletionState struct {
	// OriginalInput is the input before completion started
	OriginalInput string

	// Completions currently offered
	Completions []Completion

	// Selected index (-1 for none)
	Selected int

	// Visible indicates if completions should be shown
	Visible bool
}

// NewCompletionState creates a new completion state.
func NewCompletionState() *CompletionState {
	return &CompletionState{Selected: -1}
}

// Update replaces the completion set, auto-selecting the first entry.
func (cs *CompletionState) Update(input string, completions []Completion) {
	cs.OriginalInput = input
	cs.Completions = completions
	cs.Selected = 0
	cs.Visible = len(completions) > 0
}

// Next moves to the next completion.
func (cs *CompletionState) Next() {
	if len(cs.Completions) == 0 {
		return
	}
	cs.Selected = (cs.Selected + 1) % len(cs.Completions)
}

// Prev moves to the previous completion.
func (cs *CompletionState) Prev() {
	if len(cs.Completions) == 0 {
		return
	}
	cs.Selected--
	if cs.Selected < 0 {
		cs.Selected = len(cs.Completions) - 1
	}
}

// Accept returns the selected completion value, or empty if none.
func (cs *CompletionState) Accept() string {
	if cs.Selected < 0 || cs.Selected >= len(cs.Completions) {
		if len(cs.Completions) > 0 {
			return cs.Completions[0].Value
		}
		return ""
	}
	return cs.Completions[cs.Selected].Value
}

// Clear resets the completion state.
func (cs *CompletionState) Clear() {
	cs.OriginalInput = ""
	cs.Completions = nil
	cs.Selected = -1
	cs.Visible = false
}
