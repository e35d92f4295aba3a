// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tools implements the tool-call interpreter and the tool
// executors behind it.
//
// Models invited to use tools sometimes answer with freeform text that
// embeds a tool invocation instead of a structured call. The interpreter
// scans a reply for a tool name marker, pulls the arguments out of the
// surrounding text, runs the tool, and resubmits the augmented transcript
// exactly once with the triggering capability disabled.
package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/birxuo/birxuo-tui/internal/openrouter"
)

// =============================================================================
// PERFORMANCE: Pre-compiled regex (compiled once at startup)
// =============================================================================

// Argument extraction patterns. Detection is a best-effort textual match
// against a `key: "value"`-shaped fragment, not a structured parse; a
// reply that phrases the call differently is simply passed through.
var (
	queryArgRegex     = regexp.MustCompile(`query["']:\s*["']([^"']+)["']`)
	codeArgRegex      = regexp.MustCompile(`code["']:\s*["']([^"']+)["']`)
	languageArgRegex  = regexp.MustCompile(`language["']:\s*["']([^"']+)["']`)
	dataArgRegex      = regexp.MustCompile(`data["']:\s*["']([^"']+)["']`)
	operationArgRegex = regexp.MustCompile(`operation["']:\s*["']([^"']+)["']`)
)

// extractArg applies a pre-compiled argument pattern to the reply text.
func extractArg(re *regexp.Regexp, text string) (string, bool) {
	match := re.FindStringSubmatch(text)
	if len(match) < 2 || match[1] == "" {
		return "", false
	}
	return match[1], true
}

// Completer resubmits an augmented transcript. Satisfied by
// *openrouter.Client.
type Completer interface {
	Complete(ctx context.Context, messages []openrouter.Message, modelID string, flags openrouter.FeatureFlags) openrouter.Outcome
}

// Interpreter folds embedded tool invocations back into the conversation.
type Interpreter struct {
	searcher *WebSearcher
}

// NewInterpreter creates an interpreter backed by the given web searcher.
func NewInterpreter(searcher *WebSearcher) *Interpreter {
	return &Interpreter{searcher: searcher}
}

// Interpret inspects reply for an embedded tool invocation. When one is
// found it executes the tool and resubmits the transcript, extended with
// the reply and a user turn carrying the tool result, through c.
//
// Augmentation happens at most once per reply: the resubmission always
// has the triggering flag cleared, and whatever the second call returns
// is handed back without another interpretation pass. Replies with no
// detectable invocation come back unchanged as a success outcome.
func (it *Interpreter) Interpret(ctx context.Context, c Completer, transcript []openrouter.Message, modelID string, flags openrouter.FeatureFlags, reply string) openrouter.Outcome {
	if flags.WebSearch && strings.Contains(reply, openrouter.ToolWebSearch) {
		if query, ok := extractArg(queryArgRegex, reply); ok {
			results := it.searcher.Search(ctx, query)
			followUp := fmt.Sprintf("Enhanced search results: %s. Please provide a comprehensive analysis based on this information.", results)

			resubmitFlags := flags
			resubmitFlags.WebSearch = false
			return c.Complete(ctx, augmentedTranscript(transcript, reply, followUp), modelID, resubmitFlags)
		}
	}

	if flags.AdvancedTools && strings.Contains(reply, openrouter.ToolAnalyzeCode) {
		code, codeOK := extractArg(codeArgRegex, reply)
		language, langOK := extractArg(languageArgRegex, reply)

		// Both arguments are required; a partial match passes through.
		if codeOK && langOK {
			analysis := AnalyzeCode(code, language)
			followUp := fmt.Sprintf("Code analysis results: %s. Please provide recommendations based on this analysis.", analysis)

			resubmitFlags := flags
			resubmitFlags.WebSearch = false
			resubmitFlags.AdvancedTools = false
			return c.Complete(ctx, augmentedTranscript(transcript, reply, followUp), modelID, resubmitFlags)
		}
	}

	if flags.AdvancedTools && strings.Contains(reply, openrouter.ToolProcessData) {
		data, dataOK := extractArg(dataArgRegex, reply)
		operation, opOK := extractArg(operationArgRegex, reply)

		if dataOK && opOK {
			processed := ProcessData(data, operation)
			followUp := fmt.Sprintf("Data processing results: %s. Please provide insights based on this output.", processed)

			resubmitFlags := flags
			resubmitFlags.WebSearch = false
			resubmitFlags.AdvancedTools = false
			return c.Complete(ctx, augmentedTranscript(transcript, reply, followUp), modelID, resubmitFlags)
		}
	}

	return openrouter.TextOutcome(reply)
}

// augmentedTranscript extends the transcript with the tool-invoking reply
// and a user turn carrying the tool result.
func augmentedTranscript(transcript []openrouter.Message, reply, followUp string) []openrouter.Message {
	augmented := make([]openrouter.Message, 0, len(transcript)+2)
	augmented = append(augmented, transcript...)
	augmented = append(augmented,
		openrouter.NewAssistantMessage(reply),
		openrouter.NewUserMessage(followUp),
	)
	return augmented
}
