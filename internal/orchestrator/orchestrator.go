// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package orchestrator drives a user submission end to end: context
// window assembly, single or fan-out dispatch, tool-call interpretation,
// and folding the results back into the session.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/birxuo/birxuo-tui/internal/catalog"
	"github.com/birxuo/birxuo-tui/internal/openrouter"
	"github.com/birxuo/birxuo-tui/internal/session"
	"github.com/birxuo/birxuo-tui/internal/tools"
)

// contextWindowSize is how many prior user/assistant turns are sent
// upstream with each submission.
const contextWindowSize = 10

// ErrEmptyMessage indicates a blank submission.
var ErrEmptyMessage = errors.New("message is empty")

// Completer produces one outcome for a transcript. Satisfied by
// *openrouter.Client.
type Completer interface {
	Complete(ctx context.Context, messages []openrouter.Message, modelID string, flags openrouter.FeatureFlags) openrouter.Outcome
}

// Speaker voices an assistant reply. Satisfied by *speech.Narrator.
type Speaker interface {
	Speak(ctx context.Context, text string)
}

// Request carries one user submission plus the feature configuration in
// effect when it was made.
type Request struct {
	Content string
	Flags   openrouter.FeatureFlags
	Audio   bool
}

// Result reports what a submission produced.
type Result struct {
	// Turns are the assistant turns appended to the session, in
	// selection order for multi-model dispatch.
	Turns []session.Turn

	// Warnings are per-model failure messages. A submission can
	// produce both turns and warnings when some comparison branches
	// fail.
	Warnings []string
}

// Orchestrator wires the completion client, the tool-call interpreter,
// and the session together.
type Orchestrator struct {
	client  Completer
	interp  *tools.Interpreter
	sess    *session.Session
	speaker Speaker
}

// New creates an orchestrator. speaker may be nil when audio is
// unavailable.
func New(client Completer, interp *tools.Interpreter, sess *session.Session, speaker Speaker) *Orchestrator {
	return &Orchestrator{
		client:  client,
		interp:  interp,
		sess:    sess,
		speaker: speaker,
	}
}

// Send runs one user submission through the pipeline.
//
// The session rejects a second submission while one is in flight. A
// failed completion surfaces as a warning and leaves the turn list
// untouched; in comparison mode each branch resolves independently, so a
// submission can yield a mix of appended turns and warnings.
func (o *Orchestrator) Send(ctx context.Context, req Request) (Result, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return Result{}, ErrEmptyMessage
	}

	if err := o.sess.Begin(); err != nil {
		return Result{}, err
	}

	// The window covers the turns that existed before this submission;
	// the new content rides along as the final user message.
	window := buildWindow(o.sess.Turns(), o.systemPrompt(req.Flags), content)
	o.sess.AppendTurn(session.NewUserTurn(content))

	var result Result
	if o.sess.MultiModel() {
		result = o.dispatchMany(ctx, window, req)
	} else {
		result = o.dispatchOne(ctx, window, req)
	}

	o.sess.Finish(strings.Join(result.Warnings, "; "))
	return result, nil
}

// dispatchOne completes against the selected model.
func (o *Orchestrator) dispatchOne(ctx context.Context, window []openrouter.Message, req Request) Result {
	modelID := o.sess.SelectedModel()
	outcome := o.completeWithTools(ctx, window, modelID, req.Flags)

	var result Result
	if !outcome.OK() {
		result.Warnings = append(result.Warnings, outcome.Err.Error())
		return result
	}

	turn := session.NewAssistantTurn(outcome.Text, modelID)
	o.sess.AppendTurn(turn)
	result.Turns = append(result.Turns, turn)

	if req.Audio && o.speaker != nil {
		o.speaker.Speak(ctx, outcome.Text)
	}
	return result
}

// dispatchMany fans the window out over the comparison set. Outcomes are
// folded back in selection order so transcripts stay deterministic, and
// only the first selected model is voiced.
func (o *Orchestrator) dispatchMany(ctx context.Context, window []openrouter.Message, req Request) Result {
	modelIDs := o.sess.CompareModels()

	outcomes := openrouter.CompleteMany(ctx, modelIDs, func(ctx context.Context, modelID string) openrouter.Outcome {
		return o.completeWithTools(ctx, window, modelID, req.Flags)
	})

	var result Result
	for i, modelID := range modelIDs {
		outcome := outcomes[modelID]
		if !outcome.OK() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: %s", catalog.DisplayName(modelID), outcome.Err.Error()))
			continue
		}

		turn := session.NewAssistantTurn(outcome.Text, modelID)
		o.sess.AppendTurn(turn)
		result.Turns = append(result.Turns, turn)

		if i == 0 && req.Audio && o.speaker != nil {
			o.speaker.Speak(ctx, outcome.Text)
		}
	}
	return result
}

// completeWithTools completes once, then lets the interpreter fold a
// detected tool invocation back in. The interpreter resubmits at most
// once with the triggering flag cleared, so a submission costs at most
// two completions per model.
func (o *Orchestrator) completeWithTools(ctx context.Context, window []openrouter.Message, modelID string, flags openrouter.FeatureFlags) openrouter.Outcome {
	outcome := o.client.Complete(ctx, window, modelID, flags)
	if !outcome.OK() {
		return outcome
	}
	return o.interp.Interpret(ctx, o.client, window, modelID, flags, outcome.Text)
}

// systemPrompt synthesizes the single system turn for this submission:
// the assistant persona plus a clause for each enabled capability.
func (o *Orchestrator) systemPrompt(flags openrouter.FeatureFlags) string {
	return SystemPrompt(catalog.DisplayName(o.sess.SelectedModel()), flags)
}

// SystemPrompt builds the system turn content for the given model name
// and capability flags.
func SystemPrompt(modelName string, flags openrouter.FeatureFlags) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are BIRXUO, an advanced AI assistant powered by %s.", modelName)

	if flags.WebSearch {
		b.WriteString(" You have web search capabilities. When asked about current events, facts, or information that might need verification, use your web search to provide accurate and up-to-date information.")
	}
	if flags.AppBuilding {
		b.WriteString(" You have application building capabilities. When asked to create or build an app, website, or specific software functionality, you can generate code and instructions to build it.")
	}

	b.WriteString(" Be helpful, accurate, and conversational. If you don't know the answer to something, be honest about it.")
	return b.String()
}

// buildWindow assembles the upstream transcript: one system turn, the
// last user/assistant turns up to the window size, then the fresh user
// content. System turns from earlier submissions never re-enter the
// window; each submission synthesizes its own.
func buildWindow(turns []session.Turn, systemContent, userContent string) []openrouter.Message {
	var history []openrouter.Message
	for _, turn := range turns {
		switch turn.Role {
		case session.RoleUser:
			history = append(history, openrouter.NewUserMessage(turn.Content))
		case session.RoleAssistant:
			history = append(history, openrouter.NewAssistantMessage(turn.Content))
		}
	}
	if len(history) > contextWindowSize {
		history = history[len(history)-contextWindowSize:]
	}

	window := make([]openrouter.Message, 0, len(history)+2)
	window = append(window, openrouter.NewSystemMessage(systemContent))
	window = append(window, history...)
	window = append(window, openrouter.NewUserMessage(userContent))
	return window
}
