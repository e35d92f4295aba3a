// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"sync"
)

// Phase describes where the session is in the request lifecycle.
type Phase string

const (
	// PhaseIdle means no completion is in flight.
	PhaseIdle Phase = "idle"

	// PhaseAwaiting means a completion has been dispatched and the
	// session refuses further submissions until it resolves.
	PhaseAwaiting Phase = "awaiting_completion"
)

// Error variables for session state violations.
var (
	// ErrBusy indicates a completion is already in flight.
	ErrBusy = errors.New("completion already in flight")

	// ErrLastModel indicates an attempt to empty the comparison set.
	ErrLastModel = errors.New("comparison set must keep at least one model")

	// ErrEmptySelection indicates an attempt to install an empty comparison set.
	ErrEmptySelection = errors.New("model selection must not be empty")
)

// Session is the mutable conversation state. All methods are safe for
// concurrent use; the UI reads while the orchestrator writes.
type Session struct {
	mu sync.RWMutex

	turns     []Turn
	phase     Phase
	lastError string

	// Model selection
	selectedModel string
	compareModels []string
	multiModel    bool
}

// New creates an idle session with the given default model. The
// comparison set starts as just the default model.
func New(defaultModel string) *Session {
	return &Session{
		phase:         PhaseIdle,
		selectedModel: defaultModel,
		compareModels: []string{defaultModel},
	}
}

// =============================================================================
// TURN LIST
// =============================================================================

// AppendTurn adds a turn to the conversation.
func (s *Session) AppendTurn(turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
}

// Turns returns a copy of the conversation turns.
func (s *Session) Turns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// TurnCount returns the number of turns.
func (s *Session) TurnCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Clear drops the conversation turns and any lingering error. The model
// selection and feature configuration survive. Safe to call repeatedly;
// clearing an empty session is a no-op.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	s.lastError = ""
}

// =============================================================================
// REQUEST LIFECYCLE
// =============================================================================

// Begin moves the session into the awaiting phase. Returns ErrBusy when
// a completion is already in flight so concurrent submissions collapse
// to one.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseAwaiting {
		return ErrBusy
	}
	s.phase = PhaseAwaiting
	s.lastError = ""
	return nil
}

// Finish returns the session to idle, recording the failure message when
// the completion failed. An empty message marks success.
func (s *Session) Finish(errMessage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseIdle
	s.lastError = errMessage
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Loading reports whether a completion is in flight.
func (s *Session) Loading() bool {
	return s.Phase() == PhaseAwaiting
}

// LastError returns the failure message from the most recent completion,
// or empty when it succeeded.
func (s *Session) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// =============================================================================
// MODEL SELECTION
// =============================================================================

// SelectedModel returns the single-dispatch model id.
func (s *Session) SelectedModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedModel
}

// SelectModel sets the single-dispatch model id.
func (s *Session) SelectModel(modelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedModel = modelID
}

// MultiModel reports whether comparison mode is active.
func (s *Session) MultiModel() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.multiModel
}

// SetMultiModel toggles comparison mode.
func (s *Session) SetMultiModel(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.multiModel = enabled
}

// CompareModels returns a copy of the comparison set.
func (s *Session) CompareModels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.compareModels))
	copy(out, s.compareModels)
	return out
}

// AddCompareModel adds a model to the comparison set. Adding a model
// already present is a no-op.
func (s *Session) AddCompareModel(modelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.compareModels {
		if id == modelID {
			return
		}
	}
	s.compareModels = append(s.compareModels, modelID)
}

// RemoveCompareModel removes a model from the comparison set. The set
// never goes below one member; removing the last model returns
// ErrLastModel and leaves the set unchanged.
func (s *Session) RemoveCompareModel(modelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.compareModels) <= 1 {
		return ErrLastModel
	}
	for i, id := range s.compareModels {
		if id == modelID {
			s.compareModels = append(s.compareModels[:i], s.compareModels[i+1:]...)
			return nil
		}
	}
	return nil
}

// SetCompareModels replaces the comparison set. An empty selection is
// rejected with ErrEmptySelection.
func (s *Session) SetCompareModels(modelIDs []string) error {
	if len(modelIDs) == 0 {
		return ErrEmptySelection
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compareModels = make([]string, len(modelIDs))
	copy(s.compareModels, modelIDs)
	return nil
}
