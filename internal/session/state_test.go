// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"testing"
)

func TestLifecycle(t *testing.T) {
	s := New("a/one")

	if s.Phase() != PhaseIdle {
		t.Fatalf("initial phase = %q, want idle", s.Phase())
	}

	if err := s.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if !s.Loading() {
		t.Error("Loading = false while awaiting")
	}

	// Second submission while in flight is rejected.
	if err := s.Begin(); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent Begin = %v, want ErrBusy", err)
	}

	s.Finish("")
	if s.Loading() {
		t.Error("Loading = true after Finish")
	}
	if s.LastError() != "" {
		t.Errorf("LastError = %q after success", s.LastError())
	}

	if err := s.Begin(); err != nil {
		t.Fatalf("Begin after Finish failed: %v", err)
	}
	s.Finish("Rate limit exceeded")
	if s.LastError() != "Rate limit exceeded" {
		t.Errorf("LastError = %q", s.LastError())
	}

	// The next successful cycle clears the stale error.
	s.Begin()
	if s.LastError() != "" {
		t.Errorf("LastError = %q at start of new cycle", s.LastError())
	}
}

func TestAppendAndClear(t *testing.T) {
	s := New("a/one")
	s.AppendTurn(NewUserTurn("hello"))
	s.AppendTurn(NewAssistantTurn("hi", "a/one"))

	if s.TurnCount() != 2 {
		t.Fatalf("TurnCount = %d, want 2", s.TurnCount())
	}

	turns := s.Turns()
	if turns[0].Role != RoleUser || turns[1].Role != RoleAssistant {
		t.Error("turn roles out of order")
	}
	if turns[1].ModelID != "a/one" {
		t.Errorf("assistant turn ModelID = %q", turns[1].ModelID)
	}
	if turns[0].ID == "" || turns[0].ID == turns[1].ID {
		t.Error("turn ids missing or not unique")
	}

	s.SelectModel("b/two")
	s.Finish("stale error")
	s.Clear()

	if s.TurnCount() != 0 {
		t.Errorf("TurnCount = %d after Clear", s.TurnCount())
	}
	if s.LastError() != "" {
		t.Error("Clear kept the stale error")
	}
	if s.SelectedModel() != "b/two" {
		t.Error("Clear reset the model selection")
	}

	// Clearing an already empty session changes nothing.
	s.Clear()
	if s.TurnCount() != 0 || s.SelectedModel() != "b/two" {
		t.Error("repeated Clear is not idempotent")
	}
}

func TestComparisonSetFloor(t *testing.T) {
	s := New("a/one")

	if got := s.CompareModels(); len(got) != 1 || got[0] != "a/one" {
		t.Fatalf("initial comparison set = %v", got)
	}

	// Removing the only member is rejected and the set survives.
	if err := s.RemoveCompareModel("a/one"); !errors.Is(err, ErrLastModel) {
		t.Errorf("RemoveCompareModel = %v, want ErrLastModel", err)
	}
	if got := s.CompareModels(); len(got) != 1 {
		t.Fatalf("comparison set emptied: %v", got)
	}

	s.AddCompareModel("b/two")
	s.AddCompareModel("b/two") // duplicate is a no-op
	if got := s.CompareModels(); len(got) != 2 {
		t.Fatalf("comparison set = %v, want 2 members", got)
	}

	if err := s.RemoveCompareModel("a/one"); err != nil {
		t.Fatalf("RemoveCompareModel failed: %v", err)
	}
	if got := s.CompareModels(); len(got) != 1 || got[0] != "b/two" {
		t.Errorf("comparison set = %v, want [b/two]", got)
	}
}

func TestSetCompareModels(t *testing.T) {
	s := New("a/one")

	if err := s.SetCompareModels(nil); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("SetCompareModels(nil) = %v, want ErrEmptySelection", err)
	}

	if err := s.SetCompareModels([]string{"x/1", "y/2", "z/3"}); err != nil {
		t.Fatalf("SetCompareModels failed: %v", err)
	}
	if got := s.CompareModels(); len(got) != 3 {
		t.Errorf("comparison set = %v", got)
	}
}
